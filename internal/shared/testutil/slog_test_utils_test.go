package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("bound attributes reach records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "pipeline")).Warn("file skipped", slog.String("file", "gdd_NOR.csv"))

		records := handler.GetRecords()
		require.Len(t, records, 1)
		assert.Equal(t, "pipeline", records[0].Attrs["component"])
		assert.Equal(t, "gdd_NOR.csv", records[0].Attrs["file"])
	})

	t.Run("clear functionality", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		assert.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Equal(t, 0, handler.Count())
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("important message", slog.String("component", "test"))
		logger.Warn("warning message", slog.Int("retry", 3))

		AssertLogContains(t, handler, slog.LevelInfo, "important")
		AssertLogAttr(t, handler, "component", "test")
		AssertNoErrors(t, handler)
	})
}
