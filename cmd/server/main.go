// Command server runs the read-only report API over the ingested panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gddpanel/internal/app"
	"gddpanel/pkg/contracts"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString("server"))
		return
	}

	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
