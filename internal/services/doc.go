// Package services implements the read side of the panel tools: health
// reporting and the aggregates served over HTTP and written by the
// aggregation commands. Services take their dependencies through their
// constructors and accept a context on every call.
package services
