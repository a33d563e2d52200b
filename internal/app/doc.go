// Package app wires the read-only report server: configuration, logging,
// telemetry, services, the chi router and the HTTP server lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from environment and files
//	2. Initialize logging and OpenTelemetry
//	3. Resolve artifact paths and create the health and report services
//	4. Build the router: RequestID → RealIP → OTel → Logger → Recoverer → RateLimit
//	5. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// Run stops on SIGINT, SIGTERM or cancellation of ctx, drains in-flight
// requests within ServerConfig.ShutdownTimeout and flushes telemetry. The
// server never writes artifacts; it reads whatever the last ingestion run
// produced.
package app
