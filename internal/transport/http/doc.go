// Package http implements the HTTP handlers of the read-only report server.
// Handlers stay thin: they decode and validate query parameters, call the
// report or health service, and render JSON through chi/render. Errors are
// handed to apierrors.ErrorHandler, which answers with RFC 7807 problem
// details.
//
// # Routes
//
//	GET /api/health                    liveness and panel status
//	GET /api/health/ready              503 until a panel exists
//	GET /api/version                   build information
//	GET /api/v1/panel/sample           reproducible panel sample
//	GET /api/v1/cohorts/education      ?variable=Red+meat
//	GET /api/v1/generations            ?region=Norway&variable=Red+meat&variable=Vegetables
//	GET /api/v1/generations/trend      same parameters, plot-ready series
//
// Blank parameters fall back to the analysis defaults from configuration.
// A missing panel answers 404 with a hint to run ingestion first.
package http
