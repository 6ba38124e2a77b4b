// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observability builds the zerolog logger and the Prometheus
// metrics shared by the E-utilities client, the CLI and the HTTP server.
package observability
