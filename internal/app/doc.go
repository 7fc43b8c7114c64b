// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: listing
// the catalog, grading programs and serving the HTTP API. It is decoupled
// from any specific entrypoint like a CLI.
package app
