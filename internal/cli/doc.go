// Package cli is responsible for parsing command-line arguments, reading
// environment defaults, validating user input, and handling process-level
// concerns like exit codes. It translates flags into the application's
// internal configuration.
package cli
