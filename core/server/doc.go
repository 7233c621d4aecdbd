// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this
// package defines the configuration structures and valid values for server
// settings, such as the default combination mode used for previews.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, the default combination
// mode (random, cartesian), and the default innovation count (how many
// combinations a random-mode preview produces when the caller does not say).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by feature handlers to validate mode parameters.
package server
