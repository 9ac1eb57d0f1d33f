// Package server wires and runs the session store's HTTP transport.
//
// It provides orchestration for the server lifecycle, including
// startup, signal handling, and graceful shutdown.
package server
