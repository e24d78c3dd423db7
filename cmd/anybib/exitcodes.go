package main

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing token, invalid paths)
	ExitNotFound    = 3 // Identifier unknown to every registry
	ExitStoreError  = 4 // Knowledge store unreachable or rejected the request
)
