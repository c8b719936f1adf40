package main

// Default limits for CLI commands.
const (
	DefaultListLimit    = 50
	DefaultQueryLimit   = 50
	DefaultHistoryLimit = 20
)
