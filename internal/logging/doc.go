// Package logging configures structured slog output for faqmatch.
// Logs are JSON lines written to a size-rotated file under ~/.faqmatch/logs/
// and, outside of MCP mode, mirrored to stderr.
package logging
