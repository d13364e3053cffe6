// Package logging configures the process-wide slog logger for the triesearch
// CLI.
//
// Without --debug, warnings and errors go to stderr as text. With --debug or a
// configured log file, JSON logs are written to a size-rotated file
// (~/.triesearch/logs/triesearch.log by default) at debug level.
package logging
