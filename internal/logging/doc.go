// Package logging builds the slog loggers used across phrasecut.
//
// Loggers are constructed from config with console or JSON output and can
// fan out to stdout plus a log file under the configured log directory.
// Attr helpers keep field names consistent between components so pipeline
// runs stay greppable by item, stage, and run ID.
package logging
