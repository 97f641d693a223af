// Package logging provides structured logging for controku.
//
// This package wraps a global zap logger with convenience functions. The
// logger is silent until Initialize is given a level, either directly (the
// --log-level flag) or through the CONTROKU_LOG_LEVEL environment variable,
// so library calls never write to the terminal of a CLI user by default.
//
// # Log Levels
//
//   - Debug: every ECP request and response, raw bodies that failed to parse
//   - Info: discovery progress
//   - Warn: discovered devices dropped because their info query failed
//   - Error: unexpected failures
//
// # Structured Logging
//
//	logging.Warn("Dropping unreachable device",
//	    zap.String("address", "192.168.1.20"),
//	    zap.Error(err),
//	)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Output goes to stderr in zap's console format so that it never mixes with
// JSON written to stdout by --format json.
package logging
