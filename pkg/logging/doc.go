// Package logging configures log/slog for cbundle.
//
// Records go to stderr as logfmt-style text by default, or as one JSON
// object per line with --log-format json. Every record carries the module
// and version attributes; debug level adds source locations.
//
//	logging.SetDefaultLogger(os.Stderr, logging.FormatJSON, "cbundle", version, "info")
//	slog.Info("bundle archived", "path", archivePath, "size_bytes", size)
//
// Level names are case-insensitive: debug, info, warn (or warning) and
// error. Unknown names mean info. LOG_LEVEL, when set, overrides the level
// given by the caller:
//
//	LOG_LEVEL=debug cbundle build
package logging
