// Package logger wraps zap for the release tooling:
//   - a global sugared logger writing console entries to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing for the --log-level flag,
//   - leveled helpers (Infof, InfoKV, ErrorKV, ...) that read the logger from a context.
//
// Pipeline stages receive a context and log through it, so the stage name and
// target travel with every entry.
package logger
