// Package logging builds the slog loggers used by the modalform command.
//
// Text output goes through Handler, which colorizes levels and keys when the
// writer is a terminal (honouring NO_COLOR and TERM=dumb). JSON output uses
// the standard slog JSON handler. Library packages never import this package;
// they accept a *slog.Logger through options.
package logging
