// Package logging builds the slog loggers used by the rir-speech CLI.
//
// Console output uses slog's text handler, json output the JSON handler.
// Library packages accept a *slog.Logger and fall back to NewNop.
package logging
