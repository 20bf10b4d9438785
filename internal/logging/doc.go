// SPDX-License-Identifier: EPL-2.0

// Package logging builds the slog loggers used across speechprep.
//
// Loggers write JSON with ts, level and msg keys, or slog's text format
// when attached to a terminal. Components derive child loggers with
// NewComponentLogger; requests are correlated with ContextWithRequestID.
package logging
