// Package logging builds the slog.Logger used by both binaries.
//
// The "text" format writes one colorized line per record (time, level,
// message, then key=value attributes) through fatih/color, which turns
// colors off by itself when the output is not a terminal. The "json"
// format uses slog's JSON handler unchanged.
package logging
