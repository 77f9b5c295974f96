// Package dedupe suppresses repeated launch requests. The reference server
// keys each /open request and hands it to the opener only if the same key
// was not launched within the configured window, so a double tap on a
// shortcut opens one window instead of two.
package dedupe
