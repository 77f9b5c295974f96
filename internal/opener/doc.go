// Package opener hands launch requests to the operating system.
//
// The reference server uses it to serve /open, and the CLI uses it directly
// when the remote service is unreachable. URLs go to the default browser;
// local paths go to the default application for that file.
package opener
