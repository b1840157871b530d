// Package connection provides the HTTP client rostertrace-cli uses to talk
// to a rostertrace-server.
//
// Responses are unwrapped from the server's {code, message, data} envelope.
// Error envelopes become *APIError values carrying the RT- error code.
package connection
