// Package handler provides the HTTP request handlers for RosterTrace.
//
// Every JSON response uses the envelope {code, message, request_id,
// timestamp, data}. Errors carry the domain error code in the body and in
// the X-Error-Code header.
package handler
