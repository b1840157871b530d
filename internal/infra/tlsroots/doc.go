// Package tlsroots builds the trust store used for outbound TLS.
//
// The pool starts from the system roots and can be extended with PEM
// bundles, so the upstream client can reach APIs behind a private CA or an
// intercepting proxy.
package tlsroots
