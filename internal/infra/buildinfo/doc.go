// Package buildinfo exposes the version information reported by
// `rostertrace-server --version`, `GET /version` and the CLI.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/rostertrace/internal/infra/buildinfo.Version=v1.0.0"
//
// When ldflags are absent the module's embedded build info fills in the
// commit and Go version.
package buildinfo
