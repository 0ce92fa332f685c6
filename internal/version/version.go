// Package version holds build metadata injected with -ldflags.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/bnema/okc-cli/internal/version.Version=v0.1.0" ./cmd/okc
var Version = "dev"
