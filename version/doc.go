// Package version provides build version information for reqkit.
//
// Version and git commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/reqkit/version.Version=0.3.0"
//
// The version also names the client in the default User-Agent header.
package version
