// Package kestrel holds version information shared by the CLI and the shell
// layer.
package kestrel

// Version is the kestrel release version, overridable at build time with
// -ldflags "-X github.com/kestrelhq/kestrel.Version=...".
var Version = "0.1.0"
