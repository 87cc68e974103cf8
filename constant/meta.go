// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Simplay is the canonical application identifier used for filesystem paths and CLI branding.
	Simplay = "simplay"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is sent with every request to the simulation API.
	UserAgent = Simplay + "/" + Version
)

// Build metadata, overridden at link time.
var (
	BuiltAt  = ""
	BuiltBy  = ""
	Revision = ""
)
