// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// product identifies this service to upstream APIs.
const product = "isstracker"

// UserAgent is sent on outbound requests to the ephemeris feed and the
// geocoder; Nominatim's usage policy rejects anonymous clients.
func UserAgent() string {
	return product + "/" + Version
}

// String renders the full build identity for logs.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", product, Version, Commit, Date)
}
