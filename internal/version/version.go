// ABOUTME: Version constants for the spindle player
// ABOUTME: Reported at startup and in the TUI header
package version

const (
	// Product is the user-facing program name.
	Product = "Spindle Player"

	// Version is the release version.
	Version = "0.1.0"
)
