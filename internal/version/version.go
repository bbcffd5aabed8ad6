// ABOUTME: Build identity constants
// ABOUTME: Reported by the tools and the TUI footer
package version

// Version is the tinysync release version.
const Version = "0.2.0"

// Product is the user-facing product name.
const Product = "TinySync Clock"

// Manufacturer identifies the project.
const Manufacturer = "TinySync"
