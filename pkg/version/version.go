package version

// Version represents the current version of cari
const Version = "0.3.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "cari version " + Version
}

// APIVersion returns just the version number for API responses
func APIVersion() string {
	return Version
}
