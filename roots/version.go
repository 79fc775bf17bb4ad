package roots

// Version information for the root registry.
const (
	// Version is the current version of the registry runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the registry.
type Info struct {
	// Version is the registry version string.
	Version string

	// Scheme names the registration scheme in use.
	Scheme string

	// Initialized reports whether the package-default registry is up.
	Initialized bool
}

// GetInfo returns information about the registry runtime.
func GetInfo() Info {
	return Info{
		Version:     Version,
		Scheme:      "generational root sets with deferred deletion",
		Initialized: def.Load() != nil,
	}
}
