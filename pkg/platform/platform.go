// Package platform maps the host operating system to the handful of facts the
// build pipeline branches on.
package platform

const (
	Darwin = "darwin"
	Linux  = "linux"
)

// Profile is derived once at startup and never changes.
type Profile struct {
	OS string
	// Arch is the GOARCH of the host.
	Arch string
	// LibExt is the shared library file extension, with the leading dot.
	LibExt string
	// LibPathVar names the environment variable the dynamic loader searches.
	LibPathVar string
}

// Detect returns the profile for goos/goarch. Anything that isn't darwin is treated as linux.
func Detect(goos string, goarch string) Profile {
	if goos == Darwin {
		return Profile{OS: Darwin, Arch: goarch, LibExt: ".dylib", LibPathVar: "DYLD_LIBRARY_PATH"}
	}
	return Profile{OS: Linux, Arch: goarch, LibExt: ".so", LibPathVar: "LD_LIBRARY_PATH"}
}

// MultiVariant reports whether more than one accelerator variant can be built here.
func (p Profile) MultiVariant() bool {
	return p.OS == Linux
}

func (p Profile) IsDarwin() bool {
	return p.OS == Darwin
}

// MachineName maps GOARCH to the machine name used in wheel platform tags.
func (p Profile) MachineName() string {
	switch p.Arch {
	case "amd64":
		return "x86_64"
	case "arm64":
		if p.IsDarwin() {
			return "arm64"
		}
		return "aarch64"
	default:
		return p.Arch
	}
}

// DefaultPlatformTag is the manylinux tag repaired Linux wheels are labelled with.
func (p Profile) DefaultPlatformTag() string {
	return "manylinux_2_28_" + p.MachineName()
}
