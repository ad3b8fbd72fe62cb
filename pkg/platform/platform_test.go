package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	mac := Detect("darwin", "arm64")
	require.Equal(t, Profile{OS: Darwin, Arch: "arm64", LibExt: ".dylib", LibPathVar: "DYLD_LIBRARY_PATH"}, mac)
	require.False(t, mac.MultiVariant())
	require.True(t, mac.IsDarwin())

	linux := Detect("linux", "amd64")
	require.Equal(t, Profile{OS: Linux, Arch: "amd64", LibExt: ".so", LibPathVar: "LD_LIBRARY_PATH"}, linux)
	require.True(t, linux.MultiVariant())
}

func TestDefaultPlatformTag(t *testing.T) {
	require.Equal(t, "manylinux_2_28_x86_64", Detect("linux", "amd64").DefaultPlatformTag())
	require.Equal(t, "manylinux_2_28_aarch64", Detect("linux", "arm64").DefaultPlatformTag())
	require.Equal(t, "arm64", Detect("darwin", "arm64").MachineName())
}
