// Package wheels locates built wheels and reads what their filenames encode.
package wheels

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/replicate/wheelforge/pkg/util/files"
)

// Pattern matches any wheel file.
const Pattern = "*.whl"

var semverPreReleaseRe = regexp.MustCompile(`-alpha(\d+)|-beta(\d+)|-rc(\d+)|-dev(\d*)`)

// Artifact is a wheel file on disk.
type Artifact struct {
	Path    string
	Name    string
	Version string
	// Tags is the python-abi-platform triple, e.g. cp312-cp312-manylinux_2_28_x86_64.
	Tags Tags
}

type Tags struct {
	Python   string
	ABI      string
	Platform string
}

func (t Tags) String() string {
	return t.Python + "-" + t.ABI + "-" + t.Platform
}

// Filename returns the base name of the wheel.
func (a Artifact) Filename() string {
	return filepath.Base(a.Path)
}

// Dir is the directory holding the wheel.
func (a Artifact) Dir() string {
	return filepath.Dir(a.Path)
}

// ParseFilename parses {name}-{version}(-{build})?-{python}-{abi}-{platform}.whl.
func ParseFilename(path string) (Artifact, error) {
	base := filepath.Base(path)
	stem, ok := strings.CutSuffix(base, ".whl")
	if !ok {
		return Artifact{}, fmt.Errorf("%s is not a wheel", base)
	}
	parts := strings.Split(stem, "-")
	if len(parts) != 5 && len(parts) != 6 {
		return Artifact{}, fmt.Errorf("%s is not a valid wheel filename", base)
	}
	n := len(parts)
	return Artifact{
		Path:    path,
		Name:    parts[0],
		Version: parts[1],
		Tags:    Tags{Python: parts[n-3], ABI: parts[n-2], Platform: parts[n-1]},
	}, nil
}

// First returns the lexicographically first wheel in dir matching pattern. ok is false when
// there is none.
func First(dir string, pattern string) (artifact Artifact, ok bool, err error) {
	path, err := files.FirstMatch(dir, pattern)
	if err != nil || path == "" {
		return Artifact{}, false, err
	}
	artifact, err = ParseFilename(path)
	if err != nil {
		return Artifact{}, false, err
	}
	return artifact, true, nil
}

// SemverToPEP440 converts a semver pre-release version to PEP 440 format.
// e.g. "0.17.0-alpha1" -> "0.17.0a1", "0.17.0-beta2" -> "0.17.0b2",
// "0.17.0-rc1" -> "0.17.0rc1", "0.17.0-dev1" -> "0.17.0.dev1"
// Stable versions pass through unchanged: "0.17.0" -> "0.17.0"
func SemverToPEP440(version string) string {
	return semverPreReleaseRe.ReplaceAllStringFunc(version, func(match string) string {
		match = strings.TrimPrefix(match, "-")
		match = strings.Replace(match, "alpha", "a", 1)
		match = strings.Replace(match, "beta", "b", 1)
		// rc stays as rc in PEP 440
		// dev -> .dev (PEP 440 uses dot separator)
		if strings.HasPrefix(match, "dev") {
			return "." + match
		}
		return match
	})
}
