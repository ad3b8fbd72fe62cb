package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/replicate/wheelforge/pkg/config"
	"github.com/replicate/wheelforge/pkg/platform"
	"github.com/replicate/wheelforge/pkg/wheels"
)

// BuildContext carries everything a stage needs. It is passed and returned by value; the
// With* methods return modified copies and never touch the receiver or the process
// environment.
type BuildContext struct {
	RunID       string
	ProjectDir  string
	Config      config.BuildConfiguration
	Profile     platform.Profile
	Project     config.Project
	Environment config.Environment
	Interpreter string

	// Version is the PEP 440 form of the version pin. The build and the validator both use it.
	Version string
	// CUDARuntime is the runtime version the validator checks against. Empty on single-variant
	// platforms and for CPU builds.
	CUDARuntime string

	// Descriptor is the variant descriptor that was activated.
	Descriptor string
	// LibraryPath entries are prepended to Profile.LibPathVar for subprocesses that need them.
	LibraryPath []string
	// Assets are the discovered plugin library identifiers, in discovery order.
	Assets []string

	CUDACompiler     string
	CUDAHostCompiler string

	// Artifact is the current wheel. Its Path is empty until the build stage runs.
	Artifact wheels.Artifact
}

// Path resolves rel against the project directory.
func (bc BuildContext) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(bc.ProjectDir, rel)
}

// StagingDir is the build tool's scratch directory, cleared before each build.
func (bc BuildContext) StagingDir() string {
	return bc.Path(bc.Project.StagingDir)
}

// WheelhouseDir is where the build tool drops the unrepaired wheel.
func (bc BuildContext) WheelhouseDir() string {
	return filepath.Join(bc.StagingDir(), "wheelhouse")
}

func (bc BuildContext) WithDescriptor(path string) BuildContext {
	bc.Descriptor = path
	return bc
}

// WithLibraryPath prepends dir to the library search path.
func (bc BuildContext) WithLibraryPath(dir string) BuildContext {
	bc.LibraryPath = append([]string{dir}, bc.LibraryPath...)
	return bc
}

func (bc BuildContext) WithAssets(assets []string) BuildContext {
	bc.Assets = append([]string(nil), assets...)
	return bc
}

func (bc BuildContext) WithCompilers(cuda string, host string) BuildContext {
	bc.CUDACompiler = cuda
	bc.CUDAHostCompiler = host
	return bc
}

func (bc BuildContext) WithArtifact(a wheels.Artifact) BuildContext {
	bc.Artifact = a
	return bc
}

// Env serialises the context into a subprocess environment: the ambient environment,
// then extra KEY=VALUE pairs, which replace earlier values of the same key.
func (bc BuildContext) Env(extra ...string) []string {
	return mergeEnv(bc.Environment.Ambient, extra)
}

// EnvWithLibraryPath is Env plus the library search path with LibraryPath prepended.
func (bc BuildContext) EnvWithLibraryPath(extra ...string) []string {
	if len(bc.LibraryPath) == 0 {
		return bc.Env(extra...)
	}
	entries := append([]string{}, bc.LibraryPath...)
	if current, ok := bc.Environment.Lookup(bc.Profile.LibPathVar); ok && current != "" {
		entries = append(entries, current)
	}
	pair := bc.Profile.LibPathVar + "=" + strings.Join(entries, string(filepath.ListSeparator))
	return mergeEnv(bc.Environment.Ambient, append([]string{pair}, extra...))
}

func mergeEnv(base []string, extra []string) []string {
	overridden := map[string]bool{}
	for _, kv := range extra {
		k, _, _ := strings.Cut(kv, "=")
		overridden[k] = true
	}
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if !overridden[k] {
			out = append(out, kv)
		}
	}
	return append(out, extra...)
}
