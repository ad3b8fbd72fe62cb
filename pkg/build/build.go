// Package build runs the Python build frontend and finds the wheel it produced.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/util/console"
	"github.com/replicate/wheelforge/pkg/util/files"
	"github.com/replicate/wheelforge/pkg/wheels"
)

// VersionPinVar is read by setuptools-scm based builds instead of asking git.
const VersionPinVar = "SETUPTOOLS_SCM_PRETEND_VERSION"

// Compilers resolves the CUDA compiler and its host compiler. An explicit override wins;
// otherwise nvcc is probed under the CUDA installation root, and the host compiler falls
// back to CXX. Either may come back empty.
func Compilers(bc pipeline.BuildContext) (cuda string, host string) {
	env := bc.Environment
	cuda = env.CUDACompiler
	if cuda == "" {
		probe := filepath.Join(env.CUDAHome, "bin", "nvcc")
		if files.IsExecutable(probe) {
			cuda = probe
		}
	}
	host = env.CUDAHostCXX
	if host == "" {
		host = env.CXX
	}
	return cuda, host
}

// Clean removes the staging directory and any wheels left in the output directory.
func Clean(bc pipeline.BuildContext) error {
	if err := bc.Project.CheckStagingDir(bc.ProjectDir); err != nil {
		return err
	}
	if err := os.RemoveAll(bc.StagingDir()); err != nil {
		return err
	}
	return files.RemoveMatches(bc.Config.OutputDir, wheels.Pattern)
}

type Stage struct {
	Runner  command.Runner
	Console *console.Console
}

func (s *Stage) Name() string {
	return "build"
}

func (s *Stage) Run(ctx context.Context, bc pipeline.BuildContext) (pipeline.BuildContext, error) {
	extra := []string{VersionPinVar + "=" + bc.Version}

	if bc.Config.Variant.IsCUDA() {
		cuda, host := Compilers(bc)
		if cuda == "" {
			s.Console.Warnf("No CUDA compiler found (set %s or install CUDA under %s); continuing without it", "CUDACXX", bc.Environment.CUDAHome)
		} else {
			s.Console.Infof("Using CUDA compiler %s", cuda)
			extra = append(extra, "CUDACXX="+cuda, "CMAKE_CUDA_COMPILER="+cuda)
		}
		if host != "" {
			s.Console.Debugf("Using CUDA host compiler %s", host)
			extra = append(extra, "CUDAHOSTCXX="+host, "CMAKE_CUDA_HOST_COMPILER="+host)
		}
		bc = bc.WithCompilers(cuda, host)
	}

	if err := Clean(bc); err != nil {
		return bc, err
	}
	for _, dir := range []string{bc.WheelhouseDir(), bc.Config.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return bc, err
		}
	}

	_, err := s.Runner.Run(ctx, command.Command{
		Name:      bc.Interpreter,
		Args:      []string{"-m", "build", "--wheel", "--outdir", bc.WheelhouseDir(), "."},
		Dir:       bc.ProjectDir,
		Env:       bc.EnvWithLibraryPath(extra...),
		Quiet:     !bc.Config.Verbose,
		TailLines: bc.Project.TailLines,
	})
	if err != nil {
		return bc, errors.BuildFailed("wheel build failed", err)
	}

	artifact, ok, err := wheels.First(bc.WheelhouseDir(), wheels.Pattern)
	if err != nil {
		return bc, fmt.Errorf("failed to read built wheel: %w", err)
	}
	if !ok {
		return bc, errors.BuildOutputMissing(bc.WheelhouseDir())
	}
	s.Console.Infof("Built %s", artifact.Filename())
	return bc.WithArtifact(artifact), nil
}
