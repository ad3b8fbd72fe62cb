// Package repair bundles a wheel's native dependencies with the platform's repair tool.
package repair

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/replicate/wheelforge/pkg/accelerator"
	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/platform"
	"github.com/replicate/wheelforge/pkg/util/console"
	"github.com/replicate/wheelforge/pkg/util/files"
	"github.com/replicate/wheelforge/pkg/wheels"
)

// Repairer produces a self-contained copy of artifact in the output directory. Libraries in
// exclusions are left for the host to provide.
type Repairer interface {
	Repair(ctx context.Context, bc pipeline.BuildContext, artifact wheels.Artifact, exclusions []accelerator.ExclusionEntry) (wheels.Artifact, error)
}

// ForProfile picks the repairer for the platform. The choice is made once, here.
func ForProfile(profile platform.Profile, r command.Runner, c *console.Console) Repairer {
	if profile.IsDarwin() {
		return &MacRepairer{Runner: r, Console: c}
	}
	return &LinuxRepairer{Runner: r, Console: c}
}

// Stage repairs the built wheel and replaces the context's artifact with the repaired one.
type Stage struct {
	Repairer Repairer
	Console  *console.Console
}

func (s *Stage) Name() string {
	return "repair"
}

func (s *Stage) Run(ctx context.Context, bc pipeline.BuildContext) (pipeline.BuildContext, error) {
	if bc.Artifact.Path == "" {
		return bc, errors.Repair("nothing to repair", fmt.Errorf("no wheel has been built"))
	}
	exclusions := accelerator.Exclusions(bc.Config.Variant.Major())
	if len(exclusions) > 0 {
		s.Console.Debugf("Leaving host libraries unbundled: %s", strings.Join(accelerator.Names(exclusions), ", "))
	}
	repaired, err := s.Repairer.Repair(ctx, bc, bc.Artifact, exclusions)
	if err != nil {
		return bc, err
	}
	s.Console.Infof("Repaired wheel %s", repaired.Filename())
	return bc.WithArtifact(repaired), nil
}

// tool is a repair executable and the Python package that provides it.
type tool struct {
	exe string
	// module runs the tool with `python -m` when pip put its scripts somewhere off PATH.
	module   string
	packages []string
}

// ensure returns the argv prefix that runs t, installing its packages with pip when the
// executable is not on PATH.
func (t tool) ensure(ctx context.Context, bc pipeline.BuildContext, r command.Runner, c *console.Console) ([]string, error) {
	if path, err := r.LookPath(t.exe); err == nil {
		return []string{path}, nil
	}
	pkgs := strings.Join(t.packages, " ")
	c.Infof("%s not found, installing %s", t.exe, pkgs)
	_, err := r.Run(ctx, command.Command{
		Name:      bc.Interpreter,
		Args:      append([]string{"-m", "pip", "install"}, t.packages...),
		Dir:       bc.ProjectDir,
		Env:       bc.Env(),
		Quiet:     !bc.Config.Verbose,
		TailLines: bc.Project.TailLines,
	})
	if err != nil {
		return nil, errors.Repair(fmt.Sprintf("failed to install %s", pkgs), err)
	}
	if path, err := r.LookPath(t.exe); err == nil {
		return []string{path}, nil
	}

	c.Debugf("%s is not on PATH after installing %s, trying %s -m %s", t.exe, pkgs, bc.Interpreter, t.module)
	_, err = r.Run(ctx, command.Command{
		Name:  bc.Interpreter,
		Args:  []string{"-c", "import " + t.module},
		Dir:   bc.ProjectDir,
		Env:   bc.Env(),
		Quiet: true,
	})
	if err != nil {
		return nil, errors.Repair(fmt.Sprintf("%s is still unavailable after installing %s", t.exe, pkgs), err)
	}
	return []string{bc.Interpreter, "-m", t.module}, nil
}

func run(ctx context.Context, r command.Runner, bc pipeline.BuildContext, argv []string, args []string) error {
	_, err := r.Run(ctx, command.Command{
		Name:      argv[0],
		Args:      append(append([]string{}, argv[1:]...), args...),
		Dir:       bc.ProjectDir,
		Env:       bc.EnvWithLibraryPath(),
		Quiet:     !bc.Config.Verbose,
		TailLines: bc.Project.TailLines,
	})
	return err
}

// publish moves the first wheel in tmp matching pattern into the output directory. If the tool
// produced nothing, the original wheel is copied there instead.
func publish(c *console.Console, tmp string, pattern string, original wheels.Artifact, outputDir string) (wheels.Artifact, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return wheels.Artifact{}, errors.Repair("failed to create output directory", err)
	}

	produced, ok, err := wheels.First(tmp, pattern)
	if err != nil {
		return wheels.Artifact{}, errors.Repair("failed to read repaired wheel", err)
	}
	if !ok {
		c.Warnf("Repair produced no wheel, keeping %s as built", original.Filename())
		dest := filepath.Join(outputDir, original.Filename())
		if err := files.CopyFile(original.Path, dest); err != nil {
			return wheels.Artifact{}, errors.Repair("failed to copy wheel", err)
		}
		return wheels.ParseFilename(dest)
	}

	dest := filepath.Join(outputDir, produced.Filename())
	if err := files.MoveFile(produced.Path, dest); err != nil {
		return wheels.Artifact{}, errors.Repair("failed to move repaired wheel", err)
	}
	produced.Path = dest
	return produced, nil
}
