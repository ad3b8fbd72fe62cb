// Package validate runs the project's wheel validator against the repaired output.
package validate

import (
	"context"

	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/util/console"
)

// Args builds the validator command line. The CUDA runtime version is only present on
// multi-variant platforms, where it was resolved before the pipeline started.
func Args(bc pipeline.BuildContext) []string {
	args := []string{
		bc.Path(bc.Project.Validator),
		"--version", bc.Version,
		"--wheel-dir", bc.Config.OutputDir,
	}
	if bc.Profile.MultiVariant() && bc.CUDARuntime != "" {
		args = append(args, "--cuda-version", bc.CUDARuntime)
	}
	if bc.Config.QuickTest {
		args = append(args, "--quick")
	}
	return args
}

type Stage struct {
	Runner  command.Runner
	Console *console.Console
}

func (s *Stage) Name() string {
	return "validate"
}

func (s *Stage) Run(ctx context.Context, bc pipeline.BuildContext) (pipeline.BuildContext, error) {
	if bc.Config.QuickTest {
		s.Console.Infof("Running quick validation of %s", bc.Artifact.Filename())
	} else {
		s.Console.Infof("Validating %s", bc.Artifact.Filename())
	}

	_, err := s.Runner.Run(ctx, command.Command{
		Name:      bc.Interpreter,
		Args:      Args(bc),
		Dir:       bc.ProjectDir,
		Env:       bc.EnvWithLibraryPath(),
		Quiet:     !bc.Config.Verbose,
		TailLines: bc.Project.TailLines,
	})
	if err != nil {
		return bc, errors.Validation("wheel validation failed", err)
	}
	return bc, nil
}
