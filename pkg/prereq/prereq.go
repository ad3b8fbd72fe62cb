// Package prereq runs the project's prerequisite installer before a build.
package prereq

import (
	"context"

	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/util/console"
)

// Stage runs `bash <script> [--toolchain <name>]`. It is only added to the pipeline when
// prerequisites were requested.
type Stage struct {
	Runner  command.Runner
	Console *console.Console
}

func (s *Stage) Name() string {
	return "prerequisites"
}

func (s *Stage) Run(ctx context.Context, bc pipeline.BuildContext) (pipeline.BuildContext, error) {
	args := []string{bc.Path(bc.Project.Prerequisites)}
	if bc.Config.Toolchain != "" {
		args = append(args, "--toolchain", bc.Config.Toolchain)
		s.Console.Infof("Installing prerequisites with the %s toolchain", bc.Config.Toolchain)
	} else {
		s.Console.Info("Installing prerequisites")
	}

	_, err := s.Runner.Run(ctx, command.Command{
		Name:      "bash",
		Args:      args,
		Dir:       bc.ProjectDir,
		Env:       bc.Env(),
		Quiet:     !bc.Config.Verbose,
		TailLines: bc.Project.TailLines,
	})
	if err != nil {
		return bc, errors.Prerequisite("prerequisite installation failed", err)
	}
	return bc, nil
}
