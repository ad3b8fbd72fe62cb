package repair

import (
	"context"
	"os"

	"github.com/replicate/wheelforge/pkg/accelerator"
	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/util/console"
	"github.com/replicate/wheelforge/pkg/wheels"
)

var delocate = tool{exe: "delocate-wheel", module: "delocate.cmd.delocate_wheel", packages: []string{"delocate"}}

// MacRepairer uses delocate. Exclusions do not apply on macOS.
type MacRepairer struct {
	Runner  command.Runner
	Console *console.Console
}

func (m *MacRepairer) Repair(ctx context.Context, bc pipeline.BuildContext, artifact wheels.Artifact, _ []accelerator.ExclusionEntry) (wheels.Artifact, error) {
	argv, err := delocate.ensure(ctx, bc, m.Runner, m.Console)
	if err != nil {
		return wheels.Artifact{}, err
	}

	tmp, err := os.MkdirTemp("", "wheelforge-delocate-")
	if err != nil {
		return wheels.Artifact{}, errors.Repair("failed to create repair directory", err)
	}
	defer os.RemoveAll(tmp)

	err = run(ctx, m.Runner, bc, argv, []string{"-w", tmp, "-v", artifact.Path})
	if err != nil {
		return wheels.Artifact{}, errors.Repair("delocate-wheel failed", err)
	}
	return publish(m.Console, tmp, wheels.Pattern, artifact, bc.Config.OutputDir)
}
