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

var auditwheel = tool{exe: "auditwheel", module: "auditwheel", packages: []string{"auditwheel", "patchelf"}}

// LinuxRepairer uses auditwheel, which needs patchelf to rewrite RPATHs.
type LinuxRepairer struct {
	Runner  command.Runner
	Console *console.Console
}

// Args builds the auditwheel command line.
func Args(tag string, exclusions []accelerator.ExclusionEntry, outDir string, wheel string) []string {
	args := []string{"repair", "--plat", tag}
	for _, e := range exclusions {
		args = append(args, "--exclude", e.Name())
	}
	return append(args, "-w", outDir, wheel)
}

func (l *LinuxRepairer) Repair(ctx context.Context, bc pipeline.BuildContext, artifact wheels.Artifact, exclusions []accelerator.ExclusionEntry) (wheels.Artifact, error) {
	argv, err := auditwheel.ensure(ctx, bc, l.Runner, l.Console)
	if err != nil {
		return wheels.Artifact{}, err
	}

	tmp, err := os.MkdirTemp("", "wheelforge-auditwheel-")
	if err != nil {
		return wheels.Artifact{}, errors.Repair("failed to create repair directory", err)
	}
	defer os.RemoveAll(tmp)

	tag := bc.Project.PlatformTag
	err = run(ctx, l.Runner, bc, argv, Args(tag, exclusions, tmp, artifact.Path))
	if err != nil {
		return wheels.Artifact{}, errors.Repair("auditwheel repair failed", err)
	}
	return publish(l.Console, tmp, "*"+tag+"*.whl", artifact, bc.Config.OutputDir)
}
