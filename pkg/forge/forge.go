// Package forge assembles a wheel build: it resolves the invocation, finds the interpreter,
// prepares the BuildContext and runs the stage pipeline.
package forge

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/replicate/go/uuid"

	"github.com/replicate/wheelforge/pkg/accelerator"
	"github.com/replicate/wheelforge/pkg/assets"
	"github.com/replicate/wheelforge/pkg/build"
	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/config"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/platform"
	"github.com/replicate/wheelforge/pkg/prereq"
	"github.com/replicate/wheelforge/pkg/repair"
	"github.com/replicate/wheelforge/pkg/util/console"
	"github.com/replicate/wheelforge/pkg/validate"
	"github.com/replicate/wheelforge/pkg/variant"
	"github.com/replicate/wheelforge/pkg/wheels"
)

// Interpreters are tried in order when PYTHON is not set.
var Interpreters = []string{"python3", "python"}

// Forge builds wheels for one platform with one command runner.
type Forge struct {
	Runner      command.Runner
	Console     *console.Console
	Profile     platform.Profile
	Environment config.Environment
}

// Request is a single invocation.
type Request struct {
	Options config.Options
	// ProjectDir holds the build descriptors and wheelforge.yaml.
	ProjectDir string
	// WorkDir resolves relative -o and -a paths.
	WorkDir string
}

// DetectInterpreter resolves the Python interpreter. PYTHON must name an executable when set.
func DetectInterpreter(r command.Runner, env config.Environment) (string, error) {
	if env.Interpreter != "" {
		path, err := r.LookPath(env.Interpreter)
		if err != nil {
			return "", errors.ToolUnavailable(fmt.Sprintf("%s=%s is not an executable Python interpreter", config.EnvInterpreter, env.Interpreter))
		}
		return path, nil
	}
	for _, name := range Interpreters {
		if path, err := r.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.ToolUnavailable("no Python interpreter found: install python3 or set " + config.EnvInterpreter)
}

// NewContext reads the project file and returns the context the first stage receives. Every
// configuration check that depends on the project or the environment happens here, before
// any stage runs.
func (f *Forge) NewContext(projectDir string, cfg config.BuildConfiguration, interpreter string) (pipeline.BuildContext, error) {
	project, err := config.LoadProject(projectDir, f.Profile.DefaultPlatformTag())
	if err != nil {
		return pipeline.BuildContext{}, err
	}
	if err := project.CheckStagingDir(projectDir); err != nil {
		return pipeline.BuildContext{}, err
	}

	var runtimeVersion string
	if f.Profile.MultiVariant() {
		runtimeVersion, err = accelerator.RuntimeVersion(cfg.Variant, f.Environment.CUDARuntime)
		if err != nil {
			return pipeline.BuildContext{}, errors.Configuration(config.EnvCUDARuntime, "%s", err)
		}
	}

	return pipeline.BuildContext{
		RunID:       newRunID(),
		ProjectDir:  projectDir,
		Config:      cfg,
		Profile:     f.Profile,
		Project:     project,
		Environment: f.Environment,
		Interpreter: interpreter,
		Version:     wheels.SemverToPEP440(f.Environment.VersionPin),
		CUDARuntime: runtimeVersion,
	}, nil
}

// Stages returns the stage list for cfg: select-variant, [prerequisites], locate-assets,
// build, repair, [validate].
func (f *Forge) Stages(cfg config.BuildConfiguration) []pipeline.Stage {
	stages := []pipeline.Stage{&variant.Stage{Console: f.Console}}
	if cfg.InstallPrereqs {
		stages = append(stages, &prereq.Stage{Runner: f.Runner, Console: f.Console})
	}
	stages = append(stages,
		&assets.Stage{Runner: f.Runner, Console: f.Console},
		&build.Stage{Runner: f.Runner, Console: f.Console},
		&repair.Stage{Repairer: repair.ForProfile(f.Profile, f.Runner, f.Console), Console: f.Console},
	)
	if cfg.RunTests {
		stages = append(stages, &validate.Stage{Runner: f.Runner, Console: f.Console})
	}
	return stages
}

// Build runs a full invocation and returns the wheel left in the output directory.
// Configuration and interpreter problems are reported before anything touches the disk.
func (f *Forge) Build(ctx context.Context, req Request) (wheels.Artifact, error) {
	projectDir, err := filepath.Abs(req.ProjectDir)
	if err != nil {
		return wheels.Artifact{}, errors.Configuration("--project-dir", "%s", err)
	}
	workDir := req.WorkDir
	if workDir == "" {
		workDir = projectDir
	}

	cfg, err := config.Resolve(req.Options, f.Profile, workDir)
	if err != nil {
		return wheels.Artifact{}, err
	}
	interpreter, err := DetectInterpreter(f.Runner, f.Environment)
	if err != nil {
		return wheels.Artifact{}, err
	}
	f.Console.Debugf("Using Python interpreter %s", interpreter)

	bc, err := f.NewContext(projectDir, cfg, interpreter)
	if err != nil {
		return wheels.Artifact{}, err
	}

	p := pipeline.New(f.Console, f.Stages(cfg)...)
	bc, err = p.Run(ctx, bc)
	if err != nil {
		return wheels.Artifact{}, err
	}
	return bc.Artifact, nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "unknown"
	}
	return id.String()
}
