// Package pipeline runs an ordered list of build stages over an immutable BuildContext,
// stopping at the first failure.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/util/console"
)

// Stage is one step of the wheel build. Run returns the context the next stage receives.
type Stage interface {
	Name() string
	Run(ctx context.Context, bc BuildContext) (BuildContext, error)
}

// StageError wraps the failure of a single stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if code := errors.Code(e.Err); code != "" {
		return fmt.Sprintf("stage %s failed [%s]: %v", e.Stage, code, e.Err)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (e *StageError) Code() string {
	return errors.Code(e.Err)
}

type Pipeline struct {
	Stages  []Stage
	Console *console.Console
}

func New(c *console.Console, stages ...Stage) *Pipeline {
	return &Pipeline{Stages: stages, Console: c}
}

// Run executes the stages in order. The wheelhouse staging directory is removed however the
// run ends; nothing else is rolled back.
func (p *Pipeline) Run(ctx context.Context, bc BuildContext) (BuildContext, error) {
	cons := p.Console
	if cons == nil {
		cons = console.ConsoleInstance
	}
	defer func() {
		if err := os.RemoveAll(bc.WheelhouseDir()); err != nil {
			cons.Warnf("Failed to remove %s: %s", bc.WheelhouseDir(), err)
		}
	}()

	cons.Debugf("Run %s: %s build in %s", bc.RunID, bc.Config.Variant, bc.ProjectDir)
	for _, stage := range p.Stages {
		if err := ctx.Err(); err != nil {
			return bc, &StageError{Stage: stage.Name(), Err: err}
		}
		cons.Stage(stage.Name())
		next, err := stage.Run(ctx, bc)
		if err != nil {
			return bc, &StageError{Stage: stage.Name(), Err: err}
		}
		bc = next
	}
	return bc, nil
}

// Names lists the stage names, for logs and tests.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		names[i] = s.Name()
	}
	return names
}
