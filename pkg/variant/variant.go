// Package variant activates the build descriptor for the selected accelerator variant.
//
// Activation copies <descriptor>.<variant> over <descriptor> and is not undone: the last
// selected variant stays active in the working tree. Two runs against the same tree must
// not overlap.
package variant

import (
	"context"

	"github.com/replicate/wheelforge/pkg/accelerator"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/util/console"
	"github.com/replicate/wheelforge/pkg/util/files"
)

// DescriptorPath returns the variant-specific descriptor for base, e.g. pyproject.toml.12.
func DescriptorPath(base string, v accelerator.Variant) string {
	return base + "." + string(v)
}

// Select checks that the variant descriptor exists and copies it over the active descriptor.
// It returns the path of the descriptor it activated.
func Select(base string, v accelerator.Variant) (string, error) {
	src := DescriptorPath(base, v)
	exists, err := files.Exists(src)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.DescriptorMissing(src)
	}
	if err := files.CopyFile(src, base); err != nil {
		return "", err
	}
	return src, nil
}

type Stage struct {
	Console *console.Console
}

func (s *Stage) Name() string {
	return "select-variant"
}

func (s *Stage) Run(_ context.Context, bc pipeline.BuildContext) (pipeline.BuildContext, error) {
	src, err := Select(bc.Path(bc.Project.Descriptor), bc.Config.Variant)
	if err != nil {
		return bc, err
	}
	s.Console.Infof("Using %s for the %s variant", src, bc.Config.Variant)
	return bc.WithDescriptor(src), nil
}
