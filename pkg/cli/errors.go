package cli

import (
	"errors"

	wferrors "github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
)

// ErrorMessage renders err for the final failure line. Stage failures already name their
// stage and code; other coded errors get the code prepended.
func ErrorMessage(err error) string {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return stageErr.Error()
	}
	if code := wferrors.Code(err); code != "" {
		return "[" + code + "] " + err.Error()
	}
	return err.Error()
}
