package validate

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/wheelforge/pkg/accelerator"
	"github.com/replicate/wheelforge/pkg/command/commandtest"
	"github.com/replicate/wheelforge/pkg/config"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/platform"
	"github.com/replicate/wheelforge/pkg/util/console"
)

func testContext(goos string, variant accelerator.Variant, quick bool, version string, runtime string) pipeline.BuildContext {
	return pipeline.BuildContext{
		ProjectDir:  "/src",
		Interpreter: "/usr/bin/python3",
		Config: config.BuildConfiguration{
			Variant:   variant,
			OutputDir: "/src/dist",
			RunTests:  true,
			QuickTest: quick,
		},
		Profile:     platform.Detect(goos, "arm64"),
		Project:     (*config.ProjectFile)(nil).Complete("manylinux_2_28_aarch64"),
		Environment: config.EnvironmentFrom(nil),
		Version:     version,
		CUDARuntime: runtime,
	}
}

func TestArgs(t *testing.T) {
	for _, tt := range []struct {
		name string
		bc   pipeline.BuildContext
		want []string
	}{
		{
			name: "linux cuda 12",
			bc:   testContext("linux", accelerator.CUDA12, false, "0.0.0", "12.8"),
			want: []string{"/src/scripts/validate_wheel.py", "--version", "0.0.0", "--wheel-dir", "/src/dist", "--cuda-version", "12.8"},
		},
		{
			name: "linux cuda 13 quick pre-release",
			bc:   testContext("linux", accelerator.CUDA13, true, "2.1.0rc1", "13.0"),
			want: []string{"/src/scripts/validate_wheel.py", "--version", "2.1.0rc1", "--wheel-dir", "/src/dist", "--cuda-version", "13.0", "--quick"},
		},
		{
			name: "darwin never passes a runtime",
			bc:   testContext("darwin", accelerator.CPU, true, "0.0.0", "12.4"),
			want: []string{"/src/scripts/validate_wheel.py", "--version", "0.0.0", "--wheel-dir", "/src/dist", "--quick"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Args(tt.bc))
		})
	}
}

func TestStage(t *testing.T) {
	bc := testContext("linux", accelerator.CUDA12, false, "0.0.0", "12.8")
	r := commandtest.NewFakeRunner()
	stage := &Stage{Runner: r, Console: &console.Console{Err: &bytes.Buffer{}}}

	_, err := stage.Run(context.Background(), bc)
	require.NoError(t, err)
	require.Len(t, r.Calls, 1)
	require.Equal(t, "/usr/bin/python3", r.Calls[0].Name)
	require.Equal(t, "/src", r.Calls[0].Dir)
}

func TestStageFailure(t *testing.T) {
	bc := testContext("linux", accelerator.CUDA13, true, "0.0.0", "13.0")
	r := commandtest.NewFakeRunner().On("/usr/bin/python3", nil, commandtest.Exit(3))
	stage := &Stage{Runner: r, Console: &console.Console{Err: &bytes.Buffer{}}}

	_, err := stage.Run(context.Background(), bc)
	require.Equal(t, errors.CodeValidation, errors.Code(err))
	require.Contains(t, err.Error(), "wheel validation failed")
}
