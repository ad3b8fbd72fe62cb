// Package assets discovers optional external plugin libraries shipped next to the project.
package assets

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/pipeline"
	"github.com/replicate/wheelforge/pkg/util"
	"github.com/replicate/wheelforge/pkg/util/console"
)

// Discover lists the shared libraries directly inside dir whose names carry ext
// (".so" also matches versioned names such as libfoo.so.1). A missing dir is empty.
func Discover(dir string, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	matcher, err := CreateMatcher(dir)
	if err != nil {
		return nil, err
	}

	// ReadDir sorts by name, which keeps discovery order stable between runs.
	var found []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !isLibrary(name, ext) {
			continue
		}
		if matcher != nil && matcher.MatchesPath(name) {
			continue
		}
		found = append(found, name)
	}
	return found, nil
}

// isLibrary accepts name<ext> and versioned names such as libfoo.so.1.2.
func isLibrary(name string, ext string) bool {
	i := strings.LastIndex(name, ext)
	if i <= 0 {
		return false
	}
	version := name[i+len(ext):]
	if version == "" {
		return true
	}
	if version[0] != '.' {
		return false
	}
	for _, segment := range strings.Split(version[1:], ".") {
		if segment == "" || strings.Trim(segment, "0123456789") != "" {
			return false
		}
	}
	return true
}

// Stage finds plugin libraries and, when there are any, puts the assets directory on the
// library search path of later subprocesses.
type Stage struct {
	Runner  command.Runner
	Console *console.Console
}

func (s *Stage) Name() string {
	return "locate-assets"
}

func (s *Stage) Run(ctx context.Context, bc pipeline.BuildContext) (pipeline.BuildContext, error) {
	dir := bc.Config.AssetsDir

	var found []string
	var err error
	if len(bc.Project.Discover) > 0 {
		found, err = s.external(ctx, bc, dir)
	} else {
		found, err = Discover(dir, bc.Profile.LibExt)
	}
	if err != nil {
		return bc, err
	}

	if len(found) == 0 {
		s.Console.Infof("No plugin libraries in %s", dir)
		return bc, nil
	}
	for _, name := range found {
		s.Console.Infof("Found plugin library %s", name)
	}
	s.Console.Debugf("Prepending %s to %s", dir, bc.Profile.LibPathVar)
	return bc.WithAssets(found).WithLibraryPath(dir), nil
}

func (s *Stage) external(ctx context.Context, bc pipeline.BuildContext, dir string) ([]string, error) {
	argv := append(append([]string{}, bc.Project.Discover...), dir)
	name := argv[0]
	if name == "python" || name == "python3" {
		name = bc.Interpreter
	}
	res, err := s.Runner.Run(ctx, command.Command{
		Name:    name,
		Args:    argv[1:],
		Dir:     bc.ProjectDir,
		Env:     bc.Env(),
		Capture: true,
	})
	if err != nil {
		return nil, util.WrapError(err, "asset discovery failed")
	}

	var found []string
	scanner := bufio.NewScanner(strings.NewReader(res.Stdout))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			found = append(found, line)
		}
	}
	return found, scanner.Err()
}
