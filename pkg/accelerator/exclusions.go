package accelerator

import (
	// blank import for embeds
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"
)

//go:embed data/cuda.yaml
var cudaTable []byte

// legacyMajor is CUDA 11, whose runtime library soname carries the minor version too.
const legacyMajor = 11

// ExclusionEntry is one library the repair step must leave unbundled.
type ExclusionEntry struct {
	Library string
	Suffix  string
	Major   int
}

// Name is the full soname passed to the repair tool, e.g. libcudart.so.12.
func (e ExclusionEntry) Name() string {
	return e.Library + "." + e.Suffix
}

type tableEntry struct {
	Library string `yaml:"library"`
	Suffix  string `yaml:"suffix"`
	Majors  []int  `yaml:"majors"`
}

// Table is the static CUDA data the pipeline consults.
type Table struct {
	Runtimes map[string]string `yaml:"runtimes"`
	Entries  []tableEntry      `yaml:"exclusions"`
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the table embedded in the binary.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := LoadTable(cudaTable)
		if err != nil {
			panic(fmt.Sprintf("embedded CUDA table is invalid: %s", err))
		}
		defaultTable = t
	})
	return defaultTable
}

func LoadTable(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.UnmarshalStrict(data, t); err != nil {
		return nil, err
	}
	for i, e := range t.Entries {
		if e.Library == "" || e.Suffix == "" {
			return nil, fmt.Errorf("exclusion %d needs both library and suffix", i)
		}
	}
	return t, nil
}

// Exclusions returns the host-provided libraries for a CUDA major version using the embedded table.
func Exclusions(major int) []ExclusionEntry {
	return Default().Exclusions(major)
}

// Exclusions returns the entries scoped to major, in table order. Major 0 (CPU) has none.
func (t *Table) Exclusions(major int) []ExclusionEntry {
	if major <= 0 {
		return nil
	}
	var out []ExclusionEntry
	for _, e := range t.Entries {
		if len(e.Majors) > 0 && !containsInt(e.Majors, major) {
			continue
		}
		suffix := strings.ReplaceAll(e.Suffix, "{major}", strconv.Itoa(major))
		// TODO: confirm nothing still builds against CUDA 11 and drop this rule.
		if major == legacyMajor && e.Library == "libcudart.so" {
			suffix = "11.0"
		}
		out = append(out, ExclusionEntry{Library: e.Library, Suffix: suffix, Major: major})
	}
	return out
}

// Names returns the sonames of entries.
func Names(entries []ExclusionEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
