// Package accelerator knows the supported accelerator variants and the CUDA facts that
// depend on them: default runtime versions and the host-provided libraries a repaired
// wheel must leave out.
package accelerator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

type Variant string

const (
	CPU    Variant = "cpu"
	CUDA12 Variant = "12"
	CUDA13 Variant = "13"
)

// Variants is every value -c accepts, in display order.
var Variants = []Variant{CPU, CUDA12, CUDA13}

// ParseVariant accepts "cpu", "12", "13" and the "cuda12" / "cu13" spellings.
func ParseVariant(s string) (Variant, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "cuda")
	v = strings.TrimPrefix(v, "cu")
	for _, known := range Variants {
		if v == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown accelerator variant %q, expected one of %s", s, VariantList())
}

// VariantList renders Variants for error messages.
func VariantList() string {
	names := make([]string, len(Variants))
	for i, v := range Variants {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func (v Variant) IsCUDA() bool {
	return v == CUDA12 || v == CUDA13
}

// Major returns the CUDA major version, or 0 for CPU.
func (v Variant) Major() int {
	if !v.IsCUDA() {
		return 0
	}
	n, _ := strconv.Atoi(string(v))
	return n
}

func (v Variant) String() string {
	return string(v)
}

// RuntimeVersion returns the CUDA runtime version to validate against. A non-empty override
// wins; otherwise the variant's default from the table. CPU builds have no runtime version.
func RuntimeVersion(v Variant, override string) (string, error) {
	if !v.IsCUDA() {
		return "", nil
	}
	if override != "" {
		if _, err := version.NewVersion(override); err != nil {
			return "", fmt.Errorf("invalid CUDA runtime version %q: %w", override, err)
		}
		return override, nil
	}
	rt, ok := Default().Runtimes[string(v)]
	if !ok {
		return "", fmt.Errorf("no default CUDA runtime version for variant %s", v)
	}
	return rt, nil
}

// RuntimeMajor extracts the major component of a CUDA version such as "12.8.1".
func RuntimeMajor(s string) (int, error) {
	ver, err := version.NewVersion(s)
	if err != nil {
		return 0, err
	}
	return ver.Segments()[0], nil
}
