package config

import (
	"os"
	"strings"
)

// Environment variables wheelforge reads. None are written back to the process environment.
const (
	EnvInterpreter  = "PYTHON"
	EnvVersionPin   = "BUILD_VERSION"
	EnvCUDACompiler = "CUDACXX"
	EnvCUDAHostCXX  = "CUDAHOSTCXX"
	EnvCUDARuntime  = "CUDA_VERSION"
	EnvCXX          = "CXX"
	EnvCUDAHome     = "CUDA_HOME"
)

const (
	DefaultVersionPin = "0.0.0"
	DefaultCUDAHome   = "/usr/local/cuda"
)

// Environment is a snapshot of the variables above plus the full ambient environment
// that subprocesses inherit.
type Environment struct {
	Interpreter  string
	VersionPin   string
	CUDACompiler string
	CUDAHostCXX  string
	CUDARuntime  string
	CXX          string
	CUDAHome     string
	// Ambient is the inherited KEY=VALUE list.
	Ambient []string
}

// EnvironmentFromOS snapshots the current process environment.
func EnvironmentFromOS() Environment {
	return EnvironmentFrom(os.Environ())
}

// EnvironmentFrom builds a snapshot from a KEY=VALUE list.
func EnvironmentFrom(environ []string) Environment {
	lookup := map[string]string{}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			lookup[k] = v
		}
	}
	env := Environment{
		Interpreter:  lookup[EnvInterpreter],
		VersionPin:   lookup[EnvVersionPin],
		CUDACompiler: lookup[EnvCUDACompiler],
		CUDAHostCXX:  lookup[EnvCUDAHostCXX],
		CUDARuntime:  lookup[EnvCUDARuntime],
		CXX:          lookup[EnvCXX],
		CUDAHome:     lookup[EnvCUDAHome],
		Ambient:      append([]string{}, environ...),
	}
	if env.VersionPin == "" {
		env.VersionPin = DefaultVersionPin
	}
	if env.CUDAHome == "" {
		env.CUDAHome = DefaultCUDAHome
	}
	return env
}

// Lookup returns the ambient value of key.
func (e Environment) Lookup(key string) (string, bool) {
	prefix := key + "="
	for i := len(e.Ambient) - 1; i >= 0; i-- {
		if v, ok := strings.CutPrefix(e.Ambient[i], prefix); ok {
			return v, true
		}
	}
	return "", false
}
