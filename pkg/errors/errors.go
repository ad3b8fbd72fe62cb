package errors

import (
	"errors"
	"fmt"
)

const (
	CodeConfiguration      = "CONFIGURATION"
	CodeToolUnavailable    = "TOOL_UNAVAILABLE"
	CodePrerequisite       = "PREREQUISITE"
	CodeDescriptorMissing  = "DESCRIPTOR_MISSING"
	CodeBuildFailed        = "BUILD_FAILED"
	CodeBuildOutputMissing = "BUILD_OUTPUT_MISSING"
	CodeRepair             = "REPAIR"
	CodeValidation         = "VALIDATION"
)

// Types ////////////////////////////////////////

type CodedError interface {
	error
	Code() string
}

type codedError struct {
	code string
	msg  string
	err  error
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

func (e *codedError) Unwrap() error {
	return e.err
}

// ConfigurationError reports an invalid or missing invocation option.
type ConfigurationError struct {
	Option  string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Message)
}

func (e *ConfigurationError) Code() string {
	return CodeConfiguration
}

// Error Creators ///////////////////////////////

func Configuration(option string, format string, v ...interface{}) error {
	return &ConfigurationError{Option: option, Message: fmt.Sprintf(format, v...)}
}

// A required external tool (the Python interpreter, mostly) is not installed
func ToolUnavailable(msg string) error {
	return &codedError{code: CodeToolUnavailable, msg: msg}
}

func Prerequisite(msg string, err error) error {
	return &codedError{code: CodePrerequisite, msg: msg, err: err}
}

func DescriptorMissing(path string) error {
	return &codedError{code: CodeDescriptorMissing, msg: fmt.Sprintf("build descriptor %s does not exist", path)}
}

func BuildFailed(msg string, err error) error {
	return &codedError{code: CodeBuildFailed, msg: msg, err: err}
}

func BuildOutputMissing(dir string) error {
	return &codedError{code: CodeBuildOutputMissing, msg: fmt.Sprintf("no wheel was produced in %s", dir)}
}

func Repair(msg string, err error) error {
	return &codedError{code: CodeRepair, msg: msg, err: err}
}

func Validation(msg string, err error) error {
	return &codedError{code: CodeValidation, msg: msg, err: err}
}

// Helpers //////////////////////////////////////

func IsConfiguration(err error) bool {
	return Code(err) == CodeConfiguration
}

// Return the error code of the first coded error in the chain, or the empty string
func Code(err error) string {
	var cerr CodedError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}
	return ""
}
