package cli

import (
	"errors"
	"fmt"

	"mercator-hq/patternsweep/pkg/config"
	"mercator-hq/patternsweep/pkg/sweep"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
	ExitFatalSweep  = 3
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to a process exit status. Configuration problems
// return ExitConfigError, an aborted sweep returns ExitFatalSweep.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	var validation config.ValidationError
	if errors.As(err, &cfgErr) || errors.As(err, &validation) {
		return ExitConfigError
	}

	var fatal *sweep.FatalError
	if errors.As(err, &fatal) {
		return ExitFatalSweep
	}

	return ExitFailure
}
