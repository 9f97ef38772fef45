package cli

import "fmt"

// InputError represents an error in a command's input files or flags.
type InputError struct {
	Source  string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Source, e.Message)
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

// NewInputError creates a new InputError.
func NewInputError(source, message string) *InputError {
	return &InputError{
		Source:  source,
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
