package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrDeployment    = errors.New("deployment error")
	ErrExecution     = errors.New("execution error")
	ErrEvaluation    = errors.New("evaluation error")
	ErrCancelled     = errors.New("cancelled")
)

// ConfigurationError is returned for missing, duplicate or otherwise invalid
// topology, simulation or policy inputs. It is never recovered from.
type ConfigurationError struct {
	Msg        string
	Duplicates []string
}

func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

func (this ConfigurationError) Error() string {
	if len(this.Duplicates) == 0 {
		return this.Msg
	}

	return fmt.Sprintf("%s: %s", this.Msg, strings.Join(this.Duplicates, ", "))
}

func (ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
