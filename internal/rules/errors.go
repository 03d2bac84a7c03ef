package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigurationInvalid is matched by every rule file validation failure
var ErrConfigurationInvalid = errors.New("invalid rule configuration")

// ConfigurationInvalidError lists every problem found in a rule file
type ConfigurationInvalidError struct {
	Path     string
	Problems []string
}

func (e *ConfigurationInvalidError) Error() string {
	source := e.Path
	if source == "" {
		source = "rule configuration"
	}
	return fmt.Sprintf("%s is invalid: %s", source, strings.Join(e.Problems, "; "))
}

func (e *ConfigurationInvalidError) Unwrap() error {
	return ErrConfigurationInvalid
}
