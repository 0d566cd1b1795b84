// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
)

// ConfigurationError is the generic configuration failure. The more
// specific error types in this package embed it, so
// [IsConfigurationError] matches them all.
type ConfigurationError struct {
	msg   string
	cause error
}

// NewConfigurationError returns a generic configuration error, optionally
// wrapping a cause (pass nil for none).
func NewConfigurationError(msg string, cause error) *ConfigurationError {
	if msg == "" {
		msg = "unknown configuration error"
	}
	return &ConfigurationError{msg: msg, cause: cause}
}

func (e *ConfigurationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

func (e *ConfigurationError) configurationError() {}

// IsConfigurationError reports whether err is, or wraps, any error from
// this package's taxonomy.
func IsConfigurationError(err error) bool {
	var marker interface{ configurationError() }
	return errors.As(err, &marker)
}

// NoSuchSettingError indicates an access to a setting that is not
// present.
type NoSuchSettingError struct {
	ConfigurationError

	// Setting is the missing setting's name.
	Setting string
}

// NewNoSuchSettingError returns a [*NoSuchSettingError] for setting.
func NewNoSuchSettingError(setting string) *NoSuchSettingError {
	return &NoSuchSettingError{
		ConfigurationError: ConfigurationError{
			msg: fmt.Sprintf("setting %q does not exist", setting),
		},
		Setting: setting,
	}
}

// NotSetupError indicates use of the configuration before the
// application has set one up.
type NotSetupError struct {
	ConfigurationError
}

// NewNotSetupError returns a [*NotSetupError]. An empty message selects
// the default.
func NewNotSetupError(msg string) *NotSetupError {
	if msg == "" {
		msg = "application not set up; configuration unavailable"
	}
	return &NotSetupError{ConfigurationError{msg: msg}}
}

// ImproperlyConfiguredError indicates that building the configuration
// failed, typically because an initializer rejected a setting's value.
type ImproperlyConfiguredError struct {
	ConfigurationError

	// Setting names the setting whose initialization failed.
	Setting string
}

// NewImproperlyConfiguredError wraps cause as an initialization failure
// of setting.
func NewImproperlyConfiguredError(setting string, cause error) *ImproperlyConfiguredError {
	return &ImproperlyConfiguredError{
		ConfigurationError: ConfigurationError{
			msg:   fmt.Sprintf("initialization of setting %q failed", setting),
			cause: cause,
		},
		Setting: setting,
	}
}

// SettingRequiredError indicates that a mandatory setting was not
// provided.
type SettingRequiredError struct {
	ConfigurationError

	// Setting is the mandatory setting's name.
	Setting string
}

// NewSettingRequiredError returns a [*SettingRequiredError] for setting.
// The default message always names the setting; a non-empty msg replaces
// it wholesale.
func NewSettingRequiredError(setting string, msg string) *SettingRequiredError {
	if msg == "" {
		msg = fmt.Sprintf("the setting %q is required", setting)
	}
	return &SettingRequiredError{
		ConfigurationError: ConfigurationError{msg: msg},
		Setting:            setting,
	}
}
