// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultListenAddress is where `vfsh serve` listens unless configured.
	DefaultListenAddress = "localhost:2222"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidListenAddress is returned when serve.listen is empty or whitespace-only.
	ErrInvalidListenAddress = errors.New("invalid listen address")
	// ErrInvalidPromptField is returned when a prompt override contains characters
	// that would make the prompt ambiguous.
	ErrInvalidPromptField = errors.New("invalid prompt field")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidPromptFieldError is returned when prompt.user or prompt.host
	// contains '@', ':' or whitespace.
	InvalidPromptFieldError struct {
		Field string
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// VFS is the directory the shell is confined to. Empty means the
		// current working directory.
		VFS string `json:"vfs" mapstructure:"vfs" toml:"vfs"`
		// Script is an optional startup script replayed before interactive input.
		Script string `json:"script" mapstructure:"script" toml:"script"`
		// Prompt overrides the user and host shown in the prompt
		Prompt PromptConfig `json:"prompt" mapstructure:"prompt" toml:"prompt"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
		// Serve configures the SSH front end
		Serve ServeConfig `json:"serve" mapstructure:"serve" toml:"serve"`

		// source is the config file the values were read from, if any.
		source string
	}

	// PromptConfig overrides the prompt identity. Empty fields fall back to
	// the OS user and hostname.
	PromptConfig struct {
		User string `json:"user" mapstructure:"user" toml:"user"`
		Host string `json:"host" mapstructure:"host" toml:"host"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables debug logging and detailed error output
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// ServeConfig configures `vfsh serve`.
	ServeConfig struct {
		// Listen is the host:port the SSH server binds to.
		Listen string `json:"listen" mapstructure:"listen" toml:"listen"`
		// HostKeyPath is the server's private host key, generated when missing.
		// Empty means <config dir>/ssh_host_ed25519.
		HostKeyPath string `json:"host_key_path" mapstructure:"host_key_path" toml:"host_key_path"`
		// AuthorizedKeysPath restricts logins to the listed public keys.
		// Empty accepts any client key.
		AuthorizedKeysPath string `json:"authorized_keys_path" mapstructure:"authorized_keys_path" toml:"authorized_keys_path"`
	}
)

// Source returns the config file the configuration was loaded from, or ""
// when only defaults, environment and overrides applied.
func (c *Config) Source() string {
	return c.source
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Prompt.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(c.Serve.Listen) == "" {
		errs = append(errs, fmt.Errorf("%w: serve.listen must not be empty", ErrInvalidListenAddress))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether both prompt fields are usable.
func (p PromptConfig) IsValid() (bool, []error) {
	var errs []error
	for _, field := range []struct{ name, value string }{{"prompt.user", p.User}, {"prompt.host", p.Host}} {
		if strings.ContainsAny(field.value, "@: \t\r\n") {
			errs = append(errs, &InvalidPromptFieldError{Field: field.name, Value: field.value})
		}
	}
	return len(errs) == 0, errs
}

// Error implements the error interface for InvalidPromptFieldError.
func (e *InvalidPromptFieldError) Error() string {
	return fmt.Sprintf("%s %q must not contain '@', ':' or whitespace", e.Field, e.Value)
}

// Unwrap returns ErrInvalidPromptField for errors.Is() compatibility.
func (e *InvalidPromptFieldError) Unwrap() error { return ErrInvalidPromptField }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		VFS:    "", // Will use the working directory if empty
		Script: "",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Serve: ServeConfig{
			Listen: DefaultListenAddress,
		},
	}
}
