// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// PolicyFailFast aborts registry construction at the first failed vocabulary.
	// Defined locally to avoid coupling config to pkg/registry; the CLI casts
	// to registry.LoadPolicy at the boundary.
	PolicyFailFast LoadPolicy = "fail_fast"
	// PolicySkip records failed vocabularies and keeps loading the rest.
	PolicySkip LoadPolicy = "skip"

	// LogLevelDebug enables debug logging.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default log level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn only reports warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError only reports errors.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDebounce is the default quiet period before a watch-triggered reload.
	DefaultDebounce Debounce = "500ms"
)

var (
	// ErrInvalidLoadPolicy is returned when a LoadPolicy value is not recognized.
	ErrInvalidLoadPolicy = errors.New("invalid load policy")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDebounce is returned when a Debounce is not a positive duration.
	ErrInvalidDebounce = errors.New("invalid debounce duration")
	// ErrInvalidGlobPattern is returned when an ignore pattern is malformed.
	ErrInvalidGlobPattern = errors.New("invalid glob pattern")
	// ErrInvalidManifestPath is returned when the manifest path is whitespace-only.
	ErrInvalidManifestPath = errors.New("invalid manifest path")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LoadPolicy mirrors registry.LoadPolicy.
	LoadPolicy string

	// InvalidLoadPolicyError is returned when a LoadPolicy value is not recognized.
	// It wraps ErrInvalidLoadPolicy for errors.Is() compatibility.
	InvalidLoadPolicyError struct {
		Value LoadPolicy
	}

	// LogLevel is the minimum level written by the logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Debounce is a Go duration string such as "500ms" or "2s".
	Debounce string

	// InvalidDebounceError is returned when a Debounce does not parse to a
	// positive duration.
	InvalidDebounceError struct {
		Value Debounce
	}

	// GlobPattern is a doublestar pattern matched against watched paths.
	GlobPattern string

	// InvalidGlobPatternError is returned when a GlobPattern is malformed.
	InvalidGlobPatternError struct {
		Value GlobPattern
	}

	// ManifestPath points at an ontology manifest file. The zero value means
	// "search the working directory".
	ManifestPath string

	// InvalidManifestPathError is returned when a ManifestPath is whitespace-only.
	InvalidManifestPathError struct {
		Value ManifestPath
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	// It wraps ErrInvalidWatchConfig and every field error.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and the field-level errors of all
	// sub-components, so errors.Is matches either.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Manifest is the ontology manifest to load when --manifest is not given.
		Manifest ManifestPath `json:"manifest,omitempty" mapstructure:"manifest"`
		// LoadPolicy decides what happens when one vocabulary fails to load.
		LoadPolicy LoadPolicy `json:"load_policy" mapstructure:"load_policy"`
		// Log configures logging
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures the watch command
		Watch WatchConfig `json:"watch" mapstructure:"watch"`

		// Source is the config file the values were read from, or "" for defaults.
		Source string `json:"-" mapstructure:"-"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures dictionary watching.
	WatchConfig struct {
		// Debounce is the quiet period after the last change before reloading.
		Debounce Debounce `json:"debounce" mapstructure:"debounce"`
		// Ignore lists patterns of paths whose changes never trigger a reload.
		Ignore []GlobPattern `json:"ignore" mapstructure:"ignore"`
	}
)

// LoadPolicies returns every recognized policy.
func LoadPolicies() []LoadPolicy {
	return []LoadPolicy{PolicyFailFast, PolicySkip}
}

// String returns the string representation of the LoadPolicy.
func (p LoadPolicy) String() string { return string(p) }

// IsValid returns whether the LoadPolicy is one of the defined policies,
// and a list of validation errors if it is not.
func (p LoadPolicy) IsValid() (bool, []error) {
	switch p {
	case PolicyFailFast, PolicySkip:
		return true, nil
	default:
		return false, []error{&InvalidLoadPolicyError{Value: p}}
	}
}

// Error implements the error interface.
func (e *InvalidLoadPolicyError) Error() string {
	return fmt.Sprintf("invalid load policy %q (valid: fail_fast, skip)", e.Value)
}

// Unwrap returns ErrInvalidLoadPolicy for errors.Is() compatibility.
func (e *InvalidLoadPolicyError) Unwrap() error { return ErrInvalidLoadPolicy }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Duration parses the debounce. It returns DefaultDebounce's value for an
// invalid or empty string.
func (d Debounce) Duration() time.Duration {
	if v, err := time.ParseDuration(string(d)); err == nil && v > 0 {
		return v
	}
	v, _ := time.ParseDuration(string(DefaultDebounce))
	return v
}

// IsValid returns whether the Debounce parses to a positive duration.
func (d Debounce) IsValid() (bool, []error) {
	v, err := time.ParseDuration(string(d))
	if err != nil || v <= 0 {
		return false, []error{&InvalidDebounceError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %q (want a positive duration such as \"500ms\")", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// IsValid returns whether the pattern is well-formed doublestar syntax.
func (g GlobPattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(g)) == "" || !doublestar.ValidatePattern(string(g)) {
		return false, []error{&InvalidGlobPatternError{Value: g}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidGlobPatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q", e.Value)
}

// Unwrap returns ErrInvalidGlobPattern for errors.Is() compatibility.
func (e *InvalidGlobPatternError) Unwrap() error { return ErrInvalidGlobPattern }

// String returns the string representation of the ManifestPath.
func (p ManifestPath) String() string { return string(p) }

// IsValid returns whether the path is empty or has non-whitespace content.
func (p ManifestPath) IsValid() (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidManifestPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidManifestPathError) Error() string {
	return fmt.Sprintf("invalid manifest path %q", e.Value)
}

// Unwrap returns ErrInvalidManifestPath for errors.Is() compatibility.
func (e *InvalidManifestPathError) Unwrap() error { return ErrInvalidManifestPath }

// IsValid returns whether the WatchConfig has valid fields.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Debounce.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, pattern := range c.Ignore {
		if valid, fieldErrs := pattern.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidWatchConfig followed by the field errors.
func (e *InvalidWatchConfigError) Unwrap() []error {
	return append([]error{ErrInvalidWatchConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
// Bool fields need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Manifest.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.LoadPolicy.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LoadPolicy: PolicyFailFast,
		Log:        LogConfig{Level: LogLevelInfo},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   []GlobPattern{"**/*.swp", "**/*~", "**/.#*"},
		},
	}
}
