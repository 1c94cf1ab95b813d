package usage

import "fmt"

// BootArgument is returned when a boot argument is unknown or malformed.
func BootArgument(arg, reason string, suggestions ...string) *Error {
	return &Error{
		Kind:        ErrBootArgument,
		Message:     fmt.Sprintf("boot: argument '%s': %s", arg, reason),
		Suggestions: suggestions,
	}
}

// InvalidConfigKey is returned when a configuration key is not known.
func InvalidConfigKey(key string) *Error {
	return &Error{
		Kind:    ErrInvalidConfigKey,
		Message: fmt.Sprintf("config: '%s' is not a valid configuration key", key),
	}
}

// AddonManifest is returned when an addon manifest cannot be loaded.
func AddonManifest(path string, cause error) *Error {
	return &Error{
		Kind:    ErrAddonManifest,
		Message: fmt.Sprintf("addon: %s: %v", path, cause),
		Err:     cause,
	}
}
