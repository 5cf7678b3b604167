package config

// Scope says where a configuration key may be set.
type Scope int

const (
	// ScopeGlobal keys apply to every host and may only be set globally.
	ScopeGlobal Scope = iota
	// ScopeHost keys may additionally carry a per-host override.
	ScopeHost
)

// Option describes a known configuration key. The registry is static;
// read, list, and write paths all consult it so defaults and validation
// stay consistent.
type Option struct {
	Key           string
	Description   string
	DefaultValue  string
	AllowedValues []string
	Scope         Scope
}

// Options is the registry of known configuration keys.
var Options = []Option{
	{
		Key:           "git_protocol",
		Description:   "the protocol to use for git clone and push operations",
		DefaultValue:  "https",
		AllowedValues: []string{"https", "ssh"},
		Scope:         ScopeHost,
	},
	{
		Key:         "editor",
		Description: "the text editor program to use for authoring text",
	},
	{
		Key:           "prompt",
		Description:   "toggle interactive prompting in the terminal",
		DefaultValue:  "enabled",
		AllowedValues: []string{"enabled", "disabled"},
	},
	{
		Key:         "pager",
		Description: "the terminal pager program to send standard output to",
	},
	{
		Key:         "browser",
		Description: "the web browser to use for opening URLs",
	},
	{
		Key:         "http_unix_socket",
		Description: "the path to a Unix domain socket through which to make an HTTP connection",
	},
}

// OptionFor looks up a key in the registry.
func OptionFor(key string) (Option, bool) {
	for _, o := range Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// DefaultFor returns the registered default for key, or "" for unknown
// keys and keys without a default.
func DefaultFor(key string) string {
	o, ok := OptionFor(key)
	if !ok {
		return ""
	}
	return o.DefaultValue
}

// ValidateValue checks value against the option's allowed set. Options
// with an empty allowed set accept any value.
func (o Option) ValidateValue(value string) error {
	if len(o.AllowedValues) == 0 {
		return nil
	}
	for _, v := range o.AllowedValues {
		if v == value {
			return nil
		}
	}
	return &InvalidValueError{Key: o.Key, Value: value, ValidValues: o.AllowedValues}
}
