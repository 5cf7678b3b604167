package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLockPoisoned reports that a previous mutation of the store
// terminated abnormally while holding the write lock. The store may be
// inconsistent; callers must abort and surface this rather than retry.
var ErrLockPoisoned = errors.New("configuration store is poisoned: a previous write aborted mid-flight")

// InvalidValueError is returned when a value outside an option's
// allowed set is rejected. Prior state is left unchanged.
type InvalidValueError struct {
	Key         string
	Value       string
	ValidValues []string
}

func (e *InvalidValueError) Error() string {
	quoted := make([]string, len(e.ValidValues))
	for i, v := range e.ValidValues {
		quoted[i] = fmt.Sprintf("'%s'", v)
	}
	return fmt.Sprintf("failed to set %q to %q: valid values are %s",
		e.Key, e.Value, strings.Join(quoted, ", "))
}
