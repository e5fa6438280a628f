package tokenresolver

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a call receives input it cannot work with,
// such as a nil Source.
var ErrInvalidArgument = errors.New("invalid argument")

// ConfigError reports a Config invariant violation found at construction time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid token config: %s %s", e.Field, e.Reason)
}

// UnresolvedTokenError is returned under the raise policy when a token has no
// replacement.
type UnresolvedTokenError struct {
	Key string
}

func (e *UnresolvedTokenError) Error() string {
	return fmt.Sprintf("unresolved token %q", e.Key)
}

// InvalidReplacementKeyError is returned when a replacement key could never be
// produced by the active grammar.
type InvalidReplacementKeyError struct {
	Key string
}

func (e *InvalidReplacementKeyError) Error() string {
	return fmt.Sprintf("replacement key %q does not match the token grammar", e.Key)
}

// InvalidPolicyError is returned for an unknown on-missing policy.
type InvalidPolicyError struct {
	Policy string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid on-missing policy %q (expected raise, keep or remove)", e.Policy)
}
