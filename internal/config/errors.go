package config

import "errors"

// ErrInvalidConfig marks any cross-field validation failure of the
// merged configuration. Wrapped errors carry the specific reason.
var ErrInvalidConfig = errors.New("invalid configuration")
