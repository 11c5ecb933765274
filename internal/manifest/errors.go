package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestNotFound means the location holds no descriptor. Directory
	// scans skip such locations silently.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrMalformedManifest means the descriptor could not be parsed, lacks a
	// required field, or competes with another descriptor in the same location.
	ErrMalformedManifest = errors.New("malformed manifest")
	// ErrUnknownTargetType means the type string names no known target kind.
	ErrUnknownTargetType = errors.New("unknown target type")
)

// Error describes a failure to load one descriptor.
type Error struct {
	Kind error
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func malformedf(path, format string, args ...any) error {
	return &Error{Kind: ErrMalformedManifest, Path: path, Msg: fmt.Sprintf(format, args...)}
}
