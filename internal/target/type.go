package target

import "fmt"

// Type is the closed set of target kinds. Invalid is the explicit
// "unrecognized" case and is never a usable target type.
type Type int

const (
	// Invalid marks a type string that did not name a known kind.
	Invalid Type = iota
	// Library is a static library linked into other targets.
	Library
	// Application is a user-space program.
	Application
	// Kernel is the operating-system kernel image.
	Kernel
	// Module is a loadable kernel module.
	Module
)

var typeNames = map[Type]string{
	Library:     "lib",
	Application: "app",
	Kernel:      "kernel",
	Module:      "module",
}

// ParseType maps a manifest type string onto a Type. Unrecognized strings
// yield Invalid and false; callers must treat that as an error.
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return Invalid, false
}

// String returns the manifest spelling of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", int(t))
}

// Valid reports whether t is one of the known kinds.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Types returns every valid type in declaration order.
func Types() []Type {
	return []Type{Library, Application, Kernel, Module}
}
