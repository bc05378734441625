package registry

import (
	"fmt"
	"strings"
)

// Lifetime governs how resolved handler instances are shared.
type Lifetime int

const (
	// Transient builds a fresh handler for every dispatch.
	Transient Lifetime = iota
	// Scoped builds one handler per Scope carried in the context.
	// Without a scope it behaves like Transient.
	Scoped
	// Singleton builds one handler per Container. The handler must be safe for concurrent use.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// ParseLifetime parses the String form of a Lifetime, case-insensitively.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient", "":
		return Transient, nil
	case "scoped":
		return Scoped, nil
	case "singleton":
		return Singleton, nil
	default:
		return Transient, fmt.Errorf("unknown lifetime %q", s)
	}
}
