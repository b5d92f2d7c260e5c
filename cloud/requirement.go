package cloud

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Requirement is the tri-state level at which a provider needs a given input.
type Requirement int

const (
	RequirementNone Requirement = iota
	RequirementOptional
	RequirementRequired
)

func (r Requirement) String() string {
	switch r {
	case RequirementNone:
		return "NONE"
	case RequirementOptional:
		return "OPTIONAL"
	case RequirementRequired:
		return "REQUIRED"
	default:
		return "UNKNOWN"
	}
}

// IsValid checks if the requirement is one of the known levels
func (r Requirement) IsValid() bool {
	switch r {
	case RequirementNone, RequirementOptional, RequirementRequired:
		return true
	default:
		return false
	}
}

// ParseRequirement parses a case-insensitive requirement name.
func ParseRequirement(s string) (Requirement, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE", "":
		return RequirementNone, nil
	case "OPTIONAL":
		return RequirementOptional, nil
	case "REQUIRED":
		return RequirementRequired, nil
	default:
		return RequirementNone, fmt.Errorf("%w: unknown requirement %q", ErrInvalidOptions, s)
	}
}

// MarshalYAML encodes the requirement by name.
func (r Requirement) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML decodes a requirement name.
func (r *Requirement) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRequirement(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
