package dom

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Schema defines the data attributes the engine looks for in markup.
// Integrators can override individual fields to match an existing markup
// convention.
type Schema struct {
	// Prefix is the marker attribute carrying structural roles,
	// e.g. data-pergola="wrapper".
	Prefix string `mapstructure:"prefix"`

	// Wrapper and Container are the role values on the Prefix attribute.
	Wrapper   string `mapstructure:"wrapper"`
	Container string `mapstructure:"container"`

	// Namespace is the attribute on the container naming the page type.
	Namespace string `mapstructure:"namespace"`

	// Prevent is the role value (and link attribute) blocking interception.
	Prevent string `mapstructure:"prevent"`
}

// DefaultSchema returns the standard attribute names.
func DefaultSchema() Schema {
	return Schema{
		Prefix:    "data-pergola",
		Wrapper:   "wrapper",
		Container: "container",
		Namespace: "data-pergola-namespace",
		Prevent:   "prevent",
	}
}

// PreventAttr returns the full attribute name that blocks interception on
// a link, e.g. data-pergola-prevent.
func (s Schema) PreventAttr() string {
	return s.Prefix + "-" + s.Prevent
}

// SchemaFromMap decodes a partial schema override from a loosely typed map
// (as read from a config file), filling unset fields from the defaults.
func SchemaFromMap(m map[string]any) (Schema, error) {
	s := DefaultSchema()
	if len(m) == 0 {
		return s, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &s,
		ErrorUnused: true,
	})
	if err != nil {
		return s, fmt.Errorf("build schema decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return s, fmt.Errorf("decode schema override: %w", err)
	}
	return s, nil
}
