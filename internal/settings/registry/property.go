// Package registry maintains the configuration schema: the nodes
// contributed by the host and its extensions, and the typed properties
// they declare. Catalog assembly consumes the node list; the property
// index serves key lookups and default values.
package registry

import (
	"fmt"
	"regexp"
)

// Property defines a configuration property with its metadata.
type Property struct {
	// Key is the dot-separated setting key (e.g., "editor.tabSize"),
	// or a bracketed override identifier (e.g., "[markdown]").
	Key string

	// Type is the property's data type.
	Type PropertyType

	// Default is the default value.
	Default any

	// Description is human-readable documentation.
	Description string

	// Scope defines where this property can be set.
	Scope Scope

	// Enum lists allowed values for enum types.
	Enum []any

	// Minimum for numeric types (nil means no minimum).
	Minimum *float64

	// Maximum for numeric types (nil means no maximum).
	Maximum *float64

	// Pattern for string validation (regex).
	Pattern string

	// Deprecated marks properties excluded from the assembled catalog.
	Deprecated         bool
	DeprecationMessage string
	ReplacedBy         string

	// Tags for filtering/grouping properties.
	Tags []string

	// compiledPattern is the compiled regex pattern (lazily initialized).
	compiledPattern *regexp.Regexp
}

// Validate checks if a value is valid for this property.
func (p *Property) Validate(value any) error {
	if err := p.validateType(value); err != nil {
		return err
	}

	if len(p.Enum) > 0 {
		if !containsValue(p.Enum, value) {
			return fmt.Errorf("value must be one of: %v", p.Enum)
		}
	}

	if p.Type == TypeInt || p.Type == TypeFloat {
		if err := p.validateRange(value); err != nil {
			return err
		}
	}

	if p.Type == TypeString && p.Pattern != "" {
		if err := p.validatePattern(value); err != nil {
			return err
		}
	}

	return nil
}

// validateType checks if the value matches the expected type.
func (p *Property) validateType(value any) error {
	switch p.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case TypeInt:
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			// Valid
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}
	case TypeFloat:
		switch value.(type) {
		case float32, float64, int, int64:
			// Valid (integers are acceptable for float)
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case TypeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case TypeArray:
		switch value.(type) {
		case []any, []string, []int, []int64, []float64:
			// Valid
		default:
			return fmt.Errorf("expected array, got %T", value)
		}
	case TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case TypeEnum:
		// Enum validation handled separately
	}
	return nil
}

// validateRange checks if a numeric value is within the allowed range.
func (p *Property) validateRange(value any) error {
	var f float64
	switch v := value.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return nil // Non-numeric, skip range check
	}

	if p.Minimum != nil && f < *p.Minimum {
		return fmt.Errorf("value %v is less than minimum %v", value, *p.Minimum)
	}
	if p.Maximum != nil && f > *p.Maximum {
		return fmt.Errorf("value %v is greater than maximum %v", value, *p.Maximum)
	}
	return nil
}

// validatePattern checks if a string value matches the required pattern.
func (p *Property) validatePattern(value any) error {
	str, ok := value.(string)
	if !ok {
		return nil // Non-string, skip pattern check
	}

	if p.compiledPattern == nil {
		var err error
		p.compiledPattern, err = regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	}

	if !p.compiledPattern.MatchString(str) {
		return fmt.Errorf("value does not match pattern %s", p.Pattern)
	}
	return nil
}

// PropertyType represents the data type of a property.
type PropertyType uint8

const (
	// TypeString represents a string value.
	TypeString PropertyType = iota
	// TypeInt represents an integer value.
	TypeInt
	// TypeFloat represents a floating-point value.
	TypeFloat
	// TypeBool represents a boolean value.
	TypeBool
	// TypeArray represents an array value.
	TypeArray
	// TypeObject represents an object/map value.
	TypeObject
	// TypeEnum represents a value from a fixed set.
	TypeEnum
)

// String returns the string representation of the type.
func (t PropertyType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Scope defines where a property can be configured.
type Scope uint8

const (
	// ScopeGlobal indicates the property can only be set in the user
	// global document.
	ScopeGlobal Scope = 1 << iota
	// ScopeWindow indicates the property applies per editor window.
	ScopeWindow
	// ScopeWorkspace indicates the property can be set at workspace level.
	ScopeWorkspace
	// ScopeResource indicates the property can be overridden per file.
	ScopeResource
	// ScopeLanguage indicates the property can be overridden per language.
	ScopeLanguage

	// ScopeAll allows the property at any level.
	ScopeAll = ScopeGlobal | ScopeWindow | ScopeWorkspace | ScopeResource | ScopeLanguage
)

// String returns a string representation of the scope.
func (s Scope) String() string {
	if s == ScopeAll {
		return "all"
	}

	var scopes []string
	if s&ScopeGlobal != 0 {
		scopes = append(scopes, "global")
	}
	if s&ScopeWindow != 0 {
		scopes = append(scopes, "window")
	}
	if s&ScopeWorkspace != 0 {
		scopes = append(scopes, "workspace")
	}
	if s&ScopeResource != 0 {
		scopes = append(scopes, "resource")
	}
	if s&ScopeLanguage != 0 {
		scopes = append(scopes, "language")
	}

	if len(scopes) == 0 {
		return "none"
	}
	return fmt.Sprintf("%v", scopes)
}

// Has checks if the scope includes the given scope bits.
func (s Scope) Has(scope Scope) bool {
	return s&scope != 0
}

// containsValue checks if a slice contains a value.
func containsValue(slice []any, value any) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}

// MinValue creates a pointer to a float64 for use as Minimum.
func MinValue(v float64) *float64 {
	return &v
}

// MaxValue creates a pointer to a float64 for use as Maximum.
func MaxValue(v float64) *float64 {
	return &v
}
