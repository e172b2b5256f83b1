package registry

import (
	"fmt"
	"io/fs"
	"os"
)

// Loader is the interface for configuration-node declaration loaders.
type Loader interface {
	// Load reads configuration nodes from the source.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() ([]*Node, error)
}

// FileLoader is the interface for loaders that read from files.
type FileLoader interface {
	Loader
	// LoadFrom reads configuration nodes from a specific path.
	LoadFrom(path string) ([]*Node, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// ParseError represents an error while parsing a declaration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parsePropertyType maps a declared type name to a PropertyType.
func parsePropertyType(name string) (PropertyType, error) {
	switch name {
	case "string", "":
		return TypeString, nil
	case "integer", "int":
		return TypeInt, nil
	case "number", "float":
		return TypeFloat, nil
	case "boolean", "bool":
		return TypeBool, nil
	case "array":
		return TypeArray, nil
	case "object":
		return TypeObject, nil
	case "enum":
		return TypeEnum, nil
	default:
		return TypeString, fmt.Errorf("unknown property type %q", name)
	}
}

// ParseScope maps declared scope names to a Scope bitmask.
// An empty list means ScopeAll.
func ParseScope(names []string) (Scope, error) {
	if len(names) == 0 {
		return ScopeAll, nil
	}

	var scope Scope
	for _, name := range names {
		switch name {
		case "all":
			scope |= ScopeAll
		case "global":
			scope |= ScopeGlobal
		case "window":
			scope |= ScopeWindow
		case "workspace":
			scope |= ScopeWorkspace
		case "resource":
			scope |= ScopeResource
		case "language":
			scope |= ScopeLanguage
		default:
			return 0, fmt.Errorf("unknown scope %q", name)
		}
	}
	return scope, nil
}
