package registry

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration nodes from TOML declaration files.
//
// A declaration file holds one or more [[node]] tables; each node's
// properties are subtables keyed by the full setting key:
//
//	[[node]]
//	id = "git"
//	title = "Git"
//	order = 20
//
//	[node.properties."git.enabled"]
//	type = "boolean"
//	default = true
//	description = "Whether git integration is enabled."
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads configuration nodes from the configured path.
func (l *TOMLLoader) Load() ([]*Node, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration nodes from a specific path.
func (l *TOMLLoader) LoadFrom(path string) ([]*Node, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading declaration file %s: %w", path, err)
	}

	return l.parse(path, data)
}

// LoadFromReader reads configuration nodes from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) ([]*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading declaration: %w", err)
	}

	return l.parse("<reader>", data)
}

// parse parses TOML data into configuration nodes.
func (l *TOMLLoader) parse(source string, data []byte) ([]*Node, error) {
	var file nodeFile
	if err := toml.Unmarshal(data, &file); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
			perr.Message = derr.String()
		}
		return nil, perr
	}

	nodes := make([]*Node, 0, len(file.Node))
	for i, decl := range file.Node {
		node, err := decl.build()
		if err != nil {
			return nil, fmt.Errorf("%s: node %d: %w", source, i+1, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// nodeFile is the on-disk shape of a TOML declaration file.
type nodeFile struct {
	Node []nodeDecl `toml:"node"`
}

// nodeDecl is the declared form of a configuration node.
type nodeDecl struct {
	ID         string                  `toml:"id"`
	Title      string                  `toml:"title"`
	Order      *int                    `toml:"order"`
	Properties map[string]propertyDecl `toml:"properties"`
	Children   []nodeDecl              `toml:"children"`
}

// propertyDecl is the declared form of a property schema.
type propertyDecl struct {
	Type               string   `toml:"type"`
	Default            any      `toml:"default"`
	Description        string   `toml:"description"`
	Scope              []string `toml:"scope"`
	Enum               []any    `toml:"enum"`
	Minimum            *float64 `toml:"minimum"`
	Maximum            *float64 `toml:"maximum"`
	Pattern            string   `toml:"pattern"`
	Deprecated         bool     `toml:"deprecated"`
	DeprecationMessage string   `toml:"deprecationMessage"`
	ReplacedBy         string   `toml:"replacedBy"`
	Tags               []string `toml:"tags"`
}

// build converts a declaration into a Node.
func (d nodeDecl) build() (*Node, error) {
	id := d.ID
	if id == "" {
		id = d.Title
	}
	if id == "" {
		return nil, fmt.Errorf("node missing id and title")
	}

	n := &Node{
		ID:    id,
		Title: d.Title,
		Order: d.Order,
	}

	if len(d.Properties) > 0 {
		n.Properties = make(map[string]*Property, len(d.Properties))
		for key, pd := range d.Properties {
			p, err := pd.build(key)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", key, err)
			}
			n.Properties[key] = p
		}
	}

	for _, cd := range d.Children {
		c, err := cd.build()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}

	return n, nil
}

// build converts a declaration into a Property for the given key.
func (d propertyDecl) build(key string) (*Property, error) {
	typ, err := parsePropertyType(d.Type)
	if err != nil {
		return nil, err
	}
	scope, err := ParseScope(d.Scope)
	if err != nil {
		return nil, err
	}

	return &Property{
		Key:                key,
		Type:               typ,
		Default:            d.Default,
		Description:        d.Description,
		Scope:              scope,
		Enum:               d.Enum,
		Minimum:            d.Minimum,
		Maximum:            d.Maximum,
		Pattern:            d.Pattern,
		Deprecated:         d.Deprecated,
		DeprecationMessage: d.DeprecationMessage,
		ReplacedBy:         d.ReplacedBy,
		Tags:               d.Tags,
	}, nil
}
