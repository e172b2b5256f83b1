package registry

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// LuaLoader loads configuration nodes from Lua declaration scripts.
//
// A script runs in a sandboxed state (no io, os, debug or package
// libraries) and returns an array of node tables:
//
//	return {
//	  {
//	    id = "git",
//	    title = "Git",
//	    order = 20,
//	    properties = {
//	      ["git.enabled"] = {
//	        type = "boolean",
//	        default = true,
//	        description = "Whether git integration is enabled.",
//	      },
//	    },
//	  },
//	}
//
// A property's scope may be a single name or a list of names.
type LuaLoader struct {
	fs   FileSystem
	path string
}

// NewLuaLoader creates a new Lua loader for the given path.
func NewLuaLoader(path string) *LuaLoader {
	return &LuaLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewLuaLoaderWithFS creates a Lua loader with a custom file system.
func NewLuaLoaderWithFS(fs FileSystem, path string) *LuaLoader {
	return &LuaLoader{
		fs:   fs,
		path: path,
	}
}

// Load runs the configured script and returns its nodes.
func (l *LuaLoader) Load() ([]*Node, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom runs the script at a specific path and returns its nodes.
func (l *LuaLoader) LoadFrom(path string) ([]*Node, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading declaration script %s: %w", path, err)
	}

	return l.run(path, string(data))
}

// run executes a declaration script and decodes its return value.
func (l *LuaLoader) run(source, code string) ([]*Node, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Only safe libraries: no io, os, debug or package.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	if err := L.DoString(code); err != nil {
		return nil, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}

	ret := L.Get(-1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: script must return a table of nodes, got %s", source, ret.Type())
	}

	decoded := luaToGo(tbl)
	list, ok := decoded.([]any)
	if !ok {
		// A single node table decodes as a map.
		m, mok := decoded.(map[string]any)
		if !mok {
			return nil, fmt.Errorf("%s: script must return an array of node tables", source)
		}
		list = []any{m}
	}

	nodes := make([]*Node, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: node %d: expected table, got %T", source, i+1, item)
		}
		node, err := decodeNode(m)
		if err != nil {
			return nil, fmt.Errorf("%s: node %d: %w", source, i+1, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// decodeNode converts a decoded Lua table into a Node.
func decodeNode(m map[string]any) (*Node, error) {
	n := &Node{}
	if v, ok := m["id"].(string); ok {
		n.ID = v
	}
	if v, ok := m["title"].(string); ok {
		n.Title = v
	}
	if v, ok := m["order"]; ok {
		o, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("order must be a number, got %T", v)
		}
		n.Order = OrderOf(o)
	}
	if n.ID == "" {
		n.ID = n.Title
	}
	if n.ID == "" {
		return nil, fmt.Errorf("node missing id and title")
	}

	if props, ok := m["properties"].(map[string]any); ok {
		n.Properties = make(map[string]*Property, len(props))
		for key, pv := range props {
			pm, ok := pv.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %s: expected table, got %T", key, pv)
			}
			p, err := decodeProperty(key, pm)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", key, err)
			}
			n.Properties[key] = p
		}
	}

	if children, ok := m["children"].([]any); ok {
		for i, cv := range children {
			cm, ok := cv.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("child %d: expected table, got %T", i+1, cv)
			}
			c, err := decodeNode(cm)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i+1, err)
			}
			n.Children = append(n.Children, c)
		}
	}

	return n, nil
}

// decodeProperty converts a decoded Lua table into a Property.
func decodeProperty(key string, m map[string]any) (*Property, error) {
	typeName, _ := m["type"].(string)
	typ, err := parsePropertyType(typeName)
	if err != nil {
		return nil, err
	}

	var scopeNames []string
	switch v := m["scope"].(type) {
	case nil:
	case string:
		scopeNames = []string{v}
	case []any:
		scopeNames, err = toStringSlice(v)
		if err != nil {
			return nil, fmt.Errorf("scope: %w", err)
		}
	default:
		return nil, fmt.Errorf("scope must be a name or list of names, got %T", v)
	}
	scope, err := ParseScope(scopeNames)
	if err != nil {
		return nil, err
	}

	p := &Property{
		Key:     key,
		Type:    typ,
		Default: m["default"],
		Scope:   scope,
	}
	if v, ok := m["description"].(string); ok {
		p.Description = v
	}
	if v, ok := m["enum"].([]any); ok {
		p.Enum = v
	}
	if v, ok := m["minimum"]; ok {
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("minimum must be a number, got %T", v)
		}
		p.Minimum = MinValue(f)
	}
	if v, ok := m["maximum"]; ok {
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("maximum must be a number, got %T", v)
		}
		p.Maximum = MaxValue(f)
	}
	if v, ok := m["pattern"].(string); ok {
		p.Pattern = v
	}
	if v, ok := m["deprecated"].(bool); ok {
		p.Deprecated = v
	}
	if v, ok := m["deprecationMessage"].(string); ok {
		p.DeprecationMessage = v
	}
	if v, ok := m["replacedBy"].(string); ok {
		p.ReplacedBy = v
	}
	if v, ok := m["tags"].([]any); ok {
		p.Tags, err = toStringSlice(v)
		if err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}
	}

	return p, nil
}

// luaToGo converts a Lua value to a Go value.
func luaToGo(lv lua.LValue) any {
	return luaToGoVisited(lv, make(map[*lua.LTable]bool))
}

// luaToGoVisited converts a Lua value, tracking visited tables.
func luaToGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		// Preserve integers
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil // Break circular reference
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo converts a Lua table to a Go slice or map. A table whose
// keys form the contiguous sequence 1..n converts to a slice.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	isArray := true
	maxN := 0
	count := 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if kn, ok := k.(lua.LNumber); ok {
			n := int(kn)
			if float64(n) == float64(kn) && n > 0 {
				if n > maxN {
					maxN = n
				}
				return
			}
		}
		isArray = false
	})
	if count != maxN {
		isArray = false
	}

	if isArray && maxN > 0 {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = luaToGoVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = luaToGoVisited(v, visited)
	})
	return m
}

// toInt converts a decoded Lua number to an int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// toFloat converts a decoded Lua number to a float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// toStringSlice converts a decoded Lua array to strings.
func toStringSlice(list []any) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}
