package registry

import (
	"errors"
	"testing"
)

func TestLuaLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/nodes.lua", `
return {
  {
    id = "git",
    title = "Git",
    order = 20,
    properties = {
      ["git.enabled"] = {
        type = "boolean",
        default = true,
        description = "Whether git integration is enabled.",
      },
      ["git.path"] = {
        type = "string",
        default = "git",
        scope = { "global", "workspace" },
      },
    },
  },
  {
    id = "terminal",
    title = "Terminal",
  },
}
`)

	loader := NewLuaLoaderWithFS(memfs, "/nodes.lua")
	nodes, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}

	git := nodes[0]
	if git.ID != "git" || git.Title != "Git" {
		t.Errorf("node = %q/%q, want git/Git", git.ID, git.Title)
	}
	if git.Order == nil || *git.Order != 20 {
		t.Errorf("order = %v, want 20", git.Order)
	}

	enabled := git.Properties["git.enabled"]
	if enabled == nil {
		t.Fatal("git.enabled not declared")
	}
	if enabled.Type != TypeBool {
		t.Errorf("git.enabled type = %s, want boolean", enabled.Type)
	}
	if enabled.Default != true {
		t.Errorf("git.enabled default = %v, want true", enabled.Default)
	}
	if enabled.Description != "Whether git integration is enabled." {
		t.Errorf("git.enabled description = %q", enabled.Description)
	}

	path := git.Properties["git.path"]
	if path == nil {
		t.Fatal("git.path not declared")
	}
	if path.Scope != ScopeGlobal|ScopeWorkspace {
		t.Errorf("git.path scope = %s, want [global workspace]", path.Scope)
	}
}

func TestLuaLoader_ScalarScopeAndNumbers(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/nodes.lua", `
return {
  {
    id = "zoom",
    properties = {
      ["zoom.level"] = {
        type = "integer",
        default = 0,
        scope = "window",
        minimum = -5,
        maximum = 5,
      },
      ["zoom.factor"] = {
        type = "number",
        default = 1.25,
      },
    },
  },
}
`)

	loader := NewLuaLoaderWithFS(memfs, "/nodes.lua")
	nodes, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	level := nodes[0].Properties["zoom.level"]
	if level.Scope != ScopeWindow {
		t.Errorf("scope = %s, want [window]", level.Scope)
	}
	if level.Default != int64(0) {
		t.Errorf("default = %v (%T), want int64(0)", level.Default, level.Default)
	}
	if level.Minimum == nil || *level.Minimum != -5 {
		t.Errorf("minimum = %v, want -5", level.Minimum)
	}
	if level.Maximum == nil || *level.Maximum != 5 {
		t.Errorf("maximum = %v, want 5", level.Maximum)
	}

	factor := nodes[0].Properties["zoom.factor"]
	if factor.Default != 1.25 {
		t.Errorf("default = %v (%T), want 1.25", factor.Default, factor.Default)
	}
}

func TestLuaLoader_ComputedDeclarations(t *testing.T) {
	// Scripts may build the node table programmatically.
	memfs := NewMemFS()
	memfs.AddFile("/nodes.lua", `
local nodes = {}
for i = 1, 3 do
  nodes[i] = {
    id = "pane" .. i,
    title = "Pane " .. i,
    order = i,
  }
end
return nodes
`)

	loader := NewLuaLoaderWithFS(memfs, "/nodes.lua")
	nodes, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}
	if nodes[2].ID != "pane3" || *nodes[2].Order != 3 {
		t.Errorf("nodes[2] = %q order %v", nodes[2].ID, nodes[2].Order)
	}
}

func TestLuaLoader_SingleNodeTable(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/nodes.lua", `
return {
  id = "solo",
  title = "Solo",
}
`)

	loader := NewLuaLoaderWithFS(memfs, "/nodes.lua")
	nodes, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "solo" {
		t.Errorf("nodes = %v, want one solo node", nodes)
	}
}

func TestLuaLoader_LoadNonExistent(t *testing.T) {
	loader := NewLuaLoaderWithFS(NewMemFS(), "/nonexistent.lua")

	nodes, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if nodes != nil {
		t.Error("expected nil nodes for non-existent file")
	}
}

func TestLuaLoader_SyntaxError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/broken.lua", `return {`)

	loader := NewLuaLoaderWithFS(memfs, "/broken.lua")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error for broken script")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
}

func TestLuaLoader_NonTableReturn(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/nodes.lua", `return 42`)

	loader := NewLuaLoaderWithFS(memfs, "/nodes.lua")
	if _, err := loader.Load(); err == nil {
		t.Error("expected error for non-table return")
	}
}
