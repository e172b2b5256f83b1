package registry

// RegisterBuiltins registers the built-in configuration node set.
func (r *Registry) RegisterBuiltins() {
	r.MustRegister(&Node{
		ID:    "editor",
		Title: "Editor",
		Order: OrderOf(OrderEditor),
		Properties: map[string]*Property{
			"editor.fontSize": {
				Key:         "editor.fontSize",
				Type:        TypeInt,
				Default:     14,
				Description: "Font size in pixels.",
				Scope:       ScopeAll,
				Minimum:     MinValue(6),
				Maximum:     MaxValue(100),
				Tags:        []string{"editor", "font"},
			},
			"editor.fontFamily": {
				Key:         "editor.fontFamily",
				Type:        TypeString,
				Default:     "monospace",
				Description: "Font family for the editor.",
				Scope:       ScopeAll,
				Tags:        []string{"editor", "font"},
			},
			"editor.tabSize": {
				Key:         "editor.tabSize",
				Type:        TypeInt,
				Default:     4,
				Description: "The number of spaces a tab is equal to.",
				Scope:       ScopeAll,
				Minimum:     MinValue(1),
				Maximum:     MaxValue(16),
				Tags:        []string{"editor", "formatting"},
			},
			"editor.insertSpaces": {
				Key:         "editor.insertSpaces",
				Type:        TypeBool,
				Default:     true,
				Description: "Insert spaces when pressing Tab.",
				Scope:       ScopeAll,
				Tags:        []string{"editor", "formatting"},
			},
			"editor.wordWrap": {
				Key:         "editor.wordWrap",
				Type:        TypeEnum,
				Default:     "off",
				Description: "Controls how lines should wrap.",
				Scope:       ScopeAll,
				Enum:        []any{"off", "on", "wordWrapColumn", "bounded"},
				Tags:        []string{"editor", "display"},
			},
			"editor.lineNumbers": {
				Key:         "editor.lineNumbers",
				Type:        TypeEnum,
				Default:     "on",
				Description: "Controls the display of line numbers.",
				Scope:       ScopeAll,
				Enum:        []any{"off", "on", "relative", "interval"},
				Tags:        []string{"editor", "display"},
			},
			"editor.rulers": {
				Key:         "editor.rulers",
				Type:        TypeArray,
				Default:     []any{},
				Description: "Columns at which to render vertical rulers.",
				Scope:       ScopeAll,
				Tags:        []string{"editor", "display"},
			},
			"editor.lineHeight": {
				Key:         "editor.lineHeight",
				Type:        TypeFloat,
				Default:     1.5,
				Description: "Line height multiplier.",
				Scope:       ScopeAll,
				Minimum:     MinValue(1.0),
				Maximum:     MaxValue(3.0),
				Tags:        []string{"editor", "font"},
			},
			"editor.autoSave": {
				Key:                "editor.autoSave",
				Type:               TypeEnum,
				Default:            "off",
				Description:        "Controls auto-save behavior.",
				Scope:              ScopeAll,
				Enum:               []any{"off", "afterDelay", "onFocusChange"},
				Deprecated:         true,
				DeprecationMessage: "Use files.autoSave instead.",
				ReplacedBy:         "files.autoSave",
				Tags:               []string{"editor"},
			},
			"[markdown]": {
				Key:  "[markdown]",
				Type: TypeObject,
				Default: map[string]any{
					"editor.wordWrap":     "on",
					"editor.insertSpaces": false,
				},
				Description: "Settings applied when editing Markdown files.",
				Scope:       ScopeLanguage,
				Tags:        []string{"editor", "override"},
			},
		},
	})

	r.MustRegister(&Node{
		ID:    "files",
		Title: "Files",
		Order: OrderOf(OrderFiles),
		Properties: map[string]*Property{
			"files.encoding": {
				Key:         "files.encoding",
				Type:        TypeString,
				Default:     "utf-8",
				Description: "Default file encoding.",
				Scope:       ScopeAll,
				Tags:        []string{"files"},
			},
			"files.eol": {
				Key:         "files.eol",
				Type:        TypeEnum,
				Default:     "auto",
				Description: "Default end-of-line character.",
				Scope:       ScopeAll,
				Enum:        []any{"auto", "lf", "crlf"},
				Tags:        []string{"files"},
			},
			"files.exclude": {
				Key:  "files.exclude",
				Type: TypeObject,
				Default: map[string]any{
					"**/.git":      true,
					"**/.DS_Store": true,
				},
				Description: "Glob patterns for excluding files and folders.",
				Scope:       ScopeResource,
				Tags:        []string{"files"},
			},
			"files.trimTrailingWhitespace": {
				Key:         "files.trimTrailingWhitespace",
				Type:        TypeBool,
				Default:     false,
				Description: "Trim trailing whitespace when saving.",
				Scope:       ScopeAll,
				Tags:        []string{"files", "formatting"},
			},
			"files.insertFinalNewline": {
				Key:         "files.insertFinalNewline",
				Type:        TypeBool,
				Default:     true,
				Description: "Insert a final newline at end of file when saving.",
				Scope:       ScopeAll,
				Tags:        []string{"files", "formatting"},
			},
			"files.autoSave": {
				Key:         "files.autoSave",
				Type:        TypeEnum,
				Default:     "off",
				Description: "Controls auto-save behavior.",
				Scope:       ScopeGlobal,
				Enum:        []any{"off", "afterDelay", "onFocusChange", "onWindowChange"},
				Tags:        []string{"files"},
			},
			"files.autoSaveDelay": {
				Key:         "files.autoSaveDelay",
				Type:        TypeInt,
				Default:     1000,
				Description: "Auto-save delay in milliseconds.",
				Scope:       ScopeGlobal,
				Minimum:     MinValue(100),
				Maximum:     MaxValue(60000),
				Tags:        []string{"files"},
			},
		},
	})

	r.MustRegister(&Node{
		ID:    "ui",
		Title: "User Interface",
		Order: OrderOf(OrderUI),
		Properties: map[string]*Property{
			"ui.theme": {
				Key:         "ui.theme",
				Type:        TypeString,
				Default:     "dark",
				Description: "Color theme name.",
				Scope:       ScopeGlobal,
				Tags:        []string{"ui", "theme"},
			},
			"ui.zoomLevel": {
				Key:         "ui.zoomLevel",
				Type:        TypeInt,
				Default:     0,
				Description: "Zoom applied to the whole window.",
				Scope:       ScopeWindow,
				Minimum:     MinValue(-5),
				Maximum:     MaxValue(5),
				Tags:        []string{"ui"},
			},
			"ui.showStatusBar": {
				Key:         "ui.showStatusBar",
				Type:        TypeBool,
				Default:     true,
				Description: "Show the status bar at the bottom.",
				Scope:       ScopeGlobal,
				Tags:        []string{"ui", "statusbar"},
			},
			"ui.showTabBar": {
				Key:         "ui.showTabBar",
				Type:        TypeBool,
				Default:     true,
				Description: "Show the tab bar at the top.",
				Scope:       ScopeGlobal,
				Tags:        []string{"ui", "tabs"},
			},
			"ui.sideBarLocation": {
				Key:         "ui.sideBarLocation",
				Type:        TypeEnum,
				Default:     "left",
				Description: "Controls the location of the sidebar.",
				Scope:       ScopeGlobal,
				Enum:        []any{"left", "right"},
				Tags:        []string{"ui"},
			},
		},
	})

	r.MustRegister(&Node{
		ID:    "input",
		Title: "Input",
		Order: OrderOf(OrderInput),
		Properties: map[string]*Property{
			"input.keyTimeout": {
				Key:         "input.keyTimeout",
				Type:        TypeInt,
				Default:     500,
				Description: "Timeout in milliseconds for multi-key sequences.",
				Scope:       ScopeGlobal,
				Minimum:     MinValue(0),
				Maximum:     MaxValue(5000),
				Tags:        []string{"input"},
			},
			"input.mouseSupport": {
				Key:         "input.mouseSupport",
				Type:        TypeBool,
				Default:     true,
				Description: "Enable mouse support.",
				Scope:       ScopeGlobal,
				Tags:        []string{"input"},
			},
		},
	})

	// Untitled and unordered: assembles into a group keyed by its own
	// ID, after every ordered node.
	r.MustRegister(&Node{
		ID: "experimental",
		Properties: map[string]*Property{
			"experimental.incrementalParse": {
				Key:         "experimental.incrementalParse",
				Type:        TypeBool,
				Default:     false,
				Description: "Re-parse only changed regions of the settings document.",
				Scope:       ScopeGlobal,
				Tags:        []string{"experimental"},
			},
		},
	})
}
