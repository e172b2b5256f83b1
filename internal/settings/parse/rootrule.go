package parse

// RootRule decides whether an object about to be opened is the settings
// root, the object whose direct members form the top-level settings
// list. property names the member whose value the object is, or "" when
// the object is the document root or an array element. path holds the
// names of the enclosing members, outermost first, excluding property
// itself.
//
// The rule is consulted until it matches once; the first match fixes
// the settings depth for the rest of the document.
type RootRule func(property string, path []string) bool

// BareRoot matches the outermost object itself. An object that is an
// element of a top-level array also qualifies, which is how bracketed
// default-settings content parses into one group per object.
func BareRoot() RootRule {
	return func(property string, path []string) bool {
		return property == "" && len(path) == 0
	}
}

// NestedRoot matches the object stored under the named top-level
// member, as in {"settings": {...}}.
func NestedRoot(name string) RootRule {
	return func(property string, path []string) bool {
		return property == name && len(path) == 0
	}
}
