// Package settings defines the data model shared by the settings-document
// components: settings, sections, and groups annotated with source ranges.
//
// A parsed or rendered settings document is a sequence of groups. Each
// group holds sections, each section holds key/value settings, and every
// element carries the 1-based line/column range it occupies in the text.
// Settings keyed by a bracketed qualifier such as "[go]" are override
// blocks whose nested entries apply only within that scope.
//
// The types here are pure data. They are produced by the parse package
// (from document text) and by the catalog package (from the registry),
// stamped with ranges by the render package, and queried through the
// match and model packages.
package settings
