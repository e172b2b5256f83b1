package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/prefsdoc/internal/settings/registry"
)

// DefaultCommonlyUsed is the built-in ranked key list for the
// synthetic commonly-used group.
var DefaultCommonlyUsed = []string{
	"files.autoSave",
	"editor.fontSize",
	"editor.fontFamily",
	"editor.tabSize",
	"editor.wordWrap",
	"files.exclude",
	"ui.theme",
}

// commonlyUsedFile is the on-disk shape of a ranked-list override.
type commonlyUsedFile struct {
	Settings []string `yaml:"settings"`
}

// LoadCommonlyUsed reads a ranked key list from a YAML file:
//
//	settings:
//	  - files.autoSave
//	  - editor.fontSize
//
// Returns nil, nil if the file doesn't exist.
func LoadCommonlyUsed(fsys registry.FileSystem, path string) ([]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ranked list %s: %w", path, err)
	}

	var file commonlyUsedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing ranked list %s: %w", path, err)
	}
	return file.Settings, nil
}
