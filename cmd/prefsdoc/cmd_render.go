package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/text/language"

	"github.com/dshills/prefsdoc/internal/l10n"
	"github.com/dshills/prefsdoc/internal/settings/catalog"
	"github.com/dshills/prefsdoc/internal/settings/model"
	"github.com/dshills/prefsdoc/internal/settings/registry"
)

var renderLog = commonlog.GetLogger("prefsdoc.render")

func newRenderCmd() *cobra.Command {
	var tomlFiles []string
	var luaFiles []string
	var commonlyPath string
	var scopeNames []string
	var lang string
	var noBuiltins bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the default settings document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyLanguage(lang); err != nil {
				return err
			}
			reg, err := buildRegistry(tomlFiles, luaFiles, noBuiltins)
			if err != nil {
				return err
			}
			opts, err := catalogOptions(scopeNames, commonlyPath)
			if err != nil {
				return err
			}

			dm := model.NewDefaultsModel(reg, opts...)
			defer dm.Close()

			groups := dm.Groups()
			count := 0
			for _, g := range groups {
				count += len(g.Settings())
			}
			renderLog.Infof("rendered %d groups, %d settings", len(groups), count)

			fmt.Println(dm.Content())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tomlFiles, "toml", nil, "TOML declaration file to register (repeatable)")
	cmd.Flags().StringSliceVar(&luaFiles, "lua", nil, "Lua declaration script to register (repeatable)")
	cmd.Flags().StringVar(&commonlyPath, "commonly-used", "", "YAML file overriding the ranked commonly used keys")
	cmd.Flags().StringSliceVar(&scopeNames, "scope", nil, "limit to properties configurable at these scopes (global, window, workspace, resource, language)")
	cmd.Flags().StringVar(&lang, "lang", "", "language for titles and banners (BCP 47 tag, e.g. de)")
	cmd.Flags().BoolVar(&noBuiltins, "no-builtins", false, "start from an empty registry instead of the built-in nodes")

	return cmd
}

// buildRegistry assembles the schema registry from the built-in nodes
// plus any declaration files given on the command line.
func buildRegistry(tomlFiles, luaFiles []string, noBuiltins bool) (*registry.Registry, error) {
	reg := registry.New()
	if !noBuiltins {
		reg.RegisterBuiltins()
	}

	var loaders []registry.Loader
	for _, path := range tomlFiles {
		loaders = append(loaders, registry.NewTOMLLoader(path))
	}
	for _, path := range luaFiles {
		loaders = append(loaders, registry.NewLuaLoader(path))
	}
	for _, loader := range loaders {
		nodes, err := loader.Load()
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			if err := reg.Register(node); err != nil {
				return nil, fmt.Errorf("registering node %s: %w", node.ID, err)
			}
		}
	}
	return reg, nil
}

func catalogOptions(scopeNames []string, commonlyPath string) ([]catalog.Option, error) {
	var opts []catalog.Option
	if len(scopeNames) > 0 {
		scope, err := registry.ParseScope(scopeNames)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithScope(scope))
	}
	if commonlyPath != "" {
		keys, err := catalog.LoadCommonlyUsed(registry.DefaultFS(), commonlyPath)
		if err != nil {
			return nil, err
		}
		if keys == nil {
			return nil, fmt.Errorf("ranked list %s does not exist", commonlyPath)
		}
		opts = append(opts, catalog.WithCommonlyUsed(keys))
	}
	return opts, nil
}

// applyLanguage switches the localized document strings. An empty tag
// keeps the default.
func applyLanguage(lang string) error {
	if lang == "" {
		return nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", lang, err)
	}
	l10n.SetLanguage(tag)
	return nil
}
