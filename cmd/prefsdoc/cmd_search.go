package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/catalog"
	"github.com/dshills/prefsdoc/internal/settings/match"
	"github.com/dshills/prefsdoc/internal/settings/model"
	"github.com/dshills/prefsdoc/internal/settings/registry"
	"github.com/dshills/prefsdoc/internal/settings/search"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

var searchLog = commonlog.GetLogger("prefsdoc.search")

func newSearchCmd() *cobra.Command {
	var filePath string
	var rootProperty string
	var splice bool
	var slotSize int
	var tomlFiles []string
	var luaFiles []string
	var commonlyPath string
	var noBuiltins bool

	cmd := &cobra.Command{
		Use:   "search <filter>",
		Short: "Filter settings by free text",
		Long: "Search filters a settings file, or the rendered defaults when no file is\n" +
			"given, and reports which settings matched and where.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := args[0]
			if filePath != "" {
				return searchFile(filter, filePath, rootProperty)
			}
			reg, err := buildRegistry(tomlFiles, luaFiles, noBuiltins)
			if err != nil {
				return err
			}
			opts, err := catalogOptions(nil, commonlyPath)
			if err != nil {
				return err
			}
			return searchDefaults(filter, reg, opts, splice, slotSize)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "settings file to search (default: the rendered defaults)")
	cmd.Flags().StringVar(&rootProperty, "root", "", "property the settings root is nested under")
	cmd.Flags().BoolVar(&splice, "splice", false, "splice the matches into the rendered defaults as a result group")
	cmd.Flags().IntVar(&slotSize, "slot", 200, "line count reserved for the spliced result group")
	cmd.Flags().StringSliceVar(&tomlFiles, "toml", nil, "TOML declaration file to register (repeatable)")
	cmd.Flags().StringSliceVar(&luaFiles, "lua", nil, "Lua declaration script to register (repeatable)")
	cmd.Flags().StringVar(&commonlyPath, "commonly-used", "", "YAML file overriding the ranked commonly used keys")
	cmd.Flags().BoolVar(&noBuiltins, "no-builtins", false, "start from an empty registry instead of the built-in nodes")

	return cmd
}

func searchFile(filter, path, rootProperty string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}

	doc := textdoc.NewDocument(string(data))
	mdl := model.NewDocumentModel(doc, rootRule(rootProperty))
	defer mdl.Close()

	matcher, cleanup, err := buildMatcher(doc, mdl.Groups(), filter)
	if err != nil {
		return err
	}
	defer cleanup()

	matches, err := mdl.Filter(filter, nil, matcher)
	if err != nil {
		return err
	}
	absolutize(matches)
	printMatches(matches)
	return nil
}

func searchDefaults(filter string, reg *registry.Registry, opts []catalog.Option, splice bool, slotSize int) error {
	if splice && slotSize < 1 {
		return fmt.Errorf("slot size must be at least 1, got %d", slotSize)
	}
	dm := model.NewDefaultsModel(reg, opts...)
	defer dm.Close()

	doc := textdoc.NewDocument(dm.Content())
	matcher, cleanup, err := buildMatcher(doc, dm.Groups(), filter)
	if err != nil {
		return err
	}
	defer cleanup()

	if !splice {
		groups := dm.Groups()
		if len(groups) > 0 && groups[0].ID == catalog.CommonlyUsedID {
			// Ranked entries duplicate settings in their home groups.
			groups = groups[1:]
		}
		matches, err := match.FilterSettings(filter, groups, nil, matcher)
		if err != nil {
			return err
		}
		absolutize(matches)
		printMatches(matches)
		return nil
	}

	// Reserve an empty region after the rendered document and splice the
	// result group into it.
	startLine := doc.LineCount() + 1
	if err := doc.SetContent(doc.Content() + "\n" + strings.Repeat("\n", slotSize-1)); err != nil {
		return err
	}
	matches, err := dm.RenderFilteredRegion(doc, filter, matcher, startLine, slotSize)
	if err != nil {
		return err
	}
	printMatches(matches)

	last := startLine - 1
	for i := 0; i < slotSize; i++ {
		if doc.Line(startLine+i) != "" {
			last = startLine + i
		}
	}
	for n := startLine; n <= last; n++ {
		fmt.Println(doc.Line(n))
	}
	return nil
}

// buildMatcher indexes the settings visible in doc and runs the filter
// once, returning the resulting per-setting matcher.
func buildMatcher(doc *textdoc.Document, groups []*settings.Group, filter string) (match.SettingMatcher, func(), error) {
	ix, err := search.NewIndex(doc, groups)
	if err != nil {
		return nil, nil, fmt.Errorf("indexing settings: %w", err)
	}
	matcher, err := ix.Matcher(filter)
	if err != nil {
		_ = ix.Close()
		return nil, nil, err
	}
	return matcher, func() { _ = ix.Close() }, nil
}

// absolutize translates setting-relative match ranges back to document
// coordinates for display.
func absolutize(matches []*settings.FilterMatch) {
	for _, fm := range matches {
		fm.Matches = fm.AbsoluteMatches(fm.Setting.Range.Start.Line)
	}
}

func printMatches(matches []*settings.FilterMatch) {
	searchLog.Noticef("%d settings matched", len(matches))
	for _, fm := range matches {
		fmt.Print(fm.Setting.Key)
		for _, r := range fm.Matches {
			fmt.Printf(" %s", r)
		}
		fmt.Println()
	}
}
