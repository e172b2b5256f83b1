package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/model"
	"github.com/dshills/prefsdoc/internal/settings/parse"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

var parseLog = commonlog.GetLogger("prefsdoc.parse")

func newParseCmd() *cobra.Command {
	var outputFormat string
	var rootProperty string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a settings file and report its groups and ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read settings file: %w", err)
			}

			doc := textdoc.NewDocument(string(data))
			mdl := model.NewDocumentModel(doc, rootRule(rootProperty))
			defer mdl.Close()

			groups := mdl.Groups()
			parseLog.Infof("parsed %d groups from %s", len(groups), args[0])

			switch outputFormat {
			case "json":
				return writeGroupsJSON(os.Stdout, groups)
			case "text":
				writeGroupsText(os.Stdout, groups)
				return nil
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVar(&rootProperty, "root", "", "property the settings root is nested under (default: document root)")

	return cmd
}

// rootRule picks the root-detection rule for a command-line invocation.
func rootRule(property string) parse.RootRule {
	if property == "" {
		return parse.BareRoot()
	}
	return parse.NestedRoot(property)
}

type rangeReport struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

func reportRange(r textdoc.Range) rangeReport {
	return rangeReport{
		StartLine:   r.Start.Line,
		StartColumn: r.Start.Column,
		EndLine:     r.End.Line,
		EndColumn:   r.End.Column,
	}
}

type settingReport struct {
	Key         string           `json:"key"`
	Value       any              `json:"value,omitempty"`
	Description []string         `json:"description,omitempty"`
	Range       rangeReport      `json:"range"`
	KeyRange    rangeReport      `json:"keyRange"`
	ValueRange  rangeReport      `json:"valueRange"`
	Overrides   []*settingReport `json:"overrides,omitempty"`
}

type groupReport struct {
	ID       string           `json:"id,omitempty"`
	Title    string           `json:"title,omitempty"`
	Range    rangeReport      `json:"range"`
	Settings []*settingReport `json:"settings"`
}

func reportSetting(s *settings.Setting) *settingReport {
	r := &settingReport{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		Range:       reportRange(s.Range),
		KeyRange:    reportRange(s.KeyRange),
		ValueRange:  reportRange(s.ValueRange),
	}
	for _, o := range s.Overrides {
		r.Overrides = append(r.Overrides, reportSetting(o))
	}
	return r
}

func writeGroupsJSON(w io.Writer, groups []*settings.Group) error {
	report := make([]*groupReport, 0, len(groups))
	for _, g := range groups {
		gr := &groupReport{ID: g.ID, Title: g.Title, Range: reportRange(g.Range)}
		for _, s := range g.Settings() {
			gr.Settings = append(gr.Settings, reportSetting(s))
		}
		report = append(report, gr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeGroupsText(w io.Writer, groups []*settings.Group) {
	for _, g := range groups {
		if g.Title != "" {
			fmt.Fprintf(w, "%s %s\n", g.Title, g.Range)
		} else {
			fmt.Fprintf(w, "group %s\n", g.Range)
		}
		for _, s := range g.Settings() {
			writeSettingText(w, s, 1)
		}
	}
}

func writeSettingText(w io.Writer, s *settings.Setting, depth int) {
	indent := strings.Repeat("  ", depth)
	if s.IsOverride() {
		fmt.Fprintf(w, "%s%s %s\n", indent, s.Key, s.Range)
		for _, o := range s.Overrides {
			writeSettingText(w, o, depth+1)
		}
		return
	}
	fmt.Fprintf(w, "%s%s = %s %s\n", indent, s.Key, formatValue(s.Value), s.Range)
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
