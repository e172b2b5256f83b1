// Package search provides full-text matching over a rendered settings
// document, backed by an in-memory bleve index.
//
// Each top-level setting's source block (description comments, key, and
// value text) becomes one indexed document. Query hits come back as
// term locations, which are mapped from block-relative byte offsets to
// absolute line/column ranges in the settings document.
package search

import (
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/match"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

// Index is a disposable full-text index over one settings tree.
type Index struct {
	idx    bleve.Index
	blocks map[string]*block
}

// block keeps a setting's source text and the geometry needed to map
// byte offsets inside it back to document positions.
type block struct {
	setting *settings.Setting
	text    string
	start   textdoc.Position
	lineOff []int
}

// NewIndex indexes every ranged top-level setting of groups, slicing
// each setting's block text out of doc. Settings without ranges, such
// as the synthetic commonly-used group's, are not indexed.
func NewIndex(doc *textdoc.Document, groups []*settings.Group) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, err
	}

	ix := &Index{idx: idx, blocks: map[string]*block{}}
	content := doc.Content()
	for _, g := range groups {
		for _, s := range g.Settings() {
			if s.Range.IsZero() {
				continue
			}
			from := doc.PositionToOffset(s.Range.Start)
			to := doc.PositionToOffset(s.Range.End)
			if from >= to || to > len(content) {
				continue
			}
			b := newBlock(s, content[from:to])
			ix.blocks[s.Key] = b
			err := idx.Index(s.Key, map[string]any{
				"key":  s.Key,
				"text": b.text,
			})
			if err != nil {
				_ = idx.Close()
				return nil, err
			}
		}
	}
	return ix, nil
}

// Close releases the underlying index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

// Matches runs query against the indexed settings and returns, per
// setting key, the absolute ranges where query terms occur. A setting
// matched only through its exact key reports its key range.
func (ix *Index) Matches(query string) (map[string][]textdoc.Range, error) {
	terms := strings.Fields(strings.TrimSpace(query))
	if len(terms) == 0 {
		return nil, settings.ErrEmptyFilter
	}

	clauses := make([]bquery.Query, 0, len(terms))
	for _, t := range terms {
		mq := bleve.NewMatchQuery(t)
		mq.SetField("text")
		clauses = append(clauses, mq)
	}
	exact := bleve.NewTermQuery(query)
	exact.SetField("key")
	q := bleve.NewDisjunctionQuery(bleve.NewConjunctionQuery(clauses...), exact)

	limit := len(ix.blocks)
	if limit < 1 {
		limit = 1
	}
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.IncludeLocations = true

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := map[string][]textdoc.Range{}
	for _, hit := range res.Hits {
		b, ok := ix.blocks[hit.ID]
		if !ok {
			continue
		}
		var ranges []textdoc.Range
		for field, termLocs := range hit.Locations {
			if field != "text" {
				continue
			}
			for _, locs := range termLocs {
				for _, l := range locs {
					ranges = append(ranges, b.rangeAt(int(l.Start), int(l.End)))
				}
			}
		}
		if len(ranges) == 0 {
			// Exact-key hit with no term locations.
			ranges = []textdoc.Range{b.setting.KeyRange}
		}
		sort.Slice(ranges, func(i, j int) bool {
			return ranges[i].Start.Compare(ranges[j].Start) < 0
		})
		out[hit.ID] = ranges
	}
	return out, nil
}

// Matcher runs the query once and wraps the result as a per-setting
// matcher for the filtering layer.
func (ix *Index) Matcher(query string) (match.SettingMatcher, error) {
	hits, err := ix.Matches(query)
	if err != nil {
		return nil, err
	}
	return func(s *settings.Setting) []textdoc.Range {
		return hits[s.Key]
	}, nil
}

func newBlock(s *settings.Setting, text string) *block {
	b := &block{setting: s, text: text, start: s.Range.Start}
	b.lineOff = []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			b.lineOff = append(b.lineOff, i+1)
		}
	}
	return b
}

// rangeAt maps a byte span inside the block text to an absolute
// document range.
func (b *block) rangeAt(from, to int) textdoc.Range {
	return textdoc.Range{Start: b.position(from), End: b.position(to)}
}

func (b *block) position(off int) textdoc.Position {
	line := sort.Search(len(b.lineOff), func(i int) bool { return b.lineOff[i] > off }) - 1
	if line < 0 {
		line = 0
	}
	col := off - b.lineOff[line] + 1
	if line == 0 {
		// The block starts mid-line in the document.
		return textdoc.Position{Line: b.start.Line, Column: b.start.Column + col - 1}
	}
	return textdoc.Position{Line: b.start.Line + line, Column: col}
}

func buildMapping() mapping.IndexMapping {
	idxMapping := bleve.NewIndexMapping()
	idxMapping.DefaultAnalyzer = "standard"

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = true
	keyword.Index = true

	text := bleve.NewTextFieldMapping()
	text.Analyzer = "standard"
	text.Store = true
	text.Index = true

	doc.AddFieldMappingsAt("key", keyword)
	doc.AddFieldMappingsAt("text", text)

	idxMapping.DefaultMapping = doc
	return idxMapping
}
