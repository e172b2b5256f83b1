package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/settings/parse"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

// UpdateValue rewrites the value stored under key in doc, leaving every
// other byte of the document alone. Top-level keys in text free of
// comment markers take a JSON-path fast path; everything else goes
// through the parsed tree's value range. A key the document does not
// hold returns settings.ErrSettingNotFound.
func UpdateValue(doc *textdoc.Document, key string, value any) error {
	text := doc.Content()

	if !strings.Contains(text, "//") && !strings.Contains(text, "/*") {
		path := escapeKey(key)
		if gjson.Get(text, path).Exists() {
			out, err := sjson.Set(text, path, value)
			if err != nil {
				return err
			}
			return doc.SetContent(out)
		}
		// The key may still sit inside an override block, which the
		// path probe does not descend into.
	}

	p := parse.New(parse.BareRoot())
	groups := p.Parse(text, doc.OffsetToPosition)
	s := settings.FindSetting(groups, key)
	if s == nil || s.ValueRange.IsZero() {
		return settings.ErrSettingNotFound
	}
	return doc.ReplaceRange(s.ValueRange, string(marshalValue(value)))
}

// escapeKey quotes the characters the JSON path syntax treats as
// structure, so a dotted settings key addresses one member.
func escapeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func marshalValue(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte("null")
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}
