package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/prefsdoc/internal/settings"
	"github.com/dshills/prefsdoc/internal/textdoc"
)

func TestUpdateValue_PlainJSON(t *testing.T) {
	doc := textdoc.NewDocument(`{
  "editor.fontSize": 14,
  "files.autoSave": "off"
}`)

	if err := UpdateValue(doc, "editor.fontSize", 16); err != nil {
		t.Fatalf("UpdateValue error = %v", err)
	}

	content := doc.Content()
	if got := gjson.Get(content, `editor\.fontSize`).Int(); got != 16 {
		t.Errorf("editor.fontSize = %d, want 16", got)
	}
	if got := gjson.Get(content, `files\.autoSave`).String(); got != "off" {
		t.Errorf("files.autoSave = %q, want off", got)
	}
}

func TestUpdateValue_PlainJSONMissingKey(t *testing.T) {
	doc := textdoc.NewDocument(`{"editor.fontSize": 14}`)

	err := UpdateValue(doc, "no.such.key", 1)
	if !errors.Is(err, settings.ErrSettingNotFound) {
		t.Errorf("error = %v, want ErrSettingNotFound", err)
	}
	if doc.Version() != 0 {
		t.Error("document modified by failed update")
	}
}

func TestUpdateValue_PlainJSONOverrideEntry(t *testing.T) {
	doc := textdoc.NewDocument(`{
  "[markdown]": {
    "editor.lineNumbers": "off"
  }
}`)

	if err := UpdateValue(doc, "editor.lineNumbers", "on"); err != nil {
		t.Fatalf("UpdateValue error = %v", err)
	}
	if !strings.Contains(doc.Content(), `"editor.lineNumbers": "on"`) {
		t.Errorf("content = %s", doc.Content())
	}
}

func TestUpdateValue_CommentedDocument(t *testing.T) {
	doc := textdoc.NewDocument(`{
  // Controls the font size.
  "editor.fontSize": 14,
  "files.autoSave": "off"
}`)

	if err := UpdateValue(doc, "editor.fontSize", 18); err != nil {
		t.Fatalf("UpdateValue error = %v", err)
	}

	content := doc.Content()
	if !strings.Contains(content, "// Controls the font size.") {
		t.Error("comment line lost")
	}
	if !strings.Contains(content, `"editor.fontSize": 18,`) {
		t.Errorf("value not replaced in place:\n%s", content)
	}
	if !strings.Contains(content, `"files.autoSave": "off"`) {
		t.Error("unrelated setting disturbed")
	}
}

func TestUpdateValue_CommentedDocumentString(t *testing.T) {
	doc := textdoc.NewDocument(`{
  // Controls auto save.
  "files.autoSave": "off"
}`)

	if err := UpdateValue(doc, "files.autoSave", "afterDelay"); err != nil {
		t.Fatalf("UpdateValue error = %v", err)
	}
	if !strings.Contains(doc.Content(), `"files.autoSave": "afterDelay"`) {
		t.Errorf("content = %s", doc.Content())
	}
}

func TestUpdateValue_CommentedDocumentMissingKey(t *testing.T) {
	doc := textdoc.NewDocument(`{
  // A comment forces the parsed path.
  "editor.fontSize": 14
}`)

	err := UpdateValue(doc, "no.such.key", 1)
	if !errors.Is(err, settings.ErrSettingNotFound) {
		t.Errorf("error = %v, want ErrSettingNotFound", err)
	}
}

func TestUpdateValue_OverrideEntry(t *testing.T) {
	doc := textdoc.NewDocument(`{
  // Markdown overrides.
  "[markdown]": {
    "editor.lineNumbers": "off"
  }
}`)

	if err := UpdateValue(doc, "editor.lineNumbers", "on"); err != nil {
		t.Fatalf("UpdateValue error = %v", err)
	}
	if !strings.Contains(doc.Content(), `"editor.lineNumbers": "on"`) {
		t.Errorf("content = %s", doc.Content())
	}
}

func TestUpdateValue_ClosedDocument(t *testing.T) {
	doc := textdoc.NewDocument(`{"editor.fontSize": 14}`)
	doc.Close()

	err := UpdateValue(doc, "editor.fontSize", 16)
	if !errors.Is(err, textdoc.ErrDocumentClosed) {
		t.Errorf("error = %v, want ErrDocumentClosed", err)
	}
}
