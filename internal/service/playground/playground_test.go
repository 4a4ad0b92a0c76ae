package playground

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestDocumentEmbedsCodeAndCSS(t *testing.T) {
	doc := Document("<button>Hi</button>", "button{color:red;}")

	if !strings.Contains(doc, "<style>button{color:red;}</style>") {
		t.Errorf("document missing stylesheet: %q", doc)
	}
	if !strings.Contains(doc, "<button>Hi</button></body>") {
		t.Errorf("document missing markup: %q", doc)
	}
	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Errorf("document missing doctype: %q", doc)
	}
}

func TestApplyRewritesInlineStyleAndText(t *testing.T) {
	code := `<button style={{ background: '#fff', color: '#000' }}>Click me</button>`

	newCode, _ := Apply(code, "", Properties{
		Text:       "Buy now",
		Color:      "#ffffff",
		Background: "#e11d48",
		FontSizePx: 18,
		RadiusPx:   4,
	})

	want := `<button style={{ background: '#e11d48', color: '#ffffff', fontSize: '18px', borderRadius: '4px' }}>Buy now</button>`
	if newCode != want {
		t.Errorf("unexpected code:\n got %q\nwant %q", newCode, want)
	}
}

func TestApplyOnlyTouchesFirstElement(t *testing.T) {
	code := `<div><button>One</button><button>Two</button></div>`

	newCode, _ := Apply(code, "", Properties{Text: "First"})

	if !strings.Contains(newCode, ">First<") {
		t.Errorf("first text node not replaced: %q", newCode)
	}
	if !strings.Contains(newCode, ">One</button><button>Two</button>") {
		t.Errorf("later text nodes should be untouched: %q", newCode)
	}
}

func TestApplyRewritesStylesheetDeclarations(t *testing.T) {
	css := "button { background: #fff; color: #000; font-size: 14px; border-radius: 8px; padding: 4px; }"

	_, newCSS := Apply("", css, Properties{
		Color:      "#ffffff",
		Background: "#e11d48",
		FontSizePx: 18,
		RadiusPx:   4,
	})

	for _, want := range []string{
		"background: #e11d48;",
		"color: #ffffff;",
		"font-size: 18px;",
		"border-radius: 4px;",
		"padding: 4px;",
	} {
		if !strings.Contains(newCSS, want) {
			t.Errorf("stylesheet missing %q: %q", want, newCSS)
		}
	}
}

func TestApplyDoesNotTouchSelectors(t *testing.T) {
	// "color" appears in the selector; only the declaration may change.
	css := ".color-badge { color: red; }"

	_, newCSS := Apply("", css, Properties{Color: "blue"})

	if !strings.HasPrefix(newCSS, ".color-badge {") {
		t.Errorf("selector was rewritten: %q", newCSS)
	}
	if !strings.Contains(newCSS, "color: blue;") {
		t.Errorf("declaration not rewritten: %q", newCSS)
	}
}

func TestApplyLeavesAbsentDeclarationsAbsent(t *testing.T) {
	css := "button { color: red; }"

	_, newCSS := Apply("", css, Properties{Color: "blue", Background: "#fff"})

	if strings.Contains(newCSS, "background") {
		t.Errorf("background should not be introduced: %q", newCSS)
	}
}

func TestApplyShorthandPropertyIsNotConfusedWithLonghand(t *testing.T) {
	css := "button { background-color: red; }"

	_, newCSS := Apply("", css, Properties{Background: "blue"})

	if newCSS != css {
		t.Errorf("background-color must not match background: %q", newCSS)
	}
}

func TestArchiveContainsComponentFiles(t *testing.T) {
	data, err := Archive("<button>Hi</button>", "button{color:red;}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("invalid zip: %v", err)
	}

	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		contents[f.Name] = string(body)
	}

	if len(contents) != 2 {
		t.Fatalf("expected 2 files, got %d", len(contents))
	}
	if contents["Component.jsx"] != "<button>Hi</button>" {
		t.Errorf("unexpected jsx file: %q", contents["Component.jsx"])
	}
	if contents["styles.css"] != "button{color:red;}" {
		t.Errorf("unexpected css file: %q", contents["styles.css"])
	}
}
