package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/ogppu/dsl"
)

const sampleDSL = `
// 默认 OGP 卡片
card ogppu v1 {
  canvas {
    width: 1920px
    height: 1080px
  }

  title { size: 80px; line-height: 1.2x; max-width: 79%; color: #1a1a1a }

  /* 日期戳 */
  stamp {
    text: "${yy}.${mm}.${dd}"
    right: 80px
    bottom: 80px
  }

  output {
    format: png  # 也支持 jpeg
    filename: "${title}.${ext}"
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "ogppu" {
		t.Fatalf("expected card name ogppu, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}

	canvas := doc.Section("canvas")
	if canvas == nil {
		t.Fatalf("canvas section missing")
	}
	if got := canvas.Lookup("width").Raw(); got != "1920px" {
		t.Fatalf("expected width 1920px, got %q", got)
	}

	title := doc.Section("title")
	if title == nil || len(title.Block.Assignments) != 4 {
		t.Fatalf("title assignments missing: %+v", title)
	}
	color := title.Lookup("color")
	if color == nil || color.Color == nil || *color.Color != "#1a1a1a" {
		t.Fatalf("expected color #1a1a1a, got %+v", color)
	}
	if got := title.Lookup("max-width").Raw(); got != "79%" {
		t.Fatalf("expected max-width 79%%, got %q", got)
	}
	if got := title.Lookup("line-height").Raw(); got != "1.2x" {
		t.Fatalf("expected line-height 1.2x, got %q", got)
	}

	stamp := doc.Section("stamp")
	text := stamp.Lookup("text")
	if text == nil || text.String == nil {
		t.Fatalf("stamp text must be a string literal: %+v", text)
	}
	if got := text.Raw(); got != "${yy}.${mm}.${dd}" {
		t.Fatalf("unexpected stamp text %q", got)
	}

	output := doc.Section("output")
	format := output.Lookup("format")
	if format == nil || format.Ident == nil || *format.Ident != "png" {
		t.Fatalf("expected ident png, got %+v", format)
	}
}

func TestParseLastAssignmentWins(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader(`card c v1 { title { size: 40px size: 64px } }`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := doc.Section("title").Lookup("size").Raw(); got != "64px" {
		t.Fatalf("expected last assignment 64px, got %q", got)
	}
	if doc.Section("missing") != nil {
		t.Fatalf("unexpected section")
	}
	if v := doc.Section("missing").Lookup("size"); v != nil {
		t.Fatalf("lookup on nil section must be nil")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		`card ogppu v1 { title { size 80px } }`,
		`card ogppu { }`,
		`page A4 { }`,
		`card ogppu v1 { title { size: 80px }`,
	}
	for _, in := range cases {
		if _, err := dsl.ParseString(in); err == nil {
			t.Fatalf("expected parse error for %q", in)
		}
	}
}

func TestSectionPositions(t *testing.T) {
	doc, err := dsl.ParseString("card c v1 {\n  canvas {\n    width: 10px\n  }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	sec := doc.Section("canvas")
	if sec.Pos.Line != 2 {
		t.Fatalf("expected canvas on line 2, got %d", sec.Pos.Line)
	}
	if a := sec.Block.Assignments[0]; a.Pos.Line != 3 {
		t.Fatalf("expected width on line 3, got %d", a.Pos.Line)
	}
}
