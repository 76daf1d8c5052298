package wrap

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// fixedWidth 是测试用的等宽度量函数：每个 rune 宽 w 像素。
func fixedWidth(w float64) MeasureFunc {
	return func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * w
	}
}

func TestLinesSingleLineWhenWide(t *testing.T) {
	lines := Lines("HelloWorld", fixedWidth(10), 1000)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "HelloWorld" {
		t.Fatalf("line mismatch: got=%q", lines[0].Text)
	}
	if lines[0].Width != 100 {
		t.Fatalf("width mismatch: got=%g want=100", lines[0].Width)
	}
}

// 每个字符 10px、maxWidth 35 时每行最多 3 个字符，9 个字符恰好 3 行。
func TestLinesBreaksIntoThree(t *testing.T) {
	title := "ABCDEFGHI"
	lines := Lines(title, fixedWidth(10), 35)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(lines), lines)
	}
	total := 0
	for _, ln := range lines {
		total += utf8.RuneCountInString(ln.Text)
	}
	if total != utf8.RuneCountInString(title) {
		t.Fatalf("character count mismatch: got=%d want=%d", total, len(title))
	}
	want := []string{"ABC", "DEF", "GHI"}
	for i, ln := range lines {
		if ln.Text != want[i] {
			t.Fatalf("line %d: got=%q want=%q", i, ln.Text, want[i])
		}
	}
}

func TestLinesCJKWithoutSpaces(t *testing.T) {
	title := "今日はいい天気ですね、散歩に行きましょう"
	lines := Lines(title, fixedWidth(80), 1517)
	if got := Join(lines); got != title {
		t.Fatalf("join mismatch: got=%q want=%q", got, title)
	}
	for i, ln := range lines {
		if ln.Width >= 1517 {
			t.Fatalf("line %d too wide: %g", i, ln.Width)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

// 宽度恰好等于上限时不能留在当前行（严格小于）。
func TestLinesEqualWidthBreaks(t *testing.T) {
	lines := Lines("ABCD", fixedWidth(10), 30)
	if len(lines) != 2 || lines[0].Text != "AB" || lines[1].Text != "CD" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestLinesOversizedUnitKeptAlone(t *testing.T) {
	measure := func(s string) float64 {
		w := 0.0
		for _, r := range s {
			if r == 'W' {
				w += 500
			} else {
				w += 10
			}
		}
		return w
	}
	lines := Lines("abWcd", measure, 100)
	want := []string{"ab", "W", "cd"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %+v", len(want), lines)
	}
	for i, ln := range lines {
		if ln.Text != want[i] {
			t.Fatalf("line %d: got=%q want=%q", i, ln.Text, want[i])
		}
	}
	if lines[1].Width != 500 {
		t.Fatalf("oversized line width: got=%g", lines[1].Width)
	}
}

func TestLinesLeadingOversizedUnit(t *testing.T) {
	lines := Lines("Wx", func(s string) float64 {
		if strings.HasPrefix(s, "W") {
			return 200
		}
		return 10
	}, 100)
	if len(lines) != 2 || lines[0].Text != "W" || lines[1].Text != "x" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestLinesEmptyInput(t *testing.T) {
	for i := 0; i < 3; i++ {
		if lines := Lines("", fixedWidth(10), 100); len(lines) != 0 {
			t.Fatalf("empty input must yield zero lines, got %+v", lines)
		}
	}
}

func TestLinesNoLimit(t *testing.T) {
	lines := Lines("abcdef", fixedWidth(10), 0)
	if len(lines) != 1 || lines[0].Text != "abcdef" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

// 字素簇（带肤色修饰的 emoji、组合音标）不能被拆开。
func TestLinesKeepsGraphemeClusters(t *testing.T) {
	thumb := "\U0001F44D\U0001F3FD"
	accent := "e\u0301"
	title := thumb + accent + thumb
	lines := Lines(title, fixedWidth(10), 15)
	if got := Join(lines); got != title {
		t.Fatalf("join mismatch: got=%q", got)
	}
	want := []string{thumb, accent, thumb}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i, ln := range lines {
		if ln.Text != want[i] {
			t.Fatalf("line %d: got=%q want=%q", i, ln.Text, want[i])
		}
	}
}

// TestLinesInvariants 对一组输入与宽度验证拼接不变量与宽度上限。
func TestLinesInvariants(t *testing.T) {
	inputs := []string{
		"a",
		"HelloWorld",
		"hello world again and again",
		"吾輩は猫である。名前はまだ無い。",
		"mixed 日本語 and English タイトル",
	}
	widths := []float64{1, 5, 25, 60, 300}
	measure := fixedWidth(12)
	for _, in := range inputs {
		for _, w := range widths {
			lines := Lines(in, measure, w)
			if got := Join(lines); got != in {
				t.Fatalf("Join(Lines(%q, %g)) = %q", in, w, got)
			}
			for i, ln := range lines {
				if ln.Text == "" {
					t.Fatalf("empty line %d for %q/%g", i, in, w)
				}
				if measure(ln.Text) >= w && utf8.RuneCountInString(ln.Text) > 1 {
					t.Fatalf("line %d %q exceeds %g", i, ln.Text, w)
				}
			}
		}
	}
}

func TestMaxWidth(t *testing.T) {
	lines := []Line{{Text: "a", Width: 10}, {Text: "bb", Width: 30}, {Text: "c", Width: 5}}
	if got := MaxWidth(lines); got != 30 {
		t.Fatalf("MaxWidth = %g, want 30", got)
	}
	if got := MaxWidth(nil); got != 0 {
		t.Fatalf("MaxWidth(nil) = %g, want 0", got)
	}
}
