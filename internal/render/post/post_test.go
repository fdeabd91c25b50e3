package post

import (
	"regexp"
	"strings"
	"testing"
)

var stripANSIForTest = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(lines []string) string {
	return stripANSIForTest.ReplaceAllString(strings.Join(lines, "\n"), "")
}

func TestParse_SplitsTextCodeAndImages(t *testing.T) {
	body := `<p>How do I compare?</p>
<p>I tried <code>a &lt; b</code>.</p>
<pre><code>if a &lt; b {
    return
}
</code></pre>
<p><a href="https://i.sstatic.net/x.png"><img src="https://i.sstatic.net/x.png" alt="diagram"></a><br><sub>The diagram</sub></p>
<p>Thanks</p>`

	blocks := Parse(body)
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != KindText || blocks[0].Text != "How do I compare?\nI tried `a < b`." {
		t.Fatalf("unexpected first text block: %+v", blocks[0])
	}
	if blocks[1].Kind != KindCode || blocks[1].Code != "if a < b {\n    return\n}" {
		t.Fatalf("unexpected code block: %q", blocks[1].Code)
	}
	if blocks[2].Kind != KindImage || blocks[2].URL != "https://i.sstatic.net/x.png" || blocks[2].Legend != "The diagram" {
		t.Fatalf("unexpected image block: %+v", blocks[2])
	}
	if blocks[3].Kind != KindText || blocks[3].Text != "Thanks" {
		t.Fatalf("unexpected trailing text block: %+v", blocks[3])
	}
}

func TestParse_StripsUnsafeMarkup(t *testing.T) {
	blocks := Parse(`<p>safe</p><script>alert(1)</script><p onclick="x()">also safe</p>`)
	if len(blocks) != 1 {
		t.Fatalf("expected one text block, got %+v", blocks)
	}
	if strings.Contains(blocks[0].Text, "alert") {
		t.Fatalf("expected script to be removed, got %q", blocks[0].Text)
	}
	if blocks[0].Text != "safe\nalso safe" {
		t.Fatalf("unexpected text: %q", blocks[0].Text)
	}
}

func TestParse_ListsAndLinks(t *testing.T) {
	blocks := Parse(`<ol><li>first</li><li>see <a href="https://go.dev">docs</a></li></ol><ul><li>dot</li></ul>`)
	if len(blocks) != 1 {
		t.Fatalf("expected one text block, got %+v", blocks)
	}
	want := "1. first\n2. see docs (https://go.dev)\n• dot"
	if blocks[0].Text != want {
		t.Fatalf("expected %q, got %q", want, blocks[0].Text)
	}
}

func TestParse_Empty(t *testing.T) {
	if blocks := Parse("   "); blocks != nil {
		t.Fatalf("expected nil blocks, got %+v", blocks)
	}
}

func TestLines_WrapsTextAndIndentsCode(t *testing.T) {
	blocks := []Block{
		{Kind: KindText, Text: "one two three four"},
		{Kind: KindCode, Code: "x := 1\n\ny := 2"},
		{Kind: KindImage, URL: "https://example.com/a.png", Legend: "caption"},
	}
	got := plain(Lines(blocks, 9))
	want := strings.Join([]string{
		"one two",
		"three",
		"four",
		"",
		"    x := 1",
		"",
		"    y := 2",
		"",
		"[image] https://example.com/a.png",
		"  caption",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected layout:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrapText_SplitsLongWords(t *testing.T) {
	got := wrapText("abcdefgh ij", 3)
	want := []string{"abc", "def", "gh", "ij"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
