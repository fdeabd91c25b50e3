package platform

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateLink(t *testing.T) {
	valid, err := ValidateLink(" https://stackoverflow.com/q/42 ")
	if err != nil {
		t.Fatalf("unexpected error for valid link: %v", err)
	}
	if valid != "https://stackoverflow.com/q/42" {
		t.Fatalf("unexpected normalized link: %q", valid)
	}

	if _, err := ValidateLink(""); err == nil || !strings.Contains(err.Error(), "no link") {
		t.Fatalf("expected missing link error, got %v", err)
	}

	_, err = ValidateLink("ftp://example.com/path")
	if err == nil || !strings.Contains(err.Error(), "unsupported link scheme") {
		t.Fatalf("expected unsupported scheme error, got %v", err)
	}

	_, err = ValidateLink("https://")
	if err == nil || !strings.Contains(err.Error(), "invalid link host") {
		t.Fatalf("expected invalid host error, got %v", err)
	}
}

func TestBrowserCommand(t *testing.T) {
	const link = "https://stackoverflow.com/q/42"
	cases := []struct {
		goos string
		name string
		args []string
	}{
		{goos: "darwin", name: "open", args: []string{link}},
		{goos: "windows", name: "rundll32", args: []string{"url.dll,FileProtocolHandler", link}},
		{goos: "linux", name: "xdg-open", args: []string{link}},
	}
	for _, tc := range cases {
		gotName, gotArgs := browserCommand(tc.goos, link)
		if gotName != tc.name || !reflect.DeepEqual(gotArgs, tc.args) {
			t.Fatalf("browserCommand(%q) = (%q, %v), want (%q, %v)", tc.goos, gotName, gotArgs, tc.name, tc.args)
		}
	}
}

func TestSelectClipboardCommand(t *testing.T) {
	lookup := func(bin string) (string, error) {
		if bin == "wl-copy" {
			return "/usr/bin/wl-copy", nil
		}
		return "", errors.New("not found")
	}
	got, err := selectClipboardCommand(lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"wl-copy"}) {
		t.Fatalf("unexpected selected command: %v", got)
	}

	none := func(string) (string, error) { return "", errors.New("not found") }
	if _, err := selectClipboardCommand(none); err == nil {
		t.Fatal("expected error when no clipboard command is available")
	}
}
