package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello world", want: "hello world"},
		{name: "all forbidden", in: `\/:*?"<>|`, want: "         "},
		{name: "mixed", in: `a/b:c*d?e"f<g>h|i\j`, want: "a b c d e f g h i j"},
		{name: "unicode kept", in: "【合集】第1集：开始", want: "【合集】第1集：开始"},
		{name: "punctuation kept", in: "a_b-c.d (e) [f] #1 & 'g'", want: "a_b-c.d (e) [f] #1 & 'g'"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Idempotent(t *testing.T) {
	inputs := []string{
		`video: part 1/2 "final"?`,
		`<<|>>`,
		"already clean",
		`C:\Users\x`,
	}
	for _, in := range inputs {
		once := SanitizeFilename(in)
		twice := SanitizeFilename(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.ContainsAny(once, `\/:*?"<>|`) {
			t.Errorf("forbidden characters left in %q", once)
		}
		if len([]rune(once)) != len([]rune(in)) {
			t.Errorf("length changed for %q: %q", in, once)
		}
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.txt")
	if err := RemoveIfExists(p); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(p); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if Exists(p) {
		t.Errorf("file still exists")
	}
}

func TestJSONFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "list.json")
	in := []map[string]string{{"title": "a", "id": "1"}, {"title": "b", "id": "2"}}
	if err := WriteJSONFile(p, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out []map[string]string
	if err := ReadJSONFile(p, &out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 2 || out[1]["id"] != "2" {
		t.Errorf("unexpected content: %v", out)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}
