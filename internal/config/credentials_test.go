package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadCredentials_Defaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.json", `{"cookie": "SESSDATA=abc; bili_jct=def"}`)

	c, err := LoadCredentials(p)
	require.NoError(t, err)
	assert.Equal(t, "SESSDATA=abc; bili_jct=def", c.Cookie)
	assert.Equal(t, DefaultUserAgent, c.UserAgent)
	assert.Equal(t, DefaultReferer, c.Referer)
	assert.Empty(t, c.CookiesFile)
}

func TestLoadCredentials_Overrides(t *testing.T) {
	dir := t.TempDir()
	jar := writeFile(t, dir, "cookies.txt", "# Netscape HTTP Cookie File\n")
	p := writeFile(t, dir, "config.json", `{
		"cookie": "a=b",
		"user_agent": "test-agent",
		"referer": "https://example.com/",
		"cookies_file": "`+filepath.ToSlash(jar)+`"
	}`)

	c, err := LoadCredentials(p)
	require.NoError(t, err)
	assert.Equal(t, "test-agent", c.UserAgent)
	assert.Equal(t, "https://example.com/", c.Referer)
	assert.Equal(t, filepath.ToSlash(jar), c.CookiesFile)
}

func TestLoadCredentials_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.json")},
		{name: "invalid json", path: writeFile(t, dir, "bad.json", `{"cookie": `)},
		{name: "empty cookie", path: writeFile(t, dir, "empty.json", `{"cookie": ""}`)},
		{name: "no cookie key", path: writeFile(t, dir, "nokey.json", `{"referer": "https://x.com/"}`)},
		{name: "bad referer", path: writeFile(t, dir, "ref.json", `{"cookie": "a", "referer": "not a url"}`)},
		{name: "missing cookies file", path: writeFile(t, dir, "jar.json", `{"cookie": "a", "cookies_file": "/does/not/exist"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCredentials(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCredentials)
		})
	}
}
