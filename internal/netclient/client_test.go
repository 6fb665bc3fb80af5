package netclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilicrawl/internal/config"
)

func testCreds() *config.Credentials {
	return &config.Credentials{
		Cookie:    "SESSDATA=xyz",
		UserAgent: "test-agent",
		Referer:   "https://www.bilibili.com/",
	}
}

func TestClient_SendsCredentialHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	c, err := New(testCreds(), Options{})
	require.NoError(t, err)

	var out struct {
		Code int `json:"code"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, 0, out.Code)
	assert.Equal(t, "test-agent", got.Get("User-Agent"))
	assert.Equal(t, "https://www.bilibili.com/", got.Get("Referer"))
	assert.Equal(t, "SESSDATA=xyz", got.Get("Cookie"))
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := New(testCreds(), Options{})
	require.NoError(t, err)

	_, err = c.GetPage(context.Background(), srv.URL)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestClient_OpenStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "5")
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c, err := New(testCreds(), Options{})
	require.NoError(t, err)

	body, n, err := c.Open(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "hello", string(data))
}

func TestClient_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(testCreds(), Options{Interval: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.GetJSON(ctx, srv.URL, &struct{}{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadNetscapeCookies(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cookies.txt")
	content := "# Netscape HTTP Cookie File\n" +
		".bilibili.com\tTRUE\t/\tTRUE\t4102444800\tbuvid3\tabc\n" +
		"#HttpOnly_.bilibili.com\tTRUE\t/\tTRUE\t4102444800\tSESSDATA\tsecret\n" +
		"broken line\n" +
		".bilibili.com\tTRUE\t/\tTRUE\t4102444800\tjson\t\"{}\"\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	c, err := New(&config.Credentials{
		Cookie: "a=b", UserAgent: "ua", Referer: "https://www.bilibili.com/", CookiesFile: p,
	}, Options{})
	require.NoError(t, err)

	u, _ := url.Parse("https://www.bilibili.com/")
	names := map[string]string{}
	for _, ck := range c.http.Jar.Cookies(u) {
		names[ck.Name] = ck.Value
	}
	assert.Equal(t, "abc", names["buvid3"])
	assert.Equal(t, "secret", names["SESSDATA"])
	assert.NotContains(t, names, "json")
}
