package platform

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shellpane/internal/natstest"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_Routes(t *testing.T) {
	_, js := natstest.StartWithStreams(t)
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	srv := httptest.NewServer(NewRouter(js, store))
	defer srv.Close()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/", "text/html", `id="transcript"`},
		{"/help", "text/html", "Shell Terminal"},
		{"/health", "application/json", `"ok"`},
		{"/static/terminal.css", "text/css", ".transcript"},
		{"/favicon.svg", "image/svg+xml", "<svg"},
		{"/transcript", "text/plain", ""},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tc.contentType), resp.Header.Get("Content-Type"))
			body := readAll(t, resp)
			assert.Contains(t, body, tc.contains)
		})
	}
}

func TestNewRouter_IndexSetsSessionCookie(t *testing.T) {
	_, js := natstest.StartWithStreams(t)
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	rec := httptest.NewRecorder()
	NewRouter(js, store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie not set")
}

func TestNewCookieStore_RandomKeyWhenUnset(t *testing.T) {
	assert.NotNil(t, NewCookieStore(HTTPServerConfig{}))
	assert.NotNil(t, NewCookieStore(HTTPServerConfig{SessionKey: "configured-key"}))
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
