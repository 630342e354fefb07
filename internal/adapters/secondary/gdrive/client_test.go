package gdrive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinescope/internal/config"
	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

const (
	fileID  = "file-123"
	payload = "title,release_date\nA,2000-01-01\n"
)

const formPage = `<!DOCTYPE html><html><head><title>Google Drive - Virus scan warning</title></head>
<body><form id="download-form" action="/download" method="get">
<input type="submit" value="Download anyway"/>
<input type="hidden" name="id" value="file-123">
<input type="hidden" name="export" value="download">
<input type="hidden" name="confirm" value="abc123">
<input type="hidden" name="uuid" value="u-42">
</form></body></html>`

func newTestClient(t *testing.T, srv *httptest.Server) ports.DatasetSource {
	t.Helper()
	client, err := NewDriveClient(&config.DatasetConfig{
		BaseURL:        srv.URL,
		ConnectTimeout: time.Second,
		HeaderTimeout:  5 * time.Second,
		UserAgent:      "cinescope-test",
	})
	require.NoError(t, err)
	return client
}

func serveCSV(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
	_, _ = io.WriteString(w, payload)
}

func serveHTML(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

func readAll(t *testing.T, f *ports.RemoteFile) string {
	t.Helper()
	defer f.Body.Close()
	b, err := io.ReadAll(f.Body)
	require.NoError(t, err)
	return string(b)
}

// ============================================================================
// Download Tests
// ============================================================================

func TestFetch_DirectDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uc", r.URL.Path)
		assert.Equal(t, "download", r.URL.Query().Get("export"))
		assert.Equal(t, fileID, r.URL.Query().Get("id"))
		assert.Equal(t, "cinescope-test", r.UserAgent())
		serveCSV(w)
	}))
	defer srv.Close()

	file, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	require.NoError(t, err)
	assert.False(t, file.Confirmed)
	assert.Equal(t, int64(len(payload)), file.Size)
	assert.Equal(t, payload, readAll(t, file))
}

func TestFetch_FollowsConfirmationForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uc", func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, formPage)
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("confirm") != "abc123" || q.Get("uuid") != "u-42" || q.Get("id") != fileID {
			http.Error(w, "bad token", http.StatusForbidden)
			return
		}
		serveCSV(w)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	file, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	require.NoError(t, err)
	assert.True(t, file.Confirmed)
	assert.Equal(t, payload, readAll(t, file))
}

func TestFetch_FollowsConfirmationLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") == "xYz_9" {
			serveCSV(w)
			return
		}
		serveHTML(w, `<html><body><a id="uc-download-link" href="/uc?export=download&amp;confirm=xYz_9&amp;id=file-123">Download anyway</a></body></html>`)
	}))
	defer srv.Close()

	file, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	require.NoError(t, err)
	assert.True(t, file.Confirmed)
	assert.Equal(t, payload, readAll(t, file))
}

func TestFetch_FollowsDownloadLinkWithAnyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("t") == "abc123" && q.Get("id") == fileID {
			serveCSV(w)
			return
		}
		serveHTML(w, `<html><body><a href="/uc?export=download&amp;id=file-123&amp;t=abc123">Download anyway</a></body></html>`)
	}))
	defer srv.Close()

	file, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	require.NoError(t, err)
	assert.True(t, file.Confirmed)
	assert.Equal(t, payload, readAll(t, file))
}

func TestFetch_FollowsWarningCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") == "cookie-token" {
			serveCSV(w)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "download_warning_13058_file-123", Value: "cookie-token", Path: "/"})
		serveHTML(w, `<html><body><p>Google Drive can't scan this file for viruses.</p></body></html>`)
	}))
	defer srv.Close()

	file, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	require.NoError(t, err)
	assert.True(t, file.Confirmed)
	assert.Equal(t, payload, readAll(t, file))
}

// ============================================================================
// Error Tests
// ============================================================================

func TestFetch_StatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

			assert.ErrorIs(t, err, domain.ErrRemoteFile)
		})
	}
}

func TestFetch_SecondInterstitial(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uc", func(w http.ResponseWriter, r *http.Request) { serveHTML(w, formPage) })
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) { serveHTML(w, formPage) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	assert.ErrorIs(t, err, domain.ErrConfirmationParse)
}

func TestFetch_PageWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, `<html><head><title>Sign in</title></head><body>Please sign in</body></html>`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	assert.ErrorIs(t, err, domain.ErrConfirmationParse)
	assert.Contains(t, err.Error(), "Sign in")
}

func TestFetch_SignInRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ServiceLogin?continue=%2Fuc", http.StatusFound)
	})
	mux.HandleFunc("/ServiceLogin", func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, `<html><head><title>Google Drive: Sign-in</title></head><body>Sign in to continue</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	assert.ErrorIs(t, err, domain.ErrRemoteFile)
	assert.NotErrorIs(t, err, domain.ErrConfirmationParse)
}

func TestFetch_DriveErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveHTML(w, `<html><body><div class="uc-error-caption">Sorry, you can't view or download this file at this time.</div></body></html>`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Fetch(context.Background(), fileID)

	assert.ErrorIs(t, err, domain.ErrRemoteFile)
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, srv)
	srv.Close()

	_, err := client.Fetch(context.Background(), fileID)

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestNewDriveClient_InvalidBaseURL(t *testing.T) {
	_, err := NewDriveClient(&config.DatasetConfig{BaseURL: "not a url"})
	assert.Error(t, err)
}

// ============================================================================
// Parsing Tests
// ============================================================================

func TestConfirmationURL_FormWithoutActionUsesPage(t *testing.T) {
	page, _ := url.Parse("https://drive.google.com/uc?export=download&id=file-123")
	html := `<form><input type="hidden" name="confirm" value="t0k"></form>`

	u, err := confirmationURL([]byte(html), page, fileID, nil)

	require.NoError(t, err)
	assert.Equal(t, "drive.google.com", u.Host)
	assert.Equal(t, "t0k", u.Query().Get("confirm"))
	assert.Equal(t, fileID, u.Query().Get("id"))
}

func TestConfirmationURL_AbsoluteAction(t *testing.T) {
	page, _ := url.Parse("https://drive.google.com/uc?export=download&id=file-123")
	html := `<form id="download-form" action="https://drive.usercontent.google.com/download">
<input type="hidden" name="id" value="file-123"><input type="hidden" name="confirm" value="t">
<input type="hidden" name="at" value="AT1"></form>`

	u, err := confirmationURL([]byte(html), page, fileID, nil)

	require.NoError(t, err)
	assert.Equal(t, "drive.usercontent.google.com", u.Host)
	assert.Equal(t, "/download", u.Path)
	assert.Equal(t, "AT1", u.Query().Get("at"))
}

func TestConfirmationURL_RawToken(t *testing.T) {
	page, _ := url.Parse("https://drive.google.com/uc?export=download&id=file-123")
	html := `<html><script>var u = "/uc?confirm=RAW1&id=file-123";</script></html>`

	u, err := confirmationURL([]byte(html), page, fileID, nil)

	require.NoError(t, err)
	assert.Equal(t, "RAW1", u.Query().Get("confirm"))
}

func TestConfirmationURL_SignInForm(t *testing.T) {
	page, _ := url.Parse("https://drive.google.com/uc?export=download&id=file-123")
	html := `<html><body><form action="/v3/signin/identifier">
<input type="email" name="identifier"><input type="password" name="Passwd"></form></body></html>`

	_, err := confirmationURL([]byte(html), page, fileID, nil)

	assert.ErrorIs(t, err, domain.ErrRemoteFile)
}

func TestConfirmationURL_AccountsHost(t *testing.T) {
	page, _ := url.Parse("https://accounts.google.com/v3/identifier?continue=x")

	_, err := confirmationURL([]byte(`<html><body>Choose an account</body></html>`), page, fileID, nil)

	assert.ErrorIs(t, err, domain.ErrRemoteFile)
}

func TestConfirmationURL_DownloadLinkKeepsAllParams(t *testing.T) {
	page, _ := url.Parse("https://drive.google.com/uc?export=download&id=file-123")
	html := `<a href="https://drive.usercontent.google.com/download?id=file-123&amp;export=download&amp;t=abc123&amp;at=AT9">go</a>`

	u, err := confirmationURL([]byte(html), page, fileID, nil)

	require.NoError(t, err)
	assert.Equal(t, "drive.usercontent.google.com", u.Host)
	assert.Equal(t, "abc123", u.Query().Get("t"))
	assert.Equal(t, "AT9", u.Query().Get("at"))
}

func TestConfirmationURL_IgnoresUnrelatedLinks(t *testing.T) {
	page, _ := url.Parse("https://drive.google.com/uc?export=download&id=file-123")
	html := `<a href="/uc?export=download&amp;id=other&amp;t=x">other file</a>
<a href="/uc?export=download&amp;id=file-123">same page</a>
<a href="/help?id=file-123&amp;t=y">help</a>`

	_, err := confirmationURL([]byte(html), page, fileID, nil)

	assert.ErrorIs(t, err, domain.ErrConfirmationParse)
}

func TestRedact(t *testing.T) {
	u, _ := url.Parse("https://x/download?confirm=secret&id=1&uuid=u")

	out := redact(u)

	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "id=1")
}
