package gdrive

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cinescope/internal/core/domain"
)

var errNoToken = errors.New("no confirmation token found")

var confirmParam = regexp.MustCompile(`confirm=([0-9A-Za-z_-]+)`)

// confirmationURL extracts the follow-up download URL from a Drive
// "can't scan this file for viruses" page. Sources, in order: the download
// form, a link back to the download endpoint for the same file, a
// download_warning cookie, and finally any confirm= token in the raw page.
// Sign-in and error pages mean the file is missing or not shared.
func confirmationURL(page []byte, pageURL *url.URL, remoteID string, cookies []*http.Cookie) (*url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %v", domain.ErrConfirmationParse, err)
	}

	if msg := strings.TrimSpace(doc.Find(".uc-error-caption, .uc-error-subcaption").First().Text()); msg != "" {
		return nil, fmt.Errorf("%w: drive error page: %s", domain.ErrRemoteFile, msg)
	}
	if isSignIn(doc, pageURL) {
		return nil, fmt.Errorf("%w: access denied, redirected to sign-in at %s", domain.ErrRemoteFile, pageURL.Host+pageURL.Path)
	}

	if u, ok := fromForm(doc, pageURL); ok {
		return u, nil
	}
	if u, ok := fromLink(doc, pageURL, remoteID); ok {
		return u, nil
	}
	for _, c := range cookies {
		if strings.HasPrefix(c.Name, "download_warning") && c.Value != "" {
			return withConfirm(pageURL, c.Value), nil
		}
	}
	if m := confirmParam.FindSubmatch(page); m != nil {
		return withConfirm(pageURL, string(m[1])), nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	return nil, fmt.Errorf("%w: %v in page %q", domain.ErrConfirmationParse, errNoToken, title)
}

var signInPaths = []string{"servicelogin", "signin", "/accounts/"}

// isSignIn reports whether Drive answered with a login page instead of the file.
func isSignIn(doc *goquery.Document, pageURL *url.URL) bool {
	if strings.HasPrefix(pageURL.Hostname(), "accounts.") {
		return true
	}
	path := strings.ToLower(pageURL.Path)
	for _, p := range signInPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return doc.Find(`form input[type="password"], form input[name="identifier"], form[action*="ServiceLogin"], form[action*="signin"]`).Length() > 0
}

func fromForm(doc *goquery.Document, pageURL *url.URL) (*url.URL, bool) {
	form := doc.Find("form#download-form").First()
	if form.Length() == 0 {
		form = doc.Find("form").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find(`input[name="confirm"]`).Length() > 0
		}).First()
	}
	if form.Length() == 0 {
		return nil, false
	}

	params := url.Values{}
	form.Find("input[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		value, _ := s.Attr("value")
		if name != "" {
			params.Set(name, value)
		}
	})
	if params.Get("confirm") == "" {
		return nil, false
	}

	target := pageURL
	if action, ok := form.Attr("action"); ok && strings.TrimSpace(action) != "" {
		ref, err := url.Parse(strings.TrimSpace(action))
		if err != nil {
			return nil, false
		}
		target = pageURL.ResolveReference(ref)
	}

	u := *target
	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return &u, true
}

// fromLink accepts a link carrying confirm=, or any link back to the download
// endpoint for remoteID that adds parameters of its own, whatever the token is called.
func fromLink(doc *goquery.Document, pageURL *url.URL, remoteID string) (*url.URL, bool) {
	var found *url.URL
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		q := ref.Query()
		if q.Get("confirm") != "" || isDownloadLink(ref, q, remoteID) {
			found = pageURL.ResolveReference(ref)
			return false
		}
		return true
	})
	return found, found != nil
}

func isDownloadLink(ref *url.URL, q url.Values, remoteID string) bool {
	if !strings.HasSuffix(ref.Path, "/uc") && !strings.HasSuffix(ref.Path, "/download") {
		return false
	}
	if remoteID == "" || q.Get("id") != remoteID {
		return false
	}
	for k := range q {
		if k != "id" && k != "export" {
			return true
		}
	}
	return false
}

func withConfirm(pageURL *url.URL, token string) *url.URL {
	u := *pageURL
	q := u.Query()
	q.Set("confirm", token)
	u.RawQuery = q.Encode()
	return &u
}
