package gdrive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"cinescope/internal/config"
	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

const maxInterstitialBytes = 4 << 20

type driveClient struct {
	baseURL   *url.URL
	userAgent string
	client    *http.Client
}

// NewDriveClient creates a DatasetSource that downloads public files from
// Google Drive, following the virus-scan confirmation page when one is served.
func NewDriveClient(cfg *config.DatasetConfig) (ports.DatasetSource, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid dataset base url %q", cfg.BaseURL)
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout == 0 {
		connectTimeout = 30 * time.Second
	}
	headerTimeout := cfg.HeaderTimeout
	if headerTimeout == 0 {
		headerTimeout = 60 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	// No overall client timeout: the body is large and streamed.
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: headerTimeout,
	}

	return &driveClient{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Transport: transport, Jar: jar},
	}, nil
}

func (c *driveClient) downloadURL(remoteID string) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/uc"
	u.RawQuery = url.Values{"export": {"download"}, "id": {remoteID}}.Encode()
	return &u
}

// Fetch returns the file body. The caller closes it.
func (c *driveClient) Fetch(ctx context.Context, remoteID string) (*ports.RemoteFile, error) {
	first := c.downloadURL(remoteID)
	resp, err := c.get(ctx, first)
	if err != nil {
		return nil, err
	}
	if !isHTML(resp) {
		return remoteFile(resp, false), nil
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxInterstitialBytes))
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: read confirmation page: %v", domain.ErrNetwork, err)
	}

	confirmURL, err := confirmationURL(page, resp.Request.URL, remoteID, c.client.Jar.Cookies(resp.Request.URL))
	if err != nil {
		return nil, err
	}
	log.WithField("url", redact(confirmURL)).Info("large file confirmation page, following confirm link")

	resp, err = c.get(ctx, confirmURL)
	if err != nil {
		return nil, err
	}
	if isHTML(resp) {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: confirmation page served again after confirming", domain.ErrConfirmationParse)
	}
	return remoteFile(resp, true), nil
}

func (c *driveClient) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrRemoteFile, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: file not found (status 404)", domain.ErrRemoteFile)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: access denied (status 403)", domain.ErrRemoteFile)
	default:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrRemoteFile, resp.StatusCode)
	}
}

func isHTML(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

func remoteFile(resp *http.Response, confirmed bool) *ports.RemoteFile {
	size := resp.ContentLength
	if size <= 0 {
		size = -1
	}
	return &ports.RemoteFile{Body: resp.Body, Size: size, Confirmed: confirmed}
}

// redact drops the confirmation token from logged URLs.
func redact(u *url.URL) string {
	c := *u
	q := c.Query()
	for _, k := range []string{"confirm", "uuid", "at", "t"} {
		if q.Has(k) {
			q.Set(k, "xxx")
		}
	}
	c.RawQuery = q.Encode()
	return c.String()
}
