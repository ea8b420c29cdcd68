// Package fetcher provides the cookie-holding HTTP session used for one
// monitoring run, and the Document type the rest of the pipeline consumes.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) Worklist Monitor"
)

// Document is an immutable parsed HTML page plus the URL it resolved to
// after any HTTP redirects.
type Document struct {
	URL *url.URL
	Doc *goquery.Document
	Raw string
}

// Text returns the document's full visible text.
func (d *Document) Text() string {
	return d.Doc.Text()
}

// NewDocumentFromString parses HTML that was obtained out of band, such as a
// saved snapshot. rawURL is the address the content was fetched from.
func NewDocumentFromString(rawURL, html string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{URL: u, Doc: doc, Raw: html}, nil
}

// Session is the HTTP client for a single run. It follows redirects and
// carries cookies; it is created at run start and discarded at run end.
type Session struct {
	client *http.Client
}

// NewSession builds a session with cookie persistence and a per-request
// timeout.
func NewSession() (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Session{
		client: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
	}, nil
}

// NewSessionWithClient wraps an existing client; used by tests to point the
// session at an httptest server.
func NewSessionWithClient(client *http.Client) *Session {
	if client.Jar == nil {
		jar, _ := cookiejar.New(nil)
		client.Jar = jar
	}
	return &Session{client: client}
}

// Get fetches a URL and parses the response body.
func (s *Session) Get(rawURL string) (*Document, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	return s.do(req)
}

// PostForm submits a form payload and parses the response body.
func (s *Session) PostForm(rawURL string, values url.Values) (*Document, error) {
	req, err := http.NewRequest(http.MethodPost, rawURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build post for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *Session) do(req *http.Request) (*Document, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, req.URL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body for %s: %w", req.URL, err)
	}

	raw := string(body)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", req.URL, err)
	}

	finalURL := resp.Request.URL
	return &Document{URL: finalURL, Doc: doc, Raw: raw}, nil
}
