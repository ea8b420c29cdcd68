package fetcher

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Some deployments bounce through an interstitial page instead of sending an
// HTTP redirect: a meta refresh tag, or an inline script assigning
// window.location. ResolveRedirect finds the first such instruction and
// returns it as an absolute URL.

var (
	metaURLRe     = regexp.MustCompile(`(?i)url\s*=\s*['"]?([^'";]+)`)
	scriptNavRe   = regexp.MustCompile(`(?i)(?:window\.location(?:\.href)?|location\.href|location\.replace\(|document\.location)\s*[=(]\s*['"]([^'"]+)['"]`)
	metaRefreshRe = regexp.MustCompile(`(?i)^\s*\d+\s*;`)
)

// ResolveRedirect returns the absolute target of an in-document navigation
// instruction, or "" when the document holds none.
func ResolveRedirect(doc *Document) string {
	if target := metaRefreshTarget(doc.Doc); target != "" {
		return absolutize(doc.URL, target)
	}
	if target := scriptTarget(doc.Doc); target != "" {
		return absolutize(doc.URL, target)
	}
	return ""
}

func metaRefreshTarget(doc *goquery.Document) string {
	var target string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(strings.TrimSpace(equiv), "refresh") {
			return true
		}
		content, _ := s.Attr("content")
		if !metaRefreshRe.MatchString(content) && !strings.Contains(strings.ToLower(content), "url=") {
			return true
		}
		if m := metaURLRe.FindStringSubmatch(content); len(m) > 1 {
			target = strings.TrimSpace(m[1])
			return false
		}
		return true
	})
	return target
}

func scriptTarget(doc *goquery.Document) string {
	var target string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := scriptNavRe.FindStringSubmatch(s.Text()); len(m) > 1 {
			target = strings.TrimSpace(m[1])
			return false
		}
		return true
	})
	return target
}

func absolutize(base *url.URL, target string) string {
	ref, err := url.Parse(target)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
