package navigator

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"worklistmon/pkg/fetcher"
)

// crawlKeywords mark links likely to lead to the worklist; keyword-bearing
// links are visited before neutral ones at the same depth.
var crawlKeywords = []string{"worklist", "results", "report", "prelim", "pending"}

type crawlItem struct {
	url   string
	depth int
}

// crawl performs a bounded, sequential breadth-first walk over same-origin
// links and frame sources starting from doc, returning the first
// worklist-qualifying page. The depth and page caps are the only stop
// conditions besides success.
func (n *Navigator) crawl(doc *fetcher.Document) *fetcher.Document {
	origin := doc.URL.Host
	visited := map[string]bool{doc.URL.String(): true}
	queue := enqueuePrioritized(nil, collectTargets(doc, origin), visited, 1)

	fetched := 0
	for len(queue) > 0 && fetched < n.maxPages {
		item := queue[0]
		queue = queue[1:]
		if item.depth > n.maxDepth {
			continue
		}

		page, err := n.session.Get(item.url)
		fetched++
		if err != nil {
			n.lastErr = err
			continue
		}
		n.snapshot(page)

		if IsWorklistLike(page) {
			return page
		}
		if item.depth < n.maxDepth {
			queue = enqueuePrioritized(queue, collectTargets(page, origin), visited, item.depth+1)
		}
	}
	return nil
}

// collectTargets gathers absolute same-origin link and frame URLs from a
// page, in document order.
func collectTargets(doc *fetcher.Document, origin string) []string {
	var targets []string
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(strings.ToLower(raw), "javascript:") {
			return
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return
		}
		abs := doc.URL.ResolveReference(ref)
		if abs.Host != origin {
			return
		}
		abs.Fragment = ""
		targets = append(targets, abs.String())
	}

	doc.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		add(href)
	})
	doc.Doc.Find("frame[src], iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add(src)
	})
	return targets
}

// enqueuePrioritized appends unvisited targets to the queue, keyword-bearing
// URLs first, preserving document order within each tier so traversal stays
// deterministic.
func enqueuePrioritized(queue []crawlItem, targets []string, visited map[string]bool, depth int) []crawlItem {
	var relevant, neutral []crawlItem
	for _, t := range targets {
		if visited[t] {
			continue
		}
		visited[t] = true
		item := crawlItem{url: t, depth: depth}
		if hasCrawlKeyword(t) {
			relevant = append(relevant, item)
		} else {
			neutral = append(neutral, item)
		}
	}
	queue = append(queue, relevant...)
	return append(queue, neutral...)
}

func hasCrawlKeyword(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, kw := range crawlKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
