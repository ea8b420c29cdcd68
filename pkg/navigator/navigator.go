// Package navigator walks from an entry page to an authenticated worklist
// document. The multi-step login flow is modeled as an explicit state
// machine so each transition can be exercised against synthetic pages.
package navigator

import (
	"fmt"
	"net/url"
	"strings"

	"worklistmon/pkg/diag"
	"worklistmon/pkg/fetcher"
)

// State identifies one step of the acquisition flow.
type State int

const (
	StateTryDirect State = iota
	StateFetchEntry
	StateFindForm
	StateProbeLoginCandidates
	StateSubmit
	StateCrawl
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateTryDirect:
		return "try-direct"
	case StateFetchEntry:
		return "fetch-entry"
	case StateFindForm:
		return "find-form"
	case StateProbeLoginCandidates:
		return "probe-login-candidates"
	case StateSubmit:
		return "submit"
	case StateCrawl:
		return "crawl"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// AuthError means no worklist-qualifying document was reachable after every
// strategy was exhausted.
type AuthError struct {
	Reason string
	Last   error
}

func (e *AuthError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Last)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Last }

// Options configure a Navigator.
type Options struct {
	BaseURLs     []string
	EntryPath    string
	WorklistPath string
	MaxDepth     int
	MaxPages     int
}

// Navigator owns one acquisition attempt. It is not safe for concurrent use;
// each run builds its own.
type Navigator struct {
	session  *fetcher.Session
	sink     diag.Sink
	baseURLs []string
	entry    string
	worklist string
	maxDepth int
	maxPages int

	lastErr   error
	snapCount int
}

// New builds a Navigator over an existing session.
func New(session *fetcher.Session, sink diag.Sink, opts Options) *Navigator {
	if sink == nil {
		sink = diag.NopSink{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 60
	}
	return &Navigator{
		session:  session,
		sink:     sink,
		baseURLs: opts.BaseURLs,
		entry:    opts.EntryPath,
		worklist: opts.WorklistPath,
		maxDepth: opts.MaxDepth,
		maxPages: opts.MaxPages,
	}
}

// entryVariants lists entry URLs in try order. Some deployments only serve
// the login form when a return-url parameter is present.
func (n *Navigator) entryVariants(base string) []string {
	escaped := url.QueryEscape("/" + n.worklist)
	return []string{
		joinURL(base, n.entry),
		joinURL(base, strings.ToLower(n.entry)),
		joinURL(base, n.entry+"?ReturnUrl="+escaped),
	}
}

// loginCandidates lists endpoints probed when the entry page itself carries
// no form.
func (n *Navigator) loginCandidates(base string) []string {
	return []string{
		joinURL(base, "Login.aspx"),
		joinURL(base, "login.aspx"),
		joinURL(base, "Account/Login.aspx"),
		joinURL(base, "Default.aspx"),
	}
}

func (n *Navigator) worklistVariants(base string) []string {
	variants := []string{joinURL(base, n.worklist)}
	if lower := strings.ToLower(n.worklist); lower != n.worklist {
		variants = append(variants, joinURL(base, lower))
	}
	return variants
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}

// Acquire runs the state machine until a worklist document is found or all
// strategies are exhausted. Every fetched page is snapshotted through the
// diagnostics sink, on failure paths too.
func (n *Navigator) Acquire(username, password string) (*fetcher.Document, error) {
	state := StateTryDirect
	var entryDoc *fetcher.Document
	var form *LoginForm

	for {
		switch state {
		case StateTryDirect:
			if doc := n.tryWorklistVariants(); doc != nil {
				return doc, nil
			}
			state = StateFetchEntry

		case StateFetchEntry:
			entryDoc = n.fetchEntry(username, password)
			if entryDoc == nil {
				state = StateFailed
				break
			}
			if HasActiveSession(entryDoc) {
				if doc := n.tryWorklistVariants(); doc != nil {
					return doc, nil
				}
			}
			state = StateFindForm

		case StateFindForm:
			form = FindLoginForm(entryDoc, username, password)
			if form != nil {
				state = StateSubmit
			} else {
				state = StateProbeLoginCandidates
			}

		case StateProbeLoginCandidates:
			probeForm, probeDoc := n.probeLoginCandidates(username, password)
			if probeForm != nil {
				form, entryDoc = probeForm, probeDoc
				state = StateSubmit
			} else {
				state = StateCrawl
			}

		case StateSubmit:
			postDoc := n.submit(form)
			if postDoc != nil {
				entryDoc = postDoc
			}
			if doc := n.tryWorklistVariants(); doc != nil {
				return doc, nil
			}
			state = StateCrawl

		case StateCrawl:
			if entryDoc != nil {
				if doc := n.crawl(entryDoc); doc != nil {
					return doc, nil
				}
			}
			state = StateFailed

		case StateFailed:
			return nil, &AuthError{Reason: "no worklist document reachable", Last: n.lastErr}
		}
	}
}

// tryWorklistVariants fetches each known worklist URL directly; this handles
// an already-authenticated session and post-login retries.
func (n *Navigator) tryWorklistVariants() *fetcher.Document {
	for _, base := range n.baseURLs {
		for _, u := range n.worklistVariants(base) {
			doc, err := n.session.Get(u)
			if err != nil {
				n.lastErr = err
				continue
			}
			n.snapshot(doc)
			if IsWorklistLike(doc) {
				return doc
			}
		}
	}
	return nil
}

// fetchEntry walks the entry URL variants and keeps the first page that
// indicates an active session or carries a login form. When no page
// qualifies, the last fetched page is returned so the crawl has a root.
func (n *Navigator) fetchEntry(username, password string) *fetcher.Document {
	var lastDoc *fetcher.Document
	for _, base := range n.baseURLs {
		for _, u := range n.entryVariants(base) {
			doc, err := n.session.Get(u)
			if err != nil {
				n.lastErr = err
				continue
			}
			n.snapshot(doc)
			doc = n.followRedirect(doc)
			lastDoc = doc
			if HasActiveSession(doc) || FindLoginForm(doc, username, password) != nil {
				return doc
			}
		}
	}
	return lastDoc
}

// probeLoginCandidates fetches known login endpoints until one yields a form.
func (n *Navigator) probeLoginCandidates(username, password string) (*LoginForm, *fetcher.Document) {
	for _, base := range n.baseURLs {
		for _, u := range n.loginCandidates(base) {
			doc, err := n.session.Get(u)
			if err != nil {
				n.lastErr = err
				continue
			}
			n.snapshot(doc)
			doc = n.followRedirect(doc)
			if form := FindLoginForm(doc, username, password); form != nil {
				return form, doc
			}
		}
	}
	return nil, nil
}

// submit posts the login form and resolves any in-document redirect on the
// response.
func (n *Navigator) submit(form *LoginForm) *fetcher.Document {
	doc, err := n.session.PostForm(form.Action, form.Payload)
	if err != nil {
		n.lastErr = err
		return nil
	}
	n.snapshot(doc)
	return n.followRedirect(doc)
}

// followRedirect chases meta-refresh/script navigation one hop at a time,
// bounded to avoid interstitial loops.
func (n *Navigator) followRedirect(doc *fetcher.Document) *fetcher.Document {
	for hops := 0; hops < 3; hops++ {
		target := fetcher.ResolveRedirect(doc)
		if target == "" {
			return doc
		}
		next, err := n.session.Get(target)
		if err != nil {
			n.lastErr = err
			return doc
		}
		n.snapshot(next)
		doc = next
	}
	return doc
}

func (n *Navigator) snapshot(doc *fetcher.Document) {
	n.snapCount++
	label := fmt.Sprintf("page-%03d-%s.html", n.snapCount, pathLabel(doc.URL))
	if err := n.sink.Record(label, doc.Raw); err != nil {
		n.lastErr = err
	}
}

func pathLabel(u *url.URL) string {
	p := strings.Trim(u.Path, "/")
	if p == "" {
		p = u.Host
	}
	return strings.ReplaceAll(p, "/", "_")
}
