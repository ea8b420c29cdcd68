package navigator

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"worklistmon/pkg/fetcher"
)

// LoginForm is a discovered form with a password-typed input.
type LoginForm struct {
	// Action is the absolute submission URL.
	Action string
	// Payload carries every named input's existing value, with the
	// credential fields overridden.
	Payload url.Values
}

// Common field-name variants across deployments, matched case-insensitively
// and exactly. ASP.NET sites prefix control names, hence the ctl00 entries.
var (
	usernameFieldNames = []string{
		"username", "user", "userid", "login",
		"txtUserName", "ctl00$MainContent$txtUserName",
	}
	passwordFieldNames = []string{
		"password", "pwd", "pass",
		"txtPassword", "ctl00$MainContent$txtPassword",
	}
)

// FindLoginForm locates the first form containing a password input and
// builds its submission payload. Returns nil when the page has no login form.
func FindLoginForm(doc *fetcher.Document, username, password string) *LoginForm {
	var form *LoginForm
	doc.Doc.Find("form").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Find(`input[type="password"]`).Length() == 0 {
			return true
		}
		form = buildLoginForm(doc, sel, username, password)
		return false
	})
	return form
}

func buildLoginForm(doc *fetcher.Document, sel *goquery.Selection, username, password string) *LoginForm {
	payload := url.Values{}

	// Copy every named input, including hidden state and submit buttons, so
	// server-side validation does not reject the post.
	sel.Find("input").Each(func(_ int, inp *goquery.Selection) {
		name, ok := inp.Attr("name")
		if !ok || name == "" {
			return
		}
		value, _ := inp.Attr("value")
		payload.Set(name, value)
	})

	userSet := overrideField(payload, usernameFieldNames, username)
	passSet := overrideField(payload, passwordFieldNames, password)

	// No named match: fall back to the first text/email input for the
	// username and the first password input for the password.
	if !userSet {
		sel.Find("input").EachWithBreak(func(_ int, inp *goquery.Selection) bool {
			typ, _ := inp.Attr("type")
			typ = strings.ToLower(typ)
			if typ != "text" && typ != "email" {
				return true
			}
			if name, ok := inp.Attr("name"); ok && name != "" {
				payload.Set(name, username)
				userSet = true
				return false
			}
			return true
		})
	}
	if !passSet {
		sel.Find(`input[type="password"]`).EachWithBreak(func(_ int, inp *goquery.Selection) bool {
			if name, ok := inp.Attr("name"); ok && name != "" {
				payload.Set(name, password)
				return false
			}
			return true
		})
	}

	action, _ := sel.Attr("action")
	action = strings.TrimSpace(action)
	var absolute string
	if action == "" {
		// Empty action posts back to the page the form was found on.
		absolute = doc.URL.String()
	} else if ref, err := url.Parse(action); err == nil {
		absolute = doc.URL.ResolveReference(ref).String()
	} else {
		absolute = doc.URL.String()
	}

	return &LoginForm{Action: absolute, Payload: payload}
}

func overrideField(payload url.Values, candidates []string, value string) bool {
	set := false
	for _, cand := range candidates {
		for key := range payload {
			if strings.EqualFold(key, cand) {
				payload.Set(key, value)
				set = true
			}
		}
	}
	return set
}
