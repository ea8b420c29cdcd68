package navigator

import (
	"testing"
)

func TestFindLoginForm_NamedFields(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<form action="Login.aspx" method="post">
			<input type="hidden" name="__VIEWSTATE" value="abc123">
			<input type="text" name="txtUserName">
			<input type="password" name="txtPassword">
			<input type="submit" name="btnLogin" value="Log In">
		</form>
	</body></html>`)

	form := FindLoginForm(doc, "alice", "s3cret")
	if form == nil {
		t.Fatal("FindLoginForm() = nil, want form")
	}

	if got := form.Payload.Get("txtUserName"); got != "alice" {
		t.Errorf("txtUserName = %q, want alice", got)
	}
	if got := form.Payload.Get("txtPassword"); got != "s3cret" {
		t.Errorf("txtPassword = %q, want s3cret", got)
	}
	// Hidden state and the submit button must survive so server-side
	// validation accepts the post.
	if got := form.Payload.Get("__VIEWSTATE"); got != "abc123" {
		t.Errorf("__VIEWSTATE = %q, want abc123", got)
	}
	if got := form.Payload.Get("btnLogin"); got != "Log In" {
		t.Errorf("btnLogin = %q, want Log In", got)
	}
	if want := "https://example.test/Login.aspx"; form.Action != want {
		t.Errorf("Action = %q, want %q", form.Action, want)
	}
}

func TestFindLoginForm_FallbackFields(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<form action="/auth">
			<input type="text" name="fld1">
			<input type="password" name="fld2">
		</form>
	</body></html>`)

	form := FindLoginForm(doc, "bob", "pw")
	if form == nil {
		t.Fatal("FindLoginForm() = nil, want form")
	}
	if got := form.Payload.Get("fld1"); got != "bob" {
		t.Errorf("fld1 = %q, want bob (first text input fallback)", got)
	}
	if got := form.Payload.Get("fld2"); got != "pw" {
		t.Errorf("fld2 = %q, want pw (first password input fallback)", got)
	}
}

func TestFindLoginForm_EmptyActionPostsBack(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<form><input type="password" name="pwd"></form>
	</body></html>`)

	form := FindLoginForm(doc, "u", "p")
	if form == nil {
		t.Fatal("FindLoginForm() = nil, want form")
	}
	if want := "https://example.test/page.aspx"; form.Action != want {
		t.Errorf("Action = %q, want the form's own page %q", form.Action, want)
	}
}

func TestFindLoginForm_NoPasswordInput(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<form action="/search"><input type="text" name="q"></form>
	</body></html>`)
	if form := FindLoginForm(doc, "u", "p"); form != nil {
		t.Errorf("FindLoginForm() = %+v for search form, want nil", form)
	}
}

func TestFindLoginForm_ASPNETControlNames(t *testing.T) {
	doc := docFrom(t, `<html><body>
		<form action="Index.aspx">
			<input type="text" name="ctl00$MainContent$txtUserName">
			<input type="password" name="ctl00$MainContent$txtPassword">
		</form>
	</body></html>`)

	form := FindLoginForm(doc, "carol", "hunter2")
	if form == nil {
		t.Fatal("FindLoginForm() = nil, want form")
	}
	if got := form.Payload.Get("ctl00$MainContent$txtUserName"); got != "carol" {
		t.Errorf("username field = %q, want carol", got)
	}
	if got := form.Payload.Get("ctl00$MainContent$txtPassword"); got != "hunter2" {
		t.Errorf("password field = %q, want hunter2", got)
	}
}
