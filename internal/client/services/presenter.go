package services

import "strconv"

// User-facing messages of the registration flow. Validation messages come
// from the validate package.
const (
	MsgCodeServerError = "Server error, please try again later"
	MsgWrongCode       = "Registration failed - wrong verification code"
	MsgCheckInput      = "Registration failed - please check that everything is filled in correctly"
	MsgRegistered      = "Registration successful"
	MsgRetryLater      = "Registration failed - please try again later"
	MsgServerException = "Sorry - the server ran into a problem, please try again later"
)

// Presenter is the UI side of RegistrationFlow.
type Presenter interface {
	Alert(msg string)
	// Navigate leaves the registration page for path.
	Navigate(path string)
	// FillCode pre-fills the verification code input.
	FillCode(code string)
}

// ProfilePath is the page a new user lands on.
func ProfilePath(uid int64) string {
	return "/person.html?id=" + strconv.FormatInt(uid, 10)
}

// PresenterFunc adapts three functions to Presenter; nil members are no-ops.
type PresenterFunc struct {
	AlertFn    func(string)
	NavigateFn func(string)
	FillCodeFn func(string)
}

func (p PresenterFunc) Alert(msg string) {
	if p.AlertFn != nil {
		p.AlertFn(msg)
	}
}

func (p PresenterFunc) Navigate(path string) {
	if p.NavigateFn != nil {
		p.NavigateFn(path)
	}
}

func (p PresenterFunc) FillCode(code string) {
	if p.FillCodeFn != nil {
		p.FillCodeFn(code)
	}
}

var _ Presenter = PresenterFunc{}
