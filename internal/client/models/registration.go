package models

import "net/http"

// RegistrationForm is the transient input of one registration flow.
type RegistrationForm struct {
	Email          string
	Nick           string
	Password       string
	PasswordRepeat string
	Code           string
}

// CodeRequest is the body of POST /code.
type CodeRequest struct {
	Email string `json:"email"`
}

// CodeResponse may carry the issued code when the server runs in mock mode.
type CodeResponse struct {
	Mock string `json:"mock,omitempty"`
}

// SignUpRequest is the body of the first registration call.
type SignUpRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Salt     string `json:"salt"`
	Verifier string `json:"verifier"`
}

// ProfileRequest is the body of the second registration call.
type ProfileRequest struct {
	Email string `json:"email"`
	Nick  string `json:"nick,omitempty"`
}

// StepResponse is the outcome of one registration call. Non-2xx
// statuses are data here, not errors: the flow branches on them.
type StepResponse struct {
	Status int
	ID     int64
	Token  string
}

func (r StepResponse) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// RegisterOutcome mirrors {respUp, respRe}. Re is nil when the sequence
// stopped after the first call.
type RegisterOutcome struct {
	Up  StepResponse
	Re  *StepResponse
	UID int64
}
