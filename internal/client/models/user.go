package models

// UserInfo is the author lookup result. Only Nick is required.
type UserInfo struct {
	ID    int64  `json:"id"`
	Nick  string `json:"nick"`
	Email string `json:"email,omitempty"`
}

// Profile is the locally remembered identity after a successful signup.
type Profile struct {
	UID          int64
	Email        string
	Nick         string
	RegisteredAt Timestamp
}
