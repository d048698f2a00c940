package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
)

// unwrapData returns the value under a top-level "data" key when the body
// is such an envelope, and the body itself otherwise.
func unwrapData(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return trimmed
	}
	if raw, ok := fields["data"]; ok {
		return bytes.TrimSpace(raw)
	}
	return trimmed
}

func malformed(op string, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// pageWire distinguishes a missing "content" key from an empty list.
type pageWire struct {
	Content       *[]models.Entry `json:"content"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int64           `json:"totalElements"`
	Number        int             `json:"number"`
	Size          int             `json:"size"`
	Last          bool            `json:"last"`
}

// decodePage accepts a page object or a bare array of entries. Entries
// that fail validation are left out of the page and reported in skipped.
func decodePage(op string, body []byte) (page *models.Page, skipped []error, err error) {
	page, err = decodePageBody(op, body)
	if err != nil {
		return nil, nil, err
	}
	valid := page.Content[:0]
	for _, e := range page.Content {
		if verr := e.Validate(); verr != nil {
			skipped = append(skipped, verr)
			continue
		}
		valid = append(valid, e)
	}
	page.Content = valid
	return page, skipped, nil
}

func decodePageBody(op string, body []byte) (*models.Page, error) {
	payload := unwrapData(body)
	if len(payload) == 0 {
		return nil, malformed(op, "empty body")
	}

	var page models.Page
	switch payload[0] {
	case '[':
		if err := json.Unmarshal(payload, &page.Content); err != nil {
			return nil, malformed(op, "%v", err)
		}
		page.Last = true
		page.Size = len(page.Content)
		page.TotalElements = int64(len(page.Content))
		if page.Size > 0 {
			page.TotalPages = 1
		}
	case '{':
		var w pageWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, malformed(op, "%v", err)
		}
		if w.Content == nil {
			return nil, malformed(op, "missing content")
		}
		page = models.Page{
			Content:       *w.Content,
			TotalPages:    w.TotalPages,
			TotalElements: w.TotalElements,
			Number:        w.Number,
			Size:          w.Size,
			Last:          w.Last,
		}
	default:
		return nil, malformed(op, "unexpected payload %.20q", payload)
	}

	if page.Content == nil {
		page.Content = []models.Entry{}
	}
	return &page, nil
}

func decodeEntryDetail(op string, body []byte) (*models.EntryDetail, error) {
	payload := unwrapData(body)
	var d models.EntryDetail
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, malformed(op, "%v", err)
	}
	if err := d.Validate(); err != nil {
		return nil, malformed(op, "%v", err)
	}
	valid := d.Recommended[:0]
	for _, r := range d.Recommended {
		if r.Validate() == nil {
			valid = append(valid, r)
		}
	}
	d.Recommended = valid
	return &d, nil
}

type userWire struct {
	ID    int64   `json:"id"`
	Nick  *string `json:"nick"`
	Email string  `json:"email"`
}

func decodeUserInfo(op string, body []byte) (*models.UserInfo, error) {
	var w userWire
	if err := json.Unmarshal(unwrapData(body), &w); err != nil {
		return nil, malformed(op, "%v", err)
	}
	if w.Nick == nil {
		return nil, malformed(op, "missing nick")
	}
	return &models.UserInfo{ID: w.ID, Nick: *w.Nick, Email: w.Email}, nil
}

func decodeCodeResponse(op string, body []byte) (*models.CodeResponse, error) {
	payload := unwrapData(body)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return &models.CodeResponse{}, nil
	}
	var w struct {
		Mock json.RawMessage `json:"mock"`
	}
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, malformed(op, "%v", err)
	}
	return &models.CodeResponse{Mock: rawScalar(w.Mock)}, nil
}

// stepWire is the optional body of a registration call.
type stepWire struct {
	ID    json.RawMessage `json:"id"`
	UID   json.RawMessage `json:"uid"`
	Token string          `json:"token"`
}

// decodeStep never fails: registration bodies are optional and the flow
// only branches on the status code.
func decodeStep(status int, body []byte) models.StepResponse {
	resp := models.StepResponse{Status: status}
	payload := unwrapData(body)
	if len(payload) == 0 || payload[0] != '{' {
		return resp
	}
	var w stepWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return resp
	}
	resp.Token = w.Token
	resp.ID = rawInt(w.ID)
	if resp.ID == 0 {
		resp.ID = rawInt(w.UID)
	}
	return resp
}

// rawScalar renders a JSON string or number as text; the mock code is
// sent as either.
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func rawInt(raw json.RawMessage) int64 {
	s := rawScalar(raw)
	if s == "" {
		return 0
	}
	v, err := json.Number(s).Int64()
	if err != nil {
		return 0
	}
	return v
}
