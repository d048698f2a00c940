// Package apitest runs an in-process fake of the blog API for tests.
// Behavior is driven by the exported fields of API; every request is
// recorded.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Request is one recorded call.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type API struct {
	mu sync.Mutex

	Entries []models.Entry
	Search  []models.Entry
	Users   map[int64]string

	// Envelope wraps read responses in {"data": ...}.
	Envelope bool

	ListStatus int
	UserStatus map[int64]int

	CodeStatus int
	Mock       string

	SignUpStatus int
	SignUpToken  string

	ProfileStatus int
	ProfileID     int64

	requests []Request
}

// New returns an API that answers every call successfully.
func New() *API {
	return &API{
		Users:         map[int64]string{},
		UserStatus:    map[int64]int{},
		ListStatus:    http.StatusOK,
		CodeStatus:    http.StatusOK,
		SignUpStatus:  http.StatusOK,
		ProfileStatus: http.StatusCreated,
	}
}

// Start serves a on an httptest server closed at test cleanup.
func Start(t testing.TB, a *API) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(a.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(a.record)

	r.Get("/blog/", a.listEntries)
	r.Get("/blog/search/", a.searchEntries)
	r.Get("/blog/user/{uid}/", a.userEntries)
	r.Get("/blog/star/{uid}/", a.listEntries)
	r.Get("/blog/{id}/", a.getEntry)
	r.Get("/user/{uid}/", a.userInfo)

	r.Post("/code", a.requestCode)
	r.Post("/srp/register", a.signUp)
	r.Post("/user/", a.createProfile)

	return r
}

// Requests returns a copy of everything received so far.
func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

// Count returns how many requests hit method+path.
func (a *API) Count(method, path string) int {
	n := 0
	for _, req := range a.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

func (a *API) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		a.mu.Lock()
		a.requests = append(a.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		a.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (a *API) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if status >= 400 {
		render.Status(r, status)
		render.JSON(w, r, map[string]string{"error": http.StatusText(status)})
		return
	}
	a.mu.Lock()
	envelope := a.Envelope
	a.mu.Unlock()

	render.Status(r, status)
	if envelope {
		render.JSON(w, r, map[string]any{"data": v})
		return
	}
	render.JSON(w, r, v)
}

func (a *API) snapshot() (entries []models.Entry, search []models.Entry, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Entry(nil), a.Entries...), append([]models.Entry(nil), a.Search...), a.ListStatus
}

func page(entries []models.Entry) models.Page {
	if entries == nil {
		entries = []models.Entry{}
	}
	return models.Page{
		Content:       entries,
		TotalPages:    1,
		TotalElements: int64(len(entries)),
		Size:          len(entries),
		Last:          true,
	}
}

func (a *API) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, _, status := a.snapshot()
	a.respond(w, r, status, page(entries))
}

func (a *API) searchEntries(w http.ResponseWriter, r *http.Request) {
	_, search, status := a.snapshot()
	if search == nil {
		search = []models.Entry{}
	}
	a.respond(w, r, status, search)
}

func (a *API) userEntries(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		a.respond(w, r, http.StatusBadRequest, nil)
		return
	}
	entries, _, status := a.snapshot()
	own := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.AuthorID == uid {
			own = append(own, e)
		}
	}
	a.respond(w, r, status, page(own))
}

func (a *API) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.respond(w, r, http.StatusBadRequest, nil)
		return
	}
	entries, _, _ := a.snapshot()
	for _, e := range entries {
		if e.ID != id {
			continue
		}
		detail := models.EntryDetail{Entry: e}
		for _, other := range entries {
			if other.ID != id {
				detail.Recommended = append(detail.Recommended, other)
			}
		}
		a.respond(w, r, http.StatusOK, detail)
		return
	}
	a.respond(w, r, http.StatusNotFound, nil)
}

func (a *API) userInfo(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		a.respond(w, r, http.StatusBadRequest, nil)
		return
	}

	a.mu.Lock()
	status, forced := a.UserStatus[uid]
	nick, ok := a.Users[uid]
	a.mu.Unlock()

	switch {
	case forced:
		a.respond(w, r, status, nil)
	case !ok:
		a.respond(w, r, http.StatusNotFound, nil)
	default:
		a.respond(w, r, http.StatusOK, models.UserInfo{ID: uid, Nick: nick})
	}
}

func (a *API) requestCode(w http.ResponseWriter, r *http.Request) {
	var req models.CodeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Email == "" {
		a.respond(w, r, http.StatusBadRequest, nil)
		return
	}

	a.mu.Lock()
	status, mock := a.CodeStatus, a.Mock
	a.mu.Unlock()

	a.respond(w, r, status, models.CodeResponse{Mock: mock})
}

func (a *API) signUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		a.respond(w, r, http.StatusBadRequest, nil)
		return
	}

	a.mu.Lock()
	status, token := a.SignUpStatus, a.SignUpToken
	a.mu.Unlock()

	if status >= 300 {
		a.respond(w, r, status, nil)
		return
	}
	a.respond(w, r, status, map[string]string{"token": token})
}

func (a *API) createProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		a.respond(w, r, http.StatusBadRequest, nil)
		return
	}

	a.mu.Lock()
	status, id := a.ProfileStatus, a.ProfileID
	a.mu.Unlock()

	if status >= 300 {
		a.respond(w, r, status, nil)
		return
	}
	if id == 0 {
		a.respond(w, r, status, map[string]string{})
		return
	}
	a.respond(w, r, status, map[string]int64{"id": id})
}
