package services

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/client/render"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
)

// ---- fake client ----

type fakeClient struct {
	mu sync.Mutex

	ListRet     *models.Page
	ListErr     error
	SearchRet   []models.Entry
	SearchErr   error
	UserListRet *models.Page
	StarListRet *models.Page
	EntryRet    *models.EntryDetail
	EntryErr    error

	Users    map[int64]string
	UsersErr map[int64]error

	CodeRet *models.CodeResponse
	CodeErr error

	SignUpRet  models.StepResponse
	SignUpErr  error
	ProfileRet models.StepResponse
	ProfileErr error

	ListCalls        int
	LastListOpts     models.ListOptions
	SearchCalls      int
	LastSearchTerm   string
	LastUserListUID  int64
	LastStarListUID  int64
	UserInfoCalls    map[int64]int
	CodeCalls        int
	LastCodeEmail    string
	SignUpCalls      int
	LastSignUp       models.SignUpRequest
	ProfileCalls     int
	LastProfile      models.ProfileRequest
	LastProfileToken string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		Users:         map[int64]string{},
		UsersErr:      map[int64]error{},
		UserInfoCalls: map[int64]int{},
		CodeRet:       &models.CodeResponse{},
		ListRet:       &models.Page{Content: []models.Entry{}},
	}
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) ListEntries(ctx context.Context, opts models.ListOptions) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	f.LastListOpts = opts
	return f.ListRet, f.ListErr
}

func (f *fakeClient) SearchEntries(ctx context.Context, term string) ([]models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SearchCalls++
	f.LastSearchTerm = term
	return f.SearchRet, f.SearchErr
}

func (f *fakeClient) ListUserEntries(ctx context.Context, uid int64, opts models.ListOptions) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUserListUID = uid
	return f.UserListRet, nil
}

func (f *fakeClient) ListStarredEntries(ctx context.Context, uid int64, opts models.ListOptions) (*models.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastStarListUID = uid
	return f.StarListRet, nil
}

func (f *fakeClient) GetEntry(ctx context.Context, id int64) (*models.EntryDetail, error) {
	return f.EntryRet, f.EntryErr
}

func (f *fakeClient) UserInfo(ctx context.Context, uid int64) (*models.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UserInfoCalls[uid]++
	if err := f.UsersErr[uid]; err != nil {
		return nil, err
	}
	return &models.UserInfo{ID: uid, Nick: f.Users[uid]}, nil
}

func (f *fakeClient) RequestCode(ctx context.Context, email string) (*models.CodeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CodeCalls++
	f.LastCodeEmail = email
	if f.CodeErr != nil {
		return nil, f.CodeErr
	}
	return f.CodeRet, nil
}

func (f *fakeClient) SignUp(ctx context.Context, req models.SignUpRequest) (models.StepResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignUpCalls++
	f.LastSignUp = req
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeClient) CreateProfile(ctx context.Context, token string, req models.ProfileRequest) (models.StepResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProfileCalls++
	f.LastProfile = req
	f.LastProfileToken = token
	return f.ProfileRet, f.ProfileErr
}

// ---- fake registrar ----

type fakeRegistrar struct {
	Ret      models.RegisterOutcome
	Err      error
	Calls    int
	LastForm models.RegistrationForm
}

func (r *fakeRegistrar) DoRegister(ctx context.Context, form models.RegistrationForm) (models.RegisterOutcome, error) {
	r.Calls++
	r.LastForm = form
	return r.Ret, r.Err
}

// ---- recording presenter ----

type recordingPresenter struct {
	Alerts      []string
	Navigations []string
	Filled      []string
}

func (p *recordingPresenter) Alert(msg string)     { p.Alerts = append(p.Alerts, msg) }
func (p *recordingPresenter) Navigate(path string) { p.Navigations = append(p.Navigations, path) }
func (p *recordingPresenter) FillCode(code string) { p.Filled = append(p.Filled, code) }

// ---- fake session store ----

type fakeSessions struct {
	RememberErr error
	Remembered  []models.Profile
}

func (s *fakeSessions) Remember(ctx context.Context, p models.Profile) error {
	s.Remembered = append(s.Remembered, p)
	return s.RememberErr
}
func (s *fakeSessions) Current(ctx context.Context) (*models.Profile, error) {
	return nil, nil
}
func (s *fakeSessions) Forget(ctx context.Context) error {
	return nil
}
func (s *fakeSessions) History(ctx context.Context) ([]models.Profile, error) {
	return s.Remembered, nil
}

// ---- renderer / container ----

type plainRenderer struct {
	Err error
}

func (r plainRenderer) Render(v models.EntryView) (render.Fragment, error) {
	if r.Err != nil {
		return render.Fragment{}, r.Err
	}
	return render.Fragment{EntryID: v.ID, Text: v.Title + " by " + v.Author}, nil
}

func (r plainRenderer) RenderDetail(v models.EntryView, rec []models.Entry) (render.Fragment, error) {
	f, err := r.Render(v)
	if err != nil {
		return f, err
	}
	for _, e := range rec {
		f.Text += "\n+ " + e.Title
	}
	return f, nil
}

type sliceContainer struct {
	mu        sync.Mutex
	Fragments []render.Fragment
}

func (c *sliceContainer) Append(f render.Fragment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Fragments = append(c.Fragments, f)
	return nil
}

func (c *sliceContainer) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.Fragments))
	for i, f := range c.Fragments {
		out[i] = f.Text
	}
	return out
}

// ---- logger ----

func newBufferLogger() (logging.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
