package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/client/client"
	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/client/validate"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
)

var (
	ErrControlDisabled        = errors.New("control is hidden or disabled")
	ErrWrongCode              = errors.New("wrong verification code")
	ErrRegistrationIncomplete = errors.New("registration rejected before profile creation")
	ErrRegistrationFailed     = errors.New("registration failed")
)

// RegistrationFlow drives the request-code and register controls.
//
// Initially the request-code control is visible and enabled and the
// register control is hidden. A successful code request swaps them. A
// successful registration is terminal: the register control stays disabled
// and the presenter navigates away. Every other exit re-enables the control
// that was pressed.
type RegistrationFlow struct {
	client    client.Client
	registrar Registrar
	presenter Presenter
	sessions  SessionService
	log       logging.Logger

	requestCtl  *Control
	registerCtl *Control

	mu   sync.Mutex
	form models.RegistrationForm
	uid  int64
}

// NewRegistrationFlow wires a flow. sessions may be nil, in which case a
// successful registration is not remembered locally.
func NewRegistrationFlow(c client.Client, r Registrar, p Presenter, sessions SessionService, log logging.Logger) *RegistrationFlow {
	return &RegistrationFlow{
		client:      c,
		registrar:   r,
		presenter:   p,
		sessions:    sessions,
		log:         log,
		requestCtl:  newControl("request-code", true, true),
		registerCtl: newControl("register", false, false),
	}
}

func (f *RegistrationFlow) RequestControl() *Control  { return f.requestCtl }
func (f *RegistrationFlow) RegisterControl() *Control { return f.registerCtl }

// Form returns a copy of the current input.
func (f *RegistrationFlow) Form() models.RegistrationForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// UpdateForm applies user input.
func (f *RegistrationFlow) UpdateForm(fn func(*models.RegistrationForm)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.form)
}

// RegisteredUID is the new user's id once registration succeeded, else 0.
func (f *RegistrationFlow) RegisteredUID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uid
}

// Done reports whether the flow reached its terminal success state.
func (f *RegistrationFlow) Done() bool {
	return f.RegisteredUID() != 0
}

// RequestCode asks the server to e-mail a verification code.
func (f *RegistrationFlow) RequestCode(ctx context.Context) error {
	const op = "services.RegistrationFlow.RequestCode"

	if !f.requestCtl.acquire() {
		return ErrControlDisabled
	}

	email := f.Form().Email
	if err := validate.Email(email); err != nil {
		f.presenter.Alert(err.Error())
		f.requestCtl.enable()
		return err
	}

	resp, err := f.client.RequestCode(ctx, email)
	if err != nil {
		f.log.Warn(ctx, "verification code request failed", logging.Op(op), logging.Err(err))
		f.presenter.Alert(MsgCodeServerError)
		f.requestCtl.enable()
		return fmt.Errorf("%s: %w", op, err)
	}

	if resp.Mock != "" {
		f.UpdateForm(func(form *models.RegistrationForm) { form.Code = resp.Mock })
		f.presenter.FillCode(resp.Mock)
	}

	f.requestCtl.hide()
	f.registerCtl.show()
	f.registerCtl.enable()
	return nil
}

// Register validates the form and runs the registration call sequence.
func (f *RegistrationFlow) Register(ctx context.Context) error {
	const op = "services.RegistrationFlow.Register"

	if !f.registerCtl.acquire() {
		return ErrControlDisabled
	}

	form := f.Form()
	if err := validate.Registration(form); err != nil {
		f.presenter.Alert(err.Error())
		f.registerCtl.enable()
		return err
	}

	outcome, err := f.registrar.DoRegister(ctx, form)
	if err != nil {
		f.log.Warn(ctx, "registration call sequence failed", logging.Op(op), logging.Err(err))
		f.presenter.Alert(MsgServerException)
		f.registerCtl.enable()
		return fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case outcome.Re == nil && outcome.Up.Status == http.StatusConflict:
		f.presenter.Alert(MsgWrongCode)
		f.registerCtl.enable()
		return ErrWrongCode

	case outcome.Re == nil:
		f.presenter.Alert(MsgCheckInput)
		f.registerCtl.enable()
		return fmt.Errorf("%w: status %d", ErrRegistrationIncomplete, outcome.Up.Status)

	case outcome.Re.Status == http.StatusCreated:
		f.complete(ctx, form, outcome.UID)
		return nil

	default:
		f.presenter.Alert(MsgRetryLater)
		f.registerCtl.enable()
		return fmt.Errorf("%w: status %d", ErrRegistrationFailed, outcome.Re.Status)
	}
}

func (f *RegistrationFlow) complete(ctx context.Context, form models.RegistrationForm, uid int64) {
	f.mu.Lock()
	f.uid = uid
	f.form = models.RegistrationForm{}
	f.mu.Unlock()

	f.presenter.Alert(MsgRegistered)

	if f.sessions != nil {
		p := models.Profile{
			UID:          uid,
			Email:        form.Email,
			Nick:         form.Nick,
			RegisteredAt: models.Timestamp{Time: time.Now()},
		}
		if err := f.sessions.Remember(ctx, p); err != nil {
			f.log.Warn(ctx, "failed to remember profile", "uid", uid, logging.Err(err))
		}
	}

	f.presenter.Navigate(ProfilePath(uid))
}
