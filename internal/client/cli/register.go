package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/client/render"
	"github.com/dmitrijs2005/hyperblog/internal/client/services"
	"github.com/dmitrijs2005/hyperblog/internal/client/validate"
	"github.com/dmitrijs2005/hyperblog/internal/common"
	"golang.org/x/term"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// isTerminal decides whether passwords can be read without echo.
var isTerminal = term.IsTerminal

var errAborted = errors.New("registration aborted")

// terminalPresenter prints the registration feedback.
type terminalPresenter struct {
	out     io.Writer
	baseURL string
}

func (p *terminalPresenter) Alert(msg string) {
	if msg == services.MsgRegistered {
		fmt.Fprintln(p.out, render.Success(msg))
		return
	}
	fmt.Fprintln(p.out, render.Alert(msg))
}

func (p *terminalPresenter) Navigate(path string) {
	fmt.Fprintln(p.out, "Your profile:", render.Link(strings.TrimRight(p.baseURL, "/")+path))
}

func (p *terminalPresenter) FillCode(code string) {
	fmt.Fprintf(p.out, "Verification code %s was filled in for you\n", code)
}

// Register walks the user through the two-step registration: request a
// code for an email, then submit nick, password and code. It keeps asking
// for the offending input until the server accepts the registration or
// the input runs out.
func (a *App) Register(ctx context.Context) error {
	flow := services.NewRegistrationFlow(
		a.client,
		a.registrar,
		&terminalPresenter{out: a.out, baseURL: a.config.BaseURL},
		a.sessions,
		a.log,
	)

	if err := a.requestCode(ctx, flow); err != nil {
		return err
	}

	if err := a.promptNick(flow); err != nil {
		return err
	}
	if err := a.promptPasswords(flow); err != nil {
		return err
	}
	if flow.Form().Code == "" {
		if err := a.promptCode(flow); err != nil {
			return err
		}
	}

	for {
		if err := pressable(flow.RegisterControl()); err != nil {
			return err
		}
		err := flow.Register(ctx)
		if err == nil {
			return nil
		}

		var ve *validate.ValidationError
		switch {
		case errors.As(err, &ve):
			err = a.repromptField(flow, ve.Field)
		case errors.Is(err, services.ErrWrongCode):
			err = a.promptCode(flow)
		default:
			err = a.confirmRetry()
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) requestCode(ctx context.Context, flow *services.RegistrationFlow) error {
	if err := a.promptEmail(flow); err != nil {
		return err
	}
	for {
		if err := pressable(flow.RequestControl()); err != nil {
			return err
		}
		err := flow.RequestCode(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, validate.ErrInvalidEmail) {
			err = a.promptEmail(flow)
		} else {
			err = a.confirmRetry()
		}
		if err != nil {
			return err
		}
	}
}

// pressable reports why a control cannot be pressed right now.
func pressable(c *services.Control) error {
	if !c.Visible() || !c.Enabled() {
		return fmt.Errorf("%s: %w", c.Name(), services.ErrControlDisabled)
	}
	return nil
}

func (a *App) repromptField(flow *services.RegistrationFlow, field string) error {
	switch field {
	case "email":
		return a.promptEmail(flow)
	case "code":
		return a.promptCode(flow)
	default:
		return a.promptPasswords(flow)
	}
}

func (a *App) promptEmail(flow *services.RegistrationFlow) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	flow.UpdateForm(func(f *models.RegistrationForm) { f.Email = email })
	return nil
}

func (a *App) promptNick(flow *services.RegistrationFlow) error {
	nick, err := getSimpleText(a.reader, "Enter nickname (optional)", a.out)
	if err != nil {
		return err
	}
	flow.UpdateForm(func(f *models.RegistrationForm) { f.Nick = nick })
	return nil
}

func (a *App) promptCode(flow *services.RegistrationFlow) error {
	code, err := getSimpleText(a.reader, "Enter the 6-digit verification code from your email", a.out)
	if err != nil {
		return err
	}
	flow.UpdateForm(func(f *models.RegistrationForm) { f.Code = code })
	return nil
}

func (a *App) promptPasswords(flow *services.RegistrationFlow) error {
	password, err := a.readSecret("Enter password")
	if err != nil {
		return err
	}
	repeat, err := a.readSecret("Repeat password")
	if err != nil {
		return err
	}
	flow.UpdateForm(func(f *models.RegistrationForm) {
		f.Password = password
		f.PasswordRepeat = repeat
	})
	return nil
}

// readSecret reads without echo on a terminal and falls back to a plain
// line when input is piped.
func (a *App) readSecret(prompt string) (string, error) {
	if !isTerminal(int(os.Stdin.Fd())) {
		return getSimpleText(a.reader, prompt, a.out)
	}
	fmt.Fprintln(a.out, prompt)
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) confirmRetry() error {
	answer, err := getSimpleText(a.reader, "Try again? [y/N]", a.out)
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
		return nil
	}
	return errAborted
}
