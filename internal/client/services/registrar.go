package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/hyperblog/internal/client/client"
	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/common"
	"github.com/dmitrijs2005/hyperblog/internal/cryptox"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
)

// ErrNoUID means the account was created but no response carried its id.
var ErrNoUID = errors.New("registration response carries no user id")

// Registrar runs the registration call sequence.
//
// The returned outcome has Re == nil when the sequence stopped after the
// first call. An error means the sequence could not complete (network,
// cancellation, unusable response); statuses are never errors.
type Registrar interface {
	DoRegister(ctx context.Context, form models.RegistrationForm) (models.RegisterOutcome, error)
}

type verifierRegistrar struct {
	client client.Client
	log    logging.Logger
}

// NewRegistrar returns a Registrar that signs up with a salt/verifier pair
// derived from the password, then creates the public profile.
func NewRegistrar(c client.Client, log logging.Logger) Registrar {
	return &verifierRegistrar{client: c, log: log}
}

func (r *verifierRegistrar) DoRegister(ctx context.Context, form models.RegistrationForm) (models.RegisterOutcome, error) {
	const op = "services.Registrar.DoRegister"

	password := []byte(form.Password)
	creds := cryptox.NewCredentials(password)
	common.WipeByteArray(password)

	up, err := r.client.SignUp(ctx, models.SignUpRequest{
		Email:    form.Email,
		Code:     form.Code,
		Salt:     creds.SaltHex(),
		Verifier: creds.VerifierHex(),
	})
	if err != nil {
		return models.RegisterOutcome{}, fmt.Errorf("%s: signup: %w", op, err)
	}

	out := models.RegisterOutcome{Up: up}
	if !up.OK() {
		r.log.Info(ctx, "signup rejected", logging.Op(op), "status", up.Status)
		return out, nil
	}

	re, err := r.client.CreateProfile(ctx, up.Token, models.ProfileRequest{Email: form.Email, Nick: form.Nick})
	if err != nil {
		return out, fmt.Errorf("%s: create profile: %w", op, err)
	}
	out.Re = &re

	if re.Status != http.StatusCreated {
		return out, nil
	}

	uid, err := resolveUID(up, re)
	if err != nil {
		return out, fmt.Errorf("%s: %w", op, err)
	}
	out.UID = uid
	return out, nil
}

// resolveUID prefers the id in the profile response, then the uid claim of
// the newest session token.
func resolveUID(up, re models.StepResponse) (int64, error) {
	if re.ID > 0 {
		return re.ID, nil
	}
	for _, token := range []string{re.Token, up.Token} {
		if token == "" {
			continue
		}
		if uid, err := client.UIDFromToken(token); err == nil {
			return uid, nil
		}
	}
	return 0, ErrNoUID
}
