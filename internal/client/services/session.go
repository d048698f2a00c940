package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/hyperblog/internal/dbx"
)

// SessionService remembers who registered from this machine.
type SessionService interface {
	// Remember stores p and makes it the current profile.
	Remember(ctx context.Context, p models.Profile) error
	// Current returns (nil, nil) when nobody is remembered.
	Current(ctx context.Context) (*models.Profile, error)
	// Forget unsets the current profile. Stored profiles are kept.
	Forget(ctx context.Context) error
	History(ctx context.Context) ([]models.Profile, error)
}

type sessionService struct {
	db *sql.DB
}

func NewSessionService(db *sql.DB) SessionService {
	return &sessionService{db: db}
}

func (s *sessionService) repo(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLiteRepository(db)
}

func (s *sessionService) Remember(ctx context.Context, p models.Profile) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		return repo.SetCurrent(ctx, p.UID)
	})
	if err != nil {
		return fmt.Errorf("remember profile: %w", err)
	}
	return nil
}

func (s *sessionService) Current(ctx context.Context) (*models.Profile, error) {
	return s.repo(s.db).Current(ctx)
}

func (s *sessionService) Forget(ctx context.Context) error {
	return s.repo(s.db).ClearCurrent(ctx)
}

func (s *sessionService) History(ctx context.Context) ([]models.Profile, error) {
	return s.repo(s.db).List(ctx)
}
