package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/dbx"
)

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, p models.Profile) error {
	registeredAt := p.RegisteredAt.Time
	if registeredAt.IsZero() {
		registeredAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (uid, email, nick, registered_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			email = excluded.email,
			nick = excluded.nick,
			registered_at = excluded.registered_at
	`, p.UID, p.Email, p.Nick, registeredAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save profile[%d]: %w", p.UID, err)
	}
	return nil
}

func (r *SQLiteRepository) SetCurrent(ctx context.Context, uid int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET is_current = 1 WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("failed to set current profile[%d]: %w", uid, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to set current profile[%d]: %w", uid, sql.ErrNoRows)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE profiles SET is_current = 0 WHERE uid <> ?`, uid); err != nil {
		return fmt.Errorf("failed to set current profile[%d]: %w", uid, err)
	}
	return nil
}

func (r *SQLiteRepository) Current(ctx context.Context) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT uid, email, nick, registered_at FROM profiles WHERE is_current = 1 LIMIT 1
	`)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT uid, email, nick, registered_at FROM profiles ORDER BY registered_at DESC, uid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var result []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ClearCurrent(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE profiles SET is_current = 0`); err != nil {
		return fmt.Errorf("failed to clear current profile: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.Profile, error) {
	var (
		p  models.Profile
		ms int64
	)
	if err := s.Scan(&p.UID, &p.Email, &p.Nick, &ms); err != nil {
		return nil, err
	}
	p.RegisteredAt = models.Timestamp{Time: time.UnixMilli(ms).UTC()}
	return &p, nil
}
