package client

import (
	"context"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
)

// Client is the transport contract for the blog API. Registration calls
// report non-2xx statuses inside StepResponse; every other call turns them
// into errors.
type Client interface {
	Close() error

	ListEntries(ctx context.Context, opts models.ListOptions) (*models.Page, error)
	SearchEntries(ctx context.Context, term string) ([]models.Entry, error)
	ListUserEntries(ctx context.Context, uid int64, opts models.ListOptions) (*models.Page, error)
	ListStarredEntries(ctx context.Context, uid int64, opts models.ListOptions) (*models.Page, error)
	GetEntry(ctx context.Context, id int64) (*models.EntryDetail, error)

	UserInfo(ctx context.Context, uid int64) (*models.UserInfo, error)

	RequestCode(ctx context.Context, email string) (*models.CodeResponse, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (models.StepResponse, error)
	CreateProfile(ctx context.Context, token string, req models.ProfileRequest) (models.StepResponse, error)
}
