package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/client/client"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
	gocache "github.com/patrickmn/go-cache"
)

// AuthorResolver maps an author id to a display nickname.
type AuthorResolver interface {
	Nick(ctx context.Context, uid int64) (string, error)
}

// PlaceholderAuthor is shown when an author cannot be resolved.
func PlaceholderAuthor(uid int64) string {
	return fmt.Sprintf("user #%d", uid)
}

// cachedAuthorResolver is a read-through cache over client.UserInfo.
// Failures are not cached.
type cachedAuthorResolver struct {
	client client.Client
	cache  *gocache.Cache
	log    logging.Logger
}

// NewAuthorResolver returns an AuthorResolver that remembers nicknames for ttl.
func NewAuthorResolver(c client.Client, ttl time.Duration, log logging.Logger) AuthorResolver {
	return &cachedAuthorResolver{
		client: c,
		cache:  gocache.New(ttl, 2*ttl),
		log:    log,
	}
}

func (r *cachedAuthorResolver) Nick(ctx context.Context, uid int64) (string, error) {
	key := strconv.FormatInt(uid, 10)
	if v, ok := r.cache.Get(key); ok {
		if nick, ok := v.(string); ok {
			return nick, nil
		}
	}

	info, err := r.client.UserInfo(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("resolve author %d: %w", uid, err)
	}

	nick := strings.TrimSpace(info.Nick)
	if nick == "" {
		nick = PlaceholderAuthor(uid)
	}
	r.cache.Set(key, nick, gocache.DefaultExpiration)
	r.log.Debug(ctx, "author resolved", "uid", uid, "nick", nick)
	return nick, nil
}
