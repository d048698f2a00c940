package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/hyperblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// UIDFromToken reads the user id from a session token issued at signup.
// The signature is not verified: the client never holds the signing key
// and only uses the id to build a profile link.
func UIDFromToken(token string) (int64, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, common.BearerPrefix))
	if token == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	if uid, ok := claimInt(claims["uid"]); ok {
		return uid, nil
	}
	sub, err := claims.GetSubject()
	if err == nil {
		if uid, ok := claimInt(sub); ok {
			return uid, nil
		}
	}
	return 0, fmt.Errorf("%w: no uid claim", ErrInvalidToken)
}

func claimInt(v any) (int64, bool) {
	switch value := v.(type) {
	case float64:
		if value <= 0 || value != float64(int64(value)) {
			return 0, false
		}
		return int64(value), true
	case string:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
