package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records, per account, the instant before which every issued
// session token is no longer honored. Entries expire with the token lifetime
// since no token older than that can still verify.
type RevocationList struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRevocationList(client *redis.Client, tokenTTL time.Duration) *RevocationList {
	return &RevocationList{
		client: client,
		ttl:    tokenTTL,
		now:    time.Now,
	}
}

// Revoke invalidates every token issued to accountID up to and including now.
func (l *RevocationList) Revoke(ctx context.Context, accountID string) error {
	return l.client.Set(ctx, RevocationKey(accountID), l.now().UnixMilli(), l.ttl).Err()
}

// IsRevoked reports whether a token issued at issuedAt for accountID has been revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, accountID string, issuedAt time.Time) (bool, error) {
	val, err := l.client.Get(ctx, RevocationKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	revokedAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, err
	}
	return issuedAt.UnixMilli() <= revokedAt, nil
}
