// Package shortener maps media paths to short, stable tokens. A token
// is the first 15 hex characters of the SHA-256 digest of its target,
// so the same target always produces the same token and shortening is
// idempotent by content.
package shortener

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/learnhub/backend/internal/domain"
	"github.com/learnhub/backend/internal/metrics"
)

const (
	// TokenLength is the fixed length of a short link token.
	TokenLength = 15

	cacheKeyPrefix = "shortlink:"
	cacheTTL       = 24 * time.Hour
)

type LinkRepository interface {
	Create(link *domain.ShortLink) error
	GetByToken(token string) (*domain.ShortLink, error)
	GetByTarget(target string) (*domain.ShortLink, error)
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type Service struct {
	repo  LinkRepository
	cache CacheRepository // Optional, can be nil
}

func NewService(repo LinkRepository, cache CacheRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// TokenFor derives the short token for a target path.
func TokenFor(target string) string {
	sum := sha256.Sum256([]byte(target))
	return hex.EncodeToString(sum[:])[:TokenLength]
}

// Shorten stores a link for the target and returns its token. When a row
// for this target already exists, including when a concurrent caller won
// the insert race, the existing token is returned instead.
func (s *Service) Shorten(ctx context.Context, target string) (string, error) {
	link := &domain.ShortLink{
		Token:  TokenFor(target),
		Target: target,
	}

	err := s.repo.Create(link)
	if errors.Is(err, domain.ErrDuplicate) {
		existing, err := s.repo.GetByTarget(target)
		if err != nil {
			return "", fmt.Errorf("failed to look up existing short link: %v", err)
		}
		return existing.Token, nil
	}
	if err != nil {
		return "", err
	}

	metrics.ShortLinksCreated.Inc()
	return link.Token, nil
}

// Lengthen resolves a token back to its original target path.
// domain.ErrNotFound when the token is unknown. Links are immutable, so
// resolved targets are cached without invalidation.
func (s *Service) Lengthen(ctx context.Context, token string) (string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKeyPrefix+token)
		if err == nil && cached != "" {
			return cached, nil
		}
	}

	link, err := s.repo.GetByToken(token)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyPrefix+token, link.Target, cacheTTL); err != nil {
			log.Printf("[SHORTENER] Warning: Failed to cache short link %s: %v", token, err)
		}
	}

	return link.Target, nil
}
