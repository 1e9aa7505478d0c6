package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"vendormart/internal/domain"
	tokenrepo "vendormart/internal/repository/token"
)

// Identity is what a verified token resolves to.
type Identity struct {
	SubjectID string
	Role      string
	Email     string
}

type tokenManager struct {
	repo tokenrepo.Repository
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo}
}

func (m *tokenManager) Issue(ctx context.Context, id Identity, kind string, ttl time.Duration) (string, error) {
	expiresAt := time.Now().Add(ttl)
	for i := 0; i < 5; i++ {
		tok, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     tok,
			SubjectID: id.SubjectID,
			Role:      id.Role,
			Email:     id.Email,
			Kind:      kind,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return tok, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

func (m *tokenManager) Validate(ctx context.Context, tok string) (Identity, bool) {
	meta, err := m.repo.Get(ctx, tok)
	if err != nil {
		return Identity{}, false
	}
	if meta.Kind != "access" {
		return Identity{}, false
	}
	if time.Now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, tok)
		return Identity{}, false
	}
	return Identity{
		SubjectID: meta.SubjectID,
		Role:      meta.Role,
		Email:     meta.Email,
	}, true
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
