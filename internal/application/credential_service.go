package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
)

const PinningTokenKey = "memepool/pinata/jwt"

type CredentialService struct {
	store ports.SecretStore
}

func NewCredentialService(store ports.SecretStore) *CredentialService {
	return &CredentialService{store: store}
}

func (s *CredentialService) SetPinningToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrInvalidToken
	}

	if err := s.store.Put(ctx, PinningTokenKey, token); err != nil {
		return fmt.Errorf("store pinning token: %w", err)
	}

	return nil
}

func (s *CredentialService) RemovePinningToken(ctx context.Context) error {
	if err := s.store.Delete(ctx, PinningTokenKey); err != nil {
		return fmt.Errorf("delete pinning token: %w", err)
	}

	return nil
}

// PinningToken returns override when set (config or environment), otherwise the stored token.
func (s *CredentialService) PinningToken(ctx context.Context, override string) (string, error) {
	if token := strings.TrimSpace(override); token != "" {
		return token, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := s.store.Get(ctx, PinningTokenKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", domain.ErrPinningTokenMissing
		}
		return "", fmt.Errorf("read pinning token: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrPinningTokenMissing
	}

	return token, nil
}
