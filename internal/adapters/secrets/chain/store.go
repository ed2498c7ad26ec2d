package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/umi-memepool/internal/adapters/secrets/file"
	passstore "github.com/bnema/umi-memepool/internal/adapters/secrets/pass"
	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"go.uber.org/zap"
)

// Backend is one named place a secret can live.
type Backend struct {
	Name  string
	Store ports.SecretStore
}

// Store tries its backends in order. Put and Get stop at the first backend
// that answers; Delete visits every backend so a token cannot linger in one.
type Store struct {
	backends []Backend
	logger   *zap.Logger
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret store chain has no backends")

func New(logger *zap.Logger, backends ...Backend) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, b := range backends {
		if b.Store == nil {
			return nil, fmt.Errorf("secret backend %d (%s) is nil", i, b.Name)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{backends: append([]Backend(nil), backends...), logger: logger}, nil
}

// NewPassFirstWithFileFallback keeps secrets in pass(1) and falls back to a
// 0600 TOML file under fileRoot when pass is missing or not initialised.
func NewPassFirstWithFileFallback(fileRoot string, logger *zap.Logger) (*Store, error) {
	return New(logger,
		Backend{Name: "pass", Store: passstore.NewStore()},
		Backend{Name: "file", Store: filestore.NewStore(fileRoot)},
	)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for _, b := range s.backends {
		err := b.Store.Put(ctx, key, value)
		if err == nil {
			s.logger.Debug("secret stored", zap.String("key", key), zap.String("backend", b.Name))
			return nil
		}
		if isContextErr(err) {
			return err
		}

		s.logger.Debug("secret backend refused put", zap.String("backend", b.Name), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
	}

	return fmt.Errorf("store secret %q: %w", key, errors.Join(errs...))
}

// Get returns domain.ErrSecretNotFound only when every backend reported the
// key missing or failed.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, b := range s.backends {
		value, err := b.Store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if isContextErr(err) {
			return "", err
		}

		errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
	}

	joined := errors.Join(errs...)
	if errors.Is(joined, domain.ErrSecretNotFound) {
		return "", fmt.Errorf("%w: %q (%s)", domain.ErrSecretNotFound, key, joined)
	}

	return "", fmt.Errorf("read secret %q: %w", key, joined)
}

// Delete succeeds when at least one backend removed the key or never had it.
func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	deleted := false
	for _, b := range s.backends {
		err := b.Store.Delete(ctx, key)
		if isContextErr(err) {
			return err
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
			continue
		}
		deleted = true
	}

	if deleted {
		if len(errs) > 0 {
			s.logger.Warn("secret removed from some backends only", zap.String("key", key), zap.Error(errors.Join(errs...)))
		}
		return nil
	}

	return fmt.Errorf("delete secret %q: %w", key, errors.Join(errs...))
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
