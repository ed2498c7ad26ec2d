package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"github.com/pelletier/go-toml/v2"
)

const (
	FileName = "secrets.toml"

	storeDirMode   = 0o700
	secretFileMode = 0o600
	schemaVersion  = 1
)

type secretsFile struct {
	Version int               `toml:"version"`
	Secrets map[string]string `toml:"secrets"`
}

// Store keeps every secret in one owner-only TOML file below root.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{path: filepath.Join(filepath.Clean(root), FileName)}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}
	file.Secrets[key] = value

	return s.write(file)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return "", err
	}

	value, ok := file.Secrets[key]
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", domain.ErrSecretNotFound, key, s.path)
	}

	return value, nil
}

// Delete treats a missing key or file as already deleted.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := file.Secrets[key]; !ok {
		return nil
	}
	delete(file.Secrets, key)

	if len(file.Secrets) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove secrets file: %w", err)
		}
		return nil
	}

	return s.write(file)
}

func (s *Store) read() (secretsFile, error) {
	file := secretsFile{Version: schemaVersion, Secrets: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return file, nil
		}
		return secretsFile{}, fmt.Errorf("read secrets file: %w", err)
	}

	if err := toml.Unmarshal(data, &file); err != nil {
		return secretsFile{}, fmt.Errorf("decode secrets file %s: %w", s.path, err)
	}
	if file.Version != schemaVersion {
		return secretsFile{}, fmt.Errorf("unsupported secrets file version %d", file.Version)
	}
	if file.Secrets == nil {
		file.Secrets = map[string]string{}
	}

	return file, nil
}

func (s *Store) write(file secretsFile) error {
	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode secrets file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("create secrets directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".secrets-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp secrets file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(secretFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp secrets file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp secrets file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp secrets file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace secrets file: %w", err)
	}

	return nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("secret key is empty")
	}
	if strings.ContainsAny(key, "\r\n") || key != strings.TrimSpace(key) {
		return fmt.Errorf("invalid secret key %q", key)
	}

	return nil
}
