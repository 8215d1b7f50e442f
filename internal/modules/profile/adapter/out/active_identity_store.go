package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"studyloop/internal/modules/profile/domain"
	profileout "studyloop/internal/modules/profile/port/out"
	apperrors "studyloop/internal/platform/errors"
)

type FileActiveIdentityStore struct {
	path string
}

func NewFileActiveIdentityStore(dataDir string) profileout.ActiveIdentityStore {
	return &FileActiveIdentityStore{path: filepath.Join(dataDir, "active-identity.json")}
}

func (s *FileActiveIdentityStore) SaveActive(_ context.Context, identity domain.ActiveIdentity) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	payload, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active identity: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write active identity: %w", err)
	}
	return nil
}

func (s *FileActiveIdentityStore) LoadActive(_ context.Context) (domain.ActiveIdentity, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ActiveIdentity{}, apperrors.ErrNoIdentity
		}
		return domain.ActiveIdentity{}, fmt.Errorf("read active identity: %w", err)
	}
	identity := domain.ActiveIdentity{}
	if err := json.Unmarshal(payload, &identity); err != nil {
		return domain.ActiveIdentity{}, fmt.Errorf("decode active identity: %w", err)
	}
	if identity.UserID == "" {
		return domain.ActiveIdentity{}, apperrors.ErrNoIdentity
	}
	return identity, nil
}

func (s *FileActiveIdentityStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active identity: %w", err)
	}
	return nil
}
