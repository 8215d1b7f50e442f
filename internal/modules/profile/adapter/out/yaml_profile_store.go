package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"studyloop/internal/modules/profile/domain"
	profileout "studyloop/internal/modules/profile/port/out"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/platform/slug"
)

type YAMLProfileStore struct {
	dir string
}

func NewYAMLProfileStore(dataDir string) profileout.ProfileStore {
	return &YAMLProfileStore{dir: filepath.Join(dataDir, "profiles")}
}

type profileFile struct {
	SchemaVersion  int `yaml:"schema_version"`
	domain.Profile `yaml:",inline"`
}

func (s *YAMLProfileStore) Save(_ context.Context, profile domain.Profile) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create profile dir: %w", err)
	}
	raw, err := yaml.Marshal(profileFile{SchemaVersion: domain.SchemaVersion, Profile: profile})
	if err != nil {
		return "", fmt.Errorf("marshal profile yaml: %w", err)
	}
	path := s.pathFor(profile.ID)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write profile: %w", err)
	}
	return path, nil
}

func (s *YAMLProfileStore) FindByID(_ context.Context, id string) (domain.Profile, error) {
	raw, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Profile{}, apperrors.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var file profileFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Profile{}, fmt.Errorf("parse profile yaml: %w", err)
	}
	if file.ID != id {
		// Distinct ids can share a slug; treat a mismatch as absent.
		return domain.Profile{}, apperrors.ErrNotFound
	}
	return file.Profile, nil
}

func (s *YAMLProfileStore) pathFor(id string) string {
	return filepath.Join(s.dir, slug.Make(id)+".yaml")
}
