package out

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"studyloop/internal/modules/timer/domain"
	timerout "studyloop/internal/modules/timer/port/out"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/platform/id"
	"studyloop/internal/platform/markdown"
	"studyloop/internal/platform/slug"
)

// VaultSessionStore keeps one markdown note per completed session under
// <root>/sessions/YYYY/MM/DD, with the session fields in YAML frontmatter.
type VaultSessionStore struct {
	mu    sync.Mutex
	root  string
	idGen id.Generator
}

var _ timerout.SessionStore = (*VaultSessionStore)(nil)

func NewVaultSessionStore(root string, idGen id.Generator) *VaultSessionStore {
	return &VaultSessionStore{root: root, idGen: idGen}
}

func (s *VaultSessionStore) Append(_ context.Context, session domain.FocusSession) (domain.FocusSession, error) {
	if err := session.Phase.Validate(); err != nil {
		return domain.FocusSession{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	session.ID = s.idGen.New()
	date := session.StartTime.UTC()
	dir := filepath.Join(s.root, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.FocusSession{}, apperrors.NewStoreError("create session dir", err)
	}
	name := fmt.Sprintf("%s-%s-%s.md", date.Format("150405"), strings.ToLower(string(session.Phase)), slug.Make(session.ID))

	note := sessionNote{
		SchemaVersion: domain.SchemaVersion,
		ID:            session.ID,
		OwnerID:       session.OwnerID,
		Phase:         string(session.Phase),
		StartTime:     session.StartTime.UTC(),
		DurationMS:    session.Duration.Milliseconds(),
		Completed:     session.Completed,
	}
	endLine := "open"
	if session.EndTime != nil {
		end := session.EndTime.UTC()
		note.EndTime = &end
		endLine = end.Format(time.RFC3339)
	}
	body := fmt.Sprintf("# %s session\n\n- Owner: %s\n- Started: %s\n- Ended: %s\n- Duration: %s\n",
		strings.ToLower(string(session.Phase)), session.OwnerID, date.Format(time.RFC3339), endLine, session.Duration)
	rendered, err := markdown.RenderNote(note, body)
	if err != nil {
		return domain.FocusSession{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(rendered), 0o644); err != nil {
		return domain.FocusSession{}, apperrors.NewStoreError("write session note", err)
	}
	return session, nil
}

func (s *VaultSessionStore) TotalCompletedSessions(ctx context.Context, ownerID string, phase domain.Phase) (int, error) {
	sessions, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, session := range sessions {
		if session.Phase == phase && session.Completed {
			count++
		}
	}
	return count, nil
}

func (s *VaultSessionStore) TotalFocusDuration(ctx context.Context, ownerID string) (time.Duration, error) {
	sessions, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	var total time.Duration
	for _, session := range sessions {
		if session.Phase == domain.PhaseFocus {
			total += session.Duration
		}
	}
	return total, nil
}

func (s *VaultSessionStore) ListByOwner(_ context.Context, ownerID string) ([]domain.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root := filepath.Join(s.root, "sessions")
	out := []domain.FocusSession{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var note sessionNote
		if _, err := markdown.DecodeNote(string(content), &note); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if note.OwnerID != ownerID {
			return nil
		}
		session, err := note.toSession()
		if err != nil {
			return fmt.Errorf("decode session %s: %w", path, err)
		}
		out = append(out, session)
		return nil
	})
	if err != nil {
		return nil, apperrors.NewStoreError("list session notes", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

type sessionNote struct {
	SchemaVersion int        `yaml:"schema_version"`
	ID            string     `yaml:"id"`
	OwnerID       string     `yaml:"owner_id"`
	Phase         string     `yaml:"phase"`
	StartTime     time.Time  `yaml:"start_time"`
	EndTime       *time.Time `yaml:"end_time,omitempty"`
	DurationMS    int64      `yaml:"duration_ms"`
	Completed     bool       `yaml:"completed"`
}

func (n sessionNote) toSession() (domain.FocusSession, error) {
	session := domain.FocusSession{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		StartTime: n.StartTime,
		EndTime:   n.EndTime,
		Duration:  time.Duration(n.DurationMS) * time.Millisecond,
		Phase:     domain.Phase(n.Phase),
		Completed: n.Completed,
	}
	if err := session.Phase.Validate(); err != nil {
		return domain.FocusSession{}, err
	}
	return session, nil
}
