package out_test

import (
	"context"
	"errors"
	"testing"

	foodadapter "studyloop/internal/modules/food/adapter/out"
	profiledto "studyloop/internal/modules/profile/dto"
	profilein "studyloop/internal/modules/profile/port/in"
	timerdto "studyloop/internal/modules/timer/dto"
	timerin "studyloop/internal/modules/timer/port/in"
	apperrors "studyloop/internal/platform/errors"
)

type stubTimer struct {
	timerin.Usecase
	stats timerdto.StatsOutput
	err   error
	asked string
}

func (s *stubTimer) Stats(_ context.Context, input timerdto.StatsInput) (timerdto.StatsOutput, error) {
	s.asked = input.OwnerID
	return s.stats, s.err
}

type stubProfile struct {
	profilein.Usecase
	current    profiledto.ProfileOutput
	currentErr error
	profile    profiledto.ProfileOutput
	profileErr error
}

func (s *stubProfile) Current(context.Context) (profiledto.ProfileOutput, error) {
	return s.current, s.currentErr
}

func (s *stubProfile) GetProfile(context.Context, string) (profiledto.ProfileOutput, error) {
	return s.profile, s.profileErr
}

func TestProgressAdapterCombinesTimerAndLessons(t *testing.T) {
	t.Parallel()
	timer := &stubTimer{stats: timerdto.StatsOutput{CompletedFocusSessions: 7}}
	profile := &stubProfile{profile: profiledto.ProfileOutput{ID: "ada", CompletedLessons: []string{"a", "b"}}}

	snapshot, err := foodadapter.NewProgressAdapter(timer, profile).CurrentProgress(context.Background(), "ada")
	if err != nil {
		t.Fatalf("current progress: %v", err)
	}
	if timer.asked != "ada" {
		t.Fatalf("stats should be read for the owner, got %q", timer.asked)
	}
	if snapshot.CompletedFocusSessions != 7 || snapshot.CompletedLessons != 2 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestProgressAdapterToleratesMissingProfile(t *testing.T) {
	t.Parallel()
	timer := &stubTimer{stats: timerdto.StatsOutput{CompletedFocusSessions: 1}}
	profile := &stubProfile{profileErr: apperrors.ErrNotFound}

	snapshot, err := foodadapter.NewProgressAdapter(timer, profile).CurrentProgress(context.Background(), "ada")
	if err != nil || snapshot.CompletedLessons != 0 || snapshot.CompletedFocusSessions != 1 {
		t.Fatalf("unexpected result %+v (%v)", snapshot, err)
	}
}

func TestProgressAdapterPropagatesStoreFailures(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	if _, err := foodadapter.NewProgressAdapter(&stubTimer{err: boom}, &stubProfile{}).CurrentProgress(context.Background(), "ada"); !errors.Is(err, boom) {
		t.Fatalf("expected timer error, got %v", err)
	}
	if _, err := foodadapter.NewProgressAdapter(&stubTimer{}, &stubProfile{profileErr: boom}).CurrentProgress(context.Background(), "ada"); !errors.Is(err, boom) {
		t.Fatalf("expected profile error, got %v", err)
	}
}

func TestProfileIdentityAdapter(t *testing.T) {
	t.Parallel()
	signedIn := foodadapter.NewProfileIdentityAdapter(&stubProfile{current: profiledto.ProfileOutput{ID: "ada"}})
	if owner, ok := signedIn.CurrentIdentity(context.Background()); !ok || owner != "ada" {
		t.Fatalf("expected ada, got %q %v", owner, ok)
	}
	signedOut := foodadapter.NewProfileIdentityAdapter(&stubProfile{currentErr: apperrors.ErrNoIdentity})
	if _, ok := signedOut.CurrentIdentity(context.Background()); ok {
		t.Fatalf("signed-out profile must report no identity")
	}
}
