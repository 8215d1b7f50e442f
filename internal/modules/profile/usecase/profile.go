package usecase

import (
	"context"

	"studyloop/internal/modules/profile/domain"
	profiledto "studyloop/internal/modules/profile/dto"
	profilein "studyloop/internal/modules/profile/port/in"
	profileout "studyloop/internal/modules/profile/port/out"
	"studyloop/internal/modules/profile/service"
	"studyloop/internal/platform/clock"
)

type Interactor struct {
	svc         *service.ProfileService
	activeStore profileout.ActiveIdentityStore
	clock       clock.Clock
}

func NewInteractor(svc *service.ProfileService, activeStore profileout.ActiveIdentityStore, clock clock.Clock) profilein.Usecase {
	return &Interactor{svc: svc, activeStore: activeStore, clock: clock}
}

func (i *Interactor) Login(ctx context.Context, input profiledto.LoginInput) (profiledto.ProfileOutput, error) {
	profile, path, err := i.svc.Upsert(ctx, input.UserID, input.Name, input.Email)
	if err != nil {
		return profiledto.ProfileOutput{}, err
	}
	active := domain.ActiveIdentity{UserID: profile.ID, SignedInAt: i.clock.Now()}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return profiledto.ProfileOutput{}, err
	}
	out := toOutput(profile, active)
	out.Path = path
	return out, nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.activeStore.ClearActive(ctx)
}

func (i *Interactor) Current(ctx context.Context) (profiledto.ProfileOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return profiledto.ProfileOutput{}, err
	}
	profile, err := i.svc.Get(ctx, active.UserID)
	if err != nil {
		return profiledto.ProfileOutput{}, err
	}
	return toOutput(profile, active), nil
}

func (i *Interactor) GetProfile(ctx context.Context, id string) (profiledto.ProfileOutput, error) {
	profile, err := i.svc.Get(ctx, id)
	if err != nil {
		return profiledto.ProfileOutput{}, err
	}
	return toOutput(profile, domain.ActiveIdentity{}), nil
}

func (i *Interactor) CompleteLesson(ctx context.Context, input profiledto.CompleteLessonInput) (profiledto.CompleteLessonOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return profiledto.CompleteLessonOutput{}, err
	}
	profile, added, err := i.svc.CompleteLesson(ctx, active.UserID, input.LessonID)
	if err != nil {
		return profiledto.CompleteLessonOutput{}, err
	}
	return profiledto.CompleteLessonOutput{
		ProfileID:        profile.ID,
		LessonID:         input.LessonID,
		AlreadyCompleted: !added,
		CompletedLessons: len(profile.CompletedLessons),
	}, nil
}

func toOutput(profile domain.Profile, active domain.ActiveIdentity) profiledto.ProfileOutput {
	return profiledto.ProfileOutput{
		ID:               profile.ID,
		Name:             profile.Name,
		Email:            profile.Email,
		CompletedLessons: append([]string(nil), profile.CompletedLessons...),
		SignedInAt:       active.SignedInAt,
	}
}
