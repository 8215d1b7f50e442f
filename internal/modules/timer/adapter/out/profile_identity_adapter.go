package out

import (
	"context"

	profilein "studyloop/internal/modules/profile/port/in"
	timerout "studyloop/internal/modules/timer/port/out"
)

type ProfileIdentityAdapter struct {
	profile profilein.Usecase
}

func NewProfileIdentityAdapter(profile profilein.Usecase) timerout.IdentityProvider {
	return &ProfileIdentityAdapter{profile: profile}
}

func (a *ProfileIdentityAdapter) CurrentIdentity(ctx context.Context) (string, bool) {
	current, err := a.profile.Current(ctx)
	if err != nil || current.ID == "" {
		return "", false
	}
	return current.ID, true
}
