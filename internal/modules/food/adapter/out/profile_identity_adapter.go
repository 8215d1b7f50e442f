package out

import (
	"context"

	foodout "studyloop/internal/modules/food/port/out"
	profilein "studyloop/internal/modules/profile/port/in"
)

type ProfileIdentityAdapter struct {
	profile profilein.Usecase
}

func NewProfileIdentityAdapter(profile profilein.Usecase) foodout.IdentityProvider {
	return &ProfileIdentityAdapter{profile: profile}
}

func (a *ProfileIdentityAdapter) CurrentIdentity(ctx context.Context) (string, bool) {
	current, err := a.profile.Current(ctx)
	if err != nil || current.ID == "" {
		return "", false
	}
	return current.ID, true
}
