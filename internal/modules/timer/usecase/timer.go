package usecase

import (
	"context"
	"fmt"
	"strings"

	"studyloop/internal/modules/timer/domain"
	timerdto "studyloop/internal/modules/timer/dto"
	timerin "studyloop/internal/modules/timer/port/in"
	timerout "studyloop/internal/modules/timer/port/out"
	"studyloop/internal/modules/timer/service"
	apperrors "studyloop/internal/platform/errors"
)

type Interactor struct {
	engine   *service.Engine
	store    timerout.SessionStore
	identity timerout.IdentityProvider
}

func NewInteractor(engine *service.Engine, store timerout.SessionStore, identity timerout.IdentityProvider) timerin.Usecase {
	return &Interactor{engine: engine, store: store, identity: identity}
}

func (i *Interactor) Start(ctx context.Context) timerdto.StateOutput {
	return toStateOutput(i.engine.Start(ctx))
}

func (i *Interactor) Pause(_ context.Context) timerdto.StateOutput {
	return toStateOutput(i.engine.Pause())
}

func (i *Interactor) Reset(_ context.Context) timerdto.StateOutput {
	return toStateOutput(i.engine.Reset())
}

func (i *Interactor) State(_ context.Context) timerdto.StateOutput {
	return toStateOutput(i.engine.Snapshot())
}

// Subscribe relays engine events until ctx is done or the engine closes.
func (i *Interactor) Subscribe(ctx context.Context, buffer int) <-chan timerdto.EventOutput {
	source := i.engine.Subscribe(buffer)
	out := make(chan timerdto.EventOutput, cap(source))
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-source:
				if !ok {
					return
				}
				select {
				case out <- toEventOutput(event):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (i *Interactor) Stats(ctx context.Context, input timerdto.StatsInput) (timerdto.StatsOutput, error) {
	owner := i.owner(ctx, input.OwnerID)
	focus, err := i.store.TotalCompletedSessions(ctx, owner, domain.PhaseFocus)
	if err != nil {
		return timerdto.StatsOutput{}, err
	}
	breaks, err := i.store.TotalCompletedSessions(ctx, owner, domain.PhaseBreak)
	if err != nil {
		return timerdto.StatsOutput{}, err
	}
	total, err := i.store.TotalFocusDuration(ctx, owner)
	if err != nil {
		return timerdto.StatsOutput{}, err
	}
	return timerdto.StatsOutput{
		OwnerID:                owner,
		CompletedFocusSessions: focus,
		CompletedBreakSessions: breaks,
		TotalFocus:             total,
	}, nil
}

func (i *Interactor) History(ctx context.Context, input timerdto.HistoryInput) ([]timerdto.SessionOutput, error) {
	if input.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", apperrors.ErrInvalidInput)
	}
	sessions, err := i.store.ListByOwner(ctx, i.owner(ctx, input.OwnerID))
	if err != nil {
		return nil, err
	}
	if input.Limit > 0 && len(sessions) > input.Limit {
		sessions = sessions[:input.Limit]
	}
	out := make([]timerdto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionOutput(session))
	}
	return out, nil
}

func (i *Interactor) Close() {
	i.engine.Close()
}

func (i *Interactor) owner(ctx context.Context, explicit string) string {
	if owner := strings.TrimSpace(explicit); owner != "" {
		return owner
	}
	if i.identity != nil {
		if owner, ok := i.identity.CurrentIdentity(ctx); ok && owner != "" {
			return owner
		}
	}
	return domain.AnonymousOwner
}

func toStateOutput(snapshot domain.Snapshot) timerdto.StateOutput {
	out := timerdto.StateOutput{
		Status:      string(snapshot.Status),
		Phase:       string(snapshot.Phase),
		PhaseLength: snapshot.PhaseLength,
		Remaining:   snapshot.Remaining,
	}
	if snapshot.Open != nil {
		out.SessionOpen = true
		out.SessionOwner = snapshot.Open.OwnerID
		out.SessionStart = snapshot.Open.StartTime
	}
	return out
}

func toEventOutput(event domain.Event) timerdto.EventOutput {
	out := timerdto.EventOutput{
		Type:  string(event.Type),
		State: toStateOutput(event.Snapshot),
		At:    event.At,
	}
	if event.Session != nil {
		session := toSessionOutput(*event.Session)
		out.Session = &session
	}
	if event.Err != nil {
		out.Error = event.Err.Error()
	}
	return out
}

func toSessionOutput(session domain.FocusSession) timerdto.SessionOutput {
	out := timerdto.SessionOutput{
		ID:        session.ID,
		OwnerID:   session.OwnerID,
		Phase:     string(session.Phase),
		StartTime: session.StartTime,
		Duration:  session.Duration,
		Completed: session.Completed,
	}
	if session.EndTime != nil {
		out.EndTime = *session.EndTime
	}
	return out
}
