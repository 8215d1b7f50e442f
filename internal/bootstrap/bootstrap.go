package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/multierr"

	courseinadapter "studyloop/internal/modules/course/adapter/in"
	courseoutadapter "studyloop/internal/modules/course/adapter/out"
	coursedomain "studyloop/internal/modules/course/domain"
	courseservice "studyloop/internal/modules/course/service"
	courseusecase "studyloop/internal/modules/course/usecase"
	engagementinadapter "studyloop/internal/modules/engagement/adapter/in"
	engagementusecase "studyloop/internal/modules/engagement/usecase"
	foodinadapter "studyloop/internal/modules/food/adapter/in"
	foodoutadapter "studyloop/internal/modules/food/adapter/out"
	fooddomain "studyloop/internal/modules/food/domain"
	foodusecase "studyloop/internal/modules/food/usecase"
	profileinadapter "studyloop/internal/modules/profile/adapter/in"
	profileoutadapter "studyloop/internal/modules/profile/adapter/out"
	profileservice "studyloop/internal/modules/profile/service"
	profileusecase "studyloop/internal/modules/profile/usecase"
	timerinadapter "studyloop/internal/modules/timer/adapter/in"
	timeroutadapter "studyloop/internal/modules/timer/adapter/out"
	timerdomain "studyloop/internal/modules/timer/domain"
	timerout "studyloop/internal/modules/timer/port/out"
	timerservice "studyloop/internal/modules/timer/service"
	timerusecase "studyloop/internal/modules/timer/usecase"
	"studyloop/internal/platform/clock"
	"studyloop/internal/platform/config"
	"studyloop/internal/platform/id"
	"studyloop/internal/platform/logging"
	uiapp "studyloop/internal/ui/app"
)

type App struct {
	TimerCLI      timerinadapter.CLIHandler
	TimerTUI      timerinadapter.TUIHandler
	ProfileCLI    profileinadapter.CLIHandler
	CourseCLI     courseinadapter.CLIHandler
	FoodCLI       foodinadapter.CLIHandler
	EngagementCLI engagementinadapter.CLIHandler

	closers []func() error
}

func New(cfg config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	clk := clock.System()
	app := &App{}

	sessionStore, closeStore, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		app.closers = append(app.closers, closeStore)
	}

	courseUC := courseusecase.NewInteractor(
		courseservice.NewCourseService(courseoutadapter.NewVaultCourseStore(cfg.DataDir)),
		coursedomain.DefaultCourses(),
	)
	seeded, err := courseUC.EnsureCatalog(context.Background())
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("seed course catalog: %w", err)
	}
	if seeded.Seeded > 0 {
		logger.Infof("seeded %d default courses under %s", seeded.Seeded, cfg.DataDir)
	}

	profileUC := profileusecase.NewInteractor(
		profileservice.NewProfileService(
			clk,
			profileoutadapter.NewYAMLProfileStore(cfg.DataDir),
			profileoutadapter.NewCourseCatalogAdapter(courseUC),
		),
		profileoutadapter.NewFileActiveIdentityStore(cfg.DataDir),
		clk,
	)

	timerIdentity := timeroutadapter.NewProfileIdentityAdapter(profileUC)
	engine := timerservice.NewEngine(clk, timerIdentity, sessionStore, logger.With("component", "timer"), timerservice.Options{
		Durations: timerdomain.Durations{
			Focus: cfg.Timer.FocusDuration,
			Break: cfg.Timer.BreakDuration,
			Tick:  cfg.Timer.TickInterval,
		},
		PersistTimeout: cfg.Timer.PersistTimeout,
	})
	timerUC := timerusecase.NewInteractor(engine, sessionStore, timerIdentity)
	// The engine must drain pending writes before the store closes.
	app.closers = append([]func() error{func() error { timerUC.Close(); return nil }}, app.closers...)

	foodUC := foodusecase.NewInteractor(
		clk,
		fooddomain.DefaultCatalog(),
		foodoutadapter.NewProfileIdentityAdapter(profileUC),
		foodoutadapter.NewProgressAdapter(timerUC, profileUC),
		logger.With("component", "food"),
	)

	app.TimerCLI = timerinadapter.NewCLIHandler(timerUC)
	app.TimerTUI = timerinadapter.NewTUIHandler(timerUC)
	app.ProfileCLI = profileinadapter.NewCLIHandler(profileUC)
	app.CourseCLI = courseinadapter.NewCLIHandler(courseUC, profileUC)
	app.FoodCLI = foodinadapter.NewCLIHandler(foodUC)
	app.EngagementCLI = engagementinadapter.NewCLIHandler(engagementusecase.NewInteractor(logger.With("component", "engagement")))
	logger.Debugf("bootstrapped studyloop (store=%s, data=%s)", cfg.StoreBackend, cfg.DataDir)
	return app, nil
}

func newSessionStore(cfg config.Config) (timerout.SessionStore, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendVault:
		return timeroutadapter.NewVaultSessionStore(cfg.DataDir, id.UUID{}), nil, nil
	case config.BackendSQLite, "":
		store, err := timeroutadapter.NewSQLiteSessionStore(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("new session store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Close stops the timer, waits for in-flight session writes and releases
// the store.
func (a *App) Close() error {
	var err error
	for _, closeFn := range a.closers {
		err = multierr.Append(err, closeFn())
	}
	a.closers = nil
	return err
}

func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	model := uiapp.NewModel(ctx, app.TimerTUI, app.ProfileCLI, app.FoodCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
