package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"studyloop/internal/bootstrap"
	"studyloop/internal/platform/config"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/platform/logging"
)

type rootOptions struct {
	dataDir    string
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "studyloop",
		Short:         "Focus timer, study progress and rewards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDataDir(), "directory holding sessions, profiles and config.yaml")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log_level: debug|info|warn|error")

	root.AddCommand(newTimerCmd(opts))
	root.AddCommand(newSessionsCmd(opts))
	root.AddCommand(newFoodCmd(opts))
	root.AddCommand(newEngagementCmd(opts))
	root.AddCommand(newLoginCmd(opts))
	root.AddCommand(newLogoutCmd(opts))
	root.AddCommand(newWhoamiCmd(opts))
	root.AddCommand(newLessonCmd(opts))
	root.AddCommand(newCoursesCmd(opts))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyloop"
	}
	return filepath.Join(home, ".studyloop")
}

// withApp loads config, builds the app and closes it after run returns.
func withApp(opts *rootOptions, run func(app *bootstrap.App) error) (err error) {
	cfg, err := config.Load(opts.dataDir, opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, app.Close()) }()
	return run(app)
}

func newTimerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timer",
		Short: "Run the focus timer in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return bootstrap.RunTUI(ctx, app)
			})
		},
	}
}

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	sessions := &cobra.Command{Use: "sessions", Short: "Focus session history"}

	var owner string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completed session totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.TimerCLI.Stats(context.Background(), owner)
				if err != nil {
					return err
				}
				profile, err := app.ProfileCLI.Profile(context.Background(), out.OwnerID)
				hasProfile := err == nil
				if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "owner: %s\n", out.OwnerID)
				if hasProfile {
					_, _ = fmt.Fprintf(w, "name: %s\n", profile.Name)
					_, _ = fmt.Fprintf(w, "lessons completed: %d\n", len(profile.CompletedLessons))
				}
				_, _ = fmt.Fprintf(w, "focus sessions: %d\n", out.CompletedFocusSessions)
				_, _ = fmt.Fprintf(w, "break sessions: %d\n", out.CompletedBreakSessions)
				_, _ = fmt.Fprintf(w, "total focus: %s\n", out.TotalFocus)
				return nil
			})
		},
	}
	statsCmd.Flags().StringVar(&owner, "owner", "", "owner id (default: signed-in user or anonymous)")

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				items, err := app.TimerCLI.History(context.Background(), owner, limit)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", s.StartTime.Local().Format(time.DateTime), s.Phase, s.Duration, s.ID)
				}
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&owner, "owner", "", "owner id (default: signed-in user or anonymous)")
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to show (0 for all)")

	sessions.AddCommand(statsCmd, listCmd)
	return sessions
}

func newFoodCmd(opts *rootOptions) *cobra.Command {
	food := &cobra.Command{Use: "food", Short: "Food rewards"}

	var hour int
	recommendCmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend food for the time of day with your study discount",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				var hourPtr *int
				if cmd.Flags().Changed("hour") {
					hourPtr = &hour
				}
				out, err := app.FoodCLI.Recommend(context.Background(), hourPtr)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if out.Personalized {
					_, _ = fmt.Fprintf(w, "%s picks for %s: %d focus sessions, %d%% off\n", out.Band, out.OwnerID, out.CompletedFocusSessions, out.DiscountPercent)
				} else {
					_, _ = fmt.Fprintln(w, "sign in to unlock study discounts; full menu:")
				}
				for _, item := range out.Items {
					_, _ = fmt.Fprintf(w, "%-14s %-9s %s  %s\n", item.Name, item.Category, item.DisplayPrice, item.Description)
				}
				return nil
			})
		},
	}
	recommendCmd.Flags().IntVar(&hour, "hour", 0, "hour of day 0-23 (default: now)")

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every food item at base price",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.FoodCLI.Catalog(context.Background())
				if err != nil {
					return err
				}
				for _, item := range out.Items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-11s %-14s %-9s %s\n", item.ID, item.Name, item.Category, item.DisplayPrice)
				}
				return nil
			})
		},
	}

	food.AddCommand(recommendCmd, catalogCmd)
	return food
}

func newEngagementCmd(opts *rootOptions) *cobra.Command {
	engagement := &cobra.Command{Use: "engagement", Short: "Classify camera engagement readings"}

	var face bool
	var left, right float64
	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single reading",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				var leftPtr, rightPtr *float64
				if cmd.Flags().Changed("left-eye") {
					leftPtr = &left
				}
				if cmd.Flags().Changed("right-eye") {
					rightPtr = &right
				}
				out, err := app.EngagementCLI.Classify(context.Background(), face, leftPtr, rightPtr)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.State)
				if out.Suggestion != "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Suggestion)
				}
				return nil
			})
		},
	}
	classifyCmd.Flags().BoolVar(&face, "face", true, "whether a face was detected")
	classifyCmd.Flags().Float64Var(&left, "left-eye", 0, "left eye open probability 0-1")
	classifyCmd.Flags().Float64Var(&right, "right-eye", 0, "right eye open probability 0-1")

	var quiet bool
	analyzeCmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Classify a JSON-lines stream of readings (stdin when no file or -)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.EngagementCLI.Analyze(context.Background(), in)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if !quiet {
					for _, frame := range out.Frames {
						_, _ = fmt.Fprintf(w, "%d\t%s\n", frame.Line, frame.State)
					}
				}
				_, _ = fmt.Fprintf(w, "frames: %d focused: %d tired: %d distracted: %d\n",
					out.Total, out.Counts["FOCUSED"], out.Counts["TIRED"], out.Counts["DISTRACTED"])
				if out.Dominant != "" {
					_, _ = fmt.Fprintf(w, "dominant: %s\n", out.Dominant)
				}
				if out.Suggestion != "" {
					_, _ = fmt.Fprintln(w, out.Suggestion)
				}
				return nil
			})
		},
	}
	analyzeCmd.Flags().BoolVar(&quiet, "summary", false, "print only the summary")

	engagement.AddCommand(classifyCmd, analyzeCmd)
	return engagement
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "login <user-id>",
		Short: "Sign in and create or update your profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ProfileCLI.Login(context.Background(), args[0], name, email)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", out.ID, out.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				if err := app.ProfileCLI.Logout(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ProfileCLI.Current(context.Background())
				if errors.Is(err, apperrors.ErrNoIdentity) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "anonymous")
					return nil
				}
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s", out.ID)
				if out.Name != "" {
					_, _ = fmt.Fprintf(w, " (%s)", out.Name)
				}
				_, _ = fmt.Fprintf(w, "\nlessons completed: %d\nsigned in: %s\n", len(out.CompletedLessons), out.SignedInAt.Local().Format(time.DateTime))
				return nil
			})
		},
	}
}

func newLessonCmd(opts *rootOptions) *cobra.Command {
	lesson := &cobra.Command{Use: "lesson", Short: "Course progress"}
	lesson.AddCommand(&cobra.Command{
		Use:   "complete <lesson-id>",
		Short: "Mark a lesson complete for the signed-in profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ProfileCLI.CompleteLesson(context.Background(), args[0])
				if err != nil {
					return err
				}
				if out.AlreadyCompleted {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lesson %s was already complete\n", out.LessonID)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lesson %s complete (%d total)\n", out.LessonID, out.CompletedLessons)
				return nil
			})
		},
	})
	return lesson
}

func newCoursesCmd(opts *rootOptions) *cobra.Command {
	courses := &cobra.Command{Use: "courses", Short: "Course and lesson catalog"}
	courses.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List courses with your progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				items, err := app.CourseCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no courses")
					return nil
				}
				for _, c := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-20s %d/%d lessons  %3d%%  %s\n",
						c.ID, c.Title, c.CompletedLessons, c.TotalLessons, c.ProgressPercent, c.Instructor)
				}
				return nil
			})
		},
	})
	courses.AddCommand(&cobra.Command{
		Use:   "lessons <course-id>",
		Short: "List a course's lessons in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.CourseCLI.Lessons(context.Background(), args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s: %d/%d complete, %d min\n", out.Course.Title, out.Course.CompletedLessons, out.Course.TotalLessons, out.Course.TotalMinutes)
				for _, lesson := range out.Lessons {
					mark := " "
					if lesson.Completed {
						mark = "x"
					}
					_, _ = fmt.Fprintf(w, "[%s] %d. %-10s %s (%d min)\n", mark, lesson.Order, lesson.ID, lesson.Title, lesson.DurationMinutes)
				}
				return nil
			})
		},
	})
	return courses
}
