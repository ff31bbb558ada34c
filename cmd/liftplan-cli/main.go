// liftplan-cli runs the training planner entirely offline against a local
// SQLite state file. It is the single-user companion to the server: the same
// engine, no Postgres and no network.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/localstate"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/planner"
	"github.com/google/uuid"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const localUserID = 1

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("failed to get home directory: %v", err)
	}
	stateDir := os.Getenv("LIFTPLAN_STATE_DIR")
	if stateDir == "" {
		stateDir = filepath.Join(homeDir, ".liftplan")
	}

	state, err := localstate.Open(stateDir)
	if err != nil {
		fatal("failed to open local state: %v", err)
	}
	defer state.Close()

	cat, err := loadCatalog()
	if err != nil {
		fatal("failed to load catalog: %v", err)
	}

	pl := planner.New(state, cat, log)
	ctx := context.Background()

	switch os.Args[1] {
	case "init":
		err = cmdInit(ctx, state, os.Args[2:])
	case "start-week":
		err = cmdStartWeek(ctx, pl, os.Args[2:])
	case "status":
		err = cmdStatus(ctx, state)
	case "session":
		err = cmdSession(ctx, pl, os.Args[2:])
	case "log":
		err = cmdLog(ctx, pl, os.Args[2:])
	case "complete":
		err = cmdComplete(ctx, pl, os.Args[2:])
	case "skip":
		err = cmdSkip(ctx, pl, os.Args[2:])
	case "close-week":
		err = cmdCloseWeek(ctx, pl)
	case "next":
		err = cmdNext(ctx, pl)
	case "version":
		fmt.Println("liftplan-cli", Version)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: liftplan-cli <command> [flags]

Commands:
  init        create or update the training profile
  start-week  allocate a new training week
  status      show the active week's buckets and sessions
  session     generate a session for a muscle group
  log         log a set against a session slot
  complete    finish a session and settle its volume
  skip        abandon a session
  close-week  close the week and compute next week's targets
  next        preview next week's targets without closing
  version     print version and exit

Set LIFTPLAN_STATE_DIR to relocate the state file (default ~/.liftplan).
Set LIFTPLAN_CATALOG_PATH to use a catalog file instead of the built-in one.
`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadCatalog() (*catalog.Catalog, error) {
	if path := os.Getenv("LIFTPLAN_CATALOG_PATH"); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdInit(ctx context.Context, state *localstate.State, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	bodyweight := fs.Float64("bodyweight", 0, "bodyweight in kg (needed for bodyweight exercises)")
	days := fs.Int("days", 6, "training days per week (3-7)")
	goal := fs.String("goal", "hypertrophy", "training goal: strength, hypertrophy, endurance, general")
	push := fs.Float64("push", 0, "weekly push volume target")
	pull := fs.Float64("pull", 0, "weekly pull volume target")
	legs := fs.Float64("legs", 0, "weekly legs volume target")
	fs.Parse(args)

	if *push <= 0 || *pull <= 0 || *legs <= 0 {
		return fmt.Errorf("positive -push, -pull, and -legs targets are required")
	}
	if *days < 3 || *days > 7 {
		return fmt.Errorf("-days must be 3-7")
	}

	targets := map[models.MuscleGroup]float64{
		models.GroupPush: *push,
		models.GroupPull: *pull,
		models.GroupLegs: *legs,
	}
	profile := &models.UserProfile{
		UserID:              localUserID,
		BodyweightKg:        *bodyweight,
		TrainingDaysPerWeek: *days,
		CurrentWeek:         1,
		Goal:                models.Goal(*goal),
		WeeklyTargets:       targets,
		StartingVolume:      targets,
	}

	// Re-initializing keeps the week counter and progression anchor.
	if existing, err := state.GetProfile(ctx, localUserID); err == nil {
		profile.CurrentWeek = existing.CurrentWeek
		profile.StartingVolume = existing.StartingVolume
	}

	if err := state.UpsertProfile(ctx, profile); err != nil {
		return err
	}
	return printJSON(profile)
}

func cmdStartWeek(ctx context.Context, pl *planner.Planner, args []string) error {
	fs := flag.NewFlagSet("start-week", flag.ExitOnError)
	startStr := fs.String("start", "", "week start date YYYY-MM-DD (default today)")
	fs.Parse(args)

	start := time.Now().Truncate(24 * time.Hour)
	if *startStr != "" {
		var err error
		start, err = time.Parse("2006-01-02", *startStr)
		if err != nil {
			return fmt.Errorf("-start must be YYYY-MM-DD")
		}
	}

	week, err := pl.StartWeek(ctx, localUserID, start)
	if err != nil {
		return err
	}
	return printJSON(week)
}

func cmdStatus(ctx context.Context, state *localstate.State) error {
	week, err := state.GetActiveWeek(ctx, localUserID)
	if err != nil {
		return err
	}
	sessions, err := state.ListWeekSessions(ctx, week.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Week %d (starts %s)", week.WeekNumber, week.StartDate.Format("2006-01-02"))
	if week.IsDeloadWeek {
		fmt.Print("  [deload]")
	}
	fmt.Println()
	for _, group := range models.MuscleGroups {
		b := week.Buckets[group]
		fmt.Printf("  %-5s %8.0f / %-8.0f (%.0f%%)  sessions %d/%d  drift %.0f\n",
			group, b.CompletedVolume, b.TargetVolume, b.CompletionPercentage(),
			b.SessionsCompleted, b.SessionsPlanned, b.DriftAmount)
	}
	for _, s := range sessions {
		fmt.Printf("  %s  %s  %-5s  target %.0f  status %s\n",
			s.ID, s.Date.Format("2006-01-02"), s.MuscleGroup, s.TargetVolume, s.Status)
	}
	return nil
}

func parseCheckIn(fs *flag.FlagSet) (*bool, *bool, *bool) {
	mood := fs.Bool("rough-mood", false, "check-in: feeling rough")
	sleep := fs.Bool("poor-sleep", false, "check-in: slept poorly")
	sore := fs.Bool("sore", false, "check-in: unusually sore")
	return mood, sleep, sore
}

func cmdSession(ctx context.Context, pl *planner.Planner, args []string) error {
	fs := flag.NewFlagSet("session", flag.ExitOnError)
	group := fs.String("group", "", "muscle group: push, pull, legs")
	preview := fs.Bool("preview", false, "preview without persisting")
	mood, sleep, sore := parseCheckIn(fs)
	fs.Parse(args)

	checkIn := models.CheckIn{RoughMood: *mood, PoorSleep: *sleep, HighSoreness: *sore}
	mg := models.MuscleGroup(*group)

	if *preview {
		gen, err := pl.PreviewSession(ctx, localUserID, mg, checkIn)
		if err != nil {
			return err
		}
		return printJSON(gen)
	}

	gen, err := pl.GenerateSession(ctx, localUserID, mg, checkIn, time.Now().Truncate(24*time.Hour))
	if err != nil {
		return err
	}
	return printJSON(gen)
}

func cmdLog(ctx context.Context, pl *planner.Planner, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	sessionStr := fs.String("session", "", "session UUID")
	slot := fs.Int("slot", 0, "slot number 1-3")
	weight := fs.Float64("weight", 0, "weight lifted")
	reps := fs.Int("reps", 0, "reps performed")
	warmup := fs.Bool("warmup", false, "warm-up set (records but scores zero)")
	fs.Parse(args)

	id, err := uuid.Parse(*sessionStr)
	if err != nil {
		return fmt.Errorf("-session must be a UUID")
	}
	if *reps <= 0 {
		return fmt.Errorf("-reps must be positive")
	}

	result, err := pl.LogSet(ctx, localUserID, id, models.Slot(*slot), models.LoggedSet{
		Weight:   *weight,
		Reps:     *reps,
		IsWarmup: *warmup,
	})
	if err != nil {
		return err
	}
	if result.PersonalRecord {
		fmt.Println("Personal record!")
	}
	return printJSON(result)
}

func cmdComplete(ctx context.Context, pl *planner.Planner, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	sessionStr := fs.String("session", "", "session UUID")
	effort := fs.Int("effort", 0, "session effort rating 1-10 (optional)")
	fs.Parse(args)

	id, err := uuid.Parse(*sessionStr)
	if err != nil {
		return fmt.Errorf("-session must be a UUID")
	}
	var rating *int
	if *effort != 0 {
		rating = effort
	}

	done, err := pl.CompleteSession(ctx, localUserID, id, rating)
	if err != nil {
		return err
	}
	return printJSON(done)
}

func cmdSkip(ctx context.Context, pl *planner.Planner, args []string) error {
	fs := flag.NewFlagSet("skip", flag.ExitOnError)
	sessionStr := fs.String("session", "", "session UUID")
	fs.Parse(args)

	id, err := uuid.Parse(*sessionStr)
	if err != nil {
		return fmt.Errorf("-session must be a UUID")
	}
	if err := pl.SkipSession(ctx, id); err != nil {
		return err
	}
	fmt.Println("skipped")
	return nil
}

func cmdCloseWeek(ctx context.Context, pl *planner.Planner) error {
	closed, err := pl.CloseWeek(ctx, localUserID)
	if err != nil {
		return err
	}
	return printJSON(closed)
}

func cmdNext(ctx context.Context, pl *planner.Planner) error {
	preview, err := pl.PreviewNextWeek(ctx, localUserID)
	if err != nil {
		return err
	}
	return printJSON(preview)
}
