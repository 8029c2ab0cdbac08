package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nvo/collection-tracker/internal/appstate"
	"github.com/nvo/collection-tracker/internal/catalog"
	"github.com/nvo/collection-tracker/internal/model"
	"github.com/nvo/collection-tracker/internal/store"
	syncpkg "github.com/nvo/collection-tracker/internal/sync"
	"github.com/nvo/collection-tracker/internal/theme"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the configuration file")
	syncOnce := flag.Bool("once", false, "run a single sync pass and exit")
	flag.Parse()

	if err := run(*configPath, *syncOnce); err != nil {
		fmt.Fprintf(os.Stderr, "collection-tracker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, syncOnce bool) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "[collection-tracker] ", log.LstdFlags)

	st, err := store.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	state, err := appstate.NewFileStore(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("opening app state: %w", err)
	}

	client := catalog.NewClient(cfg.APIBaseURL, time.Duration(cfg.FetchTimeoutSec)*time.Second)
	coord := syncpkg.New(client, st, state, logger)

	fmt.Println(theme.TitleStyle.Render("collection-tracker"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ensureExistingDataFlag(ctx, st, state, logger); err != nil {
		return err
	}

	// First run: the catalog only becomes useful once the initial batch
	// lands, so sync in the foreground before going periodic.
	if state.Get().HasExistingData == nil || !*state.Get().HasExistingData {
		fmt.Println(theme.HintStyle.Render("no local data yet, running initial sync"))
		result, err := coord.Sync(ctx)
		if err != nil {
			return fmt.Errorf("initial sync: %w", err)
		}
		printResult(result)
		if result.State == syncpkg.StateSuccess {
			if err := state.UpdateHasExistingData(true); err != nil {
				logger.Printf("persisting has-existing-data flag: %v", err)
			}
		} else if result.State == syncpkg.StateFailure {
			fmt.Println(theme.HintStyle.Render("initial sync failed, will retry on the next pass"))
		}
	}

	if syncOnce {
		result, err := coord.Sync(ctx)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	}

	interval := time.Duration(cfg.SyncIntervalHours) * time.Hour
	scheduler := syncpkg.NewScheduler(coord, interval, nil, logger)
	scheduler.Start()
	defer scheduler.Stop()

	fmt.Printf("%s every %s, press Ctrl+C to stop\n",
		theme.LabelStyle.Render("syncing"), interval)

	<-ctx.Done()
	fmt.Println()
	fmt.Println(theme.HintStyle.Render("shutting down"))
	return nil
}

// ensureExistingDataFlag backfills the persisted first-run flag for state
// files written before the flag existed.
func ensureExistingDataFlag(ctx context.Context, st store.Store, state *appstate.FileStore, logger *log.Logger) error {
	if state.Get().HasExistingData != nil {
		return nil
	}
	has, err := st.HasAnyGroups(ctx)
	if err != nil {
		return fmt.Errorf("checking local data: %w", err)
	}
	if err := state.UpdateHasExistingData(has); err != nil {
		logger.Printf("persisting has-existing-data flag: %v", err)
	}
	return nil
}

func printResult(result syncpkg.Result) {
	label := theme.SyncStateStyle(result.State.String()).Render(result.State.String())
	if result.Message != "" {
		fmt.Printf("%s %s: %s\n", theme.LabelStyle.Render("sync"), label, result.Message)
		return
	}
	fmt.Printf("%s %s\n", theme.LabelStyle.Render("sync"), label)
}
