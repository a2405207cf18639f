package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	adapthttp "habits/internal/adapter/http"
	"habits/internal/adapter/memory"
	"habits/internal/adapter/postgres"
	"habits/internal/adapter/sqlite"
	"habits/internal/app"
	"habits/internal/domain"
)

func main() {
	addr := env("ADDR", ":8080")

	var (
		habitRepo      domain.HabitRepository
		completionRepo domain.CompletionRepository
	)
	switch {
	case os.Getenv("DATABASE_URL") != "":
		db, err := postgres.Open(os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("postgres open: %v", err)
		}
		defer func() { _ = db.Close() }()
		habitRepo, completionRepo = db, db
		log.Printf("using postgres record store")
	case os.Getenv("SQLITE_PATH") != "":
		db, err := sqlite.Open(os.Getenv("SQLITE_PATH"))
		if err != nil {
			log.Fatalf("sqlite open: %v", err)
		}
		defer func() { _ = db.Close() }()
		habitRepo, completionRepo = db, db
		log.Printf("using sqlite record store at %s", os.Getenv("SQLITE_PATH"))
	default:
		db := memory.New()
		habitRepo, completionRepo = db, db
		log.Printf("using in-memory record store (data is not persisted)")
	}

	// All day bucketing happens in the server's local timezone.
	clock := func() time.Time { return time.Now().In(time.Local) }

	habitSvc := app.NewHabitService(habitRepo, completionRepo, clock)
	ledgerSvc := app.NewLedgerService(habitRepo, completionRepo, clock)
	statsSvc := app.NewStatsService(habitRepo, completionRepo, clock)
	calendarSvc := app.NewCalendarService(completionRepo, clock)

	h := adapthttp.New(habitSvc, ledgerSvc, statsSvc, calendarSvc).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
