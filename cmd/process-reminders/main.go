// Command process-reminders is run periodically by an external scheduler.
// Each run completes finished reservations, then dispatches due reminders.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"room-booking/config"
	"room-booking/database"
	"room-booking/mailer"
	"room-booking/notification"
	"room-booking/reminder"
	"room-booking/reservation"
	"room-booking/user"
)

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "maximum duration of one run")
	flag.Parse()

	log.SetPrefix("process-reminders: ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	m, err := mailer.New(cfg.Mail)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	summary, err := run(ctx, db, m, loc, time.Now())
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	log.Println(summary)
}

func run(ctx context.Context, db *sql.DB, m mailer.Mailer, loc *time.Location, now time.Time) (string, error) {
	notifier := notification.NewNotifier(notification.NewAccessor(db), user.NewAccessor(db), m)
	reminders := reminder.NewAccessor(db)

	completed, err := reservation.NewAccessor(db, reminders, notifier, loc).CompletePast(ctx, now)
	if err != nil {
		return "", fmt.Errorf("complete past reservations: %w", err)
	}

	result, err := reminder.NewSweeper(reminders, notifier, loc).Sweep(ctx, now)
	if err != nil {
		return "", fmt.Errorf("sweep reminders: %w", err)
	}

	return fmt.Sprintf("completed %d reservations; reminders due %d, sent %d, skipped %d",
		completed, result.Due, result.Sent, result.Skipped), nil
}
