package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-loan-recovery/internal/adapter/repository/mysql"
	"smart-loan-recovery/internal/config"
	loanDomain "smart-loan-recovery/internal/domain/loan"
	userDomain "smart-loan-recovery/internal/domain/user"
	"smart-loan-recovery/internal/infrastructure/db"
	loanuc "smart-loan-recovery/internal/usecase/loan"
)

// The overdue sweep is caller-driven; nothing in the service schedules
// it. This binary is that caller: run once (default) or on an interval.
func main() {
	interval := flag.Duration("interval", 0, "sweep repeatedly at this interval (0 = run once)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(&userDomain.User{}, &loanDomain.Loan{}); err != nil {
		log.Fatal(err)
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	loans := loanuc.NewUsecase(loanRepo, mysql.NewGormUoW(gdb))

	sweep := func(ctx context.Context) {
		n, err := loans.FlagOverdues(ctx)
		if err != nil {
			log.Printf("sweep failed: %v", err)
			return
		}
		log.Printf("sweep done: %d loan(s) flagged overdue", n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep(ctx)
	if *interval <= 0 {
		return
	}

	t := time.NewTicker(*interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper stopping")
			return
		case <-t.C:
			sweep(ctx)
		}
	}
}
