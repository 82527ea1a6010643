package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"lookbook/internal/billing"
	"lookbook/internal/infra"
)

func main() {
	_ = godotenv.Load()

	var (
		accountFlag string
		amountFlag  int
		showFlag    bool
	)
	flag.StringVar(&accountFlag, "account", "", "account id (JWT subject) to credit")
	flag.IntVar(&amountFlag, "amount", 0, "credits to grant")
	flag.BoolVar(&showFlag, "show", false, "print the current balance without granting")
	flag.Parse()

	account := strings.TrimSpace(accountFlag)
	if account == "" {
		exitWithError(errors.New("-account is required"))
	}
	if !showFlag && amountFlag <= 0 {
		exitWithError(errors.New("-amount must be positive"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli", os.Getenv("LOG_LEVEL")).With().Str("cmd", "credits").Logger()
	ledger := billing.NewLedger(infra.NewSQLRunner(pool, logger))

	if showFlag {
		balance, err := ledger.Balance(ctx, account)
		if err != nil {
			exitWithError(fmt.Errorf("failed to read balance: %w", err))
		}
		fmt.Printf("account %s balance %d\n", account, balance)
		return
	}

	balance, err := ledger.Grant(ctx, account, amountFlag)
	if err != nil {
		exitWithError(fmt.Errorf("failed to grant credits: %w", err))
	}
	logger.Info().Str("account_id", account).Int("granted", amountFlag).Int("balance", balance).Msg("credits granted")
	fmt.Printf("account %s balance %d\n", account, balance)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
