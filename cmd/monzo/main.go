package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"monzo"
	"monzo/internal/shared/config"
	"monzo/internal/shared/telemetry"
)

const usage = `Monzo CLI - Read-only access to a Monzo account

Usage:
  monzo <command> [options]

Commands:
  accounts       List accounts
  balance        Show the balance of an account
  transactions   List the transactions of an account
  transaction    Show a single transaction
  pots           List pots
  summary        Balance and transaction count for every account

Environment:
  MONZO_ACCESS_TOKEN   Bearer token (required)
  MONZO_BASE_URL       API host (default https://api.monzo.com)
  MONZO_TIMEOUT        Per-request timeout (default 30s)
  OTEL_ENABLED         Export traces and metrics (default false)

A .env file in the working directory is loaded if present.

Examples:
  monzo accounts
  monzo balance --account-id=acc_00009237aqC8c5umZmrRdh
  monzo transaction --account-id=acc_00009237aqC8c5umZmrRdh --id=tx_00008zIcpb1TB4yeIFXMzx
  monzo summary --workers=4
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var run func(ctx context.Context, client monzo.API, args []string) error
	switch command {
	case "accounts":
		run = runAccounts
	case "balance":
		run = runBalance
	case "transactions":
		run = runTransactions
	case "transaction":
		run = runTransaction
	case "pots":
		run = runPots
	case "summary":
		run = runSummary
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}

	if err := execute(run, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("%s: %v", command, err)
	}
}

func execute(run func(ctx context.Context, client monzo.API, args []string) error, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("Telemetry shutdown failed: %v", err)
			}
		}()
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	}

	client := monzo.NewClient(
		&http.Client{Timeout: cfg.Monzo.Timeout},
		cfg.Monzo.AccessToken,
		monzo.WithBaseURL(cfg.Monzo.BaseURL),
	)

	return run(ctx, client, args)
}

func runAccounts(ctx context.Context, client monzo.API, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	accounts, err := client.Accounts(ctx)
	if err != nil {
		return err
	}

	for _, a := range accounts {
		fmt.Printf("%s\t%s\t%s\n", a.ID, a.Description, a.Created.Format(time.RFC3339))
	}
	return nil
}

func runBalance(ctx context.Context, client monzo.API, args []string) error {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	accountID := fs.String("account-id", "", "Account ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *accountID == "" {
		return fmt.Errorf("--account-id is required")
	}

	b, err := client.Balance(ctx, *accountID)
	if err != nil {
		return err
	}

	fmt.Printf("Balance: %s\n", monzo.FormatMinorUnits(b.Balance, b.Currency))
	fmt.Printf("Spent today: %s\n", monzo.FormatMinorUnits(b.SpendToday, b.Currency))
	return nil
}

func runTransactions(ctx context.Context, client monzo.API, args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ContinueOnError)
	accountID := fs.String("account-id", "", "Account ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *accountID == "" {
		return fmt.Errorf("--account-id is required")
	}

	txs, err := client.Transactions(ctx, *accountID)
	if err != nil {
		return err
	}

	for _, tx := range txs {
		printTransaction(tx)
	}
	return nil
}

func runTransaction(ctx context.Context, client monzo.API, args []string) error {
	fs := flag.NewFlagSet("transaction", flag.ContinueOnError)
	accountID := fs.String("account-id", "", "Account ID (required)")
	id := fs.String("id", "", "Transaction ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *accountID == "" || *id == "" {
		return fmt.Errorf("--account-id and --id are required")
	}

	tx, err := client.Transaction(ctx, *accountID, *id)
	if err != nil {
		return err
	}

	printTransaction(*tx)
	for _, line := range metadataLines(tx.Metadata) {
		fmt.Println(line)
	}
	return nil
}

// metadataLines renders transaction metadata sorted by key.
func metadataLines(metadata map[string]string) []string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, metadata[k]))
	}
	return lines
}

func runPots(ctx context.Context, client monzo.API, args []string) error {
	fs := flag.NewFlagSet("pots", flag.ContinueOnError)
	showDeleted := fs.Bool("deleted", false, "Include deleted pots")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pots, err := client.Pots(ctx)
	if err != nil {
		return err
	}

	for _, p := range pots {
		if p.Deleted && !*showDeleted {
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", p.ID, p.Name, monzo.FormatMinorUnits(p.Balance, p.Currency))
	}
	return nil
}

type accountSummary struct {
	account      monzo.Account
	balance      *monzo.Balance
	transactions int
}

// runSummary fetches balance and transactions for every account
// concurrently on the shared client.
func runSummary(ctx context.Context, client monzo.API, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	workers := fs.Int("workers", 4, "Maximum concurrent requests")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summaries, err := summarize(ctx, client, *workers)
	if err != nil {
		return err
	}

	for _, s := range summaries {
		fmt.Printf("%s\t%s\t%s\t%d transactions\n",
			s.account.ID,
			s.account.Description,
			monzo.FormatMinorUnits(s.balance.Balance, s.balance.Currency),
			s.transactions,
		)
	}
	return nil
}

func summarize(ctx context.Context, client monzo.API, workers int) ([]accountSummary, error) {
	accounts, err := client.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]accountSummary, len(accounts))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, a := range accounts {
		summaries[i].account = a

		g.Go(func() error {
			b, err := client.Balance(ctx, a.ID)
			if err != nil {
				return fmt.Errorf("balance for %s: %w", a.ID, err)
			}
			summaries[i].balance = b
			return nil
		})
		g.Go(func() error {
			txs, err := client.Transactions(ctx, a.ID)
			if err != nil {
				return fmt.Errorf("transactions for %s: %w", a.ID, err)
			}
			summaries[i].transactions = len(txs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func printTransaction(tx monzo.Transaction) {
	status := "pending"
	switch {
	case tx.DeclineReason != nil:
		status = "declined: " + *tx.DeclineReason
	case tx.Settled != nil:
		status = "settled"
	}
	fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
		tx.ID,
		tx.Created.Format(time.RFC3339),
		monzo.FormatMinorUnits(tx.Amount, tx.Currency),
		tx.Description,
		status,
	)
}
