package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cartola-dev/cartola/internal/config"
	"github.com/cartola-dev/cartola/internal/ledger"
	"github.com/cartola-dev/cartola/internal/logging"
	"github.com/cartola-dev/cartola/internal/movements"
	"github.com/cartola-dev/cartola/internal/reconcile"
)

func newReconcileCommand() *cobra.Command {
	var ledgerPath string
	var expectedStr string
	var movementFlags []string
	var cfgPath string
	var tolerance float64
	var verbose bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Combine initial balances with movement totals and verify the aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, ledgerPath, expectedStr, movementFlags, cfgPath, tolerance, verbose)
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "plain-text initial-balance ledger (required)")
	_ = cmd.MarkFlagRequired("ledger")
	cmd.Flags().StringVar(&expectedStr, "expected", "", "expected reference total (required)")
	_ = cmd.MarkFlagRequired("expected")
	cmd.Flags().StringArrayVar(&movementFlags, "movements", nil, "account=movements.csv pair (repeatable)")
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to cartola.yaml")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "tolerance percent (defaults to config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")

	return cmd
}

func runReconcile(cmd *cobra.Command, ledgerPath, expectedStr string, movementFlags []string, cfgPath string, tolerance float64, verbose bool) error {
	log, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is harmless

	cfg := config.Default()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
	}
	if tolerance <= 0 {
		tolerance = cfg.TolerancePercent
	}

	expected, err := decimal.NewFromString(expectedStr)
	if err != nil {
		return fmt.Errorf("parsing expected total %q: %w", expectedStr, err)
	}

	lf, err := os.Open(ledgerPath)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer lf.Close()

	entries, err := ledger.Parse(lf)
	if err != nil {
		return err
	}

	totals, err := readTotals(movementFlags)
	if err != nil {
		return err
	}

	balances := reconcile.Balances(entries, totals, log)
	report := reconcile.Report(balances, expected, tolerance)

	out := cmd.OutOrStdout()
	for _, b := range balances {
		fmt.Fprintf(out, "%-20s %-12s initial=%s movements=%s final=%s (%s)\n",
			b.BankName, b.AccountNumber,
			b.InitialBalance.String(), b.PeriodMovementsTotal.String(),
			b.FinalBalance.String(), b.Method)
	}
	fmt.Fprintf(out, "computed=%s expected=%s diff=%s error=%s%%\n",
		report.TotalComputed.String(), report.ExpectedTotal.String(),
		report.AbsoluteDifference.String(), report.PercentError.StringFixed(4))

	if report.WithinTolerance {
		fmt.Fprintln(out, "reconciliation OK: within tolerance")
	} else {
		// A mismatch is a data-quality signal, not a command failure.
		fmt.Fprintln(out, "reconciliation MISMATCH: outside tolerance")
	}
	return nil
}

// readTotals reads each account=path pair and sums that account's movements.
func readTotals(pairs []string) (map[string]decimal.Decimal, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	totals := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		account, path, ok := strings.Cut(pair, "=")
		if !ok || account == "" || path == "" {
			return nil, fmt.Errorf("invalid --movements value %q, want account=path", pair)
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening movements for %s: %w", account, err)
		}

		ms, err := movements.Read(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading movements for %s: %w", account, err)
		}

		totals[account] = totals[account].Add(movements.Sum(ms))
	}
	return totals, nil
}
