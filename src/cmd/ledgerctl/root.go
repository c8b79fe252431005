package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/jsonfile"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const defaultDataFile = "accounts_data.json"

type rootOptions struct {
	file    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Inspect and modify an account ledger snapshot file",
		Long: `ledgerctl loads an account snapshot file, applies one operation and
writes the file back when the operation changes state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "info"
			}
			logger.Configure(level, "text")
			logger.SetOutput(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", defaultDataFile, "path to the account snapshot file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log ledger operations to stderr")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newDepositCmd(opts),
		newWithdrawCmd(opts),
		newStatusCmd(opts),
		newTransferCmd(opts),
		newInterestCmd(opts),
		newTotalCmd(opts),
		newBuyCmd(opts),
		newSellCmd(opts),
		newHoldingsCmd(opts),
	)

	return root
}

// openManager returns a manager backed by the snapshot file. A missing file
// yields an empty ledger.
func openManager(ctx context.Context, opts *rootOptions) (*services.AccountManager, error) {
	manager := services.NewAccountManager(jsonfile.NewAccountRepository(opts.file))
	if err := manager.Load(ctx); err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.file, err)
	}
	return manager, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidArgument, raw)
	}
	return amount, nil
}

func parseQuantity(raw string) (int64, error) {
	quantity, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number of shares", domain.ErrInvalidQuantity, raw)
	}
	return quantity, nil
}

func printAccounts(w io.Writer, accounts ...*domain.Account) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tCURRENCY\tBALANCE\tSTATUS")
	for _, account := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			account.ID(), account.Owner(), account.Currency(), account.Balance().StringFixed(2), account.Status())
	}
	return tw.Flush()
}

func printAccount(w io.Writer, manager *services.AccountManager, id string) error {
	account, ok := manager.GetAccount(id)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrAccountNotFound, id)
	}
	return printAccounts(w, account)
}

func printPortfolio(cmd *cobra.Command, manager *services.AccountManager, id string) error {
	portfolio, err := manager.Portfolio(cmd.Context(), id)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tQUANTITY\tPRICE\tVALUE\tCOST\tP&L")
	for _, p := range portfolio.Positions {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			p.Symbol, p.Quantity, p.Price.StringFixed(2), p.MarketValue.StringFixed(2), p.CostBasis.StringFixed(2), p.ProfitLoss.StringFixed(2))
	}
	fmt.Fprintf(tw, "CASH\t\t\t%s\t\t\n", portfolio.Cash.StringFixed(2))
	fmt.Fprintf(tw, "TOTAL %s\t\t\t%s\t%s\t%s\n",
		portfolio.Currency, portfolio.TotalValue().StringFixed(2), portfolio.CostBasis.StringFixed(2), portfolio.ProfitLoss.StringFixed(2))
	return tw.Flush()
}
