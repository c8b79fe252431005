package main

import (
	"fmt"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every account ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printAccounts(cmd.OutOrStdout(), manager.ListAccounts()...)
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one account and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printAccount(cmd.OutOrStdout(), manager, args[0])
		},
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		id       string
		owner    string
		currency string
		balance  string
		status   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(balance)
			if err != nil {
				return err
			}
			if strings.TrimSpace(id) == "" {
				id = uuid.NewString()
			}

			account, err := domain.NewAccount(strings.TrimSpace(id), strings.TrimSpace(owner), strings.ToUpper(strings.TrimSpace(currency)), amount, domain.AccountStatus(status))
			if err != nil {
				return err
			}

			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := manager.AddAccount(cmd.Context(), account); err != nil {
				return err
			}
			return printAccount(cmd.OutOrStdout(), manager, account.ID())
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "account id (generated when empty)")
	cmd.Flags().StringVar(&owner, "owner", "", "account owner display name")
	cmd.Flags().StringVar(&currency, "currency", "", "three letter currency code")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&status, "status", string(domain.AccountStatusActive), "active, suspended or closed")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			removed, err := manager.RemoveAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%w: %q", domain.ErrAccountNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func newDepositCmd(opts *rootOptions) *cobra.Command {
	return amountCmd(opts, "deposit <id> <amount>", "Credit an active account", func(cmd *cobra.Command, id string, amount decimal.Decimal) error {
		manager, err := openManager(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if err := manager.PostDeposit(cmd.Context(), id, amount); err != nil {
			return err
		}
		return printAccount(cmd.OutOrStdout(), manager, id)
	})
}

func newWithdrawCmd(opts *rootOptions) *cobra.Command {
	return amountCmd(opts, "withdraw <id> <amount>", "Debit an active account", func(cmd *cobra.Command, id string, amount decimal.Decimal) error {
		manager, err := openManager(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if err := manager.PostWithdrawal(cmd.Context(), id, amount); err != nil {
			return err
		}
		return printAccount(cmd.OutOrStdout(), manager, id)
	})
}

func newInterestCmd(opts *rootOptions) *cobra.Command {
	return amountCmd(opts, "interest <id> <rate-percent>", "Apply a percentage interest rate to an active account", func(cmd *cobra.Command, id string, rate decimal.Decimal) error {
		manager, err := openManager(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if err := manager.PostInterest(cmd.Context(), id, rate); err != nil {
			return err
		}
		return printAccount(cmd.OutOrStdout(), manager, id)
	})
}

func amountCmd(opts *rootOptions, use string, short string, run func(cmd *cobra.Command, id string, amount decimal.Decimal) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return run(cmd, args[0], amount)
		},
	}
	// Negative numbers after the id are arguments, not shorthand flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <active|suspended|closed>",
		Short: "Change an account status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			updated, err := manager.SetStatus(cmd.Context(), args[0], domain.AccountStatus(strings.TrimSpace(args[1])))
			if err != nil {
				return err
			}
			if !updated {
				return fmt.Errorf("%w: %q", domain.ErrAccountNotFound, args[0])
			}
			return printAccount(cmd.OutOrStdout(), manager, args[0])
		},
	}
}

func newTransferCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move funds between two active accounts of the same currency",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := manager.PostTransfer(cmd.Context(), args[0], args[1], amount); err != nil {
				return err
			}

			from, _ := manager.GetAccount(args[0])
			to, _ := manager.GetAccount(args[1])
			return printAccounts(cmd.OutOrStdout(), from, to)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newTotalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "total <currency>",
		Short: "Sum balances of every account in a currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			currency := strings.ToUpper(strings.TrimSpace(args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", currency, manager.TotalBalance(currency).StringFixed(2))
			return nil
		},
	}
}

func newBuyCmd(opts *rootOptions) *cobra.Command {
	return tradeCmd(opts, "buy <id> <symbol> <quantity>", "Buy shares at the current price using account cash", func(cmd *cobra.Command, manager *services.AccountManager, id string, symbol string, quantity int64) error {
		return manager.BuyShares(cmd.Context(), id, symbol, quantity)
	})
}

func newSellCmd(opts *rootOptions) *cobra.Command {
	return tradeCmd(opts, "sell <id> <symbol> <quantity>", "Sell held shares at the current price", func(cmd *cobra.Command, manager *services.AccountManager, id string, symbol string, quantity int64) error {
		return manager.SellShares(cmd.Context(), id, symbol, quantity)
	})
}

func tradeCmd(opts *rootOptions, use string, short string, run func(cmd *cobra.Command, manager *services.AccountManager, id string, symbol string, quantity int64) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := run(cmd, manager, args[0], args[1], quantity); err != nil {
				return err
			}
			return printPortfolio(cmd, manager, args[0])
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newHoldingsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holdings <id>",
		Short: "Show share positions with market value and unrealized profit or loss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printPortfolio(cmd, manager, args[0])
		},
	}
}
