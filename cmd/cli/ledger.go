package main

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
)

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(consistencyCmd(opts), trialBalanceCmd(opts))
	return cmd
}

func consistencyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.ConsistencyResponse
			if _, err := opts.client().do(ctx, http.MethodGet, "/api/v1/ledger/consistency", nil, &resp, http.StatusConflict); err != nil {
				return err
			}

			if opts.json {
				if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Vouchers:     %d\n", resp.VoucherCount)
				fmt.Fprintf(out, "Total debit:  %s\n", formatSEK(resp.TotalDebit))
				fmt.Fprintf(out, "Total credit: %s\n", formatSEK(resp.TotalCredit))
				fmt.Fprintf(out, "Difference:   %s\n", formatSEK(resp.Difference))
			}

			if !resp.Consistent {
				return fmt.Errorf("consistency check FAILED: imbalanced vouchers %v", resp.ImbalancedVouchers)
			}

			if !opts.json {
				fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			}
			return nil
		},
	}
}

func trialBalanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trial-balance",
		Short: "Debit and credit totals per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.TrialBalanceResponse
			if _, err := opts.client().do(ctx, http.MethodGet, "/api/v1/ledger/trial-balance", nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "ACCOUNT\tNAME\tDEBIT\tCREDIT\tBALANCE\t")
			for _, r := range resp.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", r.AccountNumber, truncate(r.AccountName, 30),
					formatSide(r.Debit), formatSide(r.Credit), formatSEK(r.Balance))
			}
			fmt.Fprintf(tw, "\tTotal\t%s\t%s\t\t\n", formatSEK(resp.TotalDebit), formatSEK(resp.TotalCredit))
			return tw.Flush()
		},
	}
}
