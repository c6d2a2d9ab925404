package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
)

func accountsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}

	cmd.AddCommand(accountsListCmd(opts), accountsCreateCmd(opts), accountsStatementCmd(opts))
	return cmd
}

func accountsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.ListAccountsResponse
			if _, err := opts.client().do(ctx, http.MethodGet, "/api/v1/accounts", nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tNAME\tCLASS")
			for _, a := range resp.Accounts {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Number, truncate(a.Name, 40), a.ClassName)
			}
			return tw.Flush()
		},
	}
}

func accountsCreateCmd(opts *options) *cobra.Command {
	var req dto.CreateAccountRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an account to the chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.AccountResponse
			if _, err := opts.client().do(ctx, http.MethodPost, "/api/v1/accounts", req, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s %s (%s)\n", resp.Number, resp.Name, resp.ClassName)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Number, "number", "", "Four digit account number")
	cmd.Flags().StringVar(&req.Name, "name", "", "Account name")
	cmd.Flags().StringVar(&req.Class, "class", "", "Account class, derived from the number when empty")
	cmd.Flags().StringVar(&req.Description, "description", "", "Free text description")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func accountsStatementCmd(opts *options) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "statement <number>",
		Short: "Show every posting to an account with a running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/statement"
			if year != 0 {
				path += "?year=" + strconv.Itoa(year)
			}

			var resp dto.StatementResponse
			if _, err := opts.client().do(ctx, http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account %s %s\n\n", resp.AccountNumber, resp.AccountName)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "DATE\tNO\tDESCRIPTION\tDEBIT\tCREDIT\tBALANCE\t")
			for _, e := range resp.Entries {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t\n",
					e.Date, e.VoucherNumber, truncate(e.Description, 30),
					formatSide(e.Debit), formatSide(e.Credit), formatSEK(e.Balance))
			}
			fmt.Fprintf(tw, "\t\tTotal\t%s\t%s\t%s\t\n",
				formatSEK(resp.TotalDebit), formatSEK(resp.TotalCredit), formatSEK(resp.FinalBalance))
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only include vouchers dated in this year")
	return cmd
}
