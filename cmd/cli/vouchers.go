package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
)

var errBadLine = errors.New("line must look like ACCOUNT:DEBIT:CREDIT")

func vouchersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vouchers",
		Short: "Voucher ledger",
	}

	cmd.AddCommand(
		vouchersListCmd(opts),
		vouchersShowCmd(opts),
		vouchersCreateCmd(opts),
		vouchersDeleteCmd(opts),
		vouchersReverseCmd(opts),
		vouchersNextNumberCmd(opts),
	)
	return cmd
}

// parseLine parses ACCOUNT:DEBIT:CREDIT. Either amount may be empty.
func parseLine(s string) (dto.VoucherLineRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return dto.VoucherLineRequest{}, fmt.Errorf("%w: %q", errBadLine, s)
	}

	return dto.VoucherLineRequest{
		AccountNumber: strings.TrimSpace(parts[0]),
		Debit:         strings.TrimSpace(parts[1]),
		Credit:        strings.TrimSpace(parts[2]),
	}, nil
}

func printVoucher(cmd *cobra.Command, v *dto.VoucherResponse) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Voucher %d  %s  %s\n", v.VoucherNumber, v.Date, v.Description)
	if v.ReversesID != nil {
		fmt.Fprintf(out, "Reverses %s\n", *v.ReversesID)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ACCOUNT\tNAME\tDEBIT\tCREDIT\t")
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", l.AccountNumber, truncate(l.AccountName, 30), formatSide(l.Debit), formatSide(l.Credit))
	}
	fmt.Fprintf(tw, "\tTotal\t%s\t%s\t\n", formatSEK(v.TotalDebit), formatSEK(v.TotalCredit))
	return tw.Flush()
}

func vouchersListCmd(opts *options) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vouchers in number order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			path := "/api/v1/vouchers"
			if year != 0 {
				path += "?year=" + strconv.Itoa(year)
			}

			var resp dto.ListVouchersResponse
			if _, err := opts.client().do(ctx, http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NO\tDATE\tDESCRIPTION\tAMOUNT\tID")
			for _, v := range resp.Vouchers {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.VoucherNumber, v.Date, truncate(v.Description, 40), formatSEK(v.TotalDebit), v.ID)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only list vouchers dated in this year")
	return cmd
}

func vouchersShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one voucher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.VoucherResponse
			if _, err := opts.client().do(ctx, http.MethodGet, "/api/v1/vouchers/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printVoucher(cmd, &resp)
		},
	}
}

func vouchersCreateCmd(opts *options) *cobra.Command {
	var (
		req   dto.CreateVoucherRequest
		lines []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a balanced voucher",
		Example: `  bookkeeper vouchers create --date 2024-03-01 --description "March rent" \
    --line 5010:8000: --line 1930::8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range lines {
				line, err := parseLine(s)
				if err != nil {
					return err
				}
				req.Lines = append(req.Lines, line)
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.CreateVoucherResponse
			if _, err := opts.client().do(ctx, http.MethodPost, "/api/v1/vouchers", req, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			for _, w := range resp.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return printVoucher(cmd, resp.VoucherResponse)
		},
	}

	cmd.Flags().StringVar(&req.Date, "date", "", "Voucher date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Voucher description")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "Voucher line as ACCOUNT:DEBIT:CREDIT, repeatable")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func vouchersDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a voucher; its number is not reused",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			if _, err := opts.client().do(ctx, http.MethodDelete, "/api/v1/vouchers/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted voucher %s\n", args[0])
			return nil
		},
	}
}

func vouchersReverseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <id>",
		Short: "Record a voucher that cancels an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.VoucherResponse
			path := "/api/v1/vouchers/" + url.PathEscape(args[0]) + "/reverse"
			if _, err := opts.client().do(ctx, http.MethodPost, path, nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printVoucher(cmd, &resp)
		},
	}
}

func vouchersNextNumberCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "next-number",
		Short: "Show the number the next voucher will get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.NextNumberResponse
			if _, err := opts.client().do(ctx, http.MethodGet, "/api/v1/vouchers/next-number", nil, &resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.NextNumber)
			return nil
		},
	}
}
