package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/accountpro/bookkeeper/internal/adapter/http/dto"
)

func companyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Show the company profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp dto.CompanyProfileResponse
			if _, err := opts.client().do(ctx, http.MethodGet, "/api/v1/company", nil, &resp); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", resp.CompanyName, resp.OrganizationNumber)
			if resp.Address != "" {
				fmt.Fprintf(out, "%s, %s %s, %s\n", resp.Address, resp.PostalCode, resp.City, resp.Country)
			}
			if resp.VATNumber != "" {
				fmt.Fprintf(out, "VAT: %s\n", resp.VATNumber)
			}
			fmt.Fprintf(out, "Fiscal year: %s to %s\n", resp.FiscalYearStart, resp.FiscalYearEnd)
			return nil
		},
	}

	return cmd
}
