package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/accountpro/bookkeeper/internal/infrastructure/scripts"
)

func scriptsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "Run reporting scripts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "run <annual-report|declaration>",
		Short:     "Run a script on the script service",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(scripts.ActionAnnualReport), string(scripts.ActionDeclaration)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var resp scripts.Result
			if _, err := opts.client().do(ctx, http.MethodPost, "/api/v1/scripts/"+args[0], nil, &resp, http.StatusBadGateway); err != nil {
				return err
			}

			if !resp.Success {
				return fmt.Errorf("script %s failed: %s", args[0], resp.Message)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	})

	return cmd
}
