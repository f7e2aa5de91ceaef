package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pgha-inspect/internal/model"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the seed node accepts the SSH credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := a.resolveCredentials()
			if err != nil {
				return err
			}

			resp := a.tester.TestConnection(&model.SSHTestRequest{
				IP:       creds.nodeIP,
				Port:     a.v.GetInt("port"),
				Username: creds.username,
				Password: creds.password,
			})

			out := cmd.OutOrStdout()
			for _, line := range resp.Details {
				fmt.Fprintln(out, line)
			}
			if !resp.Success {
				return fmt.Errorf("connection check against %s failed", creds.nodeIP)
			}
			return nil
		},
	}
}
