package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push to or pull from the configured remote",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload a snapshot of the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.session().Push(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "pushed")

			return nil
		},
	})

	var yes bool

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace the ledger with the latest remote snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errNotConfirmed
			}

			sess := c.session()
			if err := sess.Pull(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pulled %d transactions\n", len(sess.Transactions()))

			return nil
		},
	}
	pull.Flags().BoolVarP(&yes, "yes", "y", false, "confirm replacing all data")

	cmd.AddCommand(pull)

	return cmd
}
