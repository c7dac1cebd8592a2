package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
)

var errNotConfirmed = errors.New("this replaces all transactions and categories; rerun with --yes")

func (c *cli) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the whole ledger as JSON",
	}

	cmd.AddCommand(c.exportBackupCmd())
	cmd.AddCommand(c.restoreBackupCmd())

	return cmd
}

func (c *cli) exportBackupCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a dated backup file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := c.session()

			var buf bytes.Buffer
			if err := backup.Encode(&buf, sess.Backup()); err != nil {
				return err
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating backup directory: %w", err)
			}

			path := filepath.Join(dir, backup.Filename(sess.Now()))
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to write the backup into")

	return cmd
}

func (c *cli) restoreBackupCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the ledger with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup: %w", err)
			}
			defer f.Close()

			doc, err := backup.Read(f)
			if err != nil {
				return err
			}

			c.session().Restore(cmd.Context(), doc)

			fmt.Fprintf(cmd.OutOrStdout(), "restored %d transactions, %d income and %d expense categories\n",
				len(doc.Transactions), len(doc.IncomeCategories), len(doc.ExpenseCategories))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm replacing all data")

	return cmd
}
