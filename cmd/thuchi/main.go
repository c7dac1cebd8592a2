package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/likexephinh-dev/ThuChiPro/internal/app"
	"github.com/likexephinh-dev/ThuChiPro/internal/config"
	"github.com/likexephinh-dev/ThuChiPro/internal/logging"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

// cli carries the application opened by the root command's pre-run hook.
type cli struct {
	app *app.App
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := cfg.App.LogLevel
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		level = flag
	}

	logging.Setup(level)

	a, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	c.app = a

	return nil
}

func (c *cli) session() *session.Session {
	return c.app.Session
}

func (c *cli) Close() error {
	if c.app == nil {
		return nil
	}

	return c.app.Close()
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "thuchi",
		Short: "Income and expense ledger",
		Long: `thuchi manages a small income/expense ledger from the command line:
backups, CSV reports and remote sync.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(c.backupCmd())
	root.AddCommand(c.reportCmd())
	root.AddCommand(c.syncCmd())
	root.AddCommand(c.categoriesCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := &cli{}
	err := newRootCmd(c).ExecuteContext(ctx)

	_ = c.Close()

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
