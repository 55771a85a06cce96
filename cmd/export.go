package cmd

import (
	"context"
	"fmt"

	"browsemate/cli/internal/export"
	"browsemate/cli/internal/keychain"
	"browsemate/cli/internal/logging"
	"browsemate/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportPage int

// exportCmd mirrors one catalog page into the connected database.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy one page of products into the connected PostgreSQL database",
	Long: `The export command fetches a page of the catalog and upserts every product into
a "products" table, creating the table when it does not exist. All rows of a
page are written in one transaction. Run 'browsemate connect' first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.withSession(); err != nil {
			return err
		}

		r := a.resolver()
		r.Start(cmd.Context())
		defer r.Close()
		if st, err := r.WaitSettled(cmd.Context()); err != nil || st != session.LoggedIn {
			a.log.Debug("export refused", logging.MaskedError(err))
			pterm.Warning.Println("You need to be logged in to export products. Run: browsemate login")
			return errSilent
		}

		dsn, ok, err := a.kv.Get(keychain.KeyDBDSN)
		if err != nil || !ok {
			a.log.Debug("load dsn", logging.MaskedError(err))
			pterm.Warning.Println("No database configured. Run: browsemate connect")
			return errSilent
		}

		page := exportPage
		if page < 1 {
			page = 1
		}
		if err := fetchPage(cmd, a, page); err != nil {
			return err
		}
		items := a.store.Snapshot().Items

		stop := startSpinner(fmt.Sprintf("Exporting %d products", len(items)))
		n, err := exportItems(cmd.Context(), a, dsn, page)
		if err != nil {
			a.log.Error("export", logging.MaskedError(err))
			stop(false, logging.PresentError("Export failed", err))
			return errSilent
		}
		stop(true, fmt.Sprintf("Exported %d products from page %d", n, page))
		return nil
	},
}

func exportItems(ctx context.Context, a *app, dsn string, page int) (int64, error) {
	e, err := export.Connect(ctx, dsn, connectPingTimeout, a.log)
	if err != nil {
		return 0, err
	}
	defer e.Close()
	n, err := e.Upsert(ctx, a.store.Snapshot().Items)
	if err == nil {
		a.log.Info("page exported", zap.Int("page", page))
	}
	return n, err
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportPage, "page", 1, "Page number to export")
}
