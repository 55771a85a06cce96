package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"browsemate/cli/internal/catalog"
	"browsemate/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	productsPage   int
	productsSearch string
	productsSort   string
	productsJSON   bool
	productPage    int
)

// productsCmd prints one page of the catalog. Search and sort apply to that
// page only.
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List one page of products",
	Example: `  browsemate products --page 2
  browsemate products --search phone --sort asc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		order, ok := catalog.ParseSortOrder(productsSort)
		if !ok {
			return fmt.Errorf("invalid --sort %q: use none, asc or desc", productsSort)
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		page := productsPage
		if page < 1 {
			page = 1
		}
		if err := fetchPage(cmd, a, page); err != nil {
			return err
		}

		items := catalog.Derive(a.store.Snapshot().Items, productsSearch, order)
		if productsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		pterm.Info.Printfln("Page %d · %d of %d shown", page, len(items), len(a.store.Snapshot().Items))
		return renderProductTable(items)
	},
}

var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show the details of a product on a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		page := productPage
		if page < 1 {
			page = (id-1)/catalog.PageSize + 1
		}
		if err := fetchPage(cmd, a, page); err != nil {
			return err
		}
		it, ok := a.store.Item(id)
		if !ok {
			return fmt.Errorf("product %d is not on page %d", id, page)
		}
		renderDetails(it)
		return nil
	},
}

// fetchPage loads page into the store with a spinner and renders failures.
func fetchPage(cmd *cobra.Command, a *app, page int) error {
	a.store.SetPage(page)
	stop := startSpinner(fmt.Sprintf("Loading page %d", page))
	err := a.store.FetchItems(cmd.Context(), page)
	if err == nil {
		stop(true, "")
		return nil
	}
	if httperrors.IsTransport(err) {
		stop(true, "")
		_ = httperrors.FormatNetworkError(err, "loading products")
		return errSilent
	}
	stop(false, "Error: "+a.store.Snapshot().Error)
	return errSilent
}

func init() {
	rootCmd.AddCommand(productsCmd, productCmd)
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "Page number, starting at 1")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "Case-insensitive title filter")
	productsCmd.Flags().StringVar(&productsSort, "sort", "none", "Price order: none, asc or desc")
	productsCmd.Flags().BoolVar(&productsJSON, "json", false, "Print the products as JSON")
	productCmd.Flags().IntVar(&productPage, "page", 0, "Page to look on (default: derived from the id)")
}
