package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	listLimit int
	listSkip  int
	listPage  int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List, search, and inspect catalog products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of the product catalog",
	Long: `Fetch one page of the full catalog. The page is always a full
replacement: no accumulation across calls.

Paging can be addressed by offset or by page number:
  store-desk products list --limit 10 --skip 20
  store-desk products list --limit 10 --page 3`,
	RunE: runProductsList,
}

var productsSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the product catalog",
	Long: `Query the catalog search endpoint. An empty or whitespace-only term
resets back to the full catalog with default paging.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProductsSearch,
}

var productsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single product by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsGet,
}

var productsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the catalog category index",
	RunE:  runProductsCategories,
}

func init() {
	productsListCmd.Flags().IntVar(&listLimit, "limit", 0, "products per page (default: configured page size)")
	productsListCmd.Flags().IntVar(&listSkip, "skip", 0, "offset of the first product")
	productsListCmd.Flags().IntVar(&listPage, "page", 0, "1-based page number (overrides --skip)")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsSearchCmd)
	productsCmd.AddCommand(productsGetCmd)
	productsCmd.AddCommand(productsCategoriesCmd)
	rootCmd.AddCommand(productsCmd)
}

func runProductsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	limit := listLimit
	if limit < 1 {
		limit = a.cfg.Catalog.PageSize
	}
	skip := listSkip
	if listPage > 0 {
		skip = (listPage - 1) * limit
	}

	// Move the cursor first, then fetch as the reaction to the change,
	// the same way a paginated view advances.
	a.catalog.SetSkip(skip)
	if err := a.catalog.List(cmd.Context(), limit, skip); err != nil {
		return err
	}

	state := a.catalog.Snapshot()
	return render(os.Stdout, state.Items, func(w io.Writer) {
		renderProductTable(w, state)
	})
}

func runProductsSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	term := ""
	if len(args) > 0 {
		term = args[0]
	}
	if err := a.catalog.Search(cmd.Context(), term); err != nil {
		return err
	}

	state := a.catalog.Snapshot()
	return render(os.Stdout, state.Items, func(w io.Writer) {
		renderProductTable(w, state)
	})
}

func runProductsGet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	product, err := a.catalog.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	return render(os.Stdout, product, func(w io.Writer) {
		renderProductDetail(w, product)
	})
}

func runProductsCategories(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.catalog.LoadCategories(cmd.Context()); err != nil {
		return err
	}

	cats := a.catalog.Snapshot().Categories
	return render(os.Stdout, cats, func(w io.Writer) {
		renderCategories(w, cats)
	})
}
