package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/Store-Desk/Storedesk/internal/domain/catalog"
	"github.com/Store-Desk/Storedesk/internal/domain/session"
	"github.com/Store-Desk/Storedesk/internal/service"
)

// render writes v in the selected output format. table output comes from
// tableFn; json and yaml marshal v directly.
func render(w io.Writer, v any, tableFn func(io.Writer)) error {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil
	case "table", "":
		tableFn(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", outputFormat)
	}
}

// renderProductTable prints one catalog page as a table with a
// pagination footer.
func renderProductTable(w io.Writer, state catalog.State) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tBRAND\tPRICE\tRATING\tSTOCK")
	for i := range state.Items {
		p := &state.Items[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t$%.2f\t%.2f\t%d\n",
			p.ID, truncate(p.Title, 40), p.Category, p.Brand, p.Price, p.Rating, p.Stock)
	}
	tw.Flush()

	if state.Total == 0 {
		fmt.Fprintln(w, "\nNo products found.")
		return
	}
	from := state.Skip + 1
	to := state.Skip + len(state.Items)
	fmt.Fprintf(w, "\nShowing %d-%d of %d", from, to, state.Total)
	if state.Query != "" {
		fmt.Fprintf(w, " for %q", state.Query)
	}
	fmt.Fprintf(w, " (page %d/%d)\n", state.CurrentPage(), state.TotalPages())
}

// renderProductDetail prints a single product record including reviews.
func renderProductDetail(w io.Writer, p *catalog.Product) {
	fmt.Fprintf(w, "%s (#%d)\n", p.Title, p.ID)
	fmt.Fprintf(w, "  Category:  %s\n", p.Category)
	if p.Brand != "" {
		fmt.Fprintf(w, "  Brand:     %s\n", p.Brand)
	}
	fmt.Fprintf(w, "  Price:     $%.2f", p.Price)
	if p.DiscountPercentage > 0 {
		fmt.Fprintf(w, " (-%.1f%% -> $%.2f)", p.DiscountPercentage, p.DiscountedPrice())
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Rating:    %.2f\n", p.Rating)
	fmt.Fprintf(w, "  Stock:     %d\n", p.Stock)
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "  Tags:      %s\n", strings.Join(p.Tags, ", "))
	}
	if p.ShippingInformation != "" {
		fmt.Fprintf(w, "  Shipping:  %s\n", p.ShippingInformation)
	}
	if p.WarrantyInformation != "" {
		fmt.Fprintf(w, "  Warranty:  %s\n", p.WarrantyInformation)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n  %s\n", p.Description)
	}
	if len(p.Reviews) > 0 {
		fmt.Fprintf(w, "\nReviews (%d):\n", len(p.Reviews))
		for i := range p.Reviews {
			r := &p.Reviews[i]
			fmt.Fprintf(w, "  [%.0f/5] %s - %s\n", r.Rating, r.ReviewerName, r.Comment)
		}
	}
}

// renderProfile prints the session user's profile.
func renderProfile(w io.Writer, u *session.Profile) {
	fmt.Fprintf(w, "%s (@%s)\n", u.FullName(), u.Username)
	fmt.Fprintf(w, "  ID:         %d\n", u.ID)
	if u.Email != "" {
		fmt.Fprintf(w, "  Email:      %s\n", u.Email)
	}
	if u.Gender != "" {
		fmt.Fprintf(w, "  Gender:     %s\n", u.Gender)
	}
	if u.Phone != "" {
		fmt.Fprintf(w, "  Phone:      %s\n", u.Phone)
	}
	if u.BirthDate != "" {
		fmt.Fprintf(w, "  Birth date: %s\n", u.BirthDate)
	}
	if u.Address != nil {
		fmt.Fprintf(w, "  Address:    %s\n", formatAddress(u.Address))
	}
}

// renderStats prints the derived per-page statistics.
func renderStats(w io.Writer, stats service.PageStats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCTS\tAVG PRICE\tAVG RATING\tTOTAL STOCK")
	fmt.Fprintf(tw, "%d\t$%.2f\t%.2f\t%d\n",
		stats.TotalProducts, stats.AvgPrice, stats.AvgRating, stats.TotalStock)
	tw.Flush()
}

// renderCategories prints the category index.
func renderCategories(w io.Writer, cats []catalog.Category) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\n", c.Slug, c.Name)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d categories\n", len(cats))
}

func formatAddress(a *session.Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Address, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
