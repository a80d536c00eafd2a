package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

var (
	listStatus string
	listSearch string
	listPage   int
	listLimit  int
	listSort   string
	listOrder  string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List a resource as a table",
	Long: `List one page of a resource.

Examples:
  payops list users
  payops list users --status suspended --sort balance --order desc
  payops list transactions --search TXN-2026 --page 3
  payops list settlements --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveResource(args[0])
		if err != nil {
			return err
		}
		client, err := apiClient()
		if err != nil {
			return err
		}

		q := listQuery(r)
		ctx := cmd.Context()

		switch r {
		case admin.ResourceUsers:
			pg, err := client.ListUsers(ctx, q)
			if err != nil {
				return eris.Wrap(err, "list users")
			}
			return outputPage(pg, admin.UserColumns())
		case admin.ResourceTransactions:
			pg, err := client.ListTransactions(ctx, q)
			if err != nil {
				return eris.Wrap(err, "list transactions")
			}
			return outputPage(pg, admin.TransactionColumns())
		case admin.ResourceServices:
			pg, err := client.ListServices(ctx, q)
			if err != nil {
				return eris.Wrap(err, "list services")
			}
			return outputPage(pg, admin.ServiceColumns())
		case admin.ResourceSettlements:
			pg, err := client.ListSettlements(ctx, q)
			if err != nil {
				return eris.Wrap(err, "list settlements")
			}
			return outputPage(pg, admin.SettlementColumns())
		}
		return fmt.Errorf("unhandled resource %q", r)
	},
}

func listQuery(r admin.Resource) console.Query {
	q := r.DefaultQuery(listLimit)
	if listSearch != "" {
		q = q.WithSearch(listSearch)
	}
	if listStatus != "" {
		q = q.WithFilter("status", listStatus)
	}
	if listSort != "" {
		order := q.SortOrder
		if listOrder != "" {
			order = console.SortOrder(listOrder)
		}
		q = q.WithSort(listSort, order)
	} else if listOrder != "" {
		q = q.WithSort(q.SortField, console.SortOrder(listOrder))
	}
	// Last so the earlier With* calls cannot reset it.
	return q.WithPage(listPage)
}

func outputPage[T console.Row](pg console.Page[T], cols []console.Column[T]) error {
	if listJSON {
		return json.NewEncoder(os.Stdout).Encode(pg.Items)
	}
	if len(pg.Items) == 0 {
		fmt.Println("No results.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, columnHeader(cols))
	for _, row := range pg.Items {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, c.Value(row))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	fmt.Printf("\npage %d/%d, %d total\n", pg.Page, pg.TotalPages, pg.TotalCount)
	return nil
}

func columnHeader[T console.Row](cols []console.Column[T]) string {
	s := ""
	for i, c := range cols {
		if i > 0 {
			s += "\t"
		}
		s += c.Title
	}
	return s
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Free-text search")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Rows per page")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort field (resource specific)")
	listCmd.Flags().StringVar(&listOrder, "order", "", "Sort order: asc or desc")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(listCmd)
}
