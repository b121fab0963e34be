package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sealedapi/api"
)

type txnsFlags struct {
	page, pageSize int
	sort, order    string
	status         string
	modes          []string
	depositTypes   []string
	recipientTypes []string
	currencies     []string
	direction      string
	dateRange      string
	from, to       string
}

func (f txnsFlags) query() (api.Query, error) {
	q := api.Query{
		Page:      f.page,
		PageSize:  f.pageSize,
		SortField: api.SortField(f.sort),
		SortOrder: api.SortOrder(f.order),
		Filters: api.Filters{
			Status:           api.TransactionStatus(strings.ToUpper(f.status)),
			SourceCurrencies: upper(f.currencies),
			SentOrReceived:   api.Direction(strings.ToUpper(f.direction)),
			DateRange:        api.DateRange(strings.ToUpper(f.dateRange)),
		},
	}
	for _, m := range upper(f.modes) {
		q.Filters.TransactionModes = append(q.Filters.TransactionModes, api.TransactionMode(m))
	}
	for _, d := range upper(f.depositTypes) {
		q.Filters.DepositTypes = append(q.Filters.DepositTypes, api.DepositType(d))
	}
	for _, r := range upper(f.recipientTypes) {
		q.Filters.RecipientTypes = append(q.Filters.RecipientTypes, api.RecipientType(r))
	}

	if f.from != "" || f.to != "" {
		from, err := time.Parse(api.DateLayout, f.from)
		if err != nil {
			return q, fmt.Errorf("--from: want DD-MM-YYYY: %w", err)
		}
		to, err := time.Parse(api.DateLayout, f.to)
		if err != nil {
			return q, fmt.Errorf("--to: want DD-MM-YYYY: %w", err)
		}
		q.Filters.From, q.Filters.To = from, to
		if q.Filters.DateRange == "" {
			q.Filters.DateRange = api.RangeCustom
		}
	}
	return q, nil
}

func upper(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func newTxnsCmd(a *app) *cobra.Command {
	var f txnsFlags

	cmd := &cobra.Command{
		Use:   "txns",
		Short: "List transactions",
		Long: `Lists one page of transactions. Requires a stored session (see login).

Examples:
  sealedctl txns --page 1 --page-size 20
  sealedctl txns --status complete --mode fiat_to_fiat --sort amountRequested --order descend
  sealedctl txns --from 14-01-2024 --to 25-01-2025 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}

			client, err := a.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			page, err := api.NewTransactions(client).List(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("list transactions: %w", err)
			}

			return a.render(page, func(w io.Writer) {
				printTransactions(w, page, q)
			})
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.page, "page", 1, "page number")
	fl.IntVar(&f.pageSize, "page-size", 10, "rows per page")
	fl.StringVar(&f.sort, "sort", "", "sort column: createdOn, nameOrAlias, amountRequested, destinationAmount, sentOrReceived")
	fl.StringVar(&f.order, "order", string(api.Descend), "sort order: ascend or descend")
	fl.StringVar(&f.status, "status", "", "INITIATED, IN_REVIEW, PENDING, COMPLETE or REJECTED")
	fl.StringSliceVar(&f.modes, "mode", nil, "transaction modes")
	fl.StringSliceVar(&f.depositTypes, "deposit-type", nil, "deposit types")
	fl.StringSliceVar(&f.recipientTypes, "recipient-type", nil, "INDIVIDUAL or BUSINESS")
	fl.StringSliceVar(&f.currencies, "currency", nil, "source currencies")
	fl.StringVar(&f.direction, "direction", "", "SENT or RECEIVED")
	fl.StringVar(&f.dateRange, "range", "", "ALL_TIME, YESTERDAY, LAST_7_DAYS or CUSTOM")
	fl.StringVar(&f.from, "from", "", "custom range start, DD-MM-YYYY")
	fl.StringVar(&f.to, "to", "", "custom range end, DD-MM-YYYY")
	return cmd
}

func printTransactions(w io.Writer, page *api.Page, q api.Query) {
	if len(page.Transactions) == 0 {
		fmt.Fprintf(w, "%s No transactions found\n", color.YellowString("⚠"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tNAME\tAMOUNT\tDESTINATION\tRATE\tDIRECTION\tSTATUS")
	for _, tx := range page.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f %s\t%s %s\t%s\t%s\t%s\n",
			tx.ID,
			tx.CreatedOn,
			tx.NameOrAlias,
			tx.AmountRequested, tx.SourceCurrency,
			tx.DestinationAmount, tx.DestinationCurrency,
			tx.FxRate,
			tx.SentOrReceived,
			statusColor(tx.Status),
		)
	}
	_ = tw.Flush()

	size := q.PageSize
	if size <= 0 {
		size = 10
	}
	fmt.Fprintf(w, "\n%s %d total, page %d/%d, %d active filters\n",
		color.CyanString("→"), page.TotalCount, max(q.Page, 1), page.PageCount(size), q.ActiveFilters())
}

func statusColor(status string) string {
	switch api.TransactionStatus(status) {
	case api.StatusComplete:
		return color.GreenString(status)
	case api.StatusRejected:
		return color.RedString(status)
	case api.StatusPending, api.StatusInReview, api.StatusInitiated:
		return color.YellowString(status)
	default:
		return status
	}
}
