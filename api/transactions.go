package api

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/sealedapi/core/transport"
)

// DefaultTransactionsPath is the transaction list endpoint.
const DefaultTransactionsPath = "/txn/all"

// DateLayout is the DD-MM-YYYY format of custom range bounds.
const DateLayout = "02-01-2006"

// SortField names a sortable column of the transaction list.
type SortField string

const (
	SortCreatedOn         SortField = "createdOn"
	SortNameOrAlias       SortField = "nameOrAlias"
	SortAmountRequested   SortField = "amountRequested"
	SortDestinationAmount SortField = "destinationAmount"
	SortSentOrReceived    SortField = "sentOrReceived"
)

// sortColumns maps list columns to the API's sort keys.
var sortColumns = map[SortField]string{
	SortCreatedOn:         "createdOn",
	SortNameOrAlias:       "alias",
	SortAmountRequested:   "sourceAmount",
	SortDestinationAmount: "destinationAmount",
	SortSentOrReceived:    "sentOrReceived",
}

// SortOrder is the sort direction.
type SortOrder string

const (
	Ascend  SortOrder = "ascend"
	Descend SortOrder = "descend"
)

// Filters narrow the transaction list. Zero values are not sent.
type Filters struct {
	Status           TransactionStatus
	TransactionModes []TransactionMode
	DepositTypes     []DepositType
	RecipientTypes   []RecipientType
	SourceCurrencies []string
	SentOrReceived   Direction
	DateRange        DateRange
	// From and To bound a RangeCustom period, inclusive.
	From, To time.Time
}

// Query selects a page of transactions.
type Query struct {
	Page      int
	PageSize  int
	SortField SortField
	SortOrder SortOrder
	Filters   Filters
}

// listRequest is the wire form of a Query.
type listRequest struct {
	Page                int               `json:"page"`
	PageSize            int               `json:"pageSize,omitempty"`
	SortBy              string            `json:"sortBy,omitempty"`
	Status              TransactionStatus `json:"status,omitempty"`
	EndlTransactionMode []TransactionMode `json:"endlTransactionMode,omitempty"`
	DepositType         []DepositType     `json:"depositType,omitempty"`
	RecipientType       []RecipientType   `json:"recipientType,omitempty"`
	SourceCurrency      []string          `json:"sourceCurrency,omitempty"`
	SentOrReceived      Direction         `json:"sentOrReceived,omitempty"`
	DateRange           DateRange         `json:"dateRange,omitempty"`
	StartDate           string            `json:"startDate,omitempty"`
	EndDate             string            `json:"endDate,omitempty"`
}

// SortBy returns the API sort parameter, "<column>,asc|desc", or "" when unsorted.
// Any order other than Ascend sorts descending.
func (q Query) SortBy() (string, error) {
	if q.SortField == "" {
		return "", nil
	}
	col, ok := sortColumns[q.SortField]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortField, q.SortField)
	}
	dir := "desc"
	if q.SortOrder == Ascend {
		dir = "asc"
	}
	return col + "," + dir, nil
}

func (q Query) request() (listRequest, error) {
	if q.Page < 0 || q.PageSize < 0 {
		return listRequest{}, ErrInvalidPage
	}

	sortBy, err := q.SortBy()
	if err != nil {
		return listRequest{}, err
	}

	f := q.Filters
	req := listRequest{
		Page:                q.Page,
		PageSize:            q.PageSize,
		SortBy:              sortBy,
		Status:              f.Status,
		EndlTransactionMode: f.TransactionModes,
		DepositType:         f.DepositTypes,
		RecipientType:       f.RecipientTypes,
		SourceCurrency:      f.SourceCurrencies,
		SentOrReceived:      f.SentOrReceived,
		DateRange:           f.DateRange,
	}

	if f.DateRange == RangeCustom {
		if f.From.IsZero() || f.To.IsZero() || f.From.After(f.To) {
			return listRequest{}, ErrInvalidDateRange
		}
		req.StartDate = f.From.Format(DateLayout)
		req.EndDate = f.To.Format(DateLayout)
	}
	return req, nil
}

// Transaction is one row of the transaction list.
type Transaction struct {
	ID                  string  `json:"txnId" yaml:"txnId"`
	CreatedOn           string  `json:"createdOn" yaml:"createdOn"`
	NameOrAlias         string  `json:"nameOrAlias" yaml:"nameOrAlias"`
	DepositRail         string  `json:"depositRail" yaml:"depositRail"`
	AmountRequested     float64 `json:"amountRequested" yaml:"amountRequested"`
	SourceCurrency      string  `json:"sourceCurrency" yaml:"sourceCurrency"`
	DestinationAmount   Text    `json:"destinationAmount" yaml:"destinationAmount"`
	DestinationCurrency string  `json:"destinationCurrency" yaml:"destinationCurrency"`
	FxRate              Text    `json:"fxRate" yaml:"fxRate"`
	Status              string  `json:"status" yaml:"status"`
	DepositID           string  `json:"depositId" yaml:"depositId"`
	SentOrReceived      string  `json:"sentOrReceived" yaml:"sentOrReceived"`
	TransactionMode     string  `json:"endlTransactionMode,omitempty" yaml:"endlTransactionMode,omitempty"`
}

// apiTransaction is a transaction as listed by the API.
type apiTransaction struct {
	TxnID               Text    `json:"txnId"`
	NameOrAlias         string  `json:"nameOrAlias"`
	UserID              Text    `json:"userId"`
	QuoteID             Text    `json:"quoteId"`
	DepositID           Text    `json:"depositId"`
	CreatedOn           string  `json:"createdOn"`
	DepositRail         string  `json:"depositRail"`
	SourceAmount        float64 `json:"sourceAmount"`
	SourceCurrency      string  `json:"sourceCurrency"`
	DestinationAmount   Text    `json:"destinationAmount"`
	DestinationCurrency string  `json:"destinationCurrency"`
	FxRate              Text    `json:"fxRate"`
	Status              string  `json:"status"`
	SentOrReceived      string  `json:"sentOrReceived"`
	EndlTransactionMode string  `json:"endlTransactionMode"`
	// Some API versions misspell the mode key.
	EndITransactionMode string `json:"endITransactionMode"`
}

func (t apiTransaction) row() Transaction {
	mode := t.EndlTransactionMode
	if mode == "" {
		mode = t.EndITransactionMode
	}
	return Transaction{
		ID:                  string(t.TxnID),
		CreatedOn:           t.CreatedOn,
		NameOrAlias:         t.NameOrAlias,
		DepositRail:         t.DepositRail,
		AmountRequested:     t.SourceAmount,
		SourceCurrency:      t.SourceCurrency,
		DestinationAmount:   t.DestinationAmount,
		DestinationCurrency: t.DestinationCurrency,
		FxRate:              t.FxRate,
		Status:              t.Status,
		DepositID:           string(t.DepositID),
		SentOrReceived:      t.SentOrReceived,
		TransactionMode:     mode,
	}
}

// Page is one page of the transaction list.
type Page struct {
	Transactions []Transaction `json:"transactions" yaml:"transactions"`
	TotalCount   int           `json:"totalCount" yaml:"totalCount"`
}

// Transactions calls the transaction endpoints.
type Transactions struct {
	client *transport.Client
	path   string
}

// NewTransactions creates a Transactions client on DefaultTransactionsPath.
func NewTransactions(client *transport.Client) *Transactions {
	return &Transactions{client: client, path: DefaultTransactionsPath}
}

// List returns the transactions matching q.
func (t *Transactions) List(ctx context.Context, q Query) (*Page, error) {
	req, err := q.request()
	if err != nil {
		return nil, err
	}

	var data struct {
		TotalCount int              `json:"totalCount"`
		Txns       []apiTransaction `json:"txns"`
	}
	if _, err := t.client.Post(ctx, t.path, req, &data); err != nil {
		return nil, err
	}

	page := &Page{
		Transactions: make([]Transaction, 0, len(data.Txns)),
		TotalCount:   data.TotalCount,
	}
	for _, tx := range data.Txns {
		page.Transactions = append(page.Transactions, tx.row())
	}
	return page, nil
}

// PageCount returns the number of pages of size pageSize needed for TotalCount rows.
func (p *Page) PageCount(pageSize int) int {
	if pageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return (p.TotalCount + pageSize - 1) / pageSize
}

// ActiveFilters counts the filters and sort settings in effect. A custom range with
// bounds counts twice, once for the range and once for the bounds.
func (q Query) ActiveFilters() int {
	f := q.Filters
	n := 0
	for _, set := range []bool{
		f.Status != "",
		len(f.TransactionModes) > 0,
		len(f.DepositTypes) > 0,
		len(f.RecipientTypes) > 0,
		len(f.SourceCurrencies) > 0,
		f.SentOrReceived != "",
		f.DateRange != "",
		!f.From.IsZero() || !f.To.IsZero(),
		q.SortField != "",
	} {
		if set {
			n++
		}
	}
	return n
}
