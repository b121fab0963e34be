package mockapi

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPageSize = 10
	dateLayout      = "02-01-2006"
)

type listRequest struct {
	Page                int      `json:"page"`
	PageSize            int      `json:"pageSize"`
	SortBy              string   `json:"sortBy"`
	Status              string   `json:"status"`
	EndlTransactionMode []string `json:"endlTransactionMode"`
	DepositType         []string `json:"depositType"`
	RecipientType       []string `json:"recipientType"`
	SourceCurrency      []string `json:"sourceCurrency"`
	SentOrReceived      string   `json:"sentOrReceived"`
	DateRange           string   `json:"dateRange"`
	StartDate           string   `json:"startDate"`
	EndDate             string   `json:"endDate"`
}

// wireTransaction is a record as the API lists it. Destination amounts are sent as
// strings and rates as numbers.
type wireTransaction struct {
	TxnID               string  `json:"txnId"`
	NameOrAlias         string  `json:"nameOrAlias"`
	RecipientType       string  `json:"recipientType"`
	DepositType         string  `json:"depositType"`
	DepositRail         string  `json:"depositRail"`
	CreatedOn           string  `json:"createdOn"`
	SourceAmount        float64 `json:"sourceAmount"`
	SourceCurrency      string  `json:"sourceCurrency"`
	DestinationAmount   string  `json:"destinationAmount"`
	DestinationCurrency string  `json:"destinationCurrency"`
	FxRate              float64 `json:"fxRate"`
	Status              string  `json:"status"`
	DepositID           string  `json:"depositId"`
	SentOrReceived      string  `json:"sentOrReceived"`
	EndlTransactionMode string  `json:"endlTransactionMode"`
}

func (r Record) wire() wireTransaction {
	return wireTransaction{
		TxnID:               r.ID,
		NameOrAlias:         r.NameOrAlias,
		RecipientType:       r.RecipientType,
		DepositType:         r.DepositType,
		DepositRail:         r.DepositRail,
		CreatedOn:           r.CreatedOn.Format(time.RFC3339),
		SourceAmount:        r.SourceAmount,
		SourceCurrency:      r.SourceCurrency,
		DestinationAmount:   strconv.FormatFloat(r.DestinationAmount, 'f', 2, 64),
		DestinationCurrency: r.DestinationCurrency,
		FxRate:              r.FxRate,
		Status:              r.Status,
		DepositID:           r.DepositID,
		SentOrReceived:      r.SentOrReceived,
		EndlTransactionMode: r.Mode,
	}
}

func (a *api) listTransactions(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReply(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	match, err := a.filter(req)
	if err != nil {
		writeReply(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows := make([]Record, 0, len(a.cfg.Records))
	for _, rec := range a.cfg.Records {
		if match(rec) {
			rows = append(rows, rec)
		}
	}

	if err := sortRecords(rows, req.SortBy); err != nil {
		writeReply(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	total := len(rows)
	page := max(req.Page, 1)
	size := req.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	from := min((page-1)*size, total)
	to := min(from+size, total)

	txns := make([]wireTransaction, 0, to-from)
	for _, rec := range rows[from:to] {
		txns = append(txns, rec.wire())
	}

	writeReply(w, http.StatusOK, "", map[string]any{
		"totalCount": total,
		"txns":       txns,
	})
}

type badRequest string

func (e badRequest) Error() string { return string(e) }

// filter compiles the request filters into a predicate.
func (a *api) filter(req listRequest) (func(Record) bool, error) {
	var from, to time.Time
	now := a.cfg.Now().UTC()

	switch req.DateRange {
	case "", "ALL_TIME":
	case "YESTERDAY":
		today := now.Truncate(24 * time.Hour)
		from, to = today.Add(-24*time.Hour), today
	case "LAST_7_DAYS":
		from, to = now.Add(-7*24*time.Hour), now.Add(time.Nanosecond)
	case "CUSTOM":
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, badRequest("startDate must be DD-MM-YYYY")
		}
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, badRequest("endDate must be DD-MM-YYYY")
		}
		if end.Before(start) {
			return nil, badRequest("endDate is before startDate")
		}
		from, to = start, end.Add(24*time.Hour)
	default:
		return nil, badRequest("unknown dateRange " + strconv.Quote(req.DateRange))
	}

	return func(rec Record) bool {
		switch {
		case req.Status != "" && rec.Status != req.Status,
			req.SentOrReceived != "" && rec.SentOrReceived != req.SentOrReceived,
			!anyOf(req.EndlTransactionMode, rec.Mode),
			!anyOf(req.DepositType, rec.DepositType),
			!anyOf(req.RecipientType, rec.RecipientType),
			!anyOf(req.SourceCurrency, rec.SourceCurrency):
			return false
		case !from.IsZero() && (rec.CreatedOn.Before(from) || !rec.CreatedOn.Before(to)):
			return false
		}
		return true
	}, nil
}

// anyOf reports whether set is empty or holds v.
func anyOf(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

var sortKeys = map[string]func(a, b Record) int{
	"createdOn":         func(a, b Record) int { return a.CreatedOn.Compare(b.CreatedOn) },
	"alias":             func(a, b Record) int { return cmp.Compare(a.NameOrAlias, b.NameOrAlias) },
	"sourceAmount":      func(a, b Record) int { return cmp.Compare(a.SourceAmount, b.SourceAmount) },
	"destinationAmount": func(a, b Record) int { return cmp.Compare(a.DestinationAmount, b.DestinationAmount) },
	"sentOrReceived":    func(a, b Record) int { return cmp.Compare(a.SentOrReceived, b.SentOrReceived) },
}

// sortRecords orders rows by a "field,asc|desc" parameter. Empty keeps newest first.
func sortRecords(rows []Record, sortBy string) error {
	if sortBy == "" {
		sortBy = "createdOn,desc"
	}
	field, dir, _ := strings.Cut(sortBy, ",")
	compare, ok := sortKeys[field]
	if !ok {
		return badRequest("unknown sort field " + strconv.Quote(field))
	}
	if dir == "desc" {
		asc := compare
		compare = func(a, b Record) int { return asc(b, a) }
	}
	slices.SortStableFunc(rows, compare)
	return nil
}
