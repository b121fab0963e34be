package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sealedapi/api"
	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/core/session"
	"github.com/dmitrymomot/sealedapi/core/transport"
	"github.com/dmitrymomot/sealedapi/middleware"
)

const testSecret = "shared-secret"

// fakeAPI serves the user and transaction endpoints behind the envelope middleware and
// records the decrypted request bodies.
type fakeAPI struct {
	*httptest.Server

	mu     sync.Mutex
	bodies map[string]map[string]any
	auth   map[string]string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{bodies: map[string]map[string]any{}, auth: map[string]string{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/user/login", func(w http.ResponseWriter, r *http.Request) {
		in := f.record(r)
		if in["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "status": "Error", "message": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"code":   200,
			"status": "Success",
			"data": map[string]any{
				"userId":     42,
				"token":      "tok-42",
				"expiryDate": "2099-01-01T00:00:00Z",
			},
		})
	})
	mux.HandleFunc("POST /api/v1/user/logout", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "status": "Success"})
	})
	mux.HandleFunc("POST /api/v1/txn/all", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"code":   200,
			"status": "Success",
			"data": map[string]any{
				"totalCount": 11,
				"txns": []map[string]any{
					{
						"txnId":               1001,
						"nameOrAlias":         "Acme Ltd",
						"createdOn":           "2024-06-01",
						"depositRail":         "SWIFT",
						"sourceAmount":        250.5,
						"sourceCurrency":      "USD",
						"destinationAmount":   "230.12",
						"destinationCurrency": "EUR",
						"fxRate":              0.9187,
						"status":              "COMPLETE",
						"depositId":           "d-1",
						"sentOrReceived":      "SENT",
						"endlTransactionMode": "FIAT_TO_FIAT",
					},
					{
						"txnId":               "1002",
						"nameOrAlias":         "Jane",
						"sourceAmount":        10,
						"destinationAmount":   nil,
						"status":              "PENDING",
						"endITransactionMode": "STABLE_COIN_TO_FIAT",
					},
				},
			},
		})
	})

	handler := middleware.EnvelopeWithConfig(middleware.EnvelopeConfig{
		Cipher: envelope.NewCipher(testSecret),
		Logger: logger.Nop(),
	})(mux)
	f.Server = httptest.NewServer(handler)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) record(r *http.Request) map[string]any {
	body, _ := io.ReadAll(r.Body)
	in := map[string]any{}
	_ = json.Unmarshal(body, &in)

	f.mu.Lock()
	f.bodies[r.URL.Path] = in
	f.auth[r.URL.Path] = r.Header.Get("Authorization")
	f.mu.Unlock()
	return in
}

func (f *fakeAPI) body(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func (f *fakeAPI) authorization(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth[path]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(t *testing.T, srv *fakeAPI) (*transport.Client, *session.Manager) {
	t.Helper()

	store := session.NewManager(session.NewMemoryBackend(), "store-pass", session.WithLogger(logger.Nop()))
	cfg := transport.DefaultConfig()
	cfg.SecretKey = testSecret
	cfg.BaseURL = srv.URL + "/api/v1"

	c, err := transport.NewClient(cfg, store, transport.WithLogger(logger.Nop()))
	require.NoError(t, err)
	return c, store
}

func TestAuth_LoginLogout(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t)
	c, store := newClient(t, srv)
	auth := api.NewAuth(c, "", "")
	ctx := context.Background()

	res, err := auth.Login(ctx, "  user@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "42", res.UserID)
	assert.Equal(t, "2099-01-01T00:00:00Z", res.ExpiryDate)
	assert.Equal(t, "user@example.com", srv.body("/api/v1/user/login")["email"])

	id, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", id.UserID)
	assert.Equal(t, "tok-42", id.Token)

	require.NoError(t, auth.Logout(ctx))
	assert.Equal(t, "Bearer tok-42", srv.authorization("/api/v1/user/logout"))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuth_LoginRejected(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t)
	c, store := newClient(t, srv)
	auth := api.NewAuth(c, "", "")

	_, err := auth.Login(context.Background(), "user@example.com", "wrong")
	require.ErrorIs(t, err, transport.ErrUnsuccessfulReply)

	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	assert.Equal(t, "invalid credentials", apiErr.Message)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAuth_MissingCredentials(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t)
	c, _ := newClient(t, srv)
	auth := api.NewAuth(c, "", "")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret"},
		{"blank email", "   ", "secret"},
		{"empty password", "user@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, api.ErrMissingCredentials)
		})
	}
	assert.Nil(t, srv.body("/api/v1/user/login"))
}

func TestTransactions_List(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t)
	c, _ := newClient(t, srv)
	ctx := context.Background()

	_, err := api.NewAuth(c, "", "").Login(ctx, "user@example.com", "secret")
	require.NoError(t, err)

	page, err := api.NewTransactions(c).List(ctx, api.Query{
		Page:      1,
		PageSize:  10,
		SortField: api.SortAmountRequested,
		SortOrder: api.Descend,
		Filters: api.Filters{
			Status:           api.StatusComplete,
			TransactionModes: []api.TransactionMode{api.ModeFiatToFiat},
			DepositTypes:     []api.DepositType{api.DepositBankTransfer},
			SourceCurrencies: []string{"USD"},
			SentOrReceived:   api.DirectionSent,
			DateRange:        api.RangeCustom,
			From:             time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
			To:               time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	body := srv.body("/api/v1/txn/all")
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(10), body["pageSize"])
	assert.Equal(t, "sourceAmount,desc", body["sortBy"])
	assert.Equal(t, "COMPLETE", body["status"])
	assert.Equal(t, []any{"FIAT_TO_FIAT"}, body["endlTransactionMode"])
	assert.Equal(t, []any{"BANK_TRANSFER"}, body["depositType"])
	assert.Equal(t, []any{"USD"}, body["sourceCurrency"])
	assert.Equal(t, "SENT", body["sentOrReceived"])
	assert.Equal(t, "CUSTOM", body["dateRange"])
	assert.Equal(t, "14-01-2024", body["startDate"])
	assert.Equal(t, "25-01-2025", body["endDate"])
	assert.NotContains(t, body, "recipientType")
	assert.Equal(t, "Bearer tok-42", srv.authorization("/api/v1/txn/all"))

	assert.Equal(t, 11, page.TotalCount)
	require.Len(t, page.Transactions, 2)

	first := page.Transactions[0]
	assert.Equal(t, "1001", first.ID)
	assert.Equal(t, "Acme Ltd", first.NameOrAlias)
	assert.InDelta(t, 250.5, first.AmountRequested, 1e-9)
	assert.Equal(t, api.Text("230.12"), first.DestinationAmount)
	assert.Equal(t, api.Text("0.9187"), first.FxRate)
	assert.Equal(t, "FIAT_TO_FIAT", first.TransactionMode)

	second := page.Transactions[1]
	assert.Equal(t, "1002", second.ID)
	assert.Empty(t, second.DestinationAmount)
	assert.Equal(t, "STABLE_COIN_TO_FIAT", second.TransactionMode)
}

func TestTransactions_ListRejectsBadQuery(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t)
	c, _ := newClient(t, srv)
	txns := api.NewTransactions(c)

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		q    api.Query
		err  error
	}{
		{"negative page", api.Query{Page: -1}, api.ErrInvalidPage},
		{"negative page size", api.Query{PageSize: -5}, api.ErrInvalidPage},
		{"unknown sort", api.Query{SortField: "fee"}, api.ErrUnknownSortField},
		{"custom without bounds", api.Query{Filters: api.Filters{DateRange: api.RangeCustom}}, api.ErrInvalidDateRange},
		{"custom reversed", api.Query{Filters: api.Filters{DateRange: api.RangeCustom, From: feb, To: jan}}, api.ErrInvalidDateRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := txns.List(context.Background(), tt.q)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Nil(t, srv.body("/api/v1/txn/all"))
}
