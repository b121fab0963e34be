// Package api is a typed client for the user and transaction endpoints.
//
// It sits on top of transport.Client, so every call is enveloped and authenticated:
//
//	client, err := transport.NewClient(cfg, store)
//	if err != nil {
//		return err
//	}
//
//	auth := api.NewAuth(client, cfg.LoginPath, cfg.LogoutPath)
//	if _, err := auth.Login(ctx, email, password); err != nil {
//		return err
//	}
//
//	page, err := api.NewTransactions(client).List(ctx, api.Query{
//		PageSize:  10,
//		SortField: api.SortAmountRequested,
//		SortOrder: api.Descend,
//		Filters: api.Filters{
//			Status:    api.StatusComplete,
//			DateRange: api.RangeCustom,
//			From:      time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
//			To:        time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC),
//		},
//	})
//
// Sort fields are list column names; SortBy maps them to the API's keys
// (nameOrAlias sorts by "alias", amountRequested by "sourceAmount"). Custom date range
// bounds are sent as DD-MM-YYYY.
package api
