// Package mockapi is an in-process stand-in for the remote API. It speaks the envelope
// protocol through middleware.Envelope, issues HS256 bearer tokens on login and serves a
// filterable, sortable transaction list from seeded records.
//
//	h, err := mockapi.New(mockapi.Config{
//		Cipher:     envelope.NewCipher(secret),
//		SigningKey: []byte("mock-signing-key"),
//	})
//
// Routes live under /api/v1: user/login, user/logout, txn/all and test/health.
// Any email is accepted together with Config.Password.
package mockapi
