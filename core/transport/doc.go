// Package transport wraps outbound API calls in encrypted envelopes and keeps the
// session bearer token in sync with login and logout replies.
//
// Transport is an http.RoundTripper. Every call passes two phases:
//
// Request phase: the call is rejected with envelope.ErrMissingSecret when no shared
// secret is configured. Unless the path matches the skip list, a JSON body is sealed
// and replaced with {"encryptedPayload": "<base64(iv||ciphertext)>"}. When sealing fails
// the default PolicyDegrade logs the error and sends the body as is; PolicyFail aborts
// the call. If the session store holds an identity, "Authorization: Bearer <token>" is
// attached. Every call carries an X-Request-ID header.
//
// Response phase: unless skipped, a body of the form {"response": "<envelope>"} is
// decrypted and the plaintext replaces the whole body. A reply that cannot be decrypted
// fails the call with an error matching envelope.ErrDecryptionFailed. A successful reply
// to the login path stores the returned userId, token and expiryDate; any call to the
// logout path clears the store whatever the reply holds.
//
// # Usage
//
//	var cfg transport.Config
//	config.MustLoad(&cfg)
//
//	backend, _ := session.NewFileBackend(path)
//	store := session.NewManager(backend, cfg.SecretKey)
//
//	client, err := transport.NewClient(cfg, store, transport.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	reply, err := client.Post(ctx, "/user/login", credentials, nil)
//
// The Transport can also be installed in any http.Client directly:
//
//	hc := &http.Client{Transport: transport.New(envelope.NewCipher(secret), store)}
//
// # Skip List
//
// Paths containing any entry of skiplist.Default (plus Config.SkipEndpoints) bypass both
// phases of the same call. The bearer token is still attached.
//
// # Login Expiry
//
// The session expiry is the reply's expiryDate. When the reply omits it, the exp claim
// of a JWT token is used, and otherwise now plus Config.SessionDefaultTTL.
//
// # Metrics
//
// NewMetrics registers Prometheus counters for envelope outcomes per phase, session
// events and a call duration histogram. A nil *Metrics disables them.
//
// # Throttling
//
// Config.RateLimit above zero inserts a RateLimiter between the pipeline and the network.
package transport
