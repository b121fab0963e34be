package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sealedapi/core/config"
	"github.com/dmitrymomot/sealedapi/core/server"
	"github.com/dmitrymomot/sealedapi/internal/mockapi"
)

func newMockCmd(a *app) *cobra.Command {
	var (
		addr       string
		password   string
		signingKey string
		records    int
		tokenTTL   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a local mock of the API",
		Long: `Serves the login, logout and transaction endpoints with envelope encryption,
using SECRET_KEY. Point API_BASE_URL at http://<addr>/api/v1 to use it.

Examples:
  sealedctl mock --addr :8080
  sealedctl --base-url http://localhost:8080/api/v1 login -e user@example.com -p password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var srvCfg server.Config
			if err := config.Load(&srvCfg); err != nil {
				return err
			}
			if addr != "" {
				srvCfg.Addr = addr
			}
			if signingKey == "" {
				signingKey = uuid.NewString()
			}

			c, err := a.cipher()
			if err != nil {
				return err
			}
			if !c.Configured() {
				return fmt.Errorf("mock: SECRET_KEY is not set")
			}

			handler, err := mockapi.New(mockapi.Config{
				Cipher:     c,
				SigningKey: []byte(signingKey),
				TokenTTL:   tokenTTL,
				Password:   password,
				Records:    mockapi.Seed(records, time.Now()),
				Logger:     a.log,
			})
			if err != nil {
				return err
			}

			srv, err := server.NewFromConfig(srvCfg, server.WithLogger(a.log))
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Mock API on %s (password %q)\n",
				color.GreenString("✓"), color.CyanString(srvCfg.Addr+mockapi.Prefix), password)

			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.Go(srv.Run(ctx, handler))
			return eg.Wait()
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&addr, "addr", "", "listen address (default: $SERVER_ADDR)")
	fl.StringVar(&password, "password", mockapi.DefaultPassword, "password accepted for every email")
	fl.StringVar(&signingKey, "signing-key", "", "HS256 key for issued tokens (default: random)")
	fl.IntVar(&records, "records", 40, "number of seeded transactions")
	fl.DurationVar(&tokenTTL, "token-ttl", time.Hour, "lifetime of issued tokens")
	return cmd
}
