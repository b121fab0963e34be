package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sealedapi/api"
	"github.com/dmitrymomot/sealedapi/core/session"
)

// passwordEnv supplies the login password when --password is not given.
const passwordEnv = "SEALEDCTL_PASSWORD"

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Signs in with email and password. The password is read from --password or,
when omitted, from the SEALEDCTL_PASSWORD environment variable.

Examples:
  sealedctl login --email user@example.com
  SEALEDCTL_PASSWORD=secret sealedctl login --email user@example.com -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}

			client, err := a.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			res, err := api.NewAuth(client, a.transportCfg.LoginPath, a.transportCfg.LogoutPath).
				Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			return a.render(res, func(w io.Writer) {
				fmt.Fprintf(w, "%s Logged in as %s\n", color.GreenString("✓"), color.CyanString(res.UserID))
				if res.ExpiryDate != "" {
					fmt.Fprintf(w, "  Session expires %s\n", color.YellowString(res.ExpiryDate))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (default: $"+passwordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.apiClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := api.NewAuth(client, a.transportCfg.LoginPath, a.transportCfg.LogoutPath).Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w (local session cleared)", err)
			}
			fmt.Fprintf(a.out, "%s Logged out\n", color.GreenString("✓"))
			return nil
		},
	}
}

// whoami is the rendered view of the stored session. The token is never shown.
type whoami struct {
	LoggedIn  bool   `json:"loggedIn" yaml:"loggedIn"`
	UserID    string `json:"userId,omitempty" yaml:"userId,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.sessionStore(cmd.Context())
			if err != nil {
				return err
			}

			var view whoami
			id, err := store.Load(cmd.Context())
			switch {
			case err == nil:
				view = whoami{LoggedIn: true, UserID: id.UserID, ExpiresAt: id.ExpiresAt.UTC().Format(time.RFC3339)}
			case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
			default:
				return err
			}

			return a.render(view, func(w io.Writer) {
				if !view.LoggedIn {
					fmt.Fprintf(w, "%s Not logged in\n", color.YellowString("⚠"))
					return
				}
				fmt.Fprintf(w, "  %-10s %s\n", "User ID:", color.CyanString(view.UserID))
				fmt.Fprintf(w, "  %-10s %s (in %s)\n", "Expires:", color.GreenString(view.ExpiresAt),
					time.Until(id.ExpiresAt).Round(time.Second))
			})
		},
	}
}
