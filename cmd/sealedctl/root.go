package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sealedctl",
		Short: "Client for the envelope-encrypted API",
		Long: `sealedctl calls the API through the envelope transport. Request bodies are
sealed with the shared secret, replies are opened, and the session token from a
login is kept in the configured session store.

Configuration comes from the environment and an optional .env file:
  SECRET_KEY        shared envelope secret
  API_BASE_URL      API root, e.g. https://api.example.com/api/v1
  SESSION_DRIVER    memory, file or redis
  REDIS_URL         used by the redis session driver`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	flags.StringVarP(&a.output, "output", "o", formatText, "output format: text, yaml or json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&a.jsonLogs, "json-logs", false, "write logs as JSON")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics of the run to this file")
	flags.StringVar(&a.baseURL, "base-url", "", "override API_BASE_URL")
	flags.StringVar(&a.sessionFile, "session-file", "", "keep the session in this file")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newTxnsCmd(a),
		newEncryptCmd(a),
		newDecryptCmd(a),
		newMockCmd(a),
	)
	return root
}
