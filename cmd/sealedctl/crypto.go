package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sealedapi/core/envelope"
)

// input returns the first argument or, when there is none, standard input.
func (a *app) input(args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return bytes.TrimSpace(data), nil
}

func newEncryptCmd(a *app) *cobra.Command {
	var wrap bool

	cmd := &cobra.Command{
		Use:   "encrypt [json]",
		Short: "Seal a JSON document into an envelope",
		Long: `Seals a JSON document with SECRET_KEY. The document is read from the argument or
standard input. --wrap prints the request body the transport would send.

Examples:
  sealedctl encrypt '{"email":"user@example.com"}'
  echo '{"page":1}' | sealedctl encrypt --wrap`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.input(args)
			if err != nil {
				return err
			}
			if !json.Valid(data) {
				return envelope.ErrInvalidPayload
			}

			c, err := a.cipher()
			if err != nil {
				return err
			}
			sealed, err := c.SealJSON(json.RawMessage(data))
			if err != nil {
				return err
			}

			if !wrap {
				fmt.Fprintln(a.out, sealed)
				return nil
			}
			out, err := json.Marshal(envelope.RequestEnvelope{EncryptedPayload: sealed})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(out))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&wrap, "wrap", "w", false, `print {"encryptedPayload": ...}`)
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt [envelope]",
		Short: "Open an envelope and print the JSON inside",
		Long: `Opens an envelope sealed with SECRET_KEY. Accepts the bare base64 envelope or a
wrapped body, {"encryptedPayload": ...} or {"response": ...}.

Examples:
  sealedctl decrypt 'q2V5...=='
  curl -s $API/txn/all | sealedctl decrypt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.input(args)
			if err != nil {
				return err
			}

			c, err := a.cipher()
			if err != nil {
				return err
			}
			plain, err := c.Open(unwrapEnvelope(data))
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if json.Indent(&pretty, plain, "", "  ") != nil {
				fmt.Fprintln(a.out, string(plain))
				return nil
			}
			fmt.Fprintln(a.out, pretty.String())
			return nil
		},
	}
}

// unwrapEnvelope extracts the envelope from a wrapped request or response body.
func unwrapEnvelope(data []byte) string {
	var body struct {
		EncryptedPayload string `json:"encryptedPayload"`
		Response         string `json:"response"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.EncryptedPayload != "" {
			return body.EncryptedPayload
		}
		if body.Response != "" {
			return body.Response
		}
	}
	return strings.Trim(string(data), "\" \n")
}
