package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/swunglabs/swung/internal/llm"
)

func init() {
	var tokenFile, clientID string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with GitHub and mint the Copilot token file",
		RunE: func(cmd *cobra.Command, args []string) error {
			http := resty.New().SetTimeout(30 * time.Second)

			auth, err := llm.StartDeviceFlow(http, clientID)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Open %s and enter code: %s\n", auth.VerificationURI, auth.UserCode)

			githubToken, err := llm.PollForAccessToken(cmd.Context(), http, clientID, auth)
			if err != nil {
				return err
			}

			set, err := llm.CompleteLogin(http, tokenFile, githubToken)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Logged in. Copilot token saved to %s (expires %s)\n",
				tokenFile, time.UnixMilli(set.CopilotExpiresAt).Format(time.RFC3339))
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&tokenFile, "token-file", "t", ".tokens.json", "Where to write the token file")
	loginCmd.Flags().StringVar(&clientID, "client-id", llm.DefaultClientID, "GitHub OAuth client id")
	rootCmd.AddCommand(loginCmd)
}
