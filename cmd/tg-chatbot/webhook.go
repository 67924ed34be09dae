package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}

	setCmd := &cobra.Command{
		Use:   "set <url>",
		Short: "Register the webhook URL with Telegram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if !strings.HasPrefix(url, "https://") {
				return fmt.Errorf("webhook url must use https: %q", url)
			}
			api, err := botAPIFromViper()
			if err != nil {
				return err
			}
			if err := api.SetWebhook(cmd.Context(), url); err != nil {
				return err
			}
			fmt.Printf("webhook set to %s\n", url)
			return nil
		},
	}
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := botAPIFromViper()
			if err != nil {
				return err
			}
			if err := api.DeleteWebhook(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("webhook deleted")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the current webhook registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := botAPIFromViper()
			if err != nil {
				return err
			}
			info, err := api.GetWebhookInfo(cmd.Context())
			if err != nil {
				return err
			}
			if info.URL == "" {
				fmt.Println("no webhook registered")
				return nil
			}
			fmt.Printf("url: %s\n", info.URL)
			fmt.Printf("pending updates: %d\n", info.PendingUpdateCount)
			if info.LastErrorMessage != "" {
				fmt.Printf("last error: %s\n", info.LastErrorMessage)
			}
			return nil
		},
	})

	return cmd
}
