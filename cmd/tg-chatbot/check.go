package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newCheckCmd validates the configuration and optionally probes both
// upstream APIs, mirroring what operators need when a deployment is silent.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and connectivity to Telegram and OpenRouter",
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false

			token := strings.TrimSpace(viper.GetString("telegram.bot_token"))
			if token == "" {
				fmt.Println("telegram.bot_token: MISSING")
				failed = true
			} else {
				fmt.Println("telegram.bot_token: set")
			}

			apiKey := strings.TrimSpace(viper.GetString("openrouter.api_key"))
			switch {
			case apiKey == "":
				fmt.Println("openrouter.api_key: MISSING")
				failed = true
			case apiKey == "YOUR_OPENROUTER_API_KEY":
				fmt.Println("openrouter.api_key: placeholder value, replace it")
				failed = true
			default:
				fmt.Println("openrouter.api_key: set")
			}

			model := strings.TrimSpace(viper.GetString("openrouter.model"))
			if model == "" {
				fmt.Println("openrouter.model: MISSING")
				failed = true
			} else {
				fmt.Printf("openrouter.model: %s\n", model)
			}

			allowPath, err := expandHomePath(viper.GetString("allowlist.path"))
			if err != nil {
				return err
			}
			fmt.Printf("allowlist.path: %s\n", allowPath)

			if !flagOrViperBool(cmd, "probe", "") {
				if failed {
					return fmt.Errorf("configuration incomplete")
				}
				return nil
			}

			if token != "" {
				api, err := botAPIFromViper()
				if err != nil {
					return err
				}
				me, err := api.GetMe(cmd.Context())
				if err != nil {
					fmt.Printf("telegram getMe: FAILED (%v)\n", err)
					failed = true
				} else {
					fmt.Printf("telegram getMe: ok (@%s, id %d)\n", me.Username, me.ID)
				}
			}

			if apiKey != "" {
				models, err := openRouterFromViper().ListModels(cmd.Context())
				if err != nil {
					fmt.Printf("openrouter models: FAILED (%v)\n", err)
					failed = true
				} else {
					fmt.Printf("openrouter models: ok (%d available)\n", len(models))
					if model != "" && !containsModel(models, model) {
						fmt.Printf("warning: configured model %q not in the model list\n", model)
					}
				}
			}

			if failed {
				return fmt.Errorf("check failed")
			}
			return nil
		},
	}

	cmd.Flags().Bool("probe", false, "Also call the Telegram and OpenRouter APIs.")

	return cmd
}

func containsModel(models []string, want string) bool {
	for _, m := range models {
		if m == want {
			return true
		}
	}
	return false
}
