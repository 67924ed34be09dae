package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliqajarian/tg-chatbot/allowlist"
	"github.com/aliqajarian/tg-chatbot/bot"
	"github.com/aliqajarian/tg-chatbot/llm"
	"github.com/aliqajarian/tg-chatbot/providers/openrouter"
	"github.com/aliqajarian/tg-chatbot/telegram"
	"github.com/spf13/viper"
)

func botAPIFromViper() (*telegram.BotAPI, error) {
	token := strings.TrimSpace(viper.GetString("telegram.bot_token"))
	if token == "" {
		return nil, fmt.Errorf("missing telegram.bot_token (set via config or %s_TELEGRAM_BOT_TOKEN)", envPrefix)
	}
	httpClient := &http.Client{Timeout: viper.GetDuration("telegram.request_timeout")}
	return telegram.NewBotAPI(httpClient, viper.GetString("telegram.api_base"), token), nil
}

func openRouterFromViper() *openrouter.Client {
	client := openrouter.New(
		viper.GetString("openrouter.api_base"),
		viper.GetString("openrouter.api_key"),
		viper.GetDuration("openrouter.request_timeout"),
	)
	client.Referer = strings.TrimSpace(viper.GetString("openrouter.referer"))
	return client
}

func completerFromViper(client llm.Client) *bot.Completer {
	return bot.NewCompleter(client, bot.CompleterConfig{
		Model:              viper.GetString("openrouter.model"),
		SystemInstructions: viper.GetString("openrouter.system_instructions"),
		MaxTokens:          viper.GetInt("openrouter.max_tokens"),
	})
}

func allowlistFromViper() (*allowlist.Store, error) {
	path, err := expandHomePath(viper.GetString("allowlist.path"))
	if err != nil {
		return nil, err
	}
	lockDir, err := expandHomePath(viper.GetString("allowlist.lock_dir"))
	if err != nil {
		return nil, err
	}
	return allowlist.NewStore(path, lockDir)
}

func expandHomePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || path[0] != '~' {
		return path, nil
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return "", fmt.Errorf("unsupported home path %q", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
