package main

import (
	"time"

	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Telegram
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.api_base", "https://api.telegram.org")
	viper.SetDefault("telegram.request_timeout", 30*time.Second)

	// OpenRouter
	viper.SetDefault("openrouter.api_key", "")
	viper.SetDefault("openrouter.api_base", "https://openrouter.ai/api")
	viper.SetDefault("openrouter.model", "deepseek/deepseek-chat-v3-0324:free")
	viper.SetDefault("openrouter.max_tokens", 500)
	viper.SetDefault("openrouter.system_instructions", "")
	viper.SetDefault("openrouter.request_timeout", 30*time.Second)
	viper.SetDefault("openrouter.referer", "")

	// Allow-list storage
	viper.SetDefault("allowlist.path", "~/.tg-chatbot/allowed_groups.txt")
	viper.SetDefault("allowlist.lock_dir", "~/.tg-chatbot/.fslocks")

	// Webhook server
	viper.SetDefault("server.bind", "127.0.0.1")
	viper.SetDefault("server.port", 8787)
	viper.SetDefault("server.webhook_path", "/webhook")
	viper.SetDefault("server.admin_enabled", false)
}
