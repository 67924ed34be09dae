package bot

import (
	"context"
	"log/slog"

	"github.com/aliqajarian/tg-chatbot/telegram"
)

// Gateway is the router's view of the chat platform. Failures never escape as
// errors: Identity degrades to the zero Identity, Send to message id 0, and
// Edit reports failure only so the caller can log it. The user-visible
// fallback for a lost placeholder is a fresh send, decided by the router.
type Gateway interface {
	Identity(ctx context.Context) Identity
	Send(ctx context.Context, chatID, replyToMessageID int64, text string) int64
	Edit(ctx context.Context, chatID, messageID int64, text string) error
}

// APIGateway adapts the raw Telegram client to the Gateway contract.
type APIGateway struct {
	api    *telegram.BotAPI
	logger *slog.Logger
}

func NewAPIGateway(api *telegram.BotAPI, logger *slog.Logger) *APIGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIGateway{api: api, logger: logger}
}

func (g *APIGateway) Identity(ctx context.Context) Identity {
	me, err := g.api.GetMe(ctx)
	if err != nil {
		g.logger.Warn("getme_failed", "error", err.Error())
		return Identity{}
	}
	return Identity{Username: me.Username, ID: me.ID}
}

func (g *APIGateway) Send(ctx context.Context, chatID, replyToMessageID int64, text string) int64 {
	id, err := g.api.SendMessage(ctx, chatID, replyToMessageID, text)
	if err != nil {
		g.logger.Warn("send_failed", "chat_id", chatID, "error", err.Error())
		return 0
	}
	return id
}

func (g *APIGateway) Edit(ctx context.Context, chatID, messageID int64, text string) error {
	return g.api.EditMessageText(ctx, chatID, messageID, text)
}
