// Package bot contains the routing core: deciding whether an inbound update
// deserves a response, and driving the placeholder-then-edit reply flow.
package bot

import (
	"context"
	"log/slog"

	"github.com/aliqajarian/tg-chatbot/telegram"
)

// ProcessingText is the placeholder sent immediately on a triggering message,
// later edited in place with the completion result.
const ProcessingText = "🧠 Processing your request..."

// AllowList is the router's view of the permitted-chats store.
type AllowList interface {
	Allowed() (map[int64]bool, error)
	Add(ctx context.Context, chatID int64) error
}

type Router struct {
	gateway   Gateway
	store     AllowList
	completer *Completer
	logger    *slog.Logger
}

func NewRouter(gateway Gateway, store AllowList, completer *Completer, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		gateway:   gateway,
		store:     store,
		completer: completer,
		logger:    logger,
	}
}

// HandleUpdate processes one webhook delivery to completion. Updates that are
// neither messages nor membership changes are dropped.
func (r *Router) HandleUpdate(ctx context.Context, u *telegram.Update) {
	if u == nil {
		return
	}
	switch {
	case u.Message != nil:
		r.handleMessage(ctx, u.Message)
	case u.MyChatMember != nil:
		r.handleChatMemberUpdate(ctx, u.MyChatMember)
	default:
		r.logger.Debug("update_ignored", "update_id", u.UpdateID)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *telegram.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	// Identity is fetched per update; nothing survives between deliveries.
	ident := r.gateway.Identity(ctx)
	dec := Decide(msg, ident.Username, ident.ID)
	if !dec.ShouldRespond {
		return
	}
	if !r.chatAllowed(chatID) {
		r.logger.Debug("chat_not_allowed", "chat_id", chatID)
		return
	}

	r.logger.Info("question_received", "chat_id", chatID, "message_id", msg.MessageID)

	placeholderID := r.gateway.Send(ctx, chatID, msg.MessageID, ProcessingText)

	answer := r.completer.Complete(ctx, dec.Question)

	if placeholderID != 0 {
		if err := r.gateway.Edit(ctx, chatID, placeholderID, answer); err != nil {
			r.logger.Warn("edit_failed", "chat_id", chatID, "message_id", placeholderID, "error", err.Error())
		}
		return
	}
	// No confirmed placeholder to edit; deliver the answer as a fresh reply.
	r.gateway.Send(ctx, chatID, msg.MessageID, answer)
}

func (r *Router) handleChatMemberUpdate(ctx context.Context, upd *telegram.ChatMemberUpdated) {
	if upd.Chat == nil || upd.NewChatMember == nil {
		return
	}
	if upd.Chat.Type != "group" && upd.Chat.Type != "supergroup" {
		return
	}
	switch upd.NewChatMember.Status {
	case "member", "administrator":
		if err := r.store.Add(ctx, upd.Chat.ID); err != nil {
			r.logger.Error("allowlist_add_failed", "chat_id", upd.Chat.ID, "error", err.Error())
			return
		}
		r.logger.Info("allowlist_add", "chat_id", upd.Chat.ID, "status", upd.NewChatMember.Status)
	default:
		// Removal, restriction and ownership transfers are no-ops.
	}
}

// chatAllowed applies the open-by-default gate: an empty or unreadable list
// never blocks responses.
func (r *Router) chatAllowed(chatID int64) bool {
	allowed, err := r.store.Allowed()
	if err != nil {
		r.logger.Warn("allowlist_read_failed", "error", err.Error())
		return true
	}
	if len(allowed) == 0 {
		return true
	}
	return allowed[chatID]
}
