package bot

import (
	"strconv"
	"strings"

	"github.com/aliqajarian/tg-chatbot/telegram"
)

// Identity is the bot's own Telegram identity, fetched fresh for every
// update. The zero value is the safe default: an empty username and id never
// match a mention, so a failed getMe makes the bot silent instead of wrong.
type Identity struct {
	Username string
	ID       int64
}

// Decision is the outcome of routing a single group message.
type Decision struct {
	ShouldRespond bool
	Question      string
}

// Decide determines whether the bot should answer msg and what the effective
// question is.
//
// Mention detection wins over reply-to-bot: a message that both mentions the
// bot and replies to one of its messages is treated purely as a mention, so
// the quoted message's text becomes the question.
func Decide(msg *telegram.Message, botUsername string, botID int64) Decision {
	if msg == nil || msg.Chat == nil {
		return Decision{}
	}
	if msg.Chat.Type != "group" && msg.Chat.Type != "supergroup" {
		return Decision{}
	}

	if isMentioned(msg.Text, botUsername, botID) {
		// Mention on a reply: the quoted message is the question and the
		// mention-bearing text is discarded.
		if msg.ReplyTo != nil && msg.ReplyTo.Text != "" {
			return Decision{ShouldRespond: true, Question: msg.ReplyTo.Text}
		}
		return Decision{ShouldRespond: true, Question: extractQuestion(msg.Text, botUsername)}
	}

	// Reply-chain continuation: answering a reply to one of our own messages,
	// with the reply text taken verbatim.
	if msg.ReplyTo != nil && msg.ReplyTo.From != nil && botID != 0 && msg.ReplyTo.From.ID == botID {
		return Decision{ShouldRespond: true, Question: msg.Text}
	}

	return Decision{}
}

func isMentioned(text, username string, id int64) bool {
	if text == "" {
		return false
	}
	if username != "" && strings.Contains(text, "@"+username) {
		return true
	}
	if id != 0 && strings.Contains(text, "@"+strconv.FormatInt(id, 10)) {
		return true
	}
	return false
}

func extractQuestion(text, username string) string {
	if username == "" {
		return text
	}
	return strings.TrimSpace(strings.ReplaceAll(text, "@"+username, ""))
}
