package bot

import (
	"testing"

	"github.com/aliqajarian/tg-chatbot/telegram"
)

func groupMsg(text string) *telegram.Message {
	return &telegram.Message{
		MessageID: 10,
		Chat:      &telegram.Chat{ID: -100, Type: "supergroup"},
		From:      &telegram.User{ID: 7, Username: "alice"},
		Text:      text,
	}
}

func TestDecideMention(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		respond  bool
		question string
	}{
		{"mention with question", "@mybot what is 2+2?", true, "what is 2+2?"},
		{"mention mid-text", "hey @mybot what is 2+2?", true, "hey  what is 2+2?"},
		{"bare mention", "@mybot", true, ""},
		{"mention by id", "@42 what now", true, "@42 what now"},
		{"case sensitive", "@MyBot hello", false, ""},
		{"no mention", "just chatting", false, ""},
		{"substring of longer handle", "@mybotfan hi", true, "fan hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec := Decide(groupMsg(tc.text), "mybot", 42)
			if dec.ShouldRespond != tc.respond {
				t.Fatalf("ShouldRespond = %v, want %v", dec.ShouldRespond, tc.respond)
			}
			if dec.Question != tc.question {
				t.Fatalf("Question = %q, want %q", dec.Question, tc.question)
			}
		})
	}
}

func TestDecideMentionOnReplyUsesQuotedText(t *testing.T) {
	msg := groupMsg("@mybot please answer this")
	msg.ReplyTo = &telegram.Message{
		MessageID: 5,
		From:      &telegram.User{ID: 7, Username: "alice"},
		Text:      "  why is the sky blue?  ",
	}

	dec := Decide(msg, "mybot", 42)
	if !dec.ShouldRespond {
		t.Fatal("expected response")
	}
	// Quoted text is taken verbatim, whitespace included.
	if dec.Question != "  why is the sky blue?  " {
		t.Fatalf("Question = %q", dec.Question)
	}
}

func TestDecideMentionOnEmptyReplyFallsBackToOwnText(t *testing.T) {
	msg := groupMsg("@mybot so?")
	msg.ReplyTo = &telegram.Message{MessageID: 5, Text: ""}

	dec := Decide(msg, "mybot", 42)
	if !dec.ShouldRespond {
		t.Fatal("expected response")
	}
	if dec.Question != "so?" {
		t.Fatalf("Question = %q", dec.Question)
	}
}

func TestDecideReplyToBot(t *testing.T) {
	msg := groupMsg("and what about mars?")
	msg.ReplyTo = &telegram.Message{
		MessageID: 5,
		From:      &telegram.User{ID: 42, IsBot: true, Username: "mybot"},
		Text:      "the sky is blue because...",
	}

	dec := Decide(msg, "mybot", 42)
	if !dec.ShouldRespond {
		t.Fatal("expected response")
	}
	if dec.Question != "and what about mars?" {
		t.Fatalf("Question = %q", dec.Question)
	}
}

func TestDecideReplyToSomeoneElse(t *testing.T) {
	msg := groupMsg("interesting")
	msg.ReplyTo = &telegram.Message{
		MessageID: 5,
		From:      &telegram.User{ID: 9, Username: "carol"},
		Text:      "some opinion",
	}

	if dec := Decide(msg, "mybot", 42); dec.ShouldRespond {
		t.Fatal("must not respond to replies between other users")
	}
}

func TestDecideMentionWinsOverReplyToBot(t *testing.T) {
	msg := groupMsg("@mybot explain")
	msg.ReplyTo = &telegram.Message{
		MessageID: 5,
		From:      &telegram.User{ID: 42, IsBot: true},
		Text:      "previous bot answer",
	}

	dec := Decide(msg, "mybot", 42)
	if !dec.ShouldRespond {
		t.Fatal("expected response")
	}
	if dec.Question != "previous bot answer" {
		t.Fatalf("Question = %q, want the quoted text", dec.Question)
	}
}

func TestDecideIgnoresNonGroupChats(t *testing.T) {
	for _, chatType := range []string{"private", "channel", ""} {
		msg := groupMsg("@mybot hello")
		msg.Chat.Type = chatType
		if dec := Decide(msg, "mybot", 42); dec.ShouldRespond {
			t.Fatalf("chat type %q must be ignored", chatType)
		}
	}
}

func TestDecideZeroIdentityIsSilent(t *testing.T) {
	msg := groupMsg("@mybot hello")
	msg.ReplyTo = &telegram.Message{
		MessageID: 5,
		From:      &telegram.User{ID: 0},
		Text:      "x",
	}

	// A failed getMe yields the zero Identity; it must never match anything,
	// including reply authors with id 0.
	if dec := Decide(msg, "", 0); dec.ShouldRespond {
		t.Fatal("zero identity must not trigger a response")
	}
}

func TestDecideNilMessage(t *testing.T) {
	if dec := Decide(nil, "mybot", 42); dec.ShouldRespond {
		t.Fatal("nil message must not respond")
	}
	if dec := Decide(&telegram.Message{}, "mybot", 42); dec.ShouldRespond {
		t.Fatal("message without chat must not respond")
	}
}
