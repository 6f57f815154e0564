package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// TelebotNotifier implements the notify.Notifier interface using the
// gopkg.in/telebot.v3 library, delivering findings summaries to the admin chat.
type TelebotNotifier struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelebotNotifier(bot *telebot.Bot, chatID int64) *TelebotNotifier {
	return &TelebotNotifier{bot: bot, chatID: chatID}
}

// Send delivers a plain-text message to the configured chat.
func (n *TelebotNotifier) Send(_ context.Context, text string) error {
	recipient := &telebot.User{ID: n.chatID}
	_, err := n.bot.Send(recipient, text, &telebot.SendOptions{})
	return err
}
