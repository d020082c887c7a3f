package telegram

import "gopkg.in/telebot.v3"

// Client delivers text messages to a Telegram chat.
// Keeping it behind an interface lets the services run without a live bot.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
