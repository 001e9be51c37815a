package notify

import (
	"context"
	"fmt"
	"strings"

	"robux-monitor/internal/types"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers the alert as an HTML-formatted Telegram
// message. Telegram has no @everyone, so Mention is ignored.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger types.Logger
}

// NewTelegramNotifier connects the bot and validates the token.
func NewTelegramNotifier(token string, chatID int64, logger types.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	bot.Debug = false
	logger.Infof("telegram bot authorized as %s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// Send renders and delivers the message.
func (t *TelegramNotifier) Send(ctx context.Context, alert Alert) error {
	msg := tgbotapi.NewMessage(t.chatID, renderAlertText(alert))
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	t.logger.Debugf("telegram alert sent: %s", alert.Title)
	return nil
}

// renderAlertText lays the alert out as a compact HTML message.
func renderAlertText(a Alert) string {
	var b strings.Builder
	b.WriteString("<b>" + escapeHTML(a.Title) + "</b>\n")
	b.WriteString(escapeHTML(a.Description) + "\n\n")
	for _, f := range a.Fields {
		if f.Name == "Shop Link" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s: <b>%s</b>\n", escapeHTML(f.Name), escapeHTML(f.Value)))
	}
	b.WriteString(fmt.Sprintf("\n<a href=%q>Open the shop</a>", a.URL))
	return b.String()
}

// escapeHTML escapes the characters Telegram's HTML parse mode cares
// about.
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}
