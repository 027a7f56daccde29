package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ethan33456/price-bot/internal/models"
)

// Telegram pushes deal alerts to a chat, one message per deal.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authorizes the bot with the given token.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = false
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Notify sends one message per deal; the first failure aborts the batch.
func (t *Telegram) Notify(_ context.Context, deals []models.Product) error {
	for _, d := range deals {
		text := fmt.Sprintf(
			"🎉 DEAL FOUND!\n\n"+
				"Product: %s\n"+
				"Current price: $%.2f\n"+
				"Retail price: $%.2f\n"+
				"Discount: %.1f%%\n"+
				"\nLink: %s",
			d.Name, d.CurrentPrice, d.RetailPrice, d.DiscountPercent, d.URL,
		)
		msg := tgbotapi.NewMessage(t.chatID, text)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
	}
	return nil
}
