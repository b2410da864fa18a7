package publish

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/types"
)

// Telegram posts cards to a channel or chat, attaching the artifact as
// a document with the status text as caption.
type Telegram struct {
	cfg    *store.Config
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(cfg *store.Config) (*Telegram, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("missing environment variable: TELEGRAM_BOT_TOKEN")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{cfg: cfg, bot: bot, chatID: cfg.Publisher.TelegramChatID}, nil
}

func (t *Telegram) Publish(ctx context.Context, card *types.GameCard, artifactPath string) error {
	text := StatusText(t.cfg, card)

	if artifactPath != "" {
		doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FilePath(artifactPath))
		doc.Caption = text
		if _, err := t.bot.Send(doc); err != nil {
			return fmt.Errorf("telegram send document: %w", err)
		}
	} else {
		msg := tgbotapi.NewMessage(t.chatID, text)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("telegram send message: %w", err)
		}
	}

	logger.Published(ctx, card.GameID, card.AwayTeam, card.HomeTeam, artifactPath, "provider", "telegram")
	return nil
}
