package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	tb "gopkg.in/telebot.v3"
)

// ErrBlockedByUser is returned instead of the bot framework error so callers
// don't have to depend on telebot.
var ErrBlockedByUser = errors.New("bot is blocked by user")

// Sender delivers messages via the Telegram Bot API with MarkdownV2 rendering
// and link previews disabled.
type Sender struct {
	bot *tb.Bot
}

func NewSender(token string, timeout time.Duration) (*Sender, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Sender{bot: bot}, nil
}

func (s *Sender) Send(chatID int64, msg string) error {
	_, err := s.bot.Send(tb.ChatID(chatID), msg, &tb.SendOptions{
		ParseMode:             tb.ModeMarkdownV2,
		DisableWebPagePreview: true,
	})
	if errors.Is(err, tb.ErrBlockedByUser) {
		return ErrBlockedByUser
	}
	return err
}
