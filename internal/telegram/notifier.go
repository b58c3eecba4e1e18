package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/store"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes failed and rolled-back store operations to a Telegram chat.
type Notifier struct {
	bot     sender
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Telegram.Enabled {
		return &Notifier{enabled: false, logger: log}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return &Notifier{enabled: false, logger: log}
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)

	return &Notifier{
		bot:     bot,
		chatID:  cfg.Telegram.ChatID,
		enabled: true,
		logger:  log,
	}
}

func (n *Notifier) OnEvent(e store.Event) {
	if !e.Failed() {
		return
	}
	n.send(FormatEvent(e))
}

func (n *Notifier) NotifyError(context string, err error) {
	n.send(fmt.Sprintf("⚠️ *Error* [%s]\n%v", context, err))
}

func (n *Notifier) NotifyStatus(message string) {
	n.send(message)
}

func FormatEvent(e store.Event) string {
	emoji := "⚠️"
	if e.Outcome == store.OutcomeRolledBack {
		emoji = "↩️"
	}
	msg := fmt.Sprintf("%s *%s %s*", emoji, e.Op, e.Outcome)
	if e.TradeID != 0 {
		msg += fmt.Sprintf("\nTrade: %d", e.TradeID)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (n *Notifier) send(text string) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("send telegram message", "error", err)
	}
}
