package telegram

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/store"
)

type recordingSender struct {
	sent []tgbotapi.MessageConfig
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestNotifier_OnlyFailuresAreSent(t *testing.T) {
	rec := &recordingSender{}
	n := &Notifier{bot: rec, chatID: 77, enabled: true, logger: logger.Nop()}

	n.OnEvent(store.Event{Op: store.OpCreate, TradeID: 5, Outcome: store.OutcomeSuccess})
	n.OnEvent(store.Event{Op: store.OpRefresh, Outcome: store.OutcomeCancelled})
	n.OnEvent(store.Event{Op: store.OpDelete, TradeID: 5, Outcome: store.OutcomeRolledBack, Err: errors.New("Failed to delete trade")})

	require.Len(t, rec.sent, 1)
	assert.Equal(t, int64(77), rec.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, rec.sent[0].ParseMode)
	assert.Equal(t, "↩️ *delete rolled_back*\nTrade: 5\nFailed to delete trade", rec.sent[0].Text)
}

func TestNotifier_Disabled(t *testing.T) {
	n := NewNotifier(&config.Config{}, logger.Nop())

	assert.NotPanics(t, func() {
		n.OnEvent(store.Event{Op: store.OpSync, Outcome: store.OutcomeFailed, Err: errors.New("boom")})
		n.NotifyStatus("started")
	})
}

func TestFormatEvent_WithoutTrade(t *testing.T) {
	msg := FormatEvent(store.Event{Op: store.OpRefresh, Outcome: store.OutcomeFailed, Err: errors.New("HTTP 502: Bad Gateway")})
	assert.Equal(t, "⚠️ *refresh failed*\nHTTP 502: Bad Gateway", msg)
}
