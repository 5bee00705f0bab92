package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/domain/repository"
	"SolPulse/pkg/logger"
)

// TelegramNotifier delivers prediction summaries to configured chats.
// In dry-run mode messages are logged instead of sent.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	dryRun  bool
	log     *logger.Logger
}

func NewTelegramNotifier(token string, chatIDs []string, dryRun bool, log *logger.Logger) (repository.Notifier, error) {
	n := &TelegramNotifier{dryRun: dryRun, log: log}

	for _, raw := range chatIDs {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram chat id %q: %w", raw, err)
		}
		n.chatIDs = append(n.chatIDs, id)
	}

	if dryRun {
		return n, nil
	}
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	n.bot = bot
	return n, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, p *models.Prediction) error {
	text := formatPrediction(p)

	if n.dryRun {
		n.log.Info("telegram dry-run", logger.String("text", text))
		return nil
	}

	var firstErr error
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := n.bot.Send(msg); err != nil {
			n.log.Error("telegram send failed",
				logger.Int64("chat_id", chatID), logger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func formatPrediction(p *models.Prediction) string {
	var b strings.Builder

	emoji := "➡️"
	switch p.Direction {
	case models.DirectionLong:
		emoji = "📈"
	case models.DirectionShort:
		emoji = "📉"
	}

	fmt.Fprintf(&b, "%s <b>%s</b> (%s)\n", emoji, p.Direction, p.Timeframe)
	fmt.Fprintf(&b, "Confidence: %.0f%% (%s)\n", p.Confidence, p.Strength)
	if p.CurrentPriceUSD != nil {
		fmt.Fprintf(&b, "Price: $%.2f", *p.CurrentPriceUSD)
		if p.PriceChange24hPct != nil {
			fmt.Fprintf(&b, " (%+.2f%% 24h)", *p.PriceChange24hPct)
		}
		b.WriteString("\n")
	}

	if len(p.TopFactors) > 0 {
		b.WriteString("\nTop factors:\n")
		for _, f := range p.TopFactors {
			fmt.Fprintf(&b, "• %s: %+.2f (%s)\n", f.Source, f.Score, f.Direction)
		}
	}

	return b.String()
}
