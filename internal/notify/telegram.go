package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/project-tktt/gradconnection-crawler/internal/module"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts run summaries to a chat
type TelegramNotifier struct {
	bot    sender
	chatID int64
}

// NewTelegramNotifier logs in with the bot token
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// SendMessage sends HTML formatted text
func (t *TelegramNotifier) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// SendSummary reports the outcome of a crawl. runErr may be nil.
func (t *TelegramNotifier) SendSummary(s *module.RunSummary, runErr error) error {
	return t.SendMessage(FormatSummary(s, runErr))
}

// FormatSummary renders a run summary as Telegram HTML
func FormatSummary(s *module.RunSummary, runErr error) string {
	var b strings.Builder

	status := "✅ <b>Crawl finished</b>"
	switch {
	case s.Interrupted:
		status = "⏹ <b>Crawl cancelled</b>"
	case runErr != nil:
		status = "⚠️ <b>Crawl failed</b>"
	}
	fmt.Fprintf(&b, "%s: %s\n", status, html.EscapeString(string(s.Source)))
	fmt.Fprintf(&b, "🆔 <code>%s</code>\n", html.EscapeString(s.RunID))
	fmt.Fprintf(&b, "📄 Pages: %s (%s failed)\n", humanize.Comma(int64(s.Pages)), humanize.Comma(int64(s.PageFailures)))
	fmt.Fprintf(&b, "🔗 URLs: %s unique of %s rows\n", humanize.Comma(int64(s.UniqueURLs)), humanize.Comma(int64(s.URLRows)))
	fmt.Fprintf(&b, "📝 Details: %s saved, %s failed", humanize.Comma(int64(s.Details)), humanize.Comma(int64(s.DetailFailures)))
	if s.Skipped > 0 {
		fmt.Fprintf(&b, ", %s skipped", humanize.Comma(int64(s.Skipped)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "⏱ %s", s.Duration.Round(time.Second))
	if runErr != nil && !s.Interrupted {
		fmt.Fprintf(&b, "\n<i>%s</i>", html.EscapeString(runErr.Error()))
	}

	return b.String()
}
