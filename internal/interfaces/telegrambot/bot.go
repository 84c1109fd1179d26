package telegrambot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/telegram"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/interfaces/publish"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/clock"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const (
	helpText = `Available Commands :-
    /schedule [dd/mm/yy] - Get duels for a given date (today by default)
    /results [dd/mm/yy] - Get duels outcome for a given date (yesterday by default)`
	nothingFound = "Nothing found"
)

type API interface {
	SendMessage(ctx context.Context, msg telegram.Message) (int64, error)
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

type DigestBuilder interface {
	Build(ctx context.Context, season int, day time.Time, force bool) (usecase.Digest, error)
}

type Config struct {
	Season       int
	Location     *time.Location
	PollTimeout  time.Duration
	ErrorBackoff time.Duration
}

// Bot answers league commands sent to the Telegram bot.
type Bot struct {
	api       API
	digests   DigestBuilder
	formatter publish.TelegramFormatter
	clock     clock.Clock
	cfg       Config
	logger    *logging.Logger
}

func New(api API, digests DigestBuilder, formatter publish.TelegramFormatter, clk clock.Clock, cfg Config, logger *logging.Logger) *Bot {
	if clk == nil {
		clk = clock.System()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Bot{api: api, digests: digests, formatter: formatter, clock: clk, cfg: cfg, logger: logger.Named("telegrambot")}
}

// Reply is the answer to one command.
type Reply struct {
	Text string
	HTML bool
}

// Answer handles a command line such as "/results 01/11/22". Unknown
// commands get no reply.
func (b *Bot) Answer(ctx context.Context, text string) (Reply, bool, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Reply{}, false, nil
	}
	command := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	arg := strings.Join(fields[1:], " ")

	switch strings.ToLower(command) {
	case "help", "start":
		return Reply{Text: helpText}, true, nil
	case "schedule":
		return b.digest(ctx, arg, 0, true)
	case "results":
		return b.digest(ctx, arg, -1, false)
	default:
		return Reply{}, false, nil
	}
}

func (b *Bot) digest(ctx context.Context, arg string, offsetDays int, force bool) (Reply, bool, error) {
	now := b.clock.Now().In(b.cfg.Location)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.cfg.Location).AddDate(0, 0, offsetDays)
	if arg != "" {
		parsed, err := parseDate(arg, now, b.cfg.Location)
		if err != nil {
			return Reply{Text: "Wrong date format " + arg}, true, nil
		}
		day = parsed
	}

	digest, err := b.digests.Build(ctx, b.cfg.Season, day, force)
	if err != nil {
		return Reply{}, false, err
	}
	msg := b.formatter.Format(digest)
	if msg == "" {
		return Reply{Text: nothingFound}, true, nil
	}
	return Reply{Text: msg, HTML: true}, true, nil
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.InfoContext(ctx, "telegram bot polling started")
	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		updates, err := b.api.GetUpdates(ctx, offset, b.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.WarnContext(ctx, "get updates failed", "error", err)
			if err := b.clock.Sleep(ctx, b.cfg.ErrorBackoff); err != nil {
				return nil
			}
			continue
		}

		for _, update := range updates {
			offset = max(offset, update.UpdateID+1)
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update telegram.Update) {
	if update.Message == nil {
		return
	}
	chatID := strconv.FormatInt(update.Message.Chat.ID, 10)

	reply, ok, err := b.Answer(ctx, update.Message.Text)
	if err != nil {
		b.logger.ErrorContext(ctx, "answer command failed", "chat_id", chatID, "command", update.Message.Text, "error", err)
		reply, ok = Reply{Text: "Something went wrong, try again later"}, true
	}
	if !ok {
		return
	}

	if _, err := b.api.SendMessage(ctx, telegram.Message{
		ChatID:         chatID,
		ThreadID:       update.Message.ThreadID,
		Text:           reply.Text,
		HTML:           reply.HTML,
		DisablePreview: true,
	}); err != nil {
		b.logger.WarnContext(ctx, "reply failed", "chat_id", chatID, "error", err)
	}
}
