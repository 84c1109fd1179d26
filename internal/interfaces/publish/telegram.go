package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/external/telegram"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

type MessageSender interface {
	SendMessage(ctx context.Context, msg telegram.Message) (int64, error)
}

// Chat is a Telegram destination, optionally a forum topic.
type Chat struct {
	ID       string
	ThreadID int64
}

// TelegramFormatter renders a digest as one HTML message.
type TelegramFormatter struct {
	Headers Headers
	Links   duel.Links
}

// Format returns "" for an empty digest.
func (f TelegramFormatter) Format(digest usecase.Digest) string {
	if digest.Empty() {
		return ""
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(f.Headers.For(digest.Kind))
	for _, section := range digest.Sections {
		_, _ = buf.WriteString("\n\n<b>")
		_, _ = buf.WriteString(section.Group.Name)
		_, _ = buf.WriteString("</b>:\n")
		for i, d := range section.Duels {
			if i > 0 {
				_ = buf.WriteByte('\n')
			}
			_, _ = buf.WriteString(f.Links.HTML(d))
		}
	}
	return buf.String()
}

type TelegramPublisher struct {
	formatter TelegramFormatter
	sender    MessageSender
	chats     []Chat
	workers   int
	logger    *logging.Logger
}

func NewTelegramPublisher(sender MessageSender, formatter TelegramFormatter, chats []Chat, workers int, logger *logging.Logger) *TelegramPublisher {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TelegramPublisher{
		formatter: formatter,
		sender:    sender,
		chats:     append([]Chat(nil), chats...),
		workers:   workers,
		logger:    logger.Named("telegram"),
	}
}

func (p *TelegramPublisher) Name() string { return "telegram" }

func (p *TelegramPublisher) Render(digest usecase.Digest) []string {
	if msg := p.formatter.Format(digest); msg != "" {
		return []string{msg}
	}
	return nil
}

// Publish sends the same message to every chat.
func (p *TelegramPublisher) Publish(ctx context.Context, digest usecase.Digest) error {
	text := p.formatter.Format(digest)
	if text == "" {
		return nil
	}
	if len(p.chats) == 0 {
		return errNoRecipients
	}

	workerPool, err := ants.NewPool(min(p.workers, len(p.chats)))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, chat := range p.chats {
		chat := chat
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()

			p.logger.InfoContext(ctx, "sending message", "chat_id", chat.ID)
			_, err := p.sender.SendMessage(ctx, telegram.Message{
				ChatID:         chat.ID,
				ThreadID:       chat.ThreadID,
				Text:           text,
				HTML:           true,
				DisablePreview: true,
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("chat %s: %w", chat.ID, err))
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit message to worker pool: %w", err)
		}
	}
	wg.Wait()
	return errors.Join(errs...)
}
