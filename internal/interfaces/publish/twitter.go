package publish

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

const tweetMaxSize = 280

type Threader interface {
	Thread(ctx context.Context, texts []string) ([]string, error)
}

// TwitterFormatter splits a digest into tweets. Group names are bolded with
// Mathematical Sans-Serif Bold letters since tweets carry no markup.
type TwitterFormatter struct {
	Headers Headers
	Logger  *logging.Logger
}

func (f TwitterFormatter) Format(digest usecase.Digest) []string {
	groupTexts := make([]string, 0, len(digest.Sections))
	for _, section := range digest.Sections {
		buf := bytebufferpool.Get()
		_, _ = buf.WriteString(Bold("\n" + section.Group.Name + ":\n"))
		for i, d := range section.Duels {
			if i > 0 {
				_ = buf.WriteByte('\n')
			}
			_, _ = buf.WriteString(d.String())
		}
		groupTexts = append(groupTexts, buf.String())
		bytebufferpool.Put(buf)
	}
	if len(groupTexts) == 0 {
		return nil
	}
	groupTexts[0] = f.Headers.For(digest.Kind) + "\n" + groupTexts[0]

	var messages []string
	current := ""
	for _, txt := range groupTexts {
		if utf8.RuneCountInString(txt) >= tweetMaxSize {
			f.logger().Warn("group does not fit in a tweet", "size", utf8.RuneCountInString(txt), "text", txt)
			continue
		}
		if current == "" {
			current = txt
			continue
		}
		if candidate := current + "\n" + txt; len(candidate) < tweetMaxSize {
			current = candidate
			continue
		}
		messages = append(messages, current)
		current = txt
	}
	if current != "" {
		messages = append(messages, current)
	}
	return messages
}

func (f TwitterFormatter) logger() *logging.Logger {
	if f.Logger == nil {
		return logging.Default()
	}
	return f.Logger
}

type TwitterPublisher struct {
	formatter TwitterFormatter
	client    Threader
	logger    *logging.Logger
}

func NewTwitterPublisher(client Threader, formatter TwitterFormatter, logger *logging.Logger) *TwitterPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	if formatter.Logger == nil {
		formatter.Logger = logger
	}
	return &TwitterPublisher{formatter: formatter, client: client, logger: logger.Named("twitter")}
}

func (p *TwitterPublisher) Name() string { return "twitter" }

func (p *TwitterPublisher) Render(digest usecase.Digest) []string {
	return p.formatter.Format(digest)
}

// Publish posts the tweets as a thread, each replying to the previous one.
func (p *TwitterPublisher) Publish(ctx context.Context, digest usecase.Digest) error {
	texts := p.formatter.Format(digest)
	if len(texts) == 0 {
		return nil
	}
	ids, err := p.client.Thread(ctx, texts)
	for _, id := range ids {
		p.logger.InfoContext(ctx, "created tweet", "tweet_id", id)
	}
	return err
}

const (
	combiningAcute = '\u0301'
	combiningTilde = '\u0303'
	combiningDiaer = '\u0308'
)

// Bold rewrites latin letters, including Spanish accented ones, as
// Mathematical Sans-Serif Bold characters. Other runes are kept.
func Bold(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 4)
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(0x1D5EE + (r - 'a'))
		case r >= 'A' && r <= 'Z':
			b.WriteRune(0x1D5D4 + (r - 'A'))
		default:
			base, mark, ok := decompose(r)
			if !ok {
				b.WriteRune(r)
				continue
			}
			b.WriteString(Bold(string(base)))
			b.WriteRune(mark)
		}
	}
	return b.String()
}

func decompose(r rune) (rune, rune, bool) {
	switch r {
	case 'á':
		return 'a', combiningAcute, true
	case 'é':
		return 'e', combiningAcute, true
	case 'í':
		return 'i', combiningAcute, true
	case 'ó':
		return 'o', combiningAcute, true
	case 'ú':
		return 'u', combiningAcute, true
	case 'Á':
		return 'A', combiningAcute, true
	case 'É':
		return 'E', combiningAcute, true
	case 'Í':
		return 'I', combiningAcute, true
	case 'Ó':
		return 'O', combiningAcute, true
	case 'Ú':
		return 'U', combiningAcute, true
	case 'ñ':
		return 'n', combiningTilde, true
	case 'Ñ':
		return 'N', combiningTilde, true
	case 'ü':
		return 'u', combiningDiaer, true
	case 'Ü':
		return 'U', combiningDiaer, true
	}
	return 0, 0, false
}
