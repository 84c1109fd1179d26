package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

// Publisher posts a digest to one outlet.
type Publisher interface {
	Name() string
	// Render returns the messages Publish would send, for dry runs.
	Render(digest usecase.Digest) []string
	Publish(ctx context.Context, digest usecase.Digest) error
}

// Headers are the opening lines of a digest, per kind.
type Headers struct {
	Schedule string
	Results  string
}

func (h Headers) For(kind usecase.DigestKind) string {
	if kind == usecase.DigestSchedule {
		return h.Schedule
	}
	return h.Results
}

// Dispatcher fans a digest out to every configured publisher at once.
type Dispatcher struct {
	publishers []Publisher
	logger     *logging.Logger
}

func NewDispatcher(logger *logging.Logger, publishers ...Publisher) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{publishers: publishers, logger: logger}
}

func (d *Dispatcher) Publishers() []Publisher {
	return append([]Publisher(nil), d.publishers...)
}

// Publish sends the digest everywhere. A failing publisher does not stop the
// others; all failures are returned joined.
func (d *Dispatcher) Publish(ctx context.Context, digest usecase.Digest) error {
	if digest.Empty() {
		d.logger.InfoContext(ctx, "nothing to publish", "day", digest.Day.Format("2006-01-02"), "kind", string(digest.Kind))
		return nil
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for _, publisher := range d.publishers {
		publisher := publisher
		p.Go(func(ctx context.Context) error {
			if err := publisher.Publish(ctx, digest); err != nil {
				d.logger.ErrorContext(ctx, "publish digest failed", "publisher", publisher.Name(), "error", err)
				return fmt.Errorf("%s: %w", publisher.Name(), err)
			}
			d.logger.InfoContext(ctx, "digest published",
				"publisher", publisher.Name(),
				"day", digest.Day.Format("2006-01-02"),
				"kind", string(digest.Kind),
				"groups", len(digest.Sections),
			)
			return nil
		})
	}
	return p.Wait()
}

// Render collects the dry-run output of every publisher by name.
func (d *Dispatcher) Render(digest usecase.Digest) map[string][]string {
	out := make(map[string][]string, len(d.publishers))
	for _, publisher := range d.publishers {
		out[publisher.Name()] = publisher.Render(digest)
	}
	return out
}

var errNoRecipients = errors.New("no recipients configured")
