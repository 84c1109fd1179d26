package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/league"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/player"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/usecase"
)

type recordingThreader struct {
	threads [][]string
	err     error
}

func (r *recordingThreader) Thread(_ context.Context, texts []string) ([]string, error) {
	r.threads = append(r.threads, texts)
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = fmt.Sprint(i + 1)
	}
	return ids, r.err
}

func section(name string, duels int) usecase.Section {
	out := usecase.Section{Group: league.Group{Name: name}}
	for i := 0; i < duels; i++ {
		p1 := player.Player{ID: int64(100 + 2*i), Name: fmt.Sprintf("Player%02d", 2*i)}
		p2 := player.Player{ID: int64(101 + 2*i), Name: fmt.Sprintf("Player%02d", 2*i+1)}
		out.Duels = append(out.Duels, duel.Submitted(p1, p2, inMadrid(1, 20, 0), inMadrid(1, 9, 0), inMadrid(1, 21, 0), 2, 1, true))
	}
	return out
}

func TestBold(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"az":     "\U0001D5EE\U0001D607",
		"AZ":     "\U0001D5D4\U0001D5ED",
		"Ñu á":   "\U0001D5E1\u0303\U0001D602 \U0001D5EE\u0301",
		"Pingüe": "\U0001D5E3\U0001D5F6\U0001D5FB\U0001D5F4\U0001D602\u0308\U0001D5F2",
		"\n1:\n": "\n1:\n",
	}
	for in, want := range cases {
		if got := Bold(in); got != want {
			t.Fatalf("Bold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTwitterFormatter_Format(t *testing.T) {
	t.Parallel()

	formatter := TwitterFormatter{Headers: Headers{Schedule: "Hoy", Results: "Ayer"}, Logger: logging.NewNop()}

	cases := []struct {
		name     string
		sections []usecase.Section
		tweets   int
	}{
		{name: "all groups fit one tweet", sections: []usecase.Section{section("A", 3), section("B", 3), section("C", 3)}, tweets: 1},
		{name: "one tweet per group", sections: []usecase.Section{section("A", 6), section("B", 6), section("C", 6)}, tweets: 3},
		{name: "oversized group is skipped", sections: []usecase.Section{section("A", 2), section("B", 13)}, tweets: 1},
		{name: "empty", tweets: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tweets := formatter.Format(usecase.Digest{Kind: usecase.DigestResults, Sections: tc.sections})
			if len(tweets) != tc.tweets {
				t.Fatalf("expected %d tweets, got %d: %q", tc.tweets, len(tweets), tweets)
			}
			for i, tweet := range tweets {
				if len(tweet) >= tweetMaxSize {
					t.Fatalf("tweet %d is %d bytes", i, len(tweet))
				}
			}
			if len(tweets) > 0 && !strings.HasPrefix(tweets[0], "Ayer\n"+Bold("\nA:\n")+"Player00 2 - 1 Player01") {
				t.Fatalf("unexpected first tweet: %q", tweets[0])
			}
		})
	}
}

func TestTwitterPublisher_ThreadsTweets(t *testing.T) {
	t.Parallel()

	client := &recordingThreader{}
	publisher := NewTwitterPublisher(client, TwitterFormatter{Headers: Headers{Results: "Ayer"}}, logging.NewNop())

	digest := usecase.Digest{Kind: usecase.DigestResults, Sections: []usecase.Section{section("A", 6), section("B", 6)}}
	if err := publisher.Publish(context.Background(), digest); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(client.threads) != 1 || len(client.threads[0]) != 2 {
		t.Fatalf("expected one thread of two tweets, got %q", client.threads)
	}

	client.err = errors.New("rate limited")
	if err := publisher.Publish(context.Background(), digest); !errors.Is(err, client.err) {
		t.Fatalf("expected thread error, got %v", err)
	}

	if err := publisher.Publish(context.Background(), usecase.Digest{}); err != nil {
		t.Fatalf("empty digest: %v", err)
	}
	if len(client.threads) != 2 {
		t.Fatalf("empty digest should not tweet, got %d threads", len(client.threads))
	}
}
