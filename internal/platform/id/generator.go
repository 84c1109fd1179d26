package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Generator creates opaque identifiers, used to tag sweep runs.
type Generator interface {
	NewID() (string, error)
}

const stampLayout = "20060102T150405Z"

// RunGenerator builds ids of the form prefix_stamp_random. The UTC stamp
// keeps ids of successive runs in lexical order.
type RunGenerator struct {
	prefix string
	now    func() time.Time
}

func NewRunGenerator(prefix string, now func() time.Time) *RunGenerator {
	if now == nil {
		now = time.Now
	}
	return &RunGenerator{prefix: strings.TrimSpace(prefix), now: now}
}

func (g *RunGenerator) NewID() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	var b strings.Builder
	if g.prefix != "" {
		b.WriteString(g.prefix)
		b.WriteByte('_')
	}
	b.WriteString(g.now().UTC().Format(stampLayout))
	b.WriteByte('_')
	b.WriteString(hex.EncodeToString(buf))
	return b.String(), nil
}
