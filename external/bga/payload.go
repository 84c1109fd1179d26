package bga

import (
	"strconv"
	"strings"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
)

type tablesEnvelope struct {
	Data *struct {
		Tables []tableItem `json:"tables"`
	} `json:"data"`
}

// tableItem mirrors one row of the game history endpoint. Several fields
// come back as strings or numbers depending on the game.
type tableItem struct {
	TableID     any    `json:"table_id"`
	PlayerNames string `json:"player_names"`
	Scores      string `json:"scores"`
	ArenaWin    any    `json:"arena_win"`
	Unranked    any    `json:"unranked"`
	EloWin      any    `json:"elo_win"`
}

func (t tableItem) toTable() outcome.Table {
	return outcome.Table{
		ID:          scalarString(t.TableID),
		PlayerNames: t.PlayerNames,
		Scores:      t.Scores,
		EloWin:      scalarString(t.EloWin),
		Adjudicated: t.ArenaWin != nil,
		Unranked:    isUnranked(t.Unranked),
	}
}

type statsEnvelope struct {
	Data *struct {
		Result *struct {
			Stats *struct {
				Player playerStats `json:"player"`
			} `json:"stats"`
		} `json:"result"`
	} `json:"data"`
}

type playerStats map[string]struct {
	Values map[string]any `json:"values"`
}

func (p playerStats) toStats() duel.Stats {
	out := make(duel.Stats, len(p))
	for name, stat := range p {
		values := make(map[int64]float64, len(stat.Values))
		for rawID, rawValue := range stat.Values {
			id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
			if err != nil {
				continue
			}
			value, ok := scalarFloat(rawValue)
			if !ok {
				continue
			}
			values[id] = value
		}
		if len(values) > 0 {
			out[name] = values
		}
	}
	return out
}

func isUnranked(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		v = strings.TrimSpace(v)
		return v != "" && v != "0"
	default:
		return true
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func scalarFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
