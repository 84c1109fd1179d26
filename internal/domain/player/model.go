package player

import (
	"fmt"
	"html"
	"strings"
)

// Player is a league participant identified by their Board Game Arena id.
type Player struct {
	ID   int64
	Name string
}

func New(id int64, name string) (Player, error) {
	p := Player{ID: id, Name: strings.TrimSpace(name)}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// Equal compares players by id and name.
func (p Player) Equal(other Player) bool {
	return p.ID == other.ID && p.Name == other.Name
}

// Matches reports whether name refers to this player, ignoring case and
// surrounding spaces.
func (p Player) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), p.Name)
}

// ProfileURL renders the profile link template, which takes the id as its
// only %d verb.
func (p Player) ProfileURL(template string) string {
	return fmt.Sprintf(template, p.ID)
}

// HTML links the player's name to their profile.
func (p Player) HTML(template string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, p.ProfileURL(template), html.EscapeString(p.Name))
}

func (p Player) String() string {
	return fmt.Sprintf("%s (%d)", p.Name, p.ID)
}
