// Package card defines the canonical card record consumed by the label engine.
//
// Search results, CSV imports and stored collections all adapt to [Card] at
// their boundaries; the renderer never sees any other shape.
package card

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Card is an immutable value describing one collectible card.
type Card struct {
	Number   string `json:"number" toml:"number"`     // catalog id, e.g. "58" or "base1-4"
	Name     string `json:"name" toml:"name"`         // display name
	SetName  string `json:"set_name" toml:"set_name"` // expansion name
	Rarity   string `json:"rarity" toml:"rarity"`
	Finish   string `json:"finish,omitempty" toml:"finish"` // variant tag, may be empty
	UniqueID string `json:"unique_id,omitempty" toml:"unique_id"`
}

// New returns a card with a freshly generated UniqueID.
func New(number, name, setName, rarity, finish string) Card {
	return Card{
		Number:   number,
		Name:     name,
		SetName:  setName,
		Rarity:   rarity,
		Finish:   finish,
		UniqueID: NewID(),
	}
}

// NewID returns a random opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// WithID returns c with a UniqueID, generating one only when it is empty.
func (c Card) WithID() Card {
	if c.UniqueID == "" {
		c.UniqueID = NewID()
	}
	return c
}

// Key returns the identifier used to name per-card output files: the catalog
// number when present, then the unique id, then the card's position.
// Path separators are replaced with '-' so "58/102" stays a single file name.
func (c Card) Key(index int) string {
	key := strings.TrimSpace(c.Number)
	if key == "" {
		key = strings.TrimSpace(c.UniqueID)
	}
	if key == "" {
		return strconv.Itoa(index + 1)
	}
	return keyReplacer.Replace(key)
}

var keyReplacer = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// String renders the card the way the original collection listing did.
func (c Card) String() string {
	parts := []string{c.Number, c.Name, c.SetName}
	if c.Finish != "" {
		parts = append(parts, c.Finish)
	}
	parts = append(parts, c.Rarity)
	return strings.Join(parts, " - ")
}
