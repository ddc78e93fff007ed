package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/matzehuels/tcglabels/pkg/card"
	"github.com/matzehuels/tcglabels/pkg/errors"
)

// File formats recognized by extension.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Dex CSV column headers.
const (
	colNumber  = "Id"
	colName    = "Name"
	colSet     = "Set"
	colRarity  = "Rarity"
	colVariant = "Variant"
)

// FormatOf returns the card-list format implied by path's extension.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatCSV, FormatJSON, FormatTOML:
		return ext, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported card file %q (must end in .csv, .json or .toml)", filepath.Base(path))
}

// ReadCSV decodes a Dex CSV export from r.
//
// A file with only a header, or no content at all, yields no cards.
// ReadCSV does not close r.
func ReadCSV(r io.Reader) ([]card.Card, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFailure, err, "read csv")
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode csv")
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "csv header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var cards []card.Card
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "csv line %d", line)
		}
		cards = append(cards, card.New(
			field(rec, colNumber),
			field(rec, colName),
			field(rec, colSet),
			field(rec, colRarity),
			field(rec, colVariant),
		))
	}
	return cards, nil
}

// decodeText returns raw as a string, trying UTF-8, then UTF-16 with a byte
// order mark, then Latin-1.
func decodeText(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}), bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case utf8.Valid(raw):
		return strings.TrimPrefix(string(raw), "\ufeff"), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ReadJSON decodes a JSON array of cards from r.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]card.Card, error) {
	var cards []card.Card
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	return withIDs(cards), nil
}

// tomlCards is the TOML document shape: one [[card]] table per card.
type tomlCards struct {
	Cards []card.Card `toml:"card"`
}

// ReadTOML decodes [[card]] tables from r.
// ReadTOML does not close r.
func ReadTOML(r io.Reader) ([]card.Card, error) {
	var doc tomlCards
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown toml key %q", undecoded[0].String())
	}
	return withIDs(doc.Cards), nil
}

// Read decodes cards in the given format from r.
func Read(r io.Reader, format string) ([]card.Card, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown card format %q", format)
}

// ImportFile reads the card file at path, choosing the decoder from its
// extension.
//
// A missing file is reported as FILE_NOT_FOUND; decode failures carry the
// path for context.
func ImportFile(path string) ([]card.Card, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "card file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIOFailure, err, "open %s", path)
	}
	defer f.Close()

	cards, err := Read(f, format)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return cards, nil
}

func withIDs(cards []card.Card) []card.Card {
	for i := range cards {
		cards[i] = cards[i].WithID()
	}
	return cards
}
