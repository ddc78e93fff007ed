package io

import (
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tcglabels/pkg/card"
	"github.com/matzehuels/tcglabels/pkg/errors"
)

// WriteJSON encodes cards as an indented JSON array and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(cards []card.Card, w io.Writer) error {
	if cards == nil {
		cards = []card.Card{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cards); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "encode json")
	}
	return nil
}

// WriteTOML encodes cards as [[card]] tables and writes them to w.
// The output can be re-imported with [ReadTOML].
func WriteTOML(cards []card.Card, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(tomlCards{Cards: cards}); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "encode toml")
	}
	return nil
}

// ExportFile writes cards to path as JSON or TOML, chosen by extension.
// CSV export is not supported.
func ExportFile(cards []card.Card, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	write := WriteJSON
	switch format {
	case FormatTOML:
		write = WriteTOML
	case FormatCSV:
		return errors.New(errors.ErrCodeInvalidFormat, "cannot export cards as csv")
	}

	return WriteFileAtomic(path, func(w io.Writer) error {
		return write(cards, w)
	})
}
