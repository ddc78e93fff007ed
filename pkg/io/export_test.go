package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/tcglabels/pkg/card"
	"github.com/matzehuels/tcglabels/pkg/errors"
)

var exportCards = []card.Card{
	{Number: "58/102", Name: "Pikachu", SetName: "Base Set", Rarity: "Common", UniqueID: "a"},
	{Number: "4/102", Name: "Charizard", SetName: "Base Set", Rarity: "Rare Holo", Finish: "Holo", UniqueID: "b"},
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, ext := range []string{"json", "toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cards."+ext)
			if err := ExportFile(exportCards, path); err != nil {
				t.Fatalf("ExportFile() error: %v", err)
			}
			got, err := ImportFile(path)
			if err != nil {
				t.Fatalf("ImportFile() error: %v", err)
			}
			if !reflect.DeepEqual(got, exportCards) {
				t.Errorf("round trip = %+v, want %+v", got, exportCards)
			}
		})
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("WriteJSON(nil) = %q, want %q", got, "[]\n")
	}
}

func TestExportFileRejectsCSV(t *testing.T) {
	err := ExportFile(exportCards, filepath.Join(t.TempDir(), "cards.csv"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}
