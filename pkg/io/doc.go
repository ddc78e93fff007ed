// Package io reads and writes card lists.
//
// # Overview
//
// The label engine only ever sees [card.Card] values. This package adapts the
// formats cards arrive in to that single shape:
//
//   - CSV exports from the Dex collection app
//   - JSON arrays of cards
//   - TOML documents with one [[card]] table per card
//
// # Dex CSV
//
// The Dex app exports a semicolon-delimited file with a header row. The
// columns used are:
//
//	Id;Name;Set;Rarity;Variant
//
// and map to Number, Name, SetName, Rarity and Finish. Other columns are
// ignored and missing ones read as empty strings. The bytes are decoded as
// UTF-8, or UTF-16 when the file starts with a byte order mark, falling back
// to Latin-1 when neither applies.
//
// # JSON and TOML
//
//	[
//	  {"number": "58/102", "name": "Pikachu", "set_name": "Base Set", "rarity": "Common"}
//	]
//
//	[[card]]
//	number = "58/102"
//	name = "Pikachu"
//	set_name = "Base Set"
//	rarity = "Common"
//
// # Import
//
// Use [ImportFile] to read a file, picking the decoder from its extension,
// or one of [ReadCSV], [ReadJSON] and [ReadTOML] for any io.Reader:
//
//	cards, err := io.ImportFile("collection.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every imported card without a unique id is given a fresh one.
//
// # Export
//
// [WriteJSON] and [WriteTOML] write card lists; [ExportFile] picks the
// encoder from the file extension. Export and re-import round-trips every
// field, including generated unique ids.
package io
