// Package pkg provides the core libraries for tcglabels card label printing.
//
// # Overview
//
// tcglabels turns a list of trading cards into printable storage labels: one
// fixed-size label per card with the card name, its number and rarity, and its
// set. The pkg directory is organized into these areas:
//
//  1. [card] - The canonical card record
//  2. [fonts] - Font registry resolving ids to sized faces
//  3. [label] - Text layout, rasterization and batch rendering
//  4. [document] - Multi-page PDF assembly
//  5. [pipeline] - Orchestration (render → assemble) with caching
//  6. [io] - Card import and export (Dex CSV, JSON, TOML)
//
// Supporting packages: [cache], [errors], [observability], [buildinfo].
//
// # Architecture
//
// The typical data flow through tcglabels:
//
//	Card file (CSV / JSON / TOML)
//	         ↓
//	    [io] package (decode into []card.Card)
//	         ↓
//	    [label] package (layout + raster per card, bounded worker pool)
//	         ↓
//	    [document] package (JPEG pages → PDF)
//	         ↓
//	    PDF or PNG output
//
// # Quick Start
//
//	cards, err := io.ImportFile("collection.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, cards, pipeline.Options{Size: "1.5x0.5"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("labels.pdf", result.Document, 0o644)
//
// [card]: github.com/matzehuels/tcglabels/pkg/card
// [fonts]: github.com/matzehuels/tcglabels/pkg/fonts
// [label]: github.com/matzehuels/tcglabels/pkg/label
// [document]: github.com/matzehuels/tcglabels/pkg/document
// [pipeline]: github.com/matzehuels/tcglabels/pkg/pipeline
// [io]: github.com/matzehuels/tcglabels/pkg/io
// [cache]: github.com/matzehuels/tcglabels/pkg/cache
// [errors]: github.com/matzehuels/tcglabels/pkg/errors
// [observability]: github.com/matzehuels/tcglabels/pkg/observability
// [buildinfo]: github.com/matzehuels/tcglabels/pkg/buildinfo
package pkg
