package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tcglabels/pkg/fonts"
	"github.com/matzehuels/tcglabels/pkg/pipeline"
)

// fontsCommand creates the fonts command listing the registered fonts.
func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the available label fonts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(fontTable(c.Fonts))
			return nil
		},
	}
}

// sizesCommand creates the sizes command listing the label size presets.
func (c *CLI) sizesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "List the label size presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(sizeTable())
			return nil
		},
	}
}

// fontRow is one line of the fonts table.
type fontRow struct {
	id        fonts.ID
	source    string
	aliases   []string
	available bool
}

// fontRows collects the registry contents in id order.
func fontRows(reg *fonts.Registry) []fontRow {
	aliases := make(map[fonts.ID][]string)
	for alias, target := range reg.Aliases() {
		aliases[target] = append(aliases[target], string(alias))
	}

	var rows []fontRow
	for _, id := range reg.IDs() {
		_, src, _ := reg.Lookup(id)
		names := aliases[id]
		sort.Strings(names)
		rows = append(rows, fontRow{
			id:        id,
			source:    src.Describe(),
			aliases:   names,
			available: reg.Available(id),
		})
	}
	return rows
}

func fontTable(reg *fonts.Registry) string {
	rows := fontRows(reg)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		id := string(r.id)
		if r.id == fonts.ID(pipeline.DefaultFont) {
			id += " (default)"
		}
		status := iconSuccess + " available"
		if !r.available {
			status = iconError + " not installed"
		}
		alias := "—"
		if len(r.aliases) > 0 {
			alias = strings.Join(r.aliases, ", ")
		}
		cells[i] = []string{id, r.source, alias, status}
	}

	return newTable("Font", "Source", "Aliases", "Status").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 3 && !rows[row].available:
				return styleTableCell.Foreground(colorRed)
			case col == 3:
				return styleTableCell.Foreground(colorGreen)
			case col == 0:
				return styleTableCell.Foreground(colorCyan)
			}
			return styleTableCell
		}).
		String()
}

func sizeTable() string {
	names := pipeline.PresetNames()
	cells := make([][]string, len(names))
	for i, name := range names {
		p := pipeline.Presets[name]
		if name == pipeline.DefaultSize {
			name += " (default)"
		}
		w, h, _ := strings.Cut(p.Name, "x")
		cells[i] = []string{name, fmt.Sprintf("%s in x %s in", w, h), fmt.Sprintf("%d x %d px", p.Width, p.Height)}
	}

	return newTable("Preset", "Label", "Canvas").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 0:
				return styleTableCell.Foreground(colorCyan)
			}
			return styleTableCell
		}).
		String()
}
