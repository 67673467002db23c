package model

import (
	"fmt"
	"strings"
)

// TableElement represents a table with cells organized in rows and columns
type TableElement struct {
	Base
	Rows         int
	Cols         int
	Cells        [][]Cell // Rows x Cols
	ColumnWidths []int    // Pixels, may be empty
	RowHeights   []int    // Pixels, may be empty
}

func (*TableElement) Kind() Kind { return KindTable }
func (*TableElement) isElement() {}

// Cell represents a table cell
type Cell struct {
	Text    string
	RowSpan int
	ColSpan int
	Merged  bool // Covered by another cell's span (not the origin)
}

// NewTable creates a new table with given dimensions
func NewTable(rows, cols int) *TableElement {
	t := &TableElement{
		Rows:  rows,
		Cols:  cols,
		Cells: make([][]Cell, rows),
	}
	for i := 0; i < rows; i++ {
		t.Cells[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			t.Cells[i][j] = Cell{RowSpan: 1, ColSpan: 1}
		}
	}
	return t
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *TableElement) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Cells) {
		return nil
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return nil
	}
	return &t.Cells[row][col]
}

// SetCell sets the cell at the given position
func (t *TableElement) SetCell(row, col int, cell Cell) error {
	if row < 0 || row >= len(t.Cells) {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	t.Cells[row][col] = cell
	return nil
}

// GetText returns the cell text, tab separated, one row per line.
func (t *TableElement) GetText() string {
	var sb strings.Builder
	for _, row := range t.Cells {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format
func (t *TableElement) ToMarkdown() string {
	if len(t.Cells) == 0 {
		return ""
	}

	var sb strings.Builder

	// Header row
	for j, cell := range t.Cells[0] {
		sb.WriteString("| ")
		sb.WriteString(escapeMarkdownCell(cell.Text))
		sb.WriteString(" ")
		if j == len(t.Cells[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	// Separator
	for j := range t.Cells[0] {
		sb.WriteString("|---")
		if j == len(t.Cells[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	// Data rows
	for i := 1; i < len(t.Cells); i++ {
		for j, cell := range t.Cells[i] {
			sb.WriteString("| ")
			sb.WriteString(escapeMarkdownCell(cell.Text))
			sb.WriteString(" ")
			if j == len(t.Cells[i])-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// escapeMarkdownCell escapes pipes and flattens newlines for table cells.
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
