// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package surface

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// CELL GRID
// =============================================================================

// Cell is one character cell. A wide rune occupies its own cell plus a
// following continuation cell with Rune == 0.
type Cell struct {
	Rune  rune
	Style Style
}

var blank = Cell{Rune: ' '}

// Memory is an in-process Surface backed by a cell grid. TeaCanvas draws
// into one; tests script keys into one and inspect what was drawn.
type Memory struct {
	mu        sync.Mutex
	rows      int
	cols      int
	back      [][]Cell
	front     [][]Cell
	keys      []Key
	presented int
}

// NewMemory creates a blank surface of the given size.
func NewMemory(rows, cols int) *Memory {
	m := &Memory{}
	m.Resize(rows, cols)
	return m
}

// Resize changes the dimensions and blanks both buffers.
func (m *Memory) Resize(rows, cols int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	m.rows, m.cols = rows, cols
	m.back = newGrid(rows, cols)
	m.front = newGrid(rows, cols)
}

func newGrid(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for i := range g {
		g[i] = make([]Cell, cols)
		for j := range g[i] {
			g[i][j] = blank
		}
	}
	return g
}

// Size implements Surface.
func (m *Memory) Size() (rows, cols int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, m.cols
}

// Clear implements Surface.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.back {
		for j := range row {
			row[j] = blank
		}
	}
}

// WriteAt implements Surface. A wide rune that would straddle the right
// edge is dropped along with everything after it.
func (m *Memory) WriteAt(row, col int, text string, style Style) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 0 || row >= m.rows {
		return
	}
	line := m.back[row]
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > m.cols {
			return
		}
		if col >= 0 {
			line[col] = Cell{Rune: r, Style: style}
			if w == 2 {
				line[col+1] = Cell{Rune: 0, Style: style}
			}
		}
		col += w
	}
}

// ReadKey implements Surface.
func (m *Memory) ReadKey() (Key, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.keys) == 0 {
		return Key{}, false
	}
	k := m.keys[0]
	m.keys = m.keys[1:]
	return k, true
}

// Present implements Surface by copying the back buffer to the front.
func (m *Memory) Present() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.back {
		copy(m.front[i], m.back[i])
	}
	m.presented++
	return nil
}

// =============================================================================
// SCRIPTING AND INSPECTION
// =============================================================================

// PushKey queues keys for ReadKey.
func (m *Memory) PushKey(keys ...Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, keys...)
}

// PendingKeys returns the number of queued keys.
func (m *Memory) PendingKeys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

// Presented returns how many frames have been presented.
func (m *Memory) Presented() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presented
}

// Lines returns the presented frame as text, one string per row with
// trailing blanks trimmed.
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.front))
	for i, row := range m.front {
		out[i] = strings.TrimRight(rowText(row), " ")
	}
	return out
}

// Text returns the presented frame joined by newlines.
func (m *Memory) Text() string {
	return strings.Join(m.Lines(), "\n")
}

// StyleAt returns the style of the presented cell at row, col.
func (m *Memory) StyleAt(row, col int) Style {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return Style(0)
	}
	return m.front[row][col].Style
}

// Runs returns the presented frame split into same-style runs per row.
func (m *Memory) Runs() [][]Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]Run, len(m.front))
	for i, row := range m.front {
		out[i] = runsOf(row)
	}
	return out
}

// Run is a maximal span of cells sharing one style.
type Run struct {
	Text  string
	Style Style
}

func runsOf(row []Cell) []Run {
	var (
		runs []Run
		b    strings.Builder
	)
	for j, c := range row {
		if j > 0 && c.Style != row[j-1].Style {
			runs = append(runs, Run{Text: b.String(), Style: row[j-1].Style})
			b.Reset()
		}
		if c.Rune != 0 {
			b.WriteRune(c.Rune)
		}
	}
	if len(row) > 0 {
		runs = append(runs, Run{Text: b.String(), Style: row[len(row)-1].Style})
	}
	return runs
}

func rowText(row []Cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.Rune != 0 {
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

// Compile-time interface check.
var _ Surface = (*Memory)(nil)
