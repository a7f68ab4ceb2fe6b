package preset

import (
	"fmt"

	"planetrise/internal/fixture"
)

// Preset is a named fixture color. Presets are immutable once the table
// is built.
type Preset struct {
	Name  string      `json:"name"`
	Color fixture.RGB `json:"color"`
}

// Defaults returns the reference planet presets.
func Defaults() []Preset {
	return []Preset{
		{Name: "Mars", Color: fixture.RGB{R: 255, G: 40, B: 0}},
		{Name: "Venus", Color: fixture.RGB{R: 255, G: 160, B: 30}},
		{Name: "Neptune", Color: fixture.RGB{R: 40, G: 80, B: 255}},
	}
}

// Table is a fixed ordered list of presets, indexed 0..Len()-1.
type Table struct {
	presets []Preset
}

func NewTable(presets []Preset) (*Table, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("preset table must not be empty")
	}
	t := &Table{presets: make([]Preset, len(presets))}
	copy(t.presets, presets)
	return t, nil
}

func (t *Table) Len() int {
	return len(t.presets)
}

func (t *Table) At(i int) Preset {
	return t.presets[i]
}

// Selection holds the currently selected preset index. Increment and
// decrement wrap, so every delta is valid.
type Selection struct {
	table *Table
	index int
}

func NewSelection(t *Table) *Selection {
	return &Selection{table: t}
}

// Select moves the index by delta with wrap-around and returns the newly
// selected preset.
func (s *Selection) Select(delta int) Preset {
	n := s.table.Len()
	s.index = ((s.index+delta)%n + n) % n
	return s.table.At(s.index)
}

// Current returns the selected preset by value.
func (s *Selection) Current() Preset {
	return s.table.At(s.index)
}

func (s *Selection) Index() int {
	return s.index
}
