package model

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultColumnCapacity is the number of tasks one LAY column may hold.
const DefaultColumnCapacity = 20

// LayColumn is one named production slot. Occupancy only changes through the
// engine's commit step.
type LayColumn struct {
	Name     string `json:"name"`
	Occupied int    `json:"occupied"`
	Capacity int    `json:"capacity"`
}

// Remaining returns the free capacity of the column.
func (c LayColumn) Remaining() int {
	return c.Capacity - c.Occupied
}

// LayColumns generates the full production slot sequence LAY-A1..LAY-Z1
// followed by LAY-A2..LAY-Z2, empty, with the given capacity.
func LayColumns(capacity int) []LayColumn {
	cols := make([]LayColumn, 0, 52)
	for _, round := range []string{"1", "2"} {
		for letter := 'A'; letter <= 'Z'; letter++ {
			cols = append(cols, LayColumn{
				Name:     "LAY-" + string(letter) + round,
				Capacity: capacity,
			})
		}
	}
	return cols
}

// ParseLayName splits a slot name of the form "LAY-<letter><number>" into its
// ordering key. The sequence runs all letters of round 1 before round 2, so
// the number is the major key and the letter the minor one.
func ParseLayName(name string) (letter rune, number int, ok bool) {
	suffix, found := strings.CutPrefix(strings.ToUpper(name), "LAY-")
	if !found || len(suffix) < 2 {
		return 0, 0, false
	}
	letter = rune(suffix[0])
	if letter < 'A' || letter > 'Z' {
		return 0, 0, false
	}
	number, err := strconv.Atoi(suffix[1:])
	if err != nil {
		return 0, 0, false
	}
	return letter, number, true
}

// SortLayColumns orders columns into the fixed priority sequence
// (LAY-A1..LAY-Z1, then LAY-A2..LAY-Z2). Names that do not parse sort last,
// in lexical order.
func SortLayColumns(cols []LayColumn) {
	sort.SliceStable(cols, func(i, j int) bool {
		li, ni, oki := ParseLayName(cols[i].Name)
		lj, nj, okj := ParseLayName(cols[j].Name)
		if oki != okj {
			return oki
		}
		if !oki {
			return cols[i].Name < cols[j].Name
		}
		if ni != nj {
			return ni < nj
		}
		return li < lj
	})
}
