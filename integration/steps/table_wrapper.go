package steps

import (
	"fmt"
	"strconv"
	"strings"

	"code.bbsnetwork.io/lm/types/num"

	"github.com/cucumber/godog"
)

type TableWrapper godog.Table

// Parse returns the rows of the table, keyed by the header cells.
func (t TableWrapper) Parse() []RowWrapper {
	dt := godog.Table(t)
	if len(dt.Rows) == 0 {
		return nil
	}
	out := make([]RowWrapper, 0, len(dt.Rows)-1)

	for _, row := range dt.Rows[1:] {
		wrapper := RowWrapper{values: map[string]string{}}
		for i := range row.Cells {
			wrapper.values[dt.Rows[0].Cells[i].Value] = row.Cells[i].Value
		}
		out = append(out, wrapper)
	}

	return out
}

func parseTable(table *godog.Table) []RowWrapper {
	return TableWrapper(*table).Parse()
}

type RowWrapper struct {
	values map[string]string
}

func (r RowWrapper) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

func (r RowWrapper) Str(name string) string {
	return r.values[name]
}

func (r RowWrapper) StrSlice(name, sep string) []string {
	if len(r.values[name]) == 0 {
		return []string{}
	}
	return strings.Split(r.values[name], sep)
}

func (r RowWrapper) U64(name string) (uint64, error) {
	rawValue := r.values[name]
	return strconv.ParseUint(rawValue, 10, 0)
}

func (r RowWrapper) U16(name string) (uint16, error) {
	rawValue := r.values[name]
	v, err := strconv.ParseUint(rawValue, 10, 16)
	return uint16(v), err
}

func (r RowWrapper) Uint(name string) (*num.Uint, error) {
	return parseUint(r.values[name])
}

func parseUint(rawValue string) (*num.Uint, error) {
	v, overflow := num.UintFromString(rawValue, 10)
	if overflow {
		return nil, fmt.Errorf("invalid amount: %q", rawValue)
	}
	return v, nil
}
