package sheet

import (
	"fmt"
	"strings"

	"github.com/sheetcore/engine/a1"
	"github.com/sheetcore/engine/internal/ids"
)

// Table registers a named table range so that a1 references like
// Table1[Column] can be resolved against a live extent (spec §4.3's table
// reference resolution).
type Table struct {
	Name       string
	SheetID    a1.SheetID
	Rect       a1.Rect
	HeaderRows int64
	TotalRows  int64
	ColNames   []string
}

func (t Table) extent() a1.TableExtent {
	return a1.TableExtent{
		SheetID:    t.SheetID,
		Rect:       t.Rect,
		HeaderRows: t.HeaderRows,
		TotalRows:  t.TotalRows,
		ColNames:   t.ColNames,
	}
}

// Workbook is a registry of sheets and tables. It implements
// a1.NamingContext so the a1 parser can resolve sheet-qualified and table
// references against the sheets actually present, adapted from the
// teacher's workbook.Workbook lookup-by-name structure.
type Workbook struct {
	order  []a1.SheetID
	sheets map[a1.SheetID]*Sheet
	tables map[string]Table
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		sheets: make(map[a1.SheetID]*Sheet),
		tables: make(map[string]Table),
	}
}

// AddSheet creates a new sheet named name, assigns it a fresh SheetID, adds
// it to the workbook, and returns it.
func (wb *Workbook) AddSheet(name string) *Sheet {
	id := a1.NewSheetID(ids.NewSheetID())
	s := New(id, name)
	wb.order = append(wb.order, id)
	wb.sheets[id] = s
	return s
}

// Sheets returns every sheet in tab order.
func (wb *Workbook) Sheets() []*Sheet {
	out := make([]*Sheet, len(wb.order))
	for i, id := range wb.order {
		out[i] = wb.sheets[id]
	}
	return out
}

// Sheet returns the sheet with the given id.
func (wb *Workbook) Sheet(id a1.SheetID) (*Sheet, bool) {
	s, ok := wb.sheets[id]
	return s, ok
}

// SheetByName returns the sheet with the given display name
// (case-insensitive), or nil if none exists.
func (wb *Workbook) SheetByName(name string) (*Sheet, bool) {
	lower := strings.ToLower(name)
	for _, id := range wb.order {
		if strings.ToLower(wb.sheets[id].Name) == lower {
			return wb.sheets[id], true
		}
	}
	return nil, false
}

// RenameSheet renames the sheet with the given id.
func (wb *Workbook) RenameSheet(id a1.SheetID, name string) error {
	s, ok := wb.sheets[id]
	if !ok {
		return fmt.Errorf("sheet: rename: unknown sheet id")
	}
	s.Name = name
	return nil
}

// AddTable registers t, replacing any prior table of the same name.
func (wb *Workbook) AddTable(t Table) {
	wb.tables[strings.ToLower(t.Name)] = t
}

// RemoveTable deletes the named table, if present.
func (wb *Workbook) RemoveTable(name string) {
	delete(wb.tables, strings.ToLower(name))
}

// ResolveSheet implements a1.NamingContext.
func (wb *Workbook) ResolveSheet(name string) (a1.SheetID, bool) {
	s, ok := wb.SheetByName(name)
	if !ok {
		return a1.SheetID{}, false
	}
	return s.ID, true
}

// ResolveTable implements a1.NamingContext.
func (wb *Workbook) ResolveTable(name string) (a1.TableExtent, bool) {
	t, ok := wb.tables[strings.ToLower(name)]
	if !ok {
		return a1.TableExtent{}, false
	}
	return t.extent(), true
}
