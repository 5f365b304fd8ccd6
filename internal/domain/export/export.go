package export

import (
	"sort"
	"time"

	"radioclub/internal/domain/registration"
)

// TimeLayout formats the submission time column.
const TimeLayout = "2006-01-02 15:04"

// SheetName is the worksheet that holds the roster.
const SheetName = "Registrations"

// Header is the first row of every export, in column order.
var Header = []string{
	"Name",
	"Student ID",
	"Major/Class",
	"First Choice",
	"Second Choice",
	"Introduction",
	"Submitted At",
}

// Table is the materialised export: one header row plus one row per registration.
type Table struct {
	Header []string
	Rows   [][]string
}

// SortByChoice orders registrations by first choice, then second choice.
// Ties keep their input order.
// POST: regs is sorted in place
func SortByChoice(regs []registration.Registration) {
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].FirstChoice != regs[j].FirstChoice {
			return regs[i].FirstChoice < regs[j].FirstChoice
		}
		return regs[i].SecondChoice < regs[j].SecondChoice
	})
}

// Row renders one registration as export cells.
// INVARIANT: len(result) == len(Header)
func Row(r registration.Registration) []string {
	return []string{
		r.Name,
		r.StudentID,
		r.MajorClass,
		r.FirstChoice,
		r.SecondChoice,
		r.Intro,
		r.SubmittedAt.UTC().Format(TimeLayout),
	}
}

// BuildTable sorts regs by choice and renders every row.
// PRE: regs may be in any order
// POST: Rows follow the (first choice, second choice) order
func BuildTable(regs []registration.Registration) Table {
	sorted := make([]registration.Registration, len(regs))
	copy(sorted, regs)
	SortByChoice(sorted)

	t := Table{Header: append([]string(nil), Header...), Rows: make([][]string, 0, len(sorted))}
	for _, r := range sorted {
		t.Rows = append(t.Rows, Row(r))
	}
	return t
}

// Filename returns the download name for an export taken at now.
func Filename(now time.Time) string {
	return "radio_club_" + now.Format("20060102") + ".xlsx"
}
