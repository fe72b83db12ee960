// Package view wraps a loaded record collection with the client-side table
// state: global text filtering, stable multi-key sorting and page slicing.
// It owns no data; the record store feeds it and the renderer reads it.
package view

import (
	"sort"
	"strconv"
	"strings"

	"docdesk/internal/model"
)

// PageSizes are the allowed rows-per-page values, in selector order.
var PageSizes = []int{10, 20, 30, 40, 50}

const DefaultPageSize = 10

type Column int

const (
	ColRefNo Column = iota
	ColDocumentNo
	ColDescription
	ColUploader
	ColChannelSource
	ColRelatedTo
	ColCategory
	ColStatus
	ColAssignedTo
	ColDocs
)

func (c Column) String() string {
	switch c {
	case ColRefNo:
		return "Ref No"
	case ColDocumentNo:
		return "Document No"
	case ColDescription:
		return "Document Name"
	case ColUploader:
		return "Uploader"
	case ColChannelSource:
		return "Channel Source"
	case ColRelatedTo:
		return "Related To"
	case ColCategory:
		return "Category"
	case ColStatus:
		return "Status"
	case ColAssignedTo:
		return "Assigned To"
	case ColDocs:
		return "Docs"
	default:
		return "?"
	}
}

// SortKey is one level of a multi-key sort.
type SortKey struct {
	Col  Column
	Desc bool
}

// Engine computes the visible page from rows + view state.
type Engine struct {
	rows     []model.DocumentRecord
	filter   string
	sortKeys []SortKey

	pageIndex int
	pageSize  int

	visible []model.DocumentRecord
	stale   bool
}

func NewEngine() *Engine {
	return &Engine{pageSize: DefaultPageSize, stale: true}
}

// SetRows replaces the backing collection. The page index is clamped so a
// shrinking collection never leaves the view past the end.
func (e *Engine) SetRows(rows []model.DocumentRecord) {
	e.rows = rows
	e.stale = true
	e.clampPageIndex()
}

// SetFilter installs the global filter text and jumps back to the first page.
func (e *Engine) SetFilter(filter string) {
	if e.filter == filter {
		return
	}
	e.filter = filter
	e.stale = true
	e.pageIndex = 0
}

func (e *Engine) Filter() string { return e.filter }

// SetSort installs the sort keys (outermost first). Sorting is stable, so
// equal rows keep their server order.
func (e *Engine) SetSort(keys ...SortKey) {
	e.sortKeys = keys
	e.stale = true
}

func (e *Engine) Sort() []SortKey { return e.sortKeys }

// SetPageSize accepts only the allowed sizes; anything else is ignored.
func (e *Engine) SetPageSize(n int) {
	for _, allowed := range PageSizes {
		if n == allowed {
			e.pageSize = n
			e.clampPageIndex()
			return
		}
	}
}

func (e *Engine) PageSize() int  { return e.pageSize }
func (e *Engine) PageIndex() int { return e.pageIndex }

// TotalRows is the filtered row count across all pages.
func (e *Engine) TotalRows() int { return len(e.computed()) }

func (e *Engine) PageCount() int {
	n := len(e.computed())
	if n == 0 {
		return 0
	}
	return (n + e.pageSize - 1) / e.pageSize
}

// SetPageIndex jumps to a page directly. Out-of-range requests are no-ops.
func (e *Engine) SetPageIndex(i int) {
	if i < 0 || i >= e.maxPageIndexExclusive() {
		return
	}
	e.pageIndex = i
}

func (e *Engine) FirstPage() { e.SetPageIndex(0) }

func (e *Engine) LastPage() {
	if pc := e.PageCount(); pc > 0 {
		e.pageIndex = pc - 1
	}
}

func (e *Engine) NextPage() {
	if e.CanNextPage() {
		e.pageIndex++
	}
}

func (e *Engine) PrevPage() {
	if e.CanPreviousPage() {
		e.pageIndex--
	}
}

func (e *Engine) CanPreviousPage() bool { return e.pageIndex > 0 }

func (e *Engine) CanNextPage() bool { return e.pageIndex < e.PageCount()-1 }

// Page returns the rows visible on the current page, in display order.
func (e *Engine) Page() []model.DocumentRecord {
	rows := e.computed()
	start := e.pageIndex * e.pageSize
	if start >= len(rows) {
		return []model.DocumentRecord{}
	}
	end := start + e.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func (e *Engine) maxPageIndexExclusive() int {
	pc := e.PageCount()
	if pc == 0 {
		// An empty view still has a valid "first page".
		return 1
	}
	return pc
}

func (e *Engine) clampPageIndex() {
	if max := e.maxPageIndexExclusive(); e.pageIndex >= max {
		e.pageIndex = max - 1
	}
	if e.pageIndex < 0 {
		e.pageIndex = 0
	}
}

func (e *Engine) computed() []model.DocumentRecord {
	if !e.stale {
		return e.visible
	}

	out := make([]model.DocumentRecord, 0, len(e.rows))
	for _, d := range e.rows {
		if MatchesFilter(d, e.filter) {
			out = append(out, d)
		}
	}
	if len(e.sortKeys) > 0 {
		keys := e.sortKeys
		sort.SliceStable(out, func(i, j int) bool {
			for _, k := range keys {
				c := compareColumn(out[i], out[j], k.Col)
				if c == 0 {
					continue
				}
				if k.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	e.visible = out
	e.stale = false
	return e.visible
}

// MatchesFilter reports whether any string or numeric field of the record
// contains the filter text, case-insensitively. An empty filter matches
// everything.
func MatchesFilter(d model.DocumentRecord, filter string) bool {
	filter = strings.ToLower(filter)
	if filter == "" {
		return true
	}
	for _, v := range scalarStrings(d) {
		if strings.Contains(strings.ToLower(v), filter) {
			return true
		}
	}
	return false
}

// scalarStrings flattens the record's string/number fields for the global
// filter. Attachment sub-records are not searched.
func scalarStrings(d model.DocumentRecord) []string {
	return []string{
		strconv.Itoa(d.RefSeqNo),
		d.DocumentNo,
		d.DocumentDescription,
		d.UserName,
		d.ChannelSource,
		d.RelatedTo,
		d.RelatedCategory,
		d.DocumentStatus,
		d.AssignedUser,
		strconv.Itoa(d.NumberOfDocuments),
		d.Remarks,
		d.IsPrimaryDocument,
	}
}

func compareColumn(a, b model.DocumentRecord, col Column) int {
	switch col {
	case ColRefNo:
		return compareInt(a.RefSeqNo, b.RefSeqNo)
	case ColDocumentNo:
		return compareFold(a.DocumentNo, b.DocumentNo)
	case ColDescription:
		return compareFold(a.DocumentDescription, b.DocumentDescription)
	case ColUploader:
		return compareFold(a.UserName, b.UserName)
	case ColChannelSource:
		return compareFold(a.ChannelSource, b.ChannelSource)
	case ColRelatedTo:
		return compareFold(a.RelatedTo, b.RelatedTo)
	case ColCategory:
		return compareFold(a.RelatedCategory, b.RelatedCategory)
	case ColStatus:
		return compareFold(a.DocumentStatus, b.DocumentStatus)
	case ColAssignedTo:
		return compareFold(a.AssignedUser, b.AssignedUser)
	case ColDocs:
		return compareInt(a.NumberOfDocuments, b.NumberOfDocuments)
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
