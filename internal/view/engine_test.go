package view

import (
	"fmt"
	"testing"

	"docdesk/internal/model"
)

func makeRows(n int) []model.DocumentRecord {
	rows := make([]model.DocumentRecord, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, model.DocumentRecord{
			RefSeqNo:            i,
			DocumentNo:          fmt.Sprintf("DOC-%03d", i),
			DocumentDescription: fmt.Sprintf("Contract %d", i),
			UserName:            "alice",
		})
	}
	return rows
}

func TestFilter_MatchesAnyScalarFieldCaseInsensitively(t *testing.T) {
	rows := []model.DocumentRecord{
		{RefSeqNo: 1, DocumentDescription: "Invoice Q1", DocumentStatus: "VERIFIED"},
		{RefSeqNo: 2, DocumentDescription: "verified shipping note", DocumentStatus: ""},
		{RefSeqNo: 3, DocumentDescription: "Payroll", DocumentStatus: "IN PROGRESS"},
	}
	e := NewEngine()
	e.SetRows(rows)

	e.SetFilter("VERIFIED")
	page := e.Page()
	if len(page) != 2 {
		t.Fatalf("expected rows 1 and 2, got %d rows", len(page))
	}
	if page[0].RefSeqNo != 1 || page[1].RefSeqNo != 2 {
		t.Fatalf("unexpected matches: %+v", page)
	}

	// Numeric fields participate too.
	e.SetFilter("3")
	if got := e.Page(); len(got) != 1 || got[0].RefSeqNo != 3 {
		t.Fatalf("expected numeric match on row 3, got %+v", got)
	}

	// Empty filter matches every row.
	e.SetFilter("")
	if e.TotalRows() != 3 {
		t.Fatalf("empty filter must match all rows, got %d", e.TotalRows())
	}
}

func TestPagination_PageCountAndBounds(t *testing.T) {
	e := NewEngine()
	e.SetRows(makeRows(25))

	if e.PageSize() != 10 {
		t.Fatalf("default page size: %d", e.PageSize())
	}
	if e.PageCount() != 3 {
		t.Fatalf("25 rows / size 10: expected 3 pages, got %d", e.PageCount())
	}

	e.LastPage()
	if e.PageIndex() != 2 {
		t.Fatalf("last page index: %d", e.PageIndex())
	}
	if len(e.Page()) != 5 {
		t.Fatalf("last page rows: %d", len(e.Page()))
	}
	if e.CanNextPage() {
		t.Fatalf("no next page after the last")
	}

	// Advancing past the end is a no-op.
	e.NextPage()
	if e.PageIndex() != 2 {
		t.Fatalf("next from last page moved to %d", e.PageIndex())
	}

	// Jumping to the first page always works while CanPreviousPage holds.
	if !e.CanPreviousPage() {
		t.Fatalf("expected previous pages from index 2")
	}
	e.SetPageIndex(0)
	if e.PageIndex() != 0 {
		t.Fatalf("set first page failed: %d", e.PageIndex())
	}
	e.PrevPage()
	if e.PageIndex() != 0 {
		t.Fatalf("prev from first page moved to %d", e.PageIndex())
	}

	// Direct out-of-range jumps are ignored.
	e.SetPageIndex(99)
	if e.PageIndex() != 0 {
		t.Fatalf("out-of-range jump moved to %d", e.PageIndex())
	}
}

func TestPagination_PageSizeConstrainedToAllowedSet(t *testing.T) {
	e := NewEngine()
	e.SetRows(makeRows(100))

	e.SetPageSize(50)
	if e.PageSize() != 50 || e.PageCount() != 2 {
		t.Fatalf("size 50: got size %d, pages %d", e.PageSize(), e.PageCount())
	}

	// Unsupported sizes are rejected.
	e.SetPageSize(7)
	if e.PageSize() != 50 {
		t.Fatalf("unsupported size accepted: %d", e.PageSize())
	}

	// Shrinking the collection clamps the page index.
	e.SetPageSize(10)
	e.LastPage()
	e.SetRows(makeRows(5))
	if e.PageIndex() != 0 {
		t.Fatalf("page index not clamped: %d", e.PageIndex())
	}
	if len(e.Page()) != 5 {
		t.Fatalf("expected all 5 rows on page 0, got %d", len(e.Page()))
	}
}

func TestFilterChange_ResetsToFirstPage(t *testing.T) {
	e := NewEngine()
	e.SetRows(makeRows(30))
	e.SetPageIndex(2)

	e.SetFilter("contract")
	if e.PageIndex() != 0 {
		t.Fatalf("filter change must reset page index, got %d", e.PageIndex())
	}
}

func TestSort_StableMultiKey(t *testing.T) {
	rows := []model.DocumentRecord{
		{RefSeqNo: 1, UserName: "bob", DocumentStatus: "IN PROGRESS"},
		{RefSeqNo: 2, UserName: "alice", DocumentStatus: "VERIFIED"},
		{RefSeqNo: 3, UserName: "alice", DocumentStatus: "IN PROGRESS"},
		{RefSeqNo: 4, UserName: "bob", DocumentStatus: "VERIFIED"},
	}
	e := NewEngine()
	e.SetRows(rows)
	e.SetSort(SortKey{Col: ColUploader}, SortKey{Col: ColStatus, Desc: true})

	page := e.Page()
	want := []int{2, 3, 4, 1}
	for i, d := range page {
		if d.RefSeqNo != want[i] {
			t.Fatalf("sort order: got %v at %d, want %v", d.RefSeqNo, i, want)
		}
	}

	// Equal keys keep their incoming order (stability).
	e.SetSort(SortKey{Col: ColUploader})
	page = e.Page()
	if page[0].RefSeqNo != 2 || page[1].RefSeqNo != 3 {
		t.Fatalf("stable sort violated: %+v", page)
	}
}

func TestEmptyView(t *testing.T) {
	e := NewEngine()
	e.SetRows(nil)

	if e.PageCount() != 0 {
		t.Fatalf("empty view page count: %d", e.PageCount())
	}
	if e.CanNextPage() || e.CanPreviousPage() {
		t.Fatalf("no navigation on empty view")
	}
	if len(e.Page()) != 0 {
		t.Fatalf("empty view must render no rows")
	}
	// Index 0 stays valid so later SetRows starts on the first page.
	e.SetPageIndex(0)
	if e.PageIndex() != 0 {
		t.Fatalf("first page jump on empty view: %d", e.PageIndex())
	}
}
