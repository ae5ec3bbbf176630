package pagination

import (
	"reflect"
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		total    int64
		wantPage int
		wantNum  int
	}{
		{name: "first page", raw: "1", total: 12, wantPage: 1, wantNum: 3},
		{name: "blank", raw: "", total: 12, wantPage: 1, wantNum: 3},
		{name: "not an integer", raw: "abc", total: 12, wantPage: 1, wantNum: 3},
		{name: "past the end", raw: "9", total: 12, wantPage: 3, wantNum: 3},
		{name: "zero", raw: "0", total: 12, wantPage: 3, wantNum: 3},
		{name: "negative", raw: "-2", total: 12, wantPage: 3, wantNum: 3},
		{name: "empty listing", raw: "1", total: 0, wantPage: 1, wantNum: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.raw, 5, tt.total)
			if p.Number != tt.wantPage || p.NumPages != tt.wantNum {
				t.Fatalf("got page %d of %d, want %d of %d", p.Number, p.NumPages, tt.wantPage, tt.wantNum)
			}
		})
	}
}

func TestPageOffsetAndNeighbours(t *testing.T) {
	p := Paginate("2", 5, 12)
	if p.Offset() != 5 {
		t.Fatalf("expected offset 5, got %d", p.Offset())
	}
	if !p.HasPrevious() || !p.HasNext() || p.PreviousNumber() != 1 || p.NextNumber() != 3 {
		t.Fatalf("unexpected neighbours %+v", p)
	}
	if Paginate("1", 0, 3).PerPage != DefaultPerPage {
		t.Fatal("expected default page size")
	}
}

func TestCustomRange(t *testing.T) {
	if got := Paginate("1", 5, 100).CustomRange(); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected range %v", got)
	}
	if got := Paginate("10", 5, 100).CustomRange(); !reflect.DeepEqual(got, []int{6, 7, 8, 9, 10, 11, 12, 13, 14}) {
		t.Fatalf("unexpected range %v", got)
	}
	if got := Paginate("20", 5, 100).CustomRange(); !reflect.DeepEqual(got, []int{16, 17, 18, 19, 20}) {
		t.Fatalf("unexpected range %v", got)
	}
}
