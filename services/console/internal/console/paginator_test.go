package console

import "testing"

func TestPaginatorSlicing(t *testing.T) {
	p := NewPaginator()
	p.SetTotal(23)

	if got := p.TotalPages(); got != 3 {
		t.Fatalf("TotalPages() = %d, want 3", got)
	}

	from, to := p.Bounds()
	if from != 0 || to != 10 {
		t.Errorf("page 1 bounds = [%d,%d), want [0,10)", from, to)
	}

	p.GoToPage(3)
	from, to = p.Bounds()
	if from != 20 || to != 23 {
		t.Errorf("page 3 bounds = [%d,%d), want [20,23)", from, to)
	}

	p.GoToPage(5)
	if p.Page() != 3 {
		t.Errorf("GoToPage(5) = page %d, want clamp to 3", p.Page())
	}

	p.GoToPage(0)
	if p.Page() != 1 {
		t.Errorf("GoToPage(0) = page %d, want clamp to 1", p.Page())
	}
}

func TestPaginatorSetPageSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		wantSize int
		wantPage int
	}{
		{name: "allowedSize", size: 50, wantSize: 50, wantPage: 1},
		{name: "smallestSize", size: 5, wantSize: 5, wantPage: 1},
		{name: "unknownSizeIgnored", size: 13, wantSize: 10, wantPage: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginator()
			p.SetTotal(100)
			p.GoToPage(2)

			p.SetPageSize(tt.size)

			if p.PageSize() != tt.wantSize {
				t.Errorf("PageSize() = %d, want %d", p.PageSize(), tt.wantSize)
			}
			if p.Page() != tt.wantPage {
				t.Errorf("Page() = %d, want %d", p.Page(), tt.wantPage)
			}
		})
	}
}

func TestPaginatorEmptyList(t *testing.T) {
	p := NewPaginator()
	p.SetTotal(0)

	if p.TotalPages() != 1 {
		t.Errorf("TotalPages() = %d, want 1 for an empty list", p.TotalPages())
	}

	from, to := p.Bounds()
	if from != 0 || to != 0 {
		t.Errorf("bounds = [%d,%d), want [0,0)", from, to)
	}
}

func TestPaginatorReclampsAfterShrink(t *testing.T) {
	p := NewPaginator()
	p.SetTotal(50)
	p.GoToPage(5)

	p.SetTotal(12)

	if p.Page() != 2 {
		t.Errorf("page after shrink = %d, want 2", p.Page())
	}
}
