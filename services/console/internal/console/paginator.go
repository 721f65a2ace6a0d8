package console

// PageSizes is the fixed set of selectable page sizes.
var PageSizes = []int{5, 10, 20, 50}

const defaultPageSize = 10

// Paginator slices an already-fetched list client-side. The page index is
// 1-based and always clamped to the valid range.
type Paginator struct {
	page     int
	pageSize int
	total    int
}

func NewPaginator() *Paginator {
	return &Paginator{page: 1, pageSize: defaultPageSize}
}

func (p *Paginator) Page() int {
	return p.page
}

func (p *Paginator) PageSize() int {
	return p.pageSize
}

func (p *Paginator) Total() int {
	return p.total
}

// TotalPages never reports less than one page, even for an empty list.
func (p *Paginator) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	pages := p.total / p.pageSize
	if p.total%p.pageSize != 0 {
		pages++
	}
	return pages
}

// SetTotal records the list length and re-clamps the current page, which may
// have fallen past the end after a refresh shrank the list.
func (p *Paginator) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.GoToPage(p.page)
}

// SetPageSize switches to one of the allowed sizes and resets to page 1.
// Unknown sizes are ignored.
func (p *Paginator) SetPageSize(size int) {
	allowed := false
	for _, s := range PageSizes {
		if s == size {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}

	p.pageSize = size
	p.page = 1
}

// GoToPage clamps the requested page to [1, TotalPages()].
func (p *Paginator) GoToPage(page int) {
	if page < 1 {
		page = 1
	}
	if last := p.TotalPages(); page > last {
		page = last
	}
	p.page = page
}

// Bounds returns the half-open [from, to) slice range for the current page.
func (p *Paginator) Bounds() (int, int) {
	from := (p.page - 1) * p.pageSize
	if from > p.total {
		from = p.total
	}
	to := from + p.pageSize
	if to > p.total {
		to = p.total
	}
	return from, to
}
