package filter

// Pagination selects one page of a sorted result set. Page and Size are
// 1-based and must both be positive; a group without a Pagination returns the
// whole sorted set as a single page. SortFields lists the primary sort field
// followed by then-by fields; Descending flips the direction of all of them.
type Pagination struct {
	Page       uint
	Size       uint
	SortFields []string
	Descending bool
}

// Offset is the number of elements preceding the requested page.
func (p Pagination) Offset() uint { return (p.Page - 1) * p.Size }

// Paged reports whether a page was actually requested, as opposed to a
// sort-only spec.
func (p Pagination) Paged() bool { return p.Page > 0 && p.Size > 0 }

// EffectivePagination picks the pagination spec governing a group list: the
// first group carrying one. Later specs are ignored.
func EffectivePagination(groups []Group) *Pagination {
	for _, group := range groups {
		if group.HasPagination() {
			return group.Pagination()
		}
	}

	return nil
}
