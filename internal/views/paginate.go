package views

// Paginate returns items[(page-1)*rowsPerPage : page*rowsPerPage]. Pages past
// the end (or a non-positive page or size) yield an empty slice; nothing is clamped.
func Paginate[T any](items []T, page, rowsPerPage int) []T {
	if page < 1 || rowsPerPage < 1 {
		return []T{}
	}
	// compare page numbers before multiplying so huge pages cannot overflow
	if page > TotalPages(len(items), rowsPerPage) || len(items) == 0 {
		return []T{}
	}
	offset := (page - 1) * rowsPerPage
	end := offset + rowsPerPage
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// TotalPages is ceil(count/rowsPerPage), never less than 1.
func TotalPages(count, rowsPerPage int) int {
	if rowsPerPage < 1 || count <= 0 {
		return 1
	}
	pages := count / rowsPerPage
	if count%rowsPerPage != 0 {
		pages++
	}
	return pages
}
