package utils

// PaginateOffset converts limit/page paging into a query offset.
// Page count starts with 0; a non-positive limit disables paging.
func PaginateOffset(limit int, page int) (int, int) {
	if limit <= 0 {
		return 0, 0
	}
	if page < 0 {
		page = 0
	}
	return limit, page * limit
}
