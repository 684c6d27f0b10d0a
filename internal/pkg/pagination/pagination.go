package pagination

import "fmt"

// TotalPages rounds up; zero items yield zero pages.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Showing renders the "21-40 of 150 results" label used in list responses.
func Showing(page, limit, count int, total int64) string {
	if count == 0 {
		return fmt.Sprintf("0 of %d results", total)
	}
	start := (page-1)*limit + 1
	end := start + count - 1
	if end > int(total) {
		end = int(total)
	}
	return fmt.Sprintf("%d-%d of %d results", start, end, total)
}
