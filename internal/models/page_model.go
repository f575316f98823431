package models

// ClassPage is one page of the class catalogue.
type ClassPage struct {
	Classes     []*Class `json:"classes"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	TotalCount  int64    `json:"totalCount"`
}

// ForumPage is one page of forum posts, newest first.
type ForumPage struct {
	TotalPosts  int64        `json:"totalPosts"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	Posts       []*ForumPost `json:"posts"`
}

// TotalPages returns how many pages of size limit are needed for total items.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
