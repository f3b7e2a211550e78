// Package paginate splits the story identifier list into fixed-size pages.
package paginate

import "github.com/samber/lo"

// PageSize is the number of stories shown per page.
const PageSize = 10

// Paginate splits seq into consecutive pages of size elements, preserving order.
// The last page may be shorter. An empty seq yields an empty (non-nil) result.
// Panics if size <= 0.
func Paginate(seq []int, size int) [][]int {
	if size <= 0 {
		panic("paginate: size must be greater than 0")
	}
	return lo.Chunk(seq, size)
}
