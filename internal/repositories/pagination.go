package repositories

import "strings"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a zero-indexed offset page
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest clamps page and size into the supported range.
func NewPageRequest(page, size int) PageRequest {
	if page < 0 {
		page = 0
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return PageRequest{Page: page, Size: size}
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of an ordered result set plus the totals needed to
// navigate the rest of it.
type Page[T any] struct {
	Items      []T
	Page       int
	Size       int
	TotalItems int64
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalItems + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) First() bool {
	return p.Page == 0
}

func (p Page[T]) Last() bool {
	return p.Page+1 >= p.TotalPages()
}

// NotificationFilter scopes a notification listing. Query is matched as a
// case-insensitive substring of title or body; blank disables it.
type NotificationFilter struct {
	RecipientUserID uint
	UnreadOnly      bool
	Query           string
}

// AccountFilter scopes an account listing
type AccountFilter struct {
	Query           string
	IncludeArchived bool
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps q for a LIKE substring match with wildcards taken literally.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
