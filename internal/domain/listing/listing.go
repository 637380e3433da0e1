package listing

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	All = "all"

	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortTitle   = "title"

	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Query is the filter/sort/pagination object shared by every list endpoint.
type Query struct {
	Search   string
	Category string
	Year     int
	Status   string
	Sort     string
	Lang     string
	Page     int
	PageSize int
}

// Page is the list response shape: {data, total, totalPages}.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Accessors tells the pipeline where to find the fields of T. Nil accessors
// disable the matching filter or sort key.
type Accessors[T any] struct {
	Text       func(T) []string
	Category   func(T) string
	Year       func(T) int
	Status     func(T) string
	Date       func(T) time.Time
	Popularity func(T) int
	Title      func(T, string) string
}

// IsAll reports whether a filter value means "no filter".
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Normalize clamps pagination and trims the free-text fields.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	q.Status = strings.TrimSpace(q.Status)
	q.Sort = strings.ToLower(strings.TrimSpace(q.Sort))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset is the row offset for q's page.
func (q Query) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.PageSize
}

// TotalPages is ceil(total/pageSize); zero when there is nothing to show.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Filter keeps the items matching the search term and the exact-match filters.
func Filter[T any](items []T, q Query, acc Accessors[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]T, 0, len(items))

	for _, it := range items {
		if needle != "" && acc.Text != nil && !containsAny(acc.Text(it), needle) {
			continue
		}
		if !IsAll(q.Category) && acc.Category != nil && !strings.EqualFold(acc.Category(it), q.Category) {
			continue
		}
		if q.Year != 0 && acc.Year != nil && acc.Year(it) != q.Year {
			continue
		}
		if !IsAll(q.Status) && acc.Status != nil && !strings.EqualFold(acc.Status(it), q.Status) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func containsAny(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Sort orders items in place. Unknown keys fall back to newest first.
func Sort[T any](items []T, key string, lang string, acc Accessors[T]) {
	switch key {
	case SortOldest:
		if acc.Date != nil {
			sort.SliceStable(items, func(i, j int) bool {
				return acc.Date(items[i]).Before(acc.Date(items[j]))
			})
		}
	case SortPopular:
		if acc.Popularity != nil {
			sort.SliceStable(items, func(i, j int) bool {
				return acc.Popularity(items[i]) > acc.Popularity(items[j])
			})
		}
	case SortTitle:
		if acc.Title != nil {
			less := TitleLess(lang)
			sort.SliceStable(items, func(i, j int) bool {
				return less(acc.Title(items[i], lang), acc.Title(items[j], lang))
			})
		}
	default:
		if acc.Date != nil {
			sort.SliceStable(items, func(i, j int) bool {
				return acc.Date(items[i]).After(acc.Date(items[j]))
			})
		}
	}
}

// TitleLess compares strings using the collation rules of lang.
func TitleLess(lang string) func(a, b string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Korean
	}
	c := collate.New(tag)
	return func(a, b string) bool {
		return c.CompareString(a, b) < 0
	}
}

// Paginate slices one page out of items.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	q := Query{Page: page, PageSize: pageSize}.Normalize()
	total := int64(len(items))

	start := (q.Page - 1) * q.PageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return Page[T]{
		Data:       data,
		Total:      total,
		TotalPages: TotalPages(total, q.PageSize),
	}
}

// Apply runs filter, sort and pagination over a fully loaded list.
func Apply[T any](items []T, q Query, acc Accessors[T]) Page[T] {
	q = q.Normalize()
	filtered := Filter(items, q, acc)
	Sort(filtered, q.Sort, q.Lang, acc)
	return Paginate(filtered, q.Page, q.PageSize)
}
