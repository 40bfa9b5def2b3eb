// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package views

// DefaultPageSize is used when a request does not name a page size.
const DefaultPageSize = 10

// PageRequest selects one page of a list. Both fields are 1-based.
type PageRequest struct {
	Page     int `json:"page" validate:"gte=0"`
	PageSize int `json:"pageSize" validate:"omitempty,oneof=5 10 25 50"`
}

// Page is one slice of a filtered and sorted list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns items[(page-1)*size : page*size] along with the total
// number of items and ceil(total/size) pages. A page past the end yields no
// items; a page below 1 is treated as 1 and a non-positive size as
// DefaultPageSize.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(items)
	result := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	if page > result.TotalPages {
		return result
	}
	start := (page - 1) * size
	end := min(start+size, total)
	result.Items = append(result.Items, items[start:end]...)
	return result
}
