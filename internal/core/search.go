package core

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// maxPage bounds page numbers so the offset cannot overflow.
const maxPage = math.MaxInt32 / PageSize

// TotalPages returns ceil(total / size).
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Search returns one page of records whose prefix fields start with
// keyword, ordered by record_date (newest first), label and type. The
// wildcard matches everything. An empty keyword returns an empty result
// without querying. Pages below 1 are treated as page 1.
func (s *Service) Search(ctx context.Context, keyword string, page int) (SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	result := SearchResult{
		Query:    keyword,
		Records:  []Record{},
		Page:     page,
		PageSize: PageSize,
	}
	if keyword == "" {
		return result, nil
	}

	p, err := s.store.Query(ctx, Query{
		Filter: KeywordFilter(keyword),
		Order:  OrderRecent,
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
		Count:  true,
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("search %q: %w", keyword, err)
	}

	if p.Records != nil {
		result.Records = p.Records
	}
	result.Total = p.Total
	result.TotalPages = TotalPages(p.Total, PageSize)
	return result, nil
}

// AdvancedSearch filters by range and prefix parameters, ordered by label,
// type and brand. With no usable parameter nothing is queried and
// Performed is false.
func (s *Service) AdvancedSearch(ctx context.Context, params map[string]string) (AdvancedResult, error) {
	filter, performed, err := BuildFilter(params)
	if err != nil {
		return AdvancedResult{}, err
	}

	result := AdvancedResult{Records: []Record{}, Performed: performed}
	if !performed {
		return result, nil
	}

	p, err := s.store.Query(ctx, Query{Filter: filter, Order: OrderCatalog})
	if err != nil {
		return AdvancedResult{}, fmt.Errorf("advanced search: %w", err)
	}
	if p.Records != nil {
		result.Records = p.Records
	}
	return result, nil
}
