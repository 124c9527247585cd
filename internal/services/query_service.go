package services

import (
	"sort"
	"strings"

	"syndicate_armory/internal/models"
	"syndicate_armory/internal/repository"
)

// DefaultPageSize matches the admin order-history page.
const DefaultPageSize = 6

type SortDirection string

const (
	SortDesc SortDirection = "desc"
	SortAsc  SortDirection = "asc"
)

type QueryParams struct {
	Search   string
	Status   models.OrderStatus // empty means all statuses
	Sort     SortDirection
	Page     int
	PageSize int
}

type QueryResult struct {
	Orders     []models.Order `json:"orders"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	TotalCount int            `json:"totalCount"`
}

type OrderStats struct {
	TotalOrders int                        `json:"totalOrders"`
	ByStatus    map[models.OrderStatus]int `json:"byStatus"`
	PaidRevenue int64                      `json:"paidRevenue"`
}

// QueryService is the pure read side over a repository snapshot. It never
// mutates anything.
type QueryService interface {
	ListOrders(params QueryParams) (*QueryResult, error)
	FilteredOrders(params QueryParams) ([]models.Order, error)
	OrdersAhead(trackingID string) (int, error)
	Stats() (*OrderStats, error)
}

type queryService struct {
	repo repository.OrderRepository
}

func NewQueryService(repo repository.OrderRepository) QueryService {
	return &queryService{repo: repo}
}

// ListOrders composes the query in a fixed order — filter, search, sort,
// paginate — so results are deterministic for any caller.
func (s *queryService) ListOrders(params QueryParams) (*QueryResult, error) {
	orders, err := s.FilteredOrders(params)
	if err != nil {
		return nil, err
	}
	return paginate(orders, params.Page, params.PageSize), nil
}

// FilteredOrders returns the filtered, searched and sorted set without
// pagination. The CSV export uses it directly.
func (s *queryService) FilteredOrders(params QueryParams) ([]models.Order, error) {
	orders, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	orders = filterByStatus(orders, params.Status)
	orders = searchOrders(orders, params.Search)
	sortByCreatedAt(orders, params.Sort)
	return orders, nil
}

// OrdersAhead counts the non-terminal orders placed before the given one.
// A terminal order has no queue position.
func (s *queryService) OrdersAhead(trackingID string) (int, error) {
	subject, err := s.repo.GetByTrackingID(trackingID)
	if err != nil {
		return 0, translateRepoError(err)
	}
	if subject.Status.IsTerminal() {
		return 0, nil
	}

	orders, err := s.repo.GetAll()
	if err != nil {
		return 0, err
	}

	ahead := 0
	for _, o := range orders {
		if o.ID == subject.ID || o.Status.IsTerminal() {
			continue
		}
		if o.CreatedAt.Before(subject.CreatedAt) ||
			(o.CreatedAt.Equal(subject.CreatedAt) && o.Seq < subject.Seq) {
			ahead++
		}
	}
	return ahead, nil
}

func (s *queryService) Stats() (*OrderStats, error) {
	orders, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{
		TotalOrders: len(orders),
		ByStatus:    make(map[models.OrderStatus]int),
	}
	for _, o := range orders {
		stats.ByStatus[o.Status]++
		if o.IsPaid {
			stats.PaidRevenue += o.TotalPrice
		}
	}
	return stats, nil
}

func filterByStatus(orders []models.Order, status models.OrderStatus) []models.Order {
	if status == "" {
		return orders
	}
	out := orders[:0]
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func searchOrders(orders []models.Order, term string) []models.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orders
	}
	out := orders[:0]
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.BuyerName), term) ||
			strings.Contains(strings.ToLower(o.TrackingID), term) ||
			strings.Contains(strings.ToLower(o.ID), term) {
			out = append(out, o)
		}
	}
	return out
}

// sortByCreatedAt is stable: equal timestamps keep insertion order in both
// directions.
func sortByCreatedAt(orders []models.Order, dir SortDirection) {
	if dir != SortAsc {
		dir = SortDesc
	}
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.Seq < b.Seq
		}
		if dir == SortAsc {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func paginate(orders []models.Order, page, pageSize int) *QueryResult {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(orders)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		// Past-the-end pages are empty, not an error.
		return &QueryResult{Orders: []models.Order{}, Page: page, TotalPages: totalPages, TotalCount: total}
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	pageSlice := make([]models.Order, end-start)
	copy(pageSlice, orders[start:end])
	return &QueryResult{Orders: pageSlice, Page: page, TotalPages: totalPages, TotalCount: total}
}
