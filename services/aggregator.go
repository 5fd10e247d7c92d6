package services

import (
	"sort"

	"github.com/dinesync/dinesync/models"
)

// CustomerSpending is one row of a per-customer bill breakdown.
type CustomerSpending struct {
	Customer   models.SessionCustomer `json:"customer"`
	OrderCount int                    `json:"order_count"`
	TotalSpent int64                  `json:"total_spent"`
	Orders     []models.Order         `json:"orders"`
}

// SumOrders totals order amounts in minor units. An empty slice sums to 0.
func SumOrders(orders []models.Order) int64 {
	var total int64
	for _, o := range orders {
		total += o.TotalAmount
	}
	return total
}

// PerCustomerBreakdown groups a session's orders by roster entry. Customers
// who ordered nothing still get a zero row. Rows are sorted by total spent
// descending, ties broken by join time ascending.
func PerCustomerBreakdown(orders []models.Order, customers []models.SessionCustomer) []CustomerSpending {
	byCustomer := make(map[string][]models.Order)
	for _, o := range orders {
		if o.CustomerID == nil {
			continue
		}
		byCustomer[*o.CustomerID] = append(byCustomer[*o.CustomerID], o)
	}

	rows := make([]CustomerSpending, 0, len(customers))
	for _, c := range customers {
		own := byCustomer[c.ID]
		rows = append(rows, CustomerSpending{
			Customer:   c,
			OrderCount: len(own),
			TotalSpent: SumOrders(own),
			Orders:     own,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalSpent != rows[j].TotalSpent {
			return rows[i].TotalSpent > rows[j].TotalSpent
		}
		return rows[i].Customer.JoinedAt.Before(rows[j].Customer.JoinedAt)
	})

	return rows
}
