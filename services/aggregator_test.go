package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dinesync/dinesync/models"
)

func TestSumOrders(t *testing.T) {
	assert.Equal(t, int64(0), SumOrders(nil))
	assert.Equal(t, int64(0), SumOrders([]models.Order{}))

	orders := []models.Order{
		{TotalAmount: 1500},
		{TotalAmount: 2750},
		{TotalAmount: 0},
	}
	assert.Equal(t, int64(4250), SumOrders(orders))
}

func TestPerCustomerBreakdown(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	alice := models.SessionCustomer{ID: "c-alice", Name: "Alice", JoinedAt: base}
	bob := models.SessionCustomer{ID: "c-bob", Name: "Bob", JoinedAt: base.Add(time.Minute)}
	carol := models.SessionCustomer{ID: "c-carol", Name: "Carol", JoinedAt: base.Add(2 * time.Minute)}

	aliceID, bobID := alice.ID, bob.ID
	orders := []models.Order{
		{ID: 1, CustomerID: &aliceID, TotalAmount: 1200},
		{ID: 2, CustomerID: &bobID, TotalAmount: 3000},
		{ID: 3, CustomerID: &aliceID, TotalAmount: 800},
	}

	rows := PerCustomerBreakdown(orders, []models.SessionCustomer{alice, bob, carol})
	assert.Len(t, rows, 3)

	// sorted by total spent descending
	assert.Equal(t, "Bob", rows[0].Customer.Name)
	assert.Equal(t, int64(3000), rows[0].TotalSpent)
	assert.Equal(t, 1, rows[0].OrderCount)

	assert.Equal(t, "Alice", rows[1].Customer.Name)
	assert.Equal(t, int64(2000), rows[1].TotalSpent)
	assert.Equal(t, 2, rows[1].OrderCount)

	// customers with no orders still get a zero row
	assert.Equal(t, "Carol", rows[2].Customer.Name)
	assert.Equal(t, int64(0), rows[2].TotalSpent)
	assert.Equal(t, 0, rows[2].OrderCount)
	assert.Empty(t, rows[2].Orders)
}

func TestPerCustomerBreakdownTieBreak(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	early := models.SessionCustomer{ID: "c-early", Name: "Early", JoinedAt: base}
	late := models.SessionCustomer{ID: "c-late", Name: "Late", JoinedAt: base.Add(time.Hour)}

	earlyID, lateID := early.ID, late.ID
	orders := []models.Order{
		{ID: 1, CustomerID: &lateID, TotalAmount: 500},
		{ID: 2, CustomerID: &earlyID, TotalAmount: 500},
	}

	// equal spend: whoever joined first comes first
	rows := PerCustomerBreakdown(orders, []models.SessionCustomer{late, early})
	assert.Equal(t, "Early", rows[0].Customer.Name)
	assert.Equal(t, "Late", rows[1].Customer.Name)
}

func TestPerCustomerBreakdownIgnoresUntaggedOrders(t *testing.T) {
	alice := models.SessionCustomer{ID: "c-alice", Name: "Alice", JoinedAt: time.Now()}

	orders := []models.Order{
		{ID: 1, CustomerID: nil, TotalAmount: 9000},
	}

	rows := PerCustomerBreakdown(orders, []models.SessionCustomer{alice})
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].TotalSpent)
}
