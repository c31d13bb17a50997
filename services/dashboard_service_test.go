package services

import (
	"testing"

	"cautela-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummaryEmpty(t *testing.T) {
	db := setupTestDB(t)
	dashboard := NewDashboardService(db)

	summary, err := dashboard.Summary()
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.Materials)
	assert.Equal(t, int64(0), summary.OpenCheckouts)
	assert.Equal(t, int64(0), summary.PendingSignatures)
	assert.Equal(t, int64(0), summary.PendingReturns)
	assert.Equal(t, int64(0), summary.ActiveAllocations)
	assert.Equal(t, int64(0), summary.OpenRepairs)
	assert.Equal(t, 0, summary.MovementsToday)
	assert.Empty(t, summary.RecentMovements)
}

func TestDashboardSummaryCounts(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	custody := NewCustodyService(db)
	allocations := NewAllocationService(db)
	dashboard := NewDashboardService(db)

	rifle := seedMaterial(t, db, "Rifle 7.62", 0, 0)
	radio := seedMaterial(t, db, "Radio HT", 0, 0)
	person := seedPerson(t, db, "Pvt.", "Alves")
	vehicle := seedVehicle(t, db, "Truck 01")

	_, err := stock.RecordAcquisition(testActor, rifle.ID, 10)
	require.NoError(t, err)
	_, err = stock.RecordAcquisition(testActor, radio.ID, 6)
	require.NoError(t, err)

	// Two open checkouts, one of them signed
	signed, err := stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID: rifle.ID, Quantity: 2, CustodyTargetID: person.ID,
	})
	require.NoError(t, err)
	require.NoError(t, custody.SignCheckout(signed.ID, models.CheckoutConfirmationPhrase))

	_, err = stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID: radio.ID, Quantity: 1, CustodyTargetID: person.ID,
	})
	require.NoError(t, err)

	// One returned checkout awaiting acknowledgment
	returned, err := stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID: radio.ID, Quantity: 1, CustodyTargetID: person.ID,
	})
	require.NoError(t, err)
	_, err = stock.RecordReturn(testActor, returned.ID)
	require.NoError(t, err)

	// One open repair, one active allocation
	_, err = stock.RecordRepairHold(testActor, radio.ID, 1, "Radio Shop", "SEI-7", "dead battery")
	require.NoError(t, err)
	_, err = allocations.Allocate(testActor, vehicle.ID, rifle.ID, 3)
	require.NoError(t, err)

	summary, err := dashboard.Summary()
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Materials)
	assert.Equal(t, int64(2), summary.OpenCheckouts)
	assert.Equal(t, int64(1), summary.PendingSignatures)
	assert.Equal(t, int64(1), summary.PendingReturns)
	assert.Equal(t, int64(1), summary.ActiveAllocations)
	assert.Equal(t, int64(1), summary.OpenRepairs)

	// Everything above happened just now
	assert.Equal(t, 6, summary.MovementsToday)
	assert.Len(t, summary.RecentMovements, 6)
}

func TestDashboardWindowBoundsRecentMovements(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	dashboard := NewDashboardService(db)
	dashboard.Window = 3

	material := seedMaterial(t, db, "Canteen", 0, 0)
	for i := 0; i < 5; i++ {
		_, err := stock.RecordAcquisition(testActor, material.ID, 1)
		require.NoError(t, err)
	}

	summary, err := dashboard.Summary()
	require.NoError(t, err)

	assert.Len(t, summary.RecentMovements, 3)
	assert.Equal(t, 3, summary.MovementsToday)
	assert.Equal(t, int64(1), summary.Materials)
}
