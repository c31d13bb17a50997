package services

import (
	"errors"
	"sync"
	"testing"

	"cautela-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateDeallocateRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	allocations := NewAllocationService(db)
	material := seedMaterial(t, db, "Stretcher", 4, 4)
	vehicle := seedVehicle(t, db, "Ambulance 01")

	rec, err := allocations.Allocate(testActor, vehicle.ID, material.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationActive, rec.Status)
	assert.Equal(t, 4, rec.Quantity)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 0, got.AvailableQuantity)
	assert.Equal(t, 4, got.VehicleQuantity)
	assert.Equal(t, 4, got.TotalQuantity)

	active, err := allocations.ActiveAllocations(vehicle.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, allocations.Deallocate(testActor, rec.ID, "mission over"))

	got = reloadMaterial(t, db, material.ID)
	assert.Equal(t, 4, got.AvailableQuantity)
	assert.Equal(t, 0, got.VehicleQuantity)

	active, err = allocations.ActiveAllocations(vehicle.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	var closed models.AllocationRecord
	require.NoError(t, db.First(&closed, "id = ?", rec.ID).Error)
	assert.Equal(t, models.AllocationDeallocated, closed.Status)
	assert.Equal(t, "mission over", closed.Reason)
	require.NotNil(t, closed.DeallocatedAt)
}

func TestAllocateMergesActiveRecord(t *testing.T) {
	db := setupTestDB(t)
	allocations := NewAllocationService(db)
	material := seedMaterial(t, db, "Fuel Can", 10, 10)
	vehicle := seedVehicle(t, db, "Truck 02")

	first, err := allocations.Allocate(testActor, vehicle.ID, material.ID, 3)
	require.NoError(t, err)

	second, err := allocations.Allocate(testActor, vehicle.ID, material.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.AllocationRecord{}).
		Where("vehicle_id = ? AND material_id = ? AND status = ?",
			vehicle.ID, material.ID, models.AllocationActive).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 5, got.AvailableQuantity)
	assert.Equal(t, 5, got.VehicleQuantity)
}

// Concurrent allocates through separate service instances must still
// merge into one active record per (vehicle, material).
func TestConcurrentAllocatesKeepSingleActiveRecord(t *testing.T) {
	db := setupTestDB(t)
	material := seedMaterial(t, db, "Jerry Can", 10, 10)
	vehicle := seedVehicle(t, db, "Truck 09")

	errs := make(chan error, 5)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewAllocationService(db).Allocate(testActor, vehicle.ID, material.ID, 2)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var records []models.AllocationRecord
	require.NoError(t, db.
		Where("vehicle_id = ? AND material_id = ?", vehicle.ID, material.ID).
		Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, models.AllocationActive, records[0].Status)
	assert.Equal(t, 10, records[0].Quantity)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 0, got.AvailableQuantity)
	assert.Equal(t, 10, got.VehicleQuantity)
}

func TestAllocateInsufficientStockLeavesRecord(t *testing.T) {
	db := setupTestDB(t)
	allocations := NewAllocationService(db)
	material := seedMaterial(t, db, "Fuel Can", 4, 4)
	vehicle := seedVehicle(t, db, "Truck 02")

	rec, err := allocations.Allocate(testActor, vehicle.ID, material.ID, 4)
	require.NoError(t, err)

	_, err = allocations.Allocate(testActor, vehicle.ID, material.ID, 2)
	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))

	// The existing record keeps its quantity
	var got models.AllocationRecord
	require.NoError(t, db.First(&got, "id = ?", rec.ID).Error)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, models.AllocationActive, got.Status)
}

func TestAllocateValidation(t *testing.T) {
	db := setupTestDB(t)
	allocations := NewAllocationService(db)
	material := seedMaterial(t, db, "Fuel Can", 4, 4)
	vehicle := seedVehicle(t, db, "Truck 02")

	var validation *ValidationError

	_, err := allocations.Allocate(testActor, 0, material.ID, 1)
	assert.True(t, errors.As(err, &validation))

	_, err = allocations.Allocate(testActor, vehicle.ID, 0, 1)
	assert.True(t, errors.As(err, &validation))

	_, err = allocations.Allocate(testActor, vehicle.ID, material.ID, 0)
	assert.True(t, errors.As(err, &validation))

	_, err = allocations.Allocate(testActor, vehicle.ID, 999, 1)
	assert.ErrorIs(t, err, ErrMaterialNotFound)

	_, err = allocations.Allocate(testActor, 999, material.ID, 1)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	assert.Equal(t, 4, reloadMaterial(t, db, material.ID).AvailableQuantity)
}

func TestDeallocateTwice(t *testing.T) {
	db := setupTestDB(t)
	allocations := NewAllocationService(db)
	material := seedMaterial(t, db, "Tow Rope", 2, 2)
	vehicle := seedVehicle(t, db, "Truck 03")

	rec, err := allocations.Allocate(testActor, vehicle.ID, material.ID, 2)
	require.NoError(t, err)

	require.NoError(t, allocations.Deallocate(testActor, rec.ID, ""))

	err = allocations.Deallocate(testActor, rec.ID, "")
	assert.ErrorIs(t, err, ErrAllocationNotActive)

	// Double release must not inflate stock
	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 2, got.AvailableQuantity)
	assert.Equal(t, 0, got.VehicleQuantity)

	err = allocations.Deallocate(testActor, 999, "")
	assert.ErrorIs(t, err, ErrAllocationNotFound)
}

func TestHasActiveAllocations(t *testing.T) {
	db := setupTestDB(t)
	allocations := NewAllocationService(db)
	material := seedMaterial(t, db, "Shovel", 3, 3)
	vehicle := seedVehicle(t, db, "Truck 04")

	has, err := allocations.HasActiveAllocations(vehicle.ID)
	require.NoError(t, err)
	assert.False(t, has)

	rec, err := allocations.Allocate(testActor, vehicle.ID, material.ID, 1)
	require.NoError(t, err)

	has, err = allocations.HasActiveAllocations(vehicle.ID)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, allocations.Deallocate(testActor, rec.ID, ""))

	has, err = allocations.HasActiveAllocations(vehicle.ID)
	require.NoError(t, err)
	assert.False(t, has)
}
