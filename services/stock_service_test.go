package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"cautela-app/models"
	"cautela-app/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAcquisition(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Radio HT", 0, 0)

	rec, err := stock.RecordAcquisition(testActor, material.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, models.MovementAcquisition, rec.Type)
	assert.Equal(t, models.StatusInStock, rec.Status)
	assert.Equal(t, 10, rec.Quantity)
	assert.Equal(t, testActor.Name, rec.InitiatorName)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 10, got.TotalQuantity)
	assert.Equal(t, 10, got.AvailableQuantity)
}

func TestRecordAcquisitionValidation(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Radio HT", 0, 0)

	tests := []struct {
		name string
		run  func() error
	}{
		{"zero quantity", func() error {
			_, err := stock.RecordAcquisition(testActor, material.ID, 0)
			return err
		}},
		{"negative quantity", func() error {
			_, err := stock.RecordAcquisition(testActor, material.ID, -3)
			return err
		}},
		{"missing material id", func() error {
			_, err := stock.RecordAcquisition(testActor, 0, 5)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var validation *ValidationError
			assert.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
		})
	}

	_, err := stock.RecordAcquisition(testActor, 999, 5)
	assert.ErrorIs(t, err, ErrMaterialNotFound)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 0, got.TotalQuantity)
	assert.Equal(t, 0, got.AvailableQuantity)
}

func TestCheckoutSignReturnScenario(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	custody := NewCustodyService(db)
	material := seedMaterial(t, db, "Rifle 7.62", 10, 10)
	person := seedPerson(t, db, "Pvt.", "Alves")

	rec, err := stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID:      material.ID,
		Quantity:        3,
		CustodyTargetID: person.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCustodied, rec.Status)
	assert.False(t, rec.Signed)
	assert.Equal(t, "Pvt. Alves", rec.CustodyTargetName)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 7, got.AvailableQuantity)
	assert.Equal(t, 10, got.TotalQuantity)

	// Case variation is not a signature
	err = custody.SignCheckout(rec.ID, "aceito")
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))

	var movement models.MovementRecord
	require.NoError(t, db.First(&movement, "id = ?", rec.ID).Error)
	assert.False(t, movement.Signed)

	require.NoError(t, custody.SignCheckout(rec.ID, "Aceito"))
	require.NoError(t, db.First(&movement, "id = ?", rec.ID).Error)
	assert.True(t, movement.Signed)

	ack, err := stock.RecordReturn(testActor, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AckPending, ack.Status)
	assert.Equal(t, 3, ack.Quantity)

	got = reloadMaterial(t, db, material.ID)
	assert.Equal(t, 10, got.AvailableQuantity)

	require.NoError(t, db.First(&movement, "id = ?", rec.ID).Error)
	assert.True(t, movement.Returned)

	// Second return is rejected with no state change
	_, err = stock.RecordReturn(testActor, rec.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)

	got = reloadMaterial(t, db, material.ID)
	assert.Equal(t, 10, got.AvailableQuantity)
}

func TestRecordCheckoutInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Binoculars", 2, 2)
	person := seedPerson(t, db, "Pvt.", "Alves")

	_, err := stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID:      material.ID,
		Quantity:        3,
		CustodyTargetID: person.ID,
	})

	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 2, got.AvailableQuantity)

	var count int64
	require.NoError(t, db.Model(&models.MovementRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReturnNonCheckoutRejected(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Compass", 0, 0)

	rec, err := stock.RecordAcquisition(testActor, material.ID, 5)
	require.NoError(t, err)

	_, err = stock.RecordReturn(testActor, rec.ID)
	assert.ErrorIs(t, err, ErrNotCheckout)
}

func TestBatchCheckoutAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	materialA := seedMaterial(t, db, "Material A", 2, 2)
	materialB := seedMaterial(t, db, "Material B", 5, 5)
	person := seedPerson(t, db, "Pvt.", "Alves")

	_, err := stock.RecordBatchCheckout(testActor, []CheckoutItem{
		{MaterialID: materialA.ID, Quantity: 3, CustodyTargetID: person.ID},
		{MaterialID: materialB.ID, Quantity: 1, CustodyTargetID: person.ID},
	})

	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, materialA.ID, insufficient.MaterialID)

	// B is untouched even though its own item would have passed
	assert.Equal(t, 5, reloadMaterial(t, db, materialB.ID).AvailableQuantity)
	assert.Equal(t, 2, reloadMaterial(t, db, materialA.ID).AvailableQuantity)

	var count int64
	require.NoError(t, db.Model(&models.MovementRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestBatchCheckoutDuplicateItem(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Material A", 10, 10)
	person := seedPerson(t, db, "Pvt.", "Alves")

	_, err := stock.RecordBatchCheckout(testActor, []CheckoutItem{
		{MaterialID: material.ID, Quantity: 1, CustodyTargetID: person.ID},
		{MaterialID: material.ID, Quantity: 2, CustodyTargetID: person.ID},
	})

	var duplicate *DuplicateItemError
	require.True(t, errors.As(err, &duplicate))
	assert.Equal(t, material.ID, duplicate.MaterialID)
	assert.Equal(t, 10, reloadMaterial(t, db, material.ID).AvailableQuantity)
}

func TestBatchCheckoutCommitsSequentially(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	materialA := seedMaterial(t, db, "Material A", 4, 4)
	materialB := seedMaterial(t, db, "Material B", 6, 6)
	person := seedPerson(t, db, "Pvt.", "Alves")
	vehicle := seedVehicle(t, db, "Truck 01")

	records, err := stock.RecordBatchCheckout(testActor, []CheckoutItem{
		{MaterialID: materialA.ID, Quantity: 2, CustodyTargetID: person.ID},
		{MaterialID: materialB.ID, Quantity: 3, CustodyTargetID: person.ID, VehicleID: vehicle.ID},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2, reloadMaterial(t, db, materialA.ID).AvailableQuantity)
	assert.Equal(t, 3, reloadMaterial(t, db, materialB.ID).AvailableQuantity)
	assert.Equal(t, "Truck 01", records[1].VehicleDescription)
}

func TestRecordDisposal(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Old Tent", 6, 4)

	rec, err := stock.RecordDisposal(testActor, material.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisposed, rec.Status)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 3, got.TotalQuantity)
	assert.Equal(t, 1, got.AvailableQuantity)

	_, err = stock.RecordDisposal(testActor, material.ID, 2)
	var insufficient *InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))
}

func TestRecordRepairHoldValidation(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Generator", 4, 4)

	_, err := stock.RecordRepairHold(testActor, material.ID, 2, "", "SEI-1", "")
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 4, got.AvailableQuantity)
	assert.Equal(t, models.OperabilityOperational, got.OperabilityStatus)

	var count int64
	require.NoError(t, db.Model(&models.MovementRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRepairHoldAndComplete(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Generator", 4, 4)

	rec, err := stock.RecordRepairHold(testActor, material.ID, 2, "Maintenance Bay", "SEI-1", "broken starter")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInRepair, rec.Status)

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 2, got.AvailableQuantity)
	assert.Equal(t, 4, got.TotalQuantity)
	assert.Equal(t, models.OperabilityInMaintenance, got.OperabilityStatus)

	require.NoError(t, stock.CompleteRepair(testActor, rec.ID))

	got = reloadMaterial(t, db, material.ID)
	assert.Equal(t, 4, got.AvailableQuantity)
	assert.Equal(t, models.OperabilityOperational, got.OperabilityStatus)

	err = stock.CompleteRepair(testActor, rec.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
}

// Every service instance must serialize on the same per-material
// mutex; a lock held through one instance blocks the others.
func TestMaterialLocksSharedAcrossServiceInstances(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	allocations := NewAllocationService(db)

	const materialID = types.SnowflakeID(42)
	unlock := stock.locks.lock(materialID)

	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		release := allocations.locks.lock(materialID)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second instance acquired the lock while the first held it")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not handed to the waiting instance")
	}
}

func TestConcurrentCheckoutsSerializePerMaterial(t *testing.T) {
	db := setupTestDB(t)
	material := seedMaterial(t, db, "Night Vision", 3, 3)
	person := seedPerson(t, db, "Pvt.", "Alves")

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewStockService(db).RecordCheckout(testActor, CheckoutItem{
				MaterialID:      material.ID,
				Quantity:        2,
				CustodyTargetID: person.ID,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)

	// The loser saw the stock left by the winner, not the initial 3
	var insufficient *InsufficientStockError
	require.True(t, errors.As(failures[0], &insufficient))
	assert.Equal(t, 1, insufficient.Available)

	assert.Equal(t, 1, reloadMaterial(t, db, material.ID).AvailableQuantity)

	var count int64
	require.NoError(t, db.Model(&models.MovementRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// Quantities stay within 0..total through a mixed sequential history.
func TestQuantityInvariantSequentialHistory(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	material := seedMaterial(t, db, "Field Kit", 0, 0)
	person := seedPerson(t, db, "Pvt.", "Alves")

	check := func() {
		got := reloadMaterial(t, db, material.ID)
		assert.GreaterOrEqual(t, got.AvailableQuantity, 0)
		assert.LessOrEqual(t, got.AvailableQuantity, got.TotalQuantity)
	}

	_, err := stock.RecordAcquisition(testActor, material.ID, 8)
	require.NoError(t, err)
	check()

	rec, err := stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID: material.ID, Quantity: 5, CustodyTargetID: person.ID,
	})
	require.NoError(t, err)
	check()

	_, err = stock.RecordDisposal(testActor, material.ID, 2)
	require.NoError(t, err)
	check()

	_, err = stock.RecordReturn(testActor, rec.ID)
	require.NoError(t, err)
	check()

	got := reloadMaterial(t, db, material.ID)
	assert.Equal(t, 6, got.TotalQuantity)
	assert.Equal(t, 6, got.AvailableQuantity)
}
