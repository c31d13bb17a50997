package services

import (
	"errors"
	"testing"

	"cautela-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignCheckoutPhraseMatching(t *testing.T) {
	tests := []struct {
		name         string
		confirmation string
		wantSigned   bool
	}{
		{"exact phrase", "Aceito", true},
		{"lowercase", "aceito", false},
		{"uppercase", "ACEITO", false},
		{"leading space", " Aceito", false},
		{"trailing space", "Aceito ", false},
		{"empty", "", false},
		{"other text", "de acordo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			stock := NewStockService(db)
			custody := NewCustodyService(db)
			material := seedMaterial(t, db, "Pistol", 5, 5)
			person := seedPerson(t, db, "Pvt.", "Alves")

			rec, err := stock.RecordCheckout(testActor, CheckoutItem{
				MaterialID:      material.ID,
				Quantity:        1,
				CustodyTargetID: person.ID,
			})
			require.NoError(t, err)

			err = custody.SignCheckout(rec.ID, tt.confirmation)
			if tt.wantSigned {
				require.NoError(t, err)
			} else {
				var validation *ValidationError
				require.True(t, errors.As(err, &validation))
			}

			var movement models.MovementRecord
			require.NoError(t, db.First(&movement, "id = ?", rec.ID).Error)
			assert.Equal(t, tt.wantSigned, movement.Signed)
		})
	}
}

func TestSignCheckoutOnce(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	custody := NewCustodyService(db)
	material := seedMaterial(t, db, "Pistol", 5, 5)
	person := seedPerson(t, db, "Pvt.", "Alves")

	rec, err := stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID:      material.ID,
		Quantity:        1,
		CustodyTargetID: person.ID,
	})
	require.NoError(t, err)

	require.NoError(t, custody.SignCheckout(rec.ID, models.CheckoutConfirmationPhrase))
	err = custody.SignCheckout(rec.ID, models.CheckoutConfirmationPhrase)
	assert.ErrorIs(t, err, ErrAlreadySigned)
}

func TestSignCheckoutWrongTargets(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	custody := NewCustodyService(db)
	material := seedMaterial(t, db, "Pistol", 0, 0)

	err := custody.SignCheckout(999, models.CheckoutConfirmationPhrase)
	assert.ErrorIs(t, err, ErrMovementNotFound)

	rec, err := stock.RecordAcquisition(testActor, material.ID, 5)
	require.NoError(t, err)

	err = custody.SignCheckout(rec.ID, models.CheckoutConfirmationPhrase)
	assert.ErrorIs(t, err, ErrNotCheckout)
}

func TestAcknowledgeReturnOnce(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	custody := NewCustodyService(db)
	material := seedMaterial(t, db, "Rifle 7.62", 10, 10)
	person := seedPerson(t, db, "Pvt.", "Alves")

	rec, err := stock.RecordCheckout(testActor, CheckoutItem{
		MaterialID:      material.ID,
		Quantity:        2,
		CustodyTargetID: person.ID,
	})
	require.NoError(t, err)

	ack, err := stock.RecordReturn(testActor, rec.ID)
	require.NoError(t, err)

	pending, err := custody.PendingAcknowledgments()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ack.ID, pending[0].ID)

	require.NoError(t, custody.AcknowledgeReturn(ack.ID))

	err = custody.AcknowledgeReturn(ack.ID)
	assert.ErrorIs(t, err, ErrAlreadyAcknowledged)

	pending, err = custody.PendingAcknowledgments()
	require.NoError(t, err)
	assert.Empty(t, pending)

	var got models.ReturnAcknowledgment
	require.NoError(t, db.First(&got, "id = ?", ack.ID).Error)
	assert.Equal(t, models.AckAcknowledged, got.Status)
	require.NotNil(t, got.AcknowledgedAt)
}

func TestAcknowledgeReturnNotFound(t *testing.T) {
	db := setupTestDB(t)
	custody := NewCustodyService(db)

	err := custody.AcknowledgeReturn(999)
	assert.ErrorIs(t, err, ErrAcknowledgmentNotFound)
}
