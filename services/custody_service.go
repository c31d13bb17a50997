package services

import (
	"errors"

	"cautela-app/metrics"
	"cautela-app/models"
	"cautela-app/repositories"
	"cautela-app/types"

	"gorm.io/gorm"
)

// CustodyService runs the acknowledgment workflow layered on checkouts
// and returns. It never mutates stock: the warehouse count was already
// settled at checkout/return time, paperwork only catches up here.
type CustodyService struct {
	DB *gorm.DB
}

func NewCustodyService(db *gorm.DB) *CustodyService {
	return &CustodyService{DB: db}
}

// Confirm reports whether the entered text matches the expected literal
// exactly, case included.
func Confirm(expected, entered string) bool {
	return entered == expected
}

// SignCheckout transitions a checkout movement Pending→Signed. The
// custody target must enter the confirmation phrase exactly; any other
// text is rejected and the movement stays unsigned.
func (s *CustodyService) SignCheckout(movementID types.SnowflakeID, confirmation string) error {
	movement, err := repositories.NewMovementRepository(s.DB).GetByID(movementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovementNotFound
		}
		return &PersistenceError{Op: "load movement", Err: err}
	}
	if movement.Type != models.MovementCheckout {
		return ErrNotCheckout
	}
	if movement.Signed {
		return ErrAlreadySigned
	}
	if !Confirm(models.CheckoutConfirmationPhrase, confirmation) {
		return reject("validation", &ValidationError{
			Field:  "confirmation",
			Reason: "confirmation phrase does not match",
		})
	}

	ok, err := repositories.NewMovementRepository(s.DB).MarkSigned(movement.ID)
	if err != nil {
		return &PersistenceError{Op: "mark signed", Err: err}
	}
	if !ok {
		return ErrAlreadySigned
	}

	metrics.SignaturesTotal.Inc()
	return nil
}

// AcknowledgeReturn transitions a return acknowledgment
// Pending→Acknowledged, once.
func (s *CustodyService) AcknowledgeReturn(ackID types.SnowflakeID) error {
	acks := repositories.NewAcknowledgmentRepository(s.DB)
	if _, err := acks.GetByID(ackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcknowledgmentNotFound
		}
		return &PersistenceError{Op: "load acknowledgment", Err: err}
	}

	ok, err := acks.MarkAcknowledged(ackID)
	if err != nil {
		return &PersistenceError{Op: "mark acknowledged", Err: err}
	}
	if !ok {
		return ErrAlreadyAcknowledged
	}
	return nil
}

// PendingAcknowledgments lists returns still waiting to be reconciled.
func (s *CustodyService) PendingAcknowledgments() ([]models.ReturnAcknowledgment, error) {
	acks, err := repositories.NewAcknowledgmentRepository(s.DB).Pending()
	if err != nil {
		return nil, &PersistenceError{Op: "list acknowledgments", Err: err}
	}
	return acks, nil
}
