package services

import (
	"time"

	"cautela-app/models"
	"cautela-app/repositories"

	"gorm.io/gorm"
)

// DashboardSummary is a read-only fold over a bounded window of the
// ledger plus collection counts. Not a source of truth; recomputed per
// request and acceptably stale.
type DashboardSummary struct {
	Materials         int64                   `json:"materials"`
	OpenCheckouts     int64                   `json:"open_checkouts"`
	PendingSignatures int64                   `json:"pending_signatures"`
	PendingReturns    int64                   `json:"pending_returns"`
	ActiveAllocations int64                   `json:"active_allocations"`
	OpenRepairs       int64                   `json:"open_repairs"`
	MovementsToday    int                     `json:"movements_today"`
	RecentMovements   []models.MovementRecord `json:"recent_movements"`
}

type DashboardService struct {
	DB *gorm.DB
	// Window is the number of recent ledger entries folded over.
	Window int
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db, Window: 50}
}

// sameLocalDay compares two instants by local calendar day.
func sameLocalDay(a, b time.Time) bool {
	y1, m1, d1 := a.Local().Date()
	y2, m2, d2 := b.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (s *DashboardService) Summary() (*DashboardSummary, error) {
	movements := repositories.NewMovementRepository(s.DB)

	recent, err := movements.Recent(s.Window)
	if err != nil {
		return nil, &PersistenceError{Op: "load recent movements", Err: err}
	}

	summary := &DashboardSummary{RecentMovements: recent}

	now := time.Now()
	for _, rec := range recent {
		if sameLocalDay(rec.Date, now) {
			summary.MovementsToday++
		}
	}

	if summary.Materials, err = repositories.NewMaterialRepository(s.DB).Count(); err != nil {
		return nil, &PersistenceError{Op: "count materials", Err: err}
	}
	if summary.OpenCheckouts, err = movements.CountOpenCheckouts(); err != nil {
		return nil, &PersistenceError{Op: "count open checkouts", Err: err}
	}
	if summary.PendingSignatures, err = movements.CountPendingSignatures(); err != nil {
		return nil, &PersistenceError{Op: "count pending signatures", Err: err}
	}
	if summary.OpenRepairs, err = movements.CountOpenRepairs(); err != nil {
		return nil, &PersistenceError{Op: "count open repairs", Err: err}
	}
	if summary.PendingReturns, err = repositories.NewAcknowledgmentRepository(s.DB).CountPending(); err != nil {
		return nil, &PersistenceError{Op: "count pending returns", Err: err}
	}
	if summary.ActiveAllocations, err = repositories.NewAllocationRepository(s.DB).CountActive(); err != nil {
		return nil, &PersistenceError{Op: "count allocations", Err: err}
	}

	return summary, nil
}
