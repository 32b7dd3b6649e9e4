package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/abtest-tracker/internal/errors"
	"github.com/unclebandit/abtest-tracker/internal/model"
)

type StatusHistoryRepositoryInterface interface {
	Record(testID string, oldStatus, newStatus model.InternalStatus, changedBy *string) error
	ListByTest(testID string) ([]model.StatusHistoryEntry, error)
}

type StatusHistoryRepository struct {
	DB *sql.DB
}

// Record appends one status transition. History is append-only; failures
// here are logged by callers, never rolled into the metadata write.
func (r *StatusHistoryRepository) Record(testID string, oldStatus, newStatus model.InternalStatus, changedBy *string) error {
	query := `
        INSERT INTO status_history (id, test_id, old_status, new_status, changed_at, changed_by)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.DB.Exec(query, uuid.NewString(), testID, oldStatus, newStatus, time.Now().UTC(), changedBy)
	if err != nil {
		return appErrors.NewStoreError("insert history", err)
	}
	return nil
}

func (r *StatusHistoryRepository) ListByTest(testID string) ([]model.StatusHistoryEntry, error) {
	query := `
        SELECT id, test_id, old_status, new_status, changed_at, changed_by
        FROM status_history
        WHERE test_id=$1
        ORDER BY changed_at DESC
    `
	rows, err := r.DB.Query(query, testID)
	if err != nil {
		return nil, appErrors.NewStoreError("select history", err)
	}
	defer rows.Close()

	entries := []model.StatusHistoryEntry{}
	for rows.Next() {
		var e model.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.TestID, &e.OldStatus, &e.NewStatus, &e.ChangedAt, &e.ChangedBy); err != nil {
			return nil, appErrors.NewStoreError("scan history", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

var _ StatusHistoryRepositoryInterface = (*StatusHistoryRepository)(nil)
