package repository

import (
    "database/sql"
    "time"

    "github.com/google/uuid"
    "github.com/lib/pq"

    appErrors "github.com/unclebandit/abtest-tracker/internal/errors"
    "github.com/unclebandit/abtest-tracker/internal/model"
)

type TestMetadataRepositoryInterface interface {
    ListAll() ([]*model.TestMetadata, error)
    GetByCampaignID(abtCampaignID string) (*model.TestMetadata, error)
    Upsert(row *model.TestMetadata) error
    UpsertBatch(rows []*model.TestMetadata) error
}

type TestMetadataRepository struct {
    DB *sql.DB
}

const testColumns = `id, abt_campaign_id, internal_status, name, type, start_date, end_date,
        target_start_date, hypothesis, comment, tags, assigned_to, created_at, updated_at`

func scanTestRow(scan func(dest ...interface{}) error) (*model.TestMetadata, error) {
    var t model.TestMetadata
    err := scan(
        &t.ID, &t.AbtCampaignID, &t.InternalStatus, &t.Name, &t.Type,
        &t.StartDate, &t.EndDate, &t.TargetStartDate, &t.Hypothesis, &t.Comment,
        pq.Array(&t.Tags), pq.Array(&t.AssignedTo), &t.CreatedAt, &t.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if t.Tags == nil {
        t.Tags = []string{}
    }
    if t.AssignedTo == nil {
        t.AssignedTo = []string{}
    }
    return &t, nil
}

// ListAll fetches every metadata row (used by the merge on the list path)
func (r *TestMetadataRepository) ListAll() ([]*model.TestMetadata, error) {
    rows, err := r.DB.Query(`SELECT ` + testColumns + ` FROM tests`)
    if err != nil {
        return nil, appErrors.NewStoreError("select", err)
    }
    defer rows.Close()

    tests := []*model.TestMetadata{}
    for rows.Next() {
        t, err := scanTestRow(rows.Scan)
        if err != nil {
            return nil, appErrors.NewStoreError("scan", err)
        }
        tests = append(tests, t)
    }
    if err := rows.Err(); err != nil {
        return nil, appErrors.NewStoreError("select", err)
    }
    return tests, nil
}

// GetByCampaignID returns the row for one campaign, or nil when absent
func (r *TestMetadataRepository) GetByCampaignID(abtCampaignID string) (*model.TestMetadata, error) {
    row := r.DB.QueryRow(`SELECT `+testColumns+` FROM tests WHERE abt_campaign_id=$1`, abtCampaignID)
    t, err := scanTestRow(row.Scan)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, appErrors.NewStoreError("select", err)
    }
    return t, nil
}

// Upsert inserts or replaces the row for row.AbtCampaignID. The conflict
// target is abt_campaign_id, so the same campaign never produces two rows;
// concurrent writers resolve last-write-wins.
func (r *TestMetadataRepository) Upsert(row *model.TestMetadata) error {
    if row.ID == "" {
        row.ID = uuid.NewString()
    }
    now := time.Now().UTC()
    if row.CreatedAt.IsZero() {
        row.CreatedAt = now
    }
    row.UpdatedAt = now

    query := `
        INSERT INTO tests (id, abt_campaign_id, internal_status, name, type, start_date, end_date,
            target_start_date, hypothesis, comment, tags, assigned_to, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (abt_campaign_id) DO UPDATE SET
            internal_status=EXCLUDED.internal_status,
            name=EXCLUDED.name,
            type=EXCLUDED.type,
            start_date=EXCLUDED.start_date,
            end_date=EXCLUDED.end_date,
            target_start_date=EXCLUDED.target_start_date,
            hypothesis=EXCLUDED.hypothesis,
            comment=EXCLUDED.comment,
            tags=EXCLUDED.tags,
            assigned_to=EXCLUDED.assigned_to,
            updated_at=EXCLUDED.updated_at
    `
    _, err := r.DB.Exec(query,
        row.ID, row.AbtCampaignID, row.InternalStatus, row.Name, row.Type,
        row.StartDate, row.EndDate, row.TargetStartDate, row.Hypothesis, row.Comment,
        pq.Array(row.Tags), pq.Array(row.AssignedTo), row.CreatedAt, row.UpdatedAt,
    )
    if err != nil {
        return appErrors.NewStoreError("upsert", err)
    }
    return nil
}

// UpsertBatch writes all rows in a single transaction. One failing row rolls
// back the whole batch, mirroring the sync job's all-or-nothing contract.
// Externally-sourced columns are written; the user-edited columns
// (hypothesis, comment, tags, assignees, target date) keep their stored
// values, and internal_status is only overwritten when the row says so.
func (r *TestMetadataRepository) UpsertBatch(rows []*model.TestMetadata) error {
    if len(rows) == 0 {
        return nil
    }

    tx, err := r.DB.Begin()
    if err != nil {
        return appErrors.NewStoreError("begin", err)
    }
    defer tx.Rollback()

    query := `
        INSERT INTO tests (id, abt_campaign_id, internal_status, name, type, start_date, end_date,
            tags, assigned_to, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (abt_campaign_id) DO UPDATE SET
            internal_status=COALESCE(NULLIF($12, ''), tests.internal_status),
            name=EXCLUDED.name,
            type=EXCLUDED.type,
            start_date=EXCLUDED.start_date,
            end_date=EXCLUDED.end_date,
            updated_at=EXCLUDED.updated_at
    `
    now := time.Now().UTC()
    for _, row := range rows {
        id := row.ID
        if id == "" {
            id = uuid.NewString()
        }
        insertStatus := row.InternalStatus
        if insertStatus == "" {
            insertStatus = model.InternalIdea
        }
        _, err := tx.Exec(query,
            id, row.AbtCampaignID, insertStatus, row.Name, row.Type,
            row.StartDate, row.EndDate, pq.Array([]string{}), pq.Array([]string{}),
            now, now, string(row.InternalStatus),
        )
        if err != nil {
            return appErrors.NewStoreError("upsert batch", err)
        }
    }

    if err := tx.Commit(); err != nil {
        return appErrors.NewStoreError("commit", err)
    }
    return nil
}

var _ TestMetadataRepositoryInterface = (*TestMetadataRepository)(nil)
