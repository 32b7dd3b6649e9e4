// internal/service/sync.go
package service

import (
    "context"
    "strconv"

    "github.com/unclebandit/abtest-tracker/internal/model"
    "github.com/unclebandit/abtest-tracker/internal/statusmap"
)

// CampaignLister is the slice of the AB Tasty client the sync job needs.
type CampaignLister interface {
    ListCampaigns(ctx context.Context) ([]model.Campaign, error)
}

// SyncService pulls every campaign from AB Tasty and upserts the
// ABT-sourced columns into the tests table. User-edited fields are never
// touched, so running it is safe at any time.
type SyncService struct {
    Abtasty  CampaignLister
    TestRepo UpsertBatcher
}

// UpsertBatcher is the slice of the metadata repository the sync job needs.
type UpsertBatcher interface {
    UpsertBatch(rows []*model.TestMetadata) error
}

// SyncResult reports how many campaigns were written.
type SyncResult struct {
    Synced int `json:"synced"`
}

// Run is idempotent: with an unchanged campaign list only updated_at moves
// between two runs. The batch is one transaction — any row failure fails
// the whole sync.
func (s *SyncService) Run(ctx context.Context) (*SyncResult, error) {
    campaigns, err := s.Abtasty.ListCampaigns(ctx)
    if err != nil {
        return nil, err
    }

    rows := make([]*model.TestMetadata, 0, len(campaigns))
    for _, c := range campaigns {
        row := &model.TestMetadata{
            AbtCampaignID: strconv.Itoa(c.ID),
            Name:          c.Name,
            StartDate:     c.StartDate,
            EndDate:       c.EndDate,
        }
        if c.Type != "" {
            t := c.Type
            row.Type = &t
        }
        // Only carry a status when AB Tasty has a direct mapping; an
        // empty status means "keep whatever is stored".
        if mapped, ok := statusmap.ToInternal(c.Status); ok {
            row.InternalStatus = mapped
        }
        rows = append(rows, row)
    }

    if err := s.TestRepo.UpsertBatch(rows); err != nil {
        return nil, err
    }

    return &SyncResult{Synced: len(rows)}, nil
}
