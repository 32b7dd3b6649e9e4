// internal/service/test_service.go
package service

import (
    "context"
    "fmt"
    "log"

    appErrors "github.com/unclebandit/abtest-tracker/internal/errors"
    "github.com/unclebandit/abtest-tracker/internal/model"
    "github.com/unclebandit/abtest-tracker/internal/repository"
    "github.com/unclebandit/abtest-tracker/internal/statusmap"
)

// AbtastyClient is the full client surface the test service uses.
type AbtastyClient interface {
    ListCampaigns(ctx context.Context) ([]model.Campaign, error)
    GetCampaign(ctx context.Context, id string) (*model.Campaign, error)
    SetCampaignStatus(ctx context.Context, id string, status model.CampaignStatus) (*model.Campaign, error)
}

type TestService struct {
    Abtasty     AbtastyClient
    TestRepo    repository.TestMetadataRepositoryInterface
    HistoryRepo repository.StatusHistoryRepositoryInterface
}

// PropagationError marks a write where the local store was updated but the
// AB Tasty status patch failed. The local write stands; the caller decides
// how to report the half-applied state.
type PropagationError struct {
    Err error
}

func (e *PropagationError) Error() string {
    return fmt.Sprintf("local update saved, AB Tasty propagation failed: %v", e.Err)
}

func (e *PropagationError) Unwrap() error {
    return e.Err
}

// ListTests returns the merged view of every campaign. A metadata read
// failure degrades to external-only data; an AB Tasty failure is fatal.
func (s *TestService) ListTests(ctx context.Context) ([]model.Test, error) {
    campaigns, err := s.Abtasty.ListCampaigns(ctx)
    if err != nil {
        return nil, err
    }

    rows, err := s.TestRepo.ListAll()
    if err != nil {
        log.Println("⚠️ metadata read failed, returning AB Tasty data only:", err)
        rows = nil
    }

    return MergeTests(campaigns, rows), nil
}

// GetTest returns the merged view of a single campaign. Like the list
// path, a metadata read failure degrades to external-only data.
func (s *TestService) GetTest(ctx context.Context, id string) (*model.Test, error) {
    campaign, err := s.Abtasty.GetCampaign(ctx, id)
    if err != nil {
        return nil, err
    }

    meta, err := s.TestRepo.GetByCampaignID(id)
    if err != nil {
        log.Println("⚠️ metadata read failed for campaign", id, ":", err)
        meta = nil
    }

    var rows []*model.TestMetadata
    if meta != nil {
        rows = []*model.TestMetadata{meta}
    }
    merged := MergeTests([]model.Campaign{*campaign}, rows)
    return &merged[0], nil
}

// GetStatusHistory returns the status transitions recorded for a
// campaign's test, newest first. A campaign with no metadata row yet has
// no history.
func (s *TestService) GetStatusHistory(ctx context.Context, id string) ([]model.StatusHistoryEntry, error) {
    row, err := s.TestRepo.GetByCampaignID(id)
    if err != nil {
        return nil, err
    }
    if row == nil {
        return []model.StatusHistoryEntry{}, nil
    }
    return s.HistoryRepo.ListByTest(row.ID)
}

// TestPatch carries the editable fields of a PATCH request. Nil pointers
// mean "leave unchanged"; InternalStatus empty means no status change.
type TestPatch struct {
    InternalStatus  model.InternalStatus `json:"internal_status,omitempty"`
    Hypothesis      *string              `json:"hypothesis,omitempty"`
    Comment         *string              `json:"comment,omitempty"`
    TargetStartDate *string              `json:"target_start_date,omitempty"`
    Tags            *[]string            `json:"tags,omitempty"`
    AssignedTo      *[]string            `json:"assigned_to,omitempty"`
    Name            *string              `json:"name,omitempty"`
}

func (p *TestPatch) isEmpty() bool {
    return p.InternalStatus == "" && p.Hypothesis == nil && p.Comment == nil &&
        p.TargetStartDate == nil && p.Tags == nil && p.AssignedTo == nil && p.Name == nil
}

// UpdateTest applies an edit to one campaign's metadata.
//
// Ordering contract: the local upsert runs first and a failure there aborts
// the whole request — nothing is sent to AB Tasty. Only after local success,
// and only when the new internal status maps to an AB Tasty status, is the
// external patch issued. If that patch fails the local write is kept (the
// store is the durable source of truth) and a *PropagationError is returned
// so the caller can report the partial state.
func (s *TestService) UpdateTest(ctx context.Context, id string, patch *TestPatch) error {
    if patch == nil || patch.isEmpty() {
        return appErrors.NewValidationError("body", "no editable fields supplied")
    }
    if patch.InternalStatus != "" && !statusmap.IsValidInternal(patch.InternalStatus) {
        return appErrors.NewValidationError("internal_status", "unknown status "+string(patch.InternalStatus))
    }

    existing, err := s.TestRepo.GetByCampaignID(id)
    if err != nil {
        return err
    }

    row := existing
    if row == nil {
        row = &model.TestMetadata{
            AbtCampaignID:  id,
            InternalStatus: model.InternalIdea,
            Tags:           []string{},
            AssignedTo:     []string{},
        }
    }

    oldStatus := row.InternalStatus
    if patch.InternalStatus != "" {
        row.InternalStatus = patch.InternalStatus
    }
    if patch.Hypothesis != nil {
        row.Hypothesis = patch.Hypothesis
    }
    if patch.Comment != nil {
        row.Comment = patch.Comment
    }
    if patch.TargetStartDate != nil {
        row.TargetStartDate = patch.TargetStartDate
    }
    if patch.Tags != nil {
        row.Tags = *patch.Tags
    }
    if patch.AssignedTo != nil {
        row.AssignedTo = *patch.AssignedTo
    }
    if patch.Name != nil {
        row.Name = *patch.Name
    }

    if err := s.TestRepo.Upsert(row); err != nil {
        return err
    }

    if patch.InternalStatus != "" && patch.InternalStatus != oldStatus && s.HistoryRepo != nil {
        if err := s.HistoryRepo.Record(row.ID, oldStatus, patch.InternalStatus, nil); err != nil {
            log.Println("⚠️ failed to record status history for test", row.ID, ":", err)
        }
    }

    // Propagate the status to AB Tasty only when a mapping exists.
    // idea/creating/staging stay purely local.
    if patch.InternalStatus != "" {
        if abtStatus, ok := statusmap.ToABT(patch.InternalStatus); ok {
            if _, err := s.Abtasty.SetCampaignStatus(ctx, id, abtStatus); err != nil {
                return &PropagationError{Err: err}
            }
        }
    }

    return nil
}
