// internal/service/merge.go
package service

import (
    "strconv"
    "time"

    "github.com/unclebandit/abtest-tracker/internal/model"
    "github.com/unclebandit/abtest-tracker/internal/statusmap"
)

// MergeTests combines AB Tasty campaigns with the locally stored metadata
// rows into one Test per campaign, preserving the campaign list's order.
//
// Field sourcing: AB Tasty wins for name, type, dates and abt_status; the
// metadata row wins for hypothesis, comment, tags, assignees and target
// date. For the internal status, a direct AB Tasty mapping overrides
// whatever is stored; otherwise the stored status is used, defaulting to
// idea when no row exists.
//
// Metadata rows without a matching campaign are dropped — they belong to
// campaigns deleted upstream. Whether they should instead be surfaced or
// cleaned up is an open product question; see the merge tests.
func MergeTests(campaigns []model.Campaign, rows []*model.TestMetadata) []model.Test {
    index := make(map[string]*model.TestMetadata, len(rows))
    for _, row := range rows {
        index[row.AbtCampaignID] = row
    }

    now := time.Now().UTC()
    tests := make([]model.Test, 0, len(campaigns))
    for _, campaign := range campaigns {
        campaignID := strconv.Itoa(campaign.ID)
        meta := index[campaignID]

        test := model.Test{
            AbtCampaignID: campaignID,
            Name:          campaign.Name,
            AbtStatus:     campaign.Status,
            StartDate:     campaign.StartDate,
            EndDate:       campaign.EndDate,
            Tags:          []string{},
            AssignedTo:    []string{},
            CreatedAt:     now,
            UpdatedAt:     now,
        }
        if campaign.Type != "" {
            t := campaign.Type
            test.Type = &t
        }

        // A mapped AB Tasty status always wins; unmapped statuses
        // (draft, anything the API adds later) fall back to the row.
        mapped, hasMapping := statusmap.ToInternal(campaign.Status)
        switch {
        case hasMapping:
            test.InternalStatus = mapped
        case meta != nil:
            test.InternalStatus = meta.InternalStatus
        default:
            test.InternalStatus = model.InternalIdea
        }
        test.StatusLabel = statusmap.Label(test.InternalStatus)

        if meta != nil {
            test.ID = meta.ID
            test.TargetStartDate = meta.TargetStartDate
            test.Hypothesis = meta.Hypothesis
            test.Comment = meta.Comment
            if meta.Tags != nil {
                test.Tags = meta.Tags
            }
            if meta.AssignedTo != nil {
                test.AssignedTo = meta.AssignedTo
            }
            test.CreatedAt = meta.CreatedAt
            test.UpdatedAt = meta.UpdatedAt
        } else {
            test.ID = campaignID
        }

        tests = append(tests, test)
    }
    return tests
}
