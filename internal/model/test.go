// internal/model/test.go
package model

import "time"

// InternalStatus is our own five-state workflow lifecycle, tracked in the
// tests table. Only live and done have an AB Tasty equivalent.
type InternalStatus string

const (
    InternalIdea     InternalStatus = "idea"
    InternalCreating InternalStatus = "creating"
    InternalStaging  InternalStatus = "staging"
    InternalLive     InternalStatus = "live"
    InternalDone     InternalStatus = "done"
)

// TestMetadata is the locally owned row for a campaign, keyed by the AB
// Tasty campaign id. The ABT-sourced columns (name, type, dates) are kept
// fresh by the sync job; everything else is edited only through the UI.
type TestMetadata struct {
    ID              string         `db:"id" json:"id"`
    AbtCampaignID   string         `db:"abt_campaign_id" json:"abt_campaign_id"`
    InternalStatus  InternalStatus `db:"internal_status" json:"internal_status"`
    Name            string         `db:"name" json:"name"`
    Type            *string        `db:"type" json:"type"`
    StartDate       *string        `db:"start_date" json:"start_date"`
    EndDate         *string        `db:"end_date" json:"end_date"`
    TargetStartDate *string        `db:"target_start_date" json:"target_start_date"`
    Hypothesis      *string        `db:"hypothesis" json:"hypothesis"`
    Comment         *string        `db:"comment" json:"comment"`
    Tags            []string       `db:"tags" json:"tags"`
    AssignedTo      []string       `db:"assigned_to" json:"assigned_to"`
    CreatedAt       time.Time      `db:"created_at" json:"created_at"`
    UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// Test is the merged view served to clients: one AB Tasty campaign joined
// with its (optional) metadata row. Built fresh on every read, never stored.
type Test struct {
    ID             string         `json:"id"`
    AbtCampaignID  string         `json:"abt_campaign_id"`
    InternalStatus InternalStatus `json:"internal_status"`
    StatusLabel    string         `json:"status_label"`

    // From AB Tasty
    Name      string         `json:"name"`
    Type      *string        `json:"type"`
    StartDate *string        `json:"start_date"`
    EndDate   *string        `json:"end_date"`
    AbtStatus CampaignStatus `json:"abt_status"`

    // From the tests table
    TargetStartDate *string   `json:"target_start_date"`
    Hypothesis      *string   `json:"hypothesis"`
    Comment         *string   `json:"comment"`
    Tags            []string  `json:"tags"`
    AssignedTo      []string  `json:"assigned_to"`
    CreatedAt       time.Time `json:"created_at"`
    UpdatedAt       time.Time `json:"updated_at"`

    Stats *CampaignStats `json:"stats"`
}

// StatusHistoryEntry records one internal status transition for a test.
type StatusHistoryEntry struct {
    ID        string         `db:"id" json:"id"`
    TestID    string         `db:"test_id" json:"test_id"`
    OldStatus InternalStatus `db:"old_status" json:"old_status"`
    NewStatus InternalStatus `db:"new_status" json:"new_status"`
    ChangedAt time.Time      `db:"changed_at" json:"changed_at"`
    ChangedBy *string        `db:"changed_by" json:"changed_by"`
}
