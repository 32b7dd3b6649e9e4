// internal/model/campaign.go
package model

// CampaignStatus is the lifecycle state reported by the AB Tasty API.
// The API can grow new statuses, so this stays an open string type with
// named constants for the values we know about.
type CampaignStatus string

const (
    StatusActive   CampaignStatus = "active"
    StatusPaused   CampaignStatus = "paused"
    StatusStopped  CampaignStatus = "stopped"
    StatusArchived CampaignStatus = "archived"
    StatusDraft    CampaignStatus = "draft"
)

// Campaign is an experiment record owned by the AB Tasty API.
// Read-only on our side except for the status patch operation.
type Campaign struct {
    ID            int            `json:"id"`
    Name          string         `json:"name"`
    Status        CampaignStatus `json:"status"`
    Type          string         `json:"type"`
    CreatedAt     string         `json:"created_at,omitempty"`
    StartDate     *string        `json:"start_date"`
    EndDate       *string        `json:"end_date"`
    AssignedUsers []string       `json:"assigned_users,omitempty"`
    Goals         []Goal         `json:"goals,omitempty"`
    Variations    []Variation    `json:"variations,omitempty"`
}

type Goal struct {
    ID   int    `json:"id"`
    Name string `json:"name"`
}

type Variation struct {
    ID      int     `json:"id"`
    Name    string  `json:"name"`
    Traffic float64 `json:"traffic"`
}

// CampaignStats are the optional per-campaign results AB Tasty exposes.
type CampaignStats struct {
    Visitors    *int     `json:"visitors,omitempty"`
    Conversions *int     `json:"conversions,omitempty"`
    Uplift      *float64 `json:"uplift,omitempty"`
    Confidence  *float64 `json:"confidence,omitempty"`
}
