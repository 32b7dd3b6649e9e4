// internal/statusmap/statusmap.go
package statusmap

import "github.com/unclebandit/abtest-tracker/internal/model"

// abtToInternal covers every AB Tasty status with a direct internal
// equivalent. Anything else (draft, statuses AB Tasty adds later) has no
// mapping and the locally stored status wins.
var abtToInternal = map[model.CampaignStatus]model.InternalStatus{
    model.StatusActive:   model.InternalLive,
    model.StatusPaused:   model.InternalDone,
    model.StatusStopped:  model.InternalDone,
    model.StatusArchived: model.InternalDone,
}

// internalToAbt covers the internal statuses that can be pushed back to AB
// Tasty. idea, creating and staging are managed purely in our own table.
var internalToAbt = map[model.InternalStatus]model.CampaignStatus{
    model.InternalLive: model.StatusActive,
    model.InternalDone: model.StatusStopped,
}

// ToInternal maps an AB Tasty status to our workflow status. The second
// return is false when there is no direct equivalent.
func ToInternal(s model.CampaignStatus) (model.InternalStatus, bool) {
    internal, ok := abtToInternal[s]
    return internal, ok
}

// ToABT maps an internal workflow status to the AB Tasty status to write
// back. The second return is false when nothing should be propagated.
func ToABT(s model.InternalStatus) (model.CampaignStatus, bool) {
    abt, ok := internalToAbt[s]
    return abt, ok
}

// AllStatuses lists the internal statuses in workflow order.
var AllStatuses = []model.InternalStatus{
    model.InternalIdea,
    model.InternalCreating,
    model.InternalStaging,
    model.InternalLive,
    model.InternalDone,
}

var labels = map[model.InternalStatus]string{
    model.InternalIdea:     "Idée",
    model.InternalCreating: "En cours de création",
    model.InternalStaging:  "En recette",
    model.InternalLive:     "Live",
    model.InternalDone:     "Terminé",
}

// Label returns the display label for an internal status, falling back to
// the raw value for anything unknown.
func Label(s model.InternalStatus) string {
    if l, ok := labels[s]; ok {
        return l
    }
    return string(s)
}

// IsValidInternal reports whether s is one of the five workflow statuses.
func IsValidInternal(s model.InternalStatus) bool {
    for _, v := range AllStatuses {
        if v == s {
            return true
        }
    }
    return false
}
