// internal/controller/test_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "log"
    "net/http"
    "os"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/unclebandit/abtest-tracker/internal/errors"
    "github.com/unclebandit/abtest-tracker/internal/repository"
    "github.com/unclebandit/abtest-tracker/internal/service"
)

type TestController struct {
    TestService *service.TestService
    SyncService *service.SyncService
    TeamRepo    repository.TeamMemberRepositoryInterface
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
    writeJSON(w, status, map[string]string{
        "error":   message,
        "details": err.Error(),
    })
}

// ListTests handles GET /campaigns: the merged campaign+metadata list.
func (c *TestController) ListTests(w http.ResponseWriter, r *http.Request) {
    tests, err := c.TestService.ListTests(r.Context())
    if err != nil {
        log.Println("❌ Failed to list tests:", err)
        writeError(w, http.StatusInternalServerError, "Failed to fetch campaigns", err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "data": tests,
    })
}

// GetTest handles GET /campaigns/{id}
func (c *TestController) GetTest(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    test, err := c.TestService.GetTest(r.Context(), id)
    if err != nil {
        log.Println("❌ Failed to fetch campaign", id, ":", err)
        writeError(w, http.StatusInternalServerError, "Failed to fetch campaign", err)
        return
    }

    writeJSON(w, http.StatusOK, test)
}

// UpdateTest handles PATCH /campaigns/{id}: always writes the local
// metadata row; additionally patches AB Tasty when the new internal status
// has an external equivalent.
func (c *TestController) UpdateTest(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    var patch service.TestPatch
    if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    err := c.TestService.UpdateTest(r.Context(), id, &patch)
    if err != nil {
        var validationErr *appErrors.ValidationError
        var propagationErr *service.PropagationError
        switch {
        case errors.As(err, &validationErr):
            writeError(w, http.StatusBadRequest, "Invalid update payload", err)
        case errors.As(err, &propagationErr):
            // Local write is saved; only the AB Tasty patch failed.
            log.Println("⚠️ Propagation failed for campaign", id, ":", err)
            writeError(w, http.StatusBadGateway, "Saved locally, AB Tasty update failed", err)
        default:
            log.Println("❌ Failed to update campaign", id, ":", err)
            writeError(w, http.StatusInternalServerError, "Failed to update campaign", err)
        }
        return
    }

    writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetStatusHistory handles GET /campaigns/{id}/history
func (c *TestController) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")

    entries, err := c.TestService.GetStatusHistory(r.Context(), id)
    if err != nil {
        log.Println("❌ Failed to fetch status history for campaign", id, ":", err)
        writeError(w, http.StatusInternalServerError, "Failed to fetch status history", err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "data": entries,
    })
}

// RunSync handles POST /sync: manual full-sync trigger.
func (c *TestController) RunSync(w http.ResponseWriter, r *http.Request) {
    result, err := c.SyncService.Run(r.Context())
    if err != nil {
        log.Println("❌ Sync failed:", err)
        writeError(w, http.StatusInternalServerError, "Sync failed", err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success": true,
        "synced":  result.Synced,
    })
}

// Cron handles GET /cron: the scheduled trigger. In production the caller
// must present the shared CRON_SECRET as a bearer token.
func (c *TestController) Cron(w http.ResponseWriter, r *http.Request) {
    if os.Getenv("APP_ENV") == "production" {
        expected := "Bearer " + os.Getenv("CRON_SECRET")
        if r.Header.Get("Authorization") != expected {
            writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
            return
        }
    }

    result, err := c.SyncService.Run(r.Context())
    if err != nil {
        log.Println("❌ Cron sync failed:", err)
        writeError(w, http.StatusInternalServerError, "Cron sync failed", err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success": true,
        "sync":    map[string]interface{}{"success": true, "synced": result.Synced},
    })
}

// ListTeamMembers handles GET /team-members
func (c *TestController) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
    members, err := c.TeamRepo.ListAll()
    if err != nil {
        log.Println("❌ Failed to list team members:", err)
        writeError(w, http.StatusInternalServerError, "Failed to fetch team members", err)
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "data": members,
    })
}
