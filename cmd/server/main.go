// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/abtest-tracker/internal/abtasty"
	"github.com/unclebandit/abtest-tracker/internal/controller"
	"github.com/unclebandit/abtest-tracker/internal/db"
	"github.com/unclebandit/abtest-tracker/internal/queue"
	"github.com/unclebandit/abtest-tracker/internal/repository"
	"github.com/unclebandit/abtest-tracker/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()

	abtClient := abtasty.NewClientFromEnv()

	testRepo := &repository.TestMetadataRepository{DB: db.DB}
	teamRepo := &repository.TeamMemberRepository{DB: db.DB}
	historyRepo := &repository.StatusHistoryRepository{DB: db.DB}

	testService := &service.TestService{
		Abtasty:     abtClient,
		TestRepo:    testRepo,
		HistoryRepo: historyRepo,
	}
	syncService := &service.SyncService{
		Abtasty:  abtClient,
		TestRepo: testRepo,
	}
	queue.StartSyncSubscriber(q, syncService)

	// Without a RabbitMQ broker (cmd/scheduler + cmd/worker) the server
	// schedules syncs itself through the in-memory queue.
	if os.Getenv("AMQP_URL") == "" {
		interval := 5 * time.Minute
		if v := os.Getenv("SYNC_INTERVAL"); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				log.Fatalf("invalid SYNC_INTERVAL %q: %v", v, err)
			}
			interval = parsed
		}
		queue.StartSyncScheduler(q, interval)
		log.Println("⏰ In-process sync scheduler running, sync every", interval)
	}

	testController := &controller.TestController{
		TestService: testService,
		SyncService: syncService,
		TeamRepo:    teamRepo,
	}

	r := chi.NewRouter()

	// Campaign routes
	r.Get("/campaigns", testController.ListTests)
	r.Get("/campaigns/{id}", testController.GetTest)
	r.Patch("/campaigns/{id}", testController.UpdateTest)
	r.Get("/campaigns/{id}/history", testController.GetStatusHistory)

	// Sync routes
	r.Post("/sync", testController.RunSync)
	r.Get("/cron", testController.Cron)

	r.Get("/team-members", testController.ListTeamMembers)

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
