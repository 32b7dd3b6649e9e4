package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/unclebandit/abtest-tracker/internal/service"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process pub/sub used when no broker is configured
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartSyncSubscriber wires a handler that runs a full AB Tasty sync
// whenever anything lands on the sync_requests topic. Payload content is
// ignored: a sync request carries no parameters.
func StartSyncSubscriber(q Queue, syncService *service.SyncService) {
	go func() {
		err := q.Subscribe("sync_requests", func(payload any) error {
			log.Println("📩 Processing queued sync request:", payload)

			result, err := syncService.Run(context.Background())
			if err != nil {
				log.Println("⚠️ Sync failed:", err)
				return err // triggers retry in queue
			}

			log.Println("✅ Sync completed, campaigns written:", result.Synced)
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for sync_requests:", err)
		}
	}()
}

// StartSyncScheduler publishes a sync request on the sync_requests topic
// at every interval, starting immediately. Used when no RabbitMQ broker is
// configured and the server schedules its own syncs in-process.
func StartSyncScheduler(q Queue, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			payload := map[string]string{
				"requested_at": time.Now().UTC().Format(time.RFC3339),
			}
			if err := q.Publish("sync_requests", payload); err != nil {
				log.Println("⚠️ Failed to publish sync request:", err)
			}
			<-ticker.C
		}
	}()
}
