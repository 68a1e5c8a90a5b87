package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/delir1um/Bizzin-sub001/internal/db"
	"github.com/delir1um/Bizzin-sub001/internal/realtime"
)

type Queue struct {
	client *redis.Client
}

type QueueJob struct {
	TenantID  int64     `json:"tenant_id"`
	EntryID   string    `json:"entry_id"`
	RunID     string    `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewQueue(redisURL string) (*Queue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	return &Queue{client: client}, nil
}

func (q *Queue) Enqueue(ctx context.Context, job QueueJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, queueKey(job.TenantID), payload).Err()
}

func (q *Queue) DequeueBatch(ctx context.Context, tenantID int64, batchSize int) ([][]byte, error) {
	key := queueKey(tenantID)
	var items [][]byte
	for i := 0; i < batchSize; i++ {
		item, err := q.client.RPop(ctx, key).Bytes()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

func queueKey(tenantID int64) string {
	return "analysis:queue:" + fmt.Sprintf("%d", tenantID)
}

// Worker drains a tenant's queue in small batches with a pause between
// them, keeping re-analysis runs from saturating the inference endpoint.
type Worker struct {
	Queue     *Queue
	Service   *Service
	DB        *db.Store
	Store     *Store
	Hub       *realtime.Hub
	BatchSize int
}

func (w *Worker) Start(ctx context.Context, tenantID int64) {
	batch := w.BatchSize
	if batch <= 0 {
		batch = 5
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		items, err := w.Queue.DequeueBatch(ctx, tenantID, batch)
		if err != nil {
			if !sleep(ctx, 2*time.Second) {
				return
			}
			continue
		}
		if len(items) == 0 {
			if !sleep(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}

		for _, raw := range items {
			var job QueueJob
			if err := json.Unmarshal(raw, &job); err != nil {
				continue
			}
			w.process(ctx, job)
		}

		if !sleep(ctx, time.Second) {
			return
		}
	}
}

// sleep pauses for d or until ctx is cancelled, reporting whether the full
// pause elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (w *Worker) process(ctx context.Context, job QueueJob) {
	jobCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	failed := false
	input, err := FetchEntryInput(jobCtx, w.DB, job.TenantID, job.EntryID)
	if err != nil {
		failed = true
	} else {
		result, err := w.Service.Analyze(jobCtx, job.TenantID, input, &job.EntryID)
		if err != nil {
			failed = true
		} else if err := StoreAnalysis(jobCtx, w.DB, job.TenantID, job.EntryID, &result); err != nil {
			failed = true
		} else if w.Hub != nil {
			w.Hub.Broadcast(job.TenantID, map[string]any{
				"type":     "entry.analysis",
				"entry_id": job.EntryID,
			})
		}
	}

	if job.RunID == "" || w.Store == nil {
		return
	}
	processedDelta, failedDelta := 1, 0
	if failed {
		processedDelta, failedDelta = 0, 1
	}
	run, err := w.Store.RecordMigrationProgress(jobCtx, job.TenantID, job.RunID, processedDelta, failedDelta)
	if err != nil || run == nil {
		return
	}
	if w.Hub != nil {
		w.Hub.Broadcast(job.TenantID, map[string]any{
			"type":      "migration.progress",
			"run_id":    run.ID,
			"total":     run.Total,
			"processed": run.Processed,
			"failed":    run.Failed,
			"status":    run.Status,
		})
	}
}
