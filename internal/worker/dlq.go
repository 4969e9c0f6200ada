package worker

// Jobs that exhaust their retries land in a Redis list per source queue,
// dlq:{original_queue}, for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339
	Attempts      int             `json:"attempts"`
}

func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	}
	if !json.Valid(payload) {
		entry.Payload, _ = json.Marshal(string(payload))
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	key := DLQPrefix + queue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: failed to push entry")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength is reported by the health endpoint.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ListDLQ returns up to limit dead letters of queue, newest first. Entries
// that no longer decode are skipped.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int) ([]DLQEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	raw, err := rdb.LRange(ctx, DLQPrefix+queue, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raw))
	for _, r := range raw {
		var e DLQEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: skipping undecodable entry")
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
