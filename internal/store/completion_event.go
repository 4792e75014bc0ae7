package store

import (
	"context"
	"fmt"
	"time"
)

var completionColumns = []string{
	"visit_id", "chapter_path", "success", "already_completed", "experience_added",
	"level_up", "old_level", "new_level", "message", "error", "latency_ms",
}

func (r *eventRepo) AppendCompletion(ctx context.Context, data CompletionEventData) error {
	return r.insert(ctx, "completion_events", completionColumns, []any{
		data.VisitID,
		data.ChapterPath,
		boolInt(data.Success),
		boolInt(data.AlreadyCompleted),
		data.ExperienceAdded,
		boolInt(data.LevelUp),
		data.OldLevel,
		data.NewLevel,
		data.Message,
		data.Error,
		data.LatencyMs,
	})
}

func (r *eventRepo) QueryCompletions(ctx context.Context, opts QueryOpts) ([]CompletionRecord, error) {
	// Completions have no question column.
	opts.QuestionID = ""
	query, args := r.selectEvents("completion_events", completionColumns, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completion events: %w", err)
	}
	defer rows.Close()

	var out []CompletionRecord
	for rows.Next() {
		var (
			rec                          CompletionRecord
			ts                           int64
			success, already, levelUp int
		)
		err := rows.Scan(
			&rec.Sequence, &ts,
			&rec.VisitID, &rec.ChapterPath, &success, &already, &rec.ExperienceAdded,
			&levelUp, &rec.OldLevel, &rec.NewLevel, &rec.Message, &rec.Error, &rec.LatencyMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan completion event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Success = success != 0
		rec.AlreadyCompleted = already != 0
		rec.LevelUp = levelUp != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
