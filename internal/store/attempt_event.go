package store

import (
	"context"
	"fmt"
	"sort"
	"time"
)

var attemptColumns = []string{
	"visit_id", "question_id", "answer", "outcome", "failure", "message", "latency_ms",
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	return r.insert(ctx, "attempt_events", attemptColumns, []any{
		data.VisitID,
		data.QuestionID,
		data.Answer,
		data.Outcome,
		data.Failure,
		data.Message,
		data.LatencyMs,
	})
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	query, args := r.selectEvents("attempt_events", attemptColumns, opts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var (
			rec AttemptRecord
			ts  int64
		)
		err := rows.Scan(
			&rec.Sequence, &ts,
			&rec.VisitID, &rec.QuestionID, &rec.Answer, &rec.Outcome,
			&rec.Failure, &rec.Message, &rec.LatencyMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) QuestionSummaries(ctx context.Context) ([]QuestionSummary, error) {
	attempts, err := r.QueryAttempts(ctx, QueryOpts{})
	if err != nil {
		return nil, err
	}
	hints, err := r.hintCounts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*QuestionSummary)
	get := func(id string) *QuestionSummary {
		s, ok := byID[id]
		if !ok {
			s = &QuestionSummary{QuestionID: id}
			byID[id] = s
		}
		return s
	}

	// Attempts arrive newest first, so the first one seen is the latest.
	for _, a := range attempts {
		s := get(a.QuestionID)
		if s.Attempts == 0 {
			s.LastOutcome = a.Outcome
			s.LastAt = a.Timestamp
		}
		s.Attempts++
		switch a.Outcome {
		case OutcomeCorrect:
			s.Correct++
		case OutcomeIncorrect:
			s.Incorrect++
		default:
			s.Failed++
		}
	}
	for id, n := range hints {
		get(id).HintsShown = n
	}

	out := make([]QuestionSummary, 0, len(byID))
	for _, s := range byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}
