package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendHint(ctx context.Context, data HintEventData) error {
	return r.insert(ctx, "hint_events",
		[]string{"visit_id", "question_id"},
		[]any{data.VisitID, data.QuestionID},
	)
}

// hintCounts returns the number of hints revealed per question.
func (r *eventRepo) hintCounts(ctx context.Context) (map[string]int, error) {
	query, args := r.selectEvents("hint_events", []string{"question_id"}, QueryOpts{})
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hint events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			seq, ts int64
			qid     string
		)
		if err := rows.Scan(&seq, &ts, &qid); err != nil {
			return nil, fmt.Errorf("scan hint event: %w", err)
		}
		counts[qid]++
	}
	return counts, rows.Err()
}
