package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// InteractionRepository is the append-only audit log of retrieval requests.
type InteractionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) RecordInteraction(ctx context.Context, in domain.Interaction) error {
	ids := in.ChunkIDs
	if ids == nil {
		ids = []int{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal chunk ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO interactions (
	id, request_id, user_name, department, query, chunk_ids, status, error_message, duration_ms
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		in.ID, in.RequestID, in.User, in.Department, in.Query, idsJSON, in.Status, in.Error, in.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// RecentInteractions returns the newest interactions of a department.
func (r *InteractionRepository) RecentInteractions(ctx context.Context, department string, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, request_id, user_name, department, query, chunk_ids, status, error_message, duration_ms
FROM interactions
WHERE department = $1
ORDER BY created_at DESC
LIMIT $2
`, department, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Interaction, 0, limit)
	for rows.Next() {
		var in domain.Interaction
		var idsRaw []byte
		if err := rows.Scan(
			&in.ID, &in.RequestID, &in.User, &in.Department, &in.Query, &idsRaw, &in.Status, &in.Error, &in.DurationMS,
		); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if err := json.Unmarshal(idsRaw, &in.ChunkIDs); err != nil {
			return nil, fmt.Errorf("unmarshal chunk ids: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}
