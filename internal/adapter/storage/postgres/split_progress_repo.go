package postgres

import (
	"context"
	"fmt"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
)

// SplitProgressRepo implements ports.SplitProgressRepository.
type SplitProgressRepo struct {
	pool Pool
}

// NewSplitProgressRepo creates a new SplitProgressRepo.
func NewSplitProgressRepo(pool Pool) *SplitProgressRepo {
	return &SplitProgressRepo{pool: pool}
}

// ListByParent returns the recorded vendor groups of a parent order.
func (r *SplitProgressRepo) ListByParent(ctx context.Context, parentOrderID uuid.UUID) ([]domain.SplitProgress, error) {
	query := `SELECT parent_order_id, vendor_id, child_order_id, stage, captured_amount,
			COALESCE(transaction_id, ''), updated_at
		FROM split_progress
		WHERE parent_order_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, parentOrderID)
	if err != nil {
		return nil, fmt.Errorf("list split progress: %w", err)
	}
	defer rows.Close()

	var out []domain.SplitProgress
	for rows.Next() {
		var p domain.SplitProgress
		var stage string
		if err := rows.Scan(
			&p.ParentOrderID, &p.VendorID, &p.ChildOrderID, &stage,
			&p.CapturedAmount, &p.TransactionID, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan split progress: %w", err)
		}
		p.Stage = domain.SplitStage(stage)
		out = append(out, p)
	}
	return out, rows.Err()
}

// stageOrder lists split stages from first to last for array_position.
const stageOrder = `ARRAY['` + string(domain.SplitStageChildCreated) + `', '` +
	string(domain.SplitStageCaptured) + `', '` + string(domain.SplitStageCredited) + `']::text[]`

// stageAdvances holds when the incoming stage is not behind the stored one.
const stageAdvances = `array_position(` + stageOrder + `, EXCLUDED.stage) >= array_position(` + stageOrder + `, split_progress.stage)`

// Save upserts the marker for (parent, vendor). The stage only moves forward:
// an older stage keeps the stored stage and captured amount.
func (r *SplitProgressRepo) Save(ctx context.Context, p *domain.SplitProgress) error {
	query := `INSERT INTO split_progress
		(parent_order_id, vendor_id, child_order_id, stage, captured_amount, transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $7)
		ON CONFLICT (parent_order_id, vendor_id) DO UPDATE SET
			stage = CASE WHEN ` + stageAdvances + ` THEN EXCLUDED.stage ELSE split_progress.stage END,
			captured_amount = CASE WHEN ` + stageAdvances + ` THEN EXCLUDED.captured_amount ELSE split_progress.captured_amount END,
			transaction_id = COALESCE(EXCLUDED.transaction_id, split_progress.transaction_id),
			updated_at = EXCLUDED.updated_at
		WHERE split_progress.child_order_id = EXCLUDED.child_order_id`

	tag, err := r.pool.Exec(ctx, query,
		p.ParentOrderID, p.VendorID, p.ChildOrderID, string(p.Stage),
		p.CapturedAmount, p.TransactionID, p.UpdatedAt,
	)
	if err != nil {
		return wrap("save split progress", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save split progress: vendor %s of order %s is bound to another child order",
			p.VendorID, p.ParentOrderID)
	}
	return nil
}
