package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const adjustmentColumns = `id, entry_id, tenant_id, requested_by, reason,
		   original_in, original_out, proposed_in, proposed_out,
		   status, decided_by, decided_at, rejection_reason,
		   created_at, updated_at`

type adjustmentRepository struct {
	db *database.DB
}

func scanAdjustment(row pgx.Row) (timeclock.AdjustmentRequest, error) {
	var a timeclock.AdjustmentRequest
	err := row.Scan(
		&a.ID, &a.EntryID, &a.TenantID, &a.RequestedBy, &a.Reason,
		&a.OriginalIn, &a.OriginalOut, &a.ProposedIn, &a.ProposedOut,
		&a.Status, &a.DecidedBy, &a.DecidedAt, &a.RejectionReason,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements timeclock.AdjustmentRepository.
func (r *adjustmentRepository) Create(ctx context.Context, req timeclock.AdjustmentRequest) (timeclock.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO adjustment_requests (
			entry_id, tenant_id, requested_by, reason,
			original_in, original_out, proposed_in, proposed_out, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EntryID,
		req.TenantID,
		req.RequestedBy,
		req.Reason,
		req.OriginalIn,
		req.OriginalOut,
		req.ProposedIn,
		req.ProposedOut,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return timeclock.AdjustmentRequest{}, fmt.Errorf("failed to create adjustment request: %w", err)
	}

	return req, nil
}

// GetByID implements timeclock.AdjustmentRepository.
func (r *adjustmentRepository) GetByID(ctx context.Context, id, tenantID string) (timeclock.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + adjustmentColumns + `
		FROM adjustment_requests
		WHERE id = $1
		  AND tenant_id = $2
	`

	req, err := scanAdjustment(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.AdjustmentRequest{}, timeclock.ErrAdjustmentNotFound
		}
		return timeclock.AdjustmentRequest{}, fmt.Errorf("failed to get adjustment request: %w", err)
	}

	return req, nil
}

// Approve implements timeclock.AdjustmentRepository.
//
// The status flip and the entry rewrite happen in one transaction, and the
// flip only matches pending rows, so a second approval finds nothing to
// update and the proposal can never apply twice.
func (r *adjustmentRepository) Approve(ctx context.Context, id, tenantID, approver string, at time.Time) (timeclock.AdjustmentRequest, error) {
	var req timeclock.AdjustmentRequest

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		decideQuery := `
			UPDATE adjustment_requests
			SET status = 'approved',
				decided_by = $3,
				decided_at = $4,
				updated_at = NOW()
			WHERE id = $1
			  AND tenant_id = $2
			  AND status = 'pending'
			RETURNING ` + adjustmentColumns + `
		`

		var err error
		req, err = scanAdjustment(tx.QueryRow(ctx, decideQuery, id, tenantID, approver, at))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				if _, getErr := r.GetByID(ctx, id, tenantID); getErr != nil {
					return getErr
				}
				return timeclock.ErrAdjustmentNotPending
			}
			return fmt.Errorf("failed to approve adjustment request: %w", err)
		}

		applyQuery := `
			UPDATE clock_entries
			SET clock_in_at = COALESCE($2, clock_in_at),
				clock_out_at = COALESCE($3, clock_out_at),
				updated_at = NOW()
			WHERE id = $1
			  AND tenant_id = $4
		`

		tag, err := tx.Exec(ctx, applyQuery, req.EntryID, req.ProposedIn, req.ProposedOut, tenantID)
		if err != nil {
			return fmt.Errorf("failed to apply adjustment to clock entry: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return timeclock.ErrEntryNotFound
		}

		return nil
	})
	if err != nil {
		return timeclock.AdjustmentRequest{}, err
	}

	return req, nil
}

// Reject implements timeclock.AdjustmentRepository.
func (r *adjustmentRepository) Reject(ctx context.Context, id, tenantID, approver, reason string, at time.Time) (timeclock.AdjustmentRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE adjustment_requests
		SET status = 'rejected',
			decided_by = $3,
			decided_at = $4,
			rejection_reason = $5,
			updated_at = NOW()
		WHERE id = $1
		  AND tenant_id = $2
		  AND status = 'pending'
		RETURNING ` + adjustmentColumns + `
	`

	req, err := scanAdjustment(q.QueryRow(ctx, query, id, tenantID, approver, at, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id, tenantID); getErr != nil {
				return timeclock.AdjustmentRequest{}, getErr
			}
			return timeclock.AdjustmentRequest{}, timeclock.ErrAdjustmentNotPending
		}
		return timeclock.AdjustmentRequest{}, fmt.Errorf("failed to reject adjustment request: %w", err)
	}

	return req, nil
}

func NewAdjustmentRepository(db *database.DB) timeclock.AdjustmentRepository {
	return &adjustmentRepository{db: db}
}
