package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ednsy/leadrosetta/internal/entity"
)

type FunnelRepository struct {
	DB *sql.DB
}

func NewFunnelRepository(db *sql.DB) *FunnelRepository {
	return &FunnelRepository{DB: db}
}

// Create inserts the draft row. The unique index on prospect_id enforces
// at-most-one demo per prospect; a violation maps to ErrDemoExists.
func (r *FunnelRepository) Create(ctx context.Context, rec *entity.FunnelRecord) error {
	auditJSON, err := marshalAudit(rec.AuditData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO demo_tracking (id, user_id, prospect_id, crm_source, crm_prospect_id, demo_link, status, scraped_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.ProspectID,
		rec.Provider,
		rec.ProviderRowID,
		rec.DemoLink,
		rec.Status,
		auditJSON,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrDemoExists
		}
		return fmt.Errorf("create funnel record: %w", err)
	}
	return nil
}

func (r *FunnelRepository) Delete(ctx context.Context, prospectID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM demo_tracking WHERE prospect_id = $1`, prospectID)
	return err
}

const funnelColumns = `
	id, user_id, prospect_id, crm_source, crm_prospect_id, demo_link, status,
	send_time, opened_at, clicked_at, scraped_data, created_at, updated_at`

func (r *FunnelRepository) FindByProspectID(ctx context.Context, prospectID string) (*entity.FunnelRecord, error) {
	query := `SELECT` + funnelColumns + ` FROM demo_tracking WHERE prospect_id = $1`
	rec, err := scanFunnelRecord(r.DB.QueryRowContext(ctx, query, prospectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrFunnelNotFound
	}
	return rec, err
}

func (r *FunnelRepository) ListByUser(ctx context.Context, userID string) ([]*entity.FunnelRecord, error) {
	query := `SELECT` + funnelColumns + ` FROM demo_tracking WHERE user_id = $1 ORDER BY updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*entity.FunnelRecord
	for rows.Next() {
		rec, err := scanFunnelRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Advance is the guarded conditional update: one statement, guard evaluated
// at the point of write, so concurrent or duplicate signals can never move
// the funnel backward. The timestamp column owned by the target status is
// set in the same statement and only there.
func (r *FunnelRepository) Advance(ctx context.Context, prospectID string, to entity.FunnelStatus, at time.Time) (*entity.FunnelRecord, bool, error) {
	preds := entity.LegalPredecessors(to)
	if len(preds) == 0 {
		return nil, false, fmt.Errorf("no transition into status %q", to)
	}
	from := make([]string, len(preds))
	for i, p := range preds {
		from[i] = string(p)
	}

	tsClause := ""
	switch to {
	case entity.StatusSent:
		tsClause = ", send_time = $4"
	case entity.StatusOpened:
		tsClause = ", opened_at = $4"
	case entity.StatusClicked:
		tsClause = ", clicked_at = $4"
	}

	query := `
		UPDATE demo_tracking
		SET status = $1, updated_at = NOW()` + tsClause + `
		WHERE prospect_id = $2 AND status = ANY($3)
		RETURNING` + funnelColumns

	args := []any{string(to), prospectID, from}
	if tsClause != "" {
		args = append(args, at)
	}

	rec, err := scanFunnelRecord(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// CountCreatedInMonth counts demos created in the calendar month containing
// `month`, for the quota gate.
func (r *FunnelRepository) CountCreatedInMonth(ctx context.Context, userID string, month time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM demo_tracking
		WHERE user_id = $1
		  AND created_at >= date_trunc('month', $2::timestamptz)
		  AND created_at <  date_trunc('month', $2::timestamptz) + interval '1 month'
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, userID, month).Scan(&count)
	return count, err
}

func (r *FunnelRepository) RecordEvent(ctx context.Context, prospectID, eventType string, payload map[string]any) error {
	payloadJSON, err := marshalAudit(payload)
	if err != nil {
		return err
	}
	query := `INSERT INTO demo_events (prospect_id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())`
	_, err = r.DB.ExecContext(ctx, query, prospectID, eventType, payloadJSON)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFunnelRecord(row rowScanner) (*entity.FunnelRecord, error) {
	var rec entity.FunnelRecord
	var sendTime, openedAt, clickedAt sql.NullTime
	var auditJSON []byte

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.ProspectID, &rec.Provider, &rec.ProviderRowID,
		&rec.DemoLink, &rec.Status, &sendTime, &openedAt, &clickedAt, &auditJSON,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sendTime.Valid {
		rec.SendTime = &sendTime.Time
	}
	if openedAt.Valid {
		rec.OpenedAt = &openedAt.Time
	}
	if clickedAt.Valid {
		rec.ClickedAt = &clickedAt.Time
	}
	if len(auditJSON) > 0 {
		if err := json.Unmarshal(auditJSON, &rec.AuditData); err != nil {
			return nil, fmt.Errorf("decode scraped_data: %w", err)
		}
	}
	return &rec, nil
}

func marshalAudit(data map[string]any) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	return json.Marshal(data)
}
