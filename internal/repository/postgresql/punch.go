package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opsgrid/opsgrid-backend-go/internal/domain/attendance"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepository{db: db}
}

const punchColumns = `id, user_id, date, in_time, out_time, created_at, updated_at`

func scanPunch(row interface{ Scan(dest ...any) error }) (attendance.Punch, error) {
	var p attendance.Punch
	err := row.Scan(&p.ID, &p.UserID, &p.Date, &p.InTime, &p.OutTime, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create implements attendance.PunchRepository.
func (r *punchRepository) Create(ctx context.Context, punch attendance.Punch) (attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punches (user_id, date, in_time, out_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		punch.UserID,
		punch.Date,
		punch.InTime,
		punch.OutTime,
	).Scan(&punch.ID, &punch.CreatedAt, &punch.UpdatedAt)

	if err != nil {
		return attendance.Punch{}, fmt.Errorf("failed to create punch: %w", err)
	}

	return punch, nil
}

// SetOutTime implements attendance.PunchRepository.
func (r *punchRepository) SetOutTime(ctx context.Context, id string, outTime time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE punches SET out_time = $2, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, outTime)
	if err != nil {
		return fmt.Errorf("failed to set punch out time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrPunchNotFound
	}

	return nil
}

// GetByUserAndDate implements attendance.PunchRepository.
func (r *punchRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + punchColumns + ` FROM punches WHERE user_id = $1 AND date = $2 LIMIT 1`

	p, err := scanPunch(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No punch recorded for this day
		}
		return nil, fmt.Errorf("failed to get punch by user and date: %w", err)
	}

	return &p, nil
}

// GetOpenPunch implements attendance.PunchRepository.
func (r *punchRepository) GetOpenPunch(ctx context.Context, userID string) (attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE user_id = $1
		  AND in_time IS NOT NULL
		  AND out_time IS NULL
		ORDER BY in_time DESC
		LIMIT 1
	`

	p, err := scanPunch(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Punch{}, fmt.Errorf("no open punch found: %w", err)
		}
		return attendance.Punch{}, fmt.Errorf("failed to get open punch: %w", err)
	}

	return p, nil
}

// ListByUser implements attendance.PunchRepository.
func (r *punchRepository) ListByUser(ctx context.Context, userID string) ([]attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + punchColumns + ` FROM punches WHERE user_id = $1 ORDER BY date ASC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	return collectPunches(rows)
}

// ListByUserBetween implements attendance.PunchRepository.
func (r *punchRepository) ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches in range: %w", err)
	}
	defer rows.Close()

	return collectPunches(rows)
}

// List implements attendance.PunchRepository.
func (r *punchRepository) List(ctx context.Context, filter attendance.PunchFilter) ([]attendance.Punch, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM punches ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punches: %w", err)
	}

	// SortBy/SortOrder are validated against an allow-list in the DTO.
	query := fmt.Sprintf(`
		SELECT `+punchColumns+`
		FROM punches
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, filter.SortBy, strings.ToUpper(filter.SortOrder), argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	punches, err := collectPunches(rows)
	if err != nil {
		return nil, 0, err
	}

	return punches, total, nil
}

// GetStaleOpenPunches implements attendance.PunchRepository.
func (r *punchRepository) GetStaleOpenPunches(ctx context.Context, olderThanDays int) ([]attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE in_time IS NOT NULL
		  AND out_time IS NULL
		  AND date < NOW() - make_interval(days => $1)
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, olderThanDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale open punches: %w", err)
	}
	defer rows.Close()

	return collectPunches(rows)
}

func collectPunches(rows pgx.Rows) ([]attendance.Punch, error) {
	var punches []attendance.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}
