package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/priyam/numsense/internal/screening"
)

// ModuleRecord is the stored summary of one completed test module.
type ModuleRecord struct {
	TestType       screening.TestType `db:"test_type"`
	TotalQuestions int                `db:"total_questions"`
	CorrectAnswers int                `db:"correct_answers"`
	AvgResponseMs  float64            `db:"avg_response_ms"`
}

// Accuracy returns the module accuracy percentage.
func (m ModuleRecord) Accuracy() float64 {
	if m.TotalQuestions == 0 {
		return 0
	}
	return float64(m.CorrectAnswers) / float64(m.TotalQuestions) * 100
}

// ScreeningRecord is one finalized screening with its per-module results.
type ScreeningRecord struct {
	ID             int64              `db:"id"`
	SessionID      string             `db:"session_id"`
	AgeGroup       screening.AgeGroup `db:"age_group"`
	Accuracy       float64            `db:"accuracy"`
	AvgResponseMs  float64            `db:"avg_response_ms"`
	RiskLevel      string             `db:"risk_level"`
	RiskConfidence float64            `db:"risk_confidence"`
	CompletedAt    time.Time          `db:"completed_at"`

	Modules []ModuleRecord `db:"-"`
}

// RecordFromSession builds a ScreeningRecord from a completed session.
// The risk fields stay empty when no assessment was set.
func RecordFromSession(s *screening.Session, completedAt time.Time) ScreeningRecord {
	rec := ScreeningRecord{
		SessionID:     s.SessionID(),
		AgeGroup:      s.AgeGroup(),
		Accuracy:      s.OverallAccuracy(),
		AvgResponseMs: s.OverallAvgResponseTime(),
		CompletedAt:   completedAt,
	}
	if ra, ok := s.RiskAssessment(); ok {
		rec.RiskLevel = string(ra.Level)
		rec.RiskConfidence = ra.Confidence
	}
	for _, r := range s.TestResults() {
		rec.Modules = append(rec.Modules, ModuleRecord{
			TestType:       r.TestType,
			TotalQuestions: r.TotalQuestions,
			CorrectAnswers: r.CorrectAnswers,
			AvgResponseMs:  r.AvgResponseTime,
		})
	}
	return rec
}

// QueryOpts configures history listing.
type QueryOpts struct {
	// Limit caps the number of screenings returned (0 = unlimited).
	Limit int
}

// Stats aggregates the stored history for the stats command.
type Stats struct {
	TotalScreenings int
	AvgAccuracy     float64
	ByRiskLevel     map[string]int
	LastCompletedAt time.Time
}

// ScreeningRepo manages the screening history.
type ScreeningRepo interface {
	// Save stores a finalized screening and fills in its ID.
	Save(ctx context.Context, rec *ScreeningRecord) error

	// List returns screenings newest first, with modules attached.
	List(ctx context.Context, opts QueryOpts) ([]ScreeningRecord, error)

	// Stats summarizes the stored history.
	Stats(ctx context.Context) (Stats, error)

	// Clear deletes the entire history.
	Clear(ctx context.Context) error
}

type screeningRepo struct {
	db *sqlx.DB
}

func (r *screeningRepo) Save(ctx context.Context, rec *ScreeningRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO screenings
			(session_id, age_group, accuracy, avg_response_ms, risk_level, risk_confidence, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.AgeGroup, rec.Accuracy, rec.AvgResponseMs,
		rec.RiskLevel, rec.RiskConfidence, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert screening: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("screening id: %w", err)
	}
	rec.ID = id

	for i, m := range rec.Modules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO screening_modules
				(screening_id, position, test_type, total_questions, correct_answers, avg_response_ms)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, m.TestType, m.TotalQuestions, m.CorrectAnswers, m.AvgResponseMs); err != nil {
			return fmt.Errorf("insert module: %w", err)
		}
	}

	return tx.Commit()
}

func (r *screeningRepo) List(ctx context.Context, opts QueryOpts) ([]ScreeningRecord, error) {
	query := `SELECT id, session_id, age_group, accuracy, avg_response_ms,
			risk_level, risk_confidence, completed_at
		FROM screenings ORDER BY completed_at DESC, id DESC`
	args := []any{}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var recs []ScreeningRecord
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list screenings: %w", err)
	}

	for i := range recs {
		if err := r.db.SelectContext(ctx, &recs[i].Modules,
			`SELECT test_type, total_questions, correct_answers, avg_response_ms
			 FROM screening_modules WHERE screening_id = ? ORDER BY position`,
			recs[i].ID); err != nil {
			return nil, fmt.Errorf("list modules: %w", err)
		}
	}
	return recs, nil
}

func (r *screeningRepo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByRiskLevel: make(map[string]int)}

	row := r.db.QueryRowxContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(accuracy), 0), COALESCE(MAX(completed_at), '')
		 FROM screenings`)
	var last string
	if err := row.Scan(&stats.TotalScreenings, &stats.AvgAccuracy, &last); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	if last != "" {
		if t, err := parseStoredTime(last); err == nil {
			stats.LastCompletedAt = t
		}
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT risk_level, COUNT(*) FROM screenings WHERE risk_level != '' GROUP BY risk_level`)
	if err != nil {
		return Stats{}, fmt.Errorf("stats by risk: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return Stats{}, err
		}
		stats.ByRiskLevel[level] = n
	}
	return stats, rows.Err()
}

func (r *screeningRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM screening_modules`); err != nil {
		return fmt.Errorf("clear modules: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM screenings`); err != nil {
		return fmt.Errorf("clear screenings: %w", err)
	}
	return nil
}

// parseStoredTime handles the timestamp formats SQLite hands back.
func parseStoredTime(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ErrNotFound reports a missing record.
var ErrNotFound = errors.New("not found")

// Latest returns the most recent screening, or ErrNotFound.
func Latest(ctx context.Context, repo ScreeningRepo) (ScreeningRecord, error) {
	recs, err := repo.List(ctx, QueryOpts{Limit: 1})
	if err != nil {
		return ScreeningRecord{}, err
	}
	if len(recs) == 0 {
		return ScreeningRecord{}, ErrNotFound
	}
	return recs[0], nil
}
