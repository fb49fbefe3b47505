package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabdrill/pkg/models"
)

const itemRecordColumns = `item_id, times_seen, times_correct, easiness_factor, interval_days,
	consecutive_correct, last_seen_at, next_review_at, last_selected_at`

// ItemRecordRepository handles database operations for item records and the quiz history
type ItemRecordRepository struct {
	db *sqlx.DB
}

// NewItemRecordRepository creates a new repository instance
func NewItemRecordRepository(db *sqlx.DB) *ItemRecordRepository {
	return &ItemRecordRepository{db: db}
}

// Close closes the underlying connection
func (r *ItemRecordRepository) Close() error {
	return r.db.Close()
}

// Get returns the record for a specific item
func (r *ItemRecordRepository) Get(ctx context.Context, itemID string) (models.ItemRecord, bool, error) {
	var rec models.ItemRecord
	query := r.db.Rebind("SELECT " + itemRecordColumns + " FROM item_records WHERE item_id = ?")
	err := r.db.GetContext(ctx, &rec, query, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ItemRecord{}, false, nil
	}
	if err != nil {
		return models.ItemRecord{}, false, fmt.Errorf("failed to get item record: %w", err)
	}
	return normalize(rec), true, nil
}

// Upsert creates or replaces a record
func (r *ItemRecordRepository) Upsert(ctx context.Context, rec models.ItemRecord) error {
	query := r.db.Rebind(`
		INSERT INTO item_records (` + itemRecordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			times_seen = excluded.times_seen,
			times_correct = excluded.times_correct,
			easiness_factor = excluded.easiness_factor,
			interval_days = excluded.interval_days,
			consecutive_correct = excluded.consecutive_correct,
			last_seen_at = excluded.last_seen_at,
			next_review_at = excluded.next_review_at,
			last_selected_at = excluded.last_selected_at
	`)
	_, err := r.db.ExecContext(ctx, query,
		rec.ItemID,
		rec.TimesSeen,
		rec.TimesCorrect,
		rec.EasinessFactor,
		rec.IntervalDays,
		rec.ConsecutiveCorrect,
		utc(rec.LastSeenAt),
		utc(rec.NextReviewAt),
		utc(rec.LastSelectedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item record: %w", err)
	}
	return nil
}

// All returns every record ordered by item id
func (r *ItemRecordRepository) All(ctx context.Context) ([]models.ItemRecord, error) {
	var records []models.ItemRecord
	err := r.db.SelectContext(ctx, &records, "SELECT "+itemRecordColumns+" FROM item_records ORDER BY item_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get item records: %w", err)
	}
	for i := range records {
		records[i] = normalize(records[i])
	}
	return records, nil
}

// QueryIDs returns the ids of records matching the filter, ordered by item id
func (r *ItemRecordRepository) QueryIDs(ctx context.Context, filter models.RecordFilter) ([]string, error) {
	query, args := queryIDsSQL(filter)

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query item records: %w", err)
	}
	return ids, nil
}

// queryIDsSQL builds the QueryIDs statement with '?' placeholders
func queryIDsSQL(filter models.RecordFilter) (string, []interface{}) {
	where := []string{"times_seen >= ?"}
	args := []interface{}{filter.MinSeen}

	var anyOf []string
	if !filter.DueBefore.IsZero() {
		anyOf = append(anyOf, "next_review_at <= ?")
		args = append(args, filter.DueBefore.UTC())
	}
	if filter.RatioBelow > 0 {
		// correct/seen < ratio, written without a division so unseen items never divide by zero.
		// Postgres would type an uncast parameter as integer here.
		anyOf = append(anyOf, "(times_seen > 0 AND times_correct < CAST(? AS DOUBLE PRECISION) * times_seen)")
		args = append(args, filter.RatioBelow)
	}
	if len(anyOf) > 0 {
		where = append(where, "("+strings.Join(anyOf, " OR ")+")")
	}

	return "SELECT item_id FROM item_records WHERE " + strings.Join(where, " AND ") + " ORDER BY item_id", args
}

// SaveOutcome appends a quiz history entry and stores the updated record in one transaction
func (r *ItemRecordRepository) SaveOutcome(ctx context.Context, rec models.ItemRecord, entry models.QuizHistoryEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO quiz_history (id, item_id, correct, quiz_type, answered_at)
		VALUES (?, ?, ?, ?, ?)
	`), entry.ID, entry.ItemID, entry.Correct, entry.Tag, entry.AnsweredAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to append quiz history: %w", err)
	}

	// last_selected_at belongs to the recency tracker and is not touched here
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO item_records (
			item_id, times_seen, times_correct, easiness_factor, interval_days,
			consecutive_correct, last_seen_at, next_review_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			times_seen = excluded.times_seen,
			times_correct = excluded.times_correct,
			easiness_factor = excluded.easiness_factor,
			interval_days = excluded.interval_days,
			consecutive_correct = excluded.consecutive_correct,
			last_seen_at = excluded.last_seen_at,
			next_review_at = excluded.next_review_at
	`),
		rec.ItemID,
		rec.TimesSeen,
		rec.TimesCorrect,
		rec.EasinessFactor,
		rec.IntervalDays,
		rec.ConsecutiveCorrect,
		utc(rec.LastSeenAt),
		utc(rec.NextReviewAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save item record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outcome: %w", err)
	}
	return nil
}

// MarkSelected sets last_selected_at for every id, creating zero-activity records as needed
func (r *ItemRecordRepository) MarkSelected(ctx context.Context, itemIDs []string, at time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO item_records (item_id, easiness_factor, last_selected_at)
		VALUES (?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET last_selected_at = excluded.last_selected_at
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare selection update: %w", err)
	}
	defer stmt.Close()

	for _, id := range itemIDs {
		if _, err := stmt.ExecContext(ctx, id, models.InitialEasinessFactor, at.UTC()); err != nil {
			return fmt.Errorf("failed to mark %q as selected: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit selection: %w", err)
	}
	return nil
}

// utc converts an optional timestamp to a UTC driver value
func utc(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// normalize puts all timestamps of a scanned record in UTC
func normalize(rec models.ItemRecord) models.ItemRecord {
	for _, t := range []**time.Time{&rec.LastSeenAt, &rec.NextReviewAt, &rec.LastSelectedAt} {
		if *t != nil {
			v := (*t).UTC()
			*t = &v
		}
	}
	return rec
}
