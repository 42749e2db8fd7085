package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/fantasyfecha/fantasy-api/internal/domain/scoring"
	idgen "github.com/fantasyfecha/fantasy-api/internal/platform/id"
)

type ScoringRepository struct {
	db    *sqlx.DB
	idGen idgen.Generator
}

func NewScoringRepository(db *sqlx.DB, idGen idgen.Generator) *ScoringRepository {
	return &ScoringRepository{db: db, idGen: idGen}
}

type matchdayPointsRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	MatchdayID   string    `db:"matchday_id"`
	TotalPoints  float64   `db:"total_points"`
	CalculatedAt time.Time `db:"calculated_at"`
}

func (row matchdayPointsRow) toDomain() scoring.MatchdayPoints {
	return scoring.MatchdayPoints{
		ID:           row.ID,
		UserID:       row.UserID,
		MatchdayID:   row.MatchdayID,
		TotalPoints:  row.TotalPoints,
		CalculatedAt: row.CalculatedAt,
	}
}

func (r *ScoringRepository) GetMatchdayPoints(ctx context.Context, userID, matchdayID string) (scoring.MatchdayPoints, bool, error) {
	const query = `
SELECT id, user_id, matchday_id, total_points, calculated_at
FROM matchday_points
WHERE user_id = $1 AND matchday_id = $2`

	var row matchdayPointsRow
	if err := r.db.GetContext(ctx, &row, query, userID, matchdayID); err != nil {
		if isNotFound(err) {
			return scoring.MatchdayPoints{}, false, nil
		}
		return scoring.MatchdayPoints{}, false, errors.Wrap(err, "get matchday points")
	}
	return row.toDomain(), true, nil
}

func (r *ScoringRepository) ListByMatchday(ctx context.Context, matchdayID string) ([]scoring.MatchdayPoints, error) {
	const query = `
SELECT id, user_id, matchday_id, total_points, calculated_at
FROM matchday_points
WHERE matchday_id = $1
ORDER BY user_id`

	var rows []matchdayPointsRow
	if err := r.db.SelectContext(ctx, &rows, query, matchdayID); err != nil {
		return nil, errors.Wrap(err, "list matchday points")
	}

	out := make([]scoring.MatchdayPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ScoringRepository) ListAll(ctx context.Context) ([]scoring.MatchdayPoints, error) {
	const query = `
SELECT id, user_id, matchday_id, total_points, calculated_at
FROM matchday_points
ORDER BY matchday_id, user_id`

	var rows []matchdayPointsRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "list all matchday points")
	}

	out := make([]scoring.MatchdayPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ScoringRepository) UpsertMatchdayPoints(ctx context.Context, p scoring.MatchdayPoints) (scoring.MatchdayPoints, error) {
	if p.ID == "" {
		id, err := r.idGen.NewID()
		if err != nil {
			return scoring.MatchdayPoints{}, errors.Wrap(err, "generate matchday points id")
		}
		p.ID = id
	}

	const query = `
INSERT INTO matchday_points (id, user_id, matchday_id, total_points, calculated_at)
VALUES (:id, :user_id, :matchday_id, :total_points, :calculated_at)
ON CONFLICT (user_id, matchday_id)
DO UPDATE SET
    total_points = EXCLUDED.total_points,
    calculated_at = EXCLUDED.calculated_at
RETURNING id, user_id, matchday_id, total_points, calculated_at`

	sqlStr, args, err := sqlx.Named(query, map[string]any{
		"id":            p.ID,
		"user_id":       p.UserID,
		"matchday_id":   p.MatchdayID,
		"total_points":  p.TotalPoints,
		"calculated_at": p.CalculatedAt,
	})
	if err != nil {
		return scoring.MatchdayPoints{}, errors.Wrap(err, "bind upsert matchday points query")
	}

	var row matchdayPointsRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(sqlStr), args...); err != nil {
		return scoring.MatchdayPoints{}, errors.Wrap(err, "upsert matchday points")
	}
	return row.toDomain(), nil
}

type playerPointsRow struct {
	MatchdayPointsID string  `db:"matchday_points_id"`
	PlayerID         string  `db:"player_id"`
	RawPoints        float64 `db:"raw_points"`
	Multiplier       float64 `db:"multiplier"`
	FinalPoints      float64 `db:"final_points"`
	IsStarter        bool    `db:"is_starter"`
	IsCaptain        bool    `db:"is_captain"`
	Played           bool    `db:"played"`
}

func (r *ScoringRepository) ListPlayerPoints(ctx context.Context, matchdayPointsID string) ([]scoring.SquadPlayerPoints, error) {
	const query = `
SELECT matchday_points_id, player_id, raw_points, multiplier, final_points, is_starter, is_captain, played
FROM squad_player_points
WHERE matchday_points_id = $1
ORDER BY player_id`

	var rows []playerPointsRow
	if err := r.db.SelectContext(ctx, &rows, query, matchdayPointsID); err != nil {
		return nil, errors.Wrap(err, "list squad player points")
	}

	out := make([]scoring.SquadPlayerPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.SquadPlayerPoints{
			MatchdayPointsID: row.MatchdayPointsID,
			PlayerID:         row.PlayerID,
			RawPoints:        row.RawPoints,
			Multiplier:       row.Multiplier,
			FinalPoints:      row.FinalPoints,
			IsStarter:        row.IsStarter,
			IsCaptain:        row.IsCaptain,
			Played:           row.Played,
		})
	}
	return out, nil
}

// ReplacePlayerPoints deletes and recreates the child rows in one
// transaction, the recomputation idempotence contract.
func (r *ScoringRepository) ReplacePlayerPoints(ctx context.Context, matchdayPointsID string, rows []scoring.SquadPlayerPoints) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx for player points replace")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const clearQuery = `DELETE FROM squad_player_points WHERE matchday_points_id = $1`
	if _, err := tx.ExecContext(ctx, clearQuery, matchdayPointsID); err != nil {
		return errors.Wrap(err, "clear squad player points")
	}

	const insertQuery = `
INSERT INTO squad_player_points (
    matchday_points_id, player_id, raw_points, multiplier, final_points,
    is_starter, is_captain, played
) VALUES (
    :matchday_points_id, :player_id, :raw_points, :multiplier, :final_points,
    :is_starter, :is_captain, :played
)`

	for _, row := range rows {
		sqlStr, args, err := sqlx.Named(insertQuery, map[string]any{
			"matchday_points_id": matchdayPointsID,
			"player_id":          row.PlayerID,
			"raw_points":         row.RawPoints,
			"multiplier":         row.Multiplier,
			"final_points":       row.FinalPoints,
			"is_starter":         row.IsStarter,
			"is_captain":         row.IsCaptain,
			"played":             row.Played,
		})
		if err != nil {
			return errors.Wrap(err, "bind insert player points query")
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlStr), args...); err != nil {
			return errors.Wrap(err, "insert player points")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit player points replace")
	}
	return nil
}
