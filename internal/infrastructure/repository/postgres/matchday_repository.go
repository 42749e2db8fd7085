package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
)

type MatchdayRepository struct {
	db *sqlx.DB
}

func NewMatchdayRepository(db *sqlx.DB) *MatchdayRepository {
	return &MatchdayRepository{db: db}
}

type matchdayRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

func (row matchdayRow) toDomain() matchday.Matchday {
	return matchday.Matchday{
		ID:        row.ID,
		Name:      row.Name,
		Status:    matchday.Status(row.Status),
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
	}
}

type matchRow struct {
	ID         string    `db:"id"`
	MatchdayID string    `db:"matchday_id"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	HomeScore  int       `db:"home_score"`
	AwayScore  int       `db:"away_score"`
	Status     string    `db:"status"`
	KickoffAt  time.Time `db:"kickoff_at"`
}

func (row matchRow) toDomain() matchday.Match {
	return matchday.Match{
		ID:         row.ID,
		MatchdayID: row.MatchdayID,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
		Status:     matchday.MatchStatus(row.Status),
		KickoffAt:  row.KickoffAt,
	}
}

func (r *MatchdayRepository) List(ctx context.Context) ([]matchday.Matchday, error) {
	const query = `
SELECT id, name, status, start_date, end_date
FROM matchdays
ORDER BY start_date`

	var rows []matchdayRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "list matchdays")
	}

	out := make([]matchday.Matchday, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchdayRepository) GetByID(ctx context.Context, matchdayID string) (matchday.Matchday, bool, error) {
	const query = `
SELECT id, name, status, start_date, end_date
FROM matchdays
WHERE id = $1`

	var row matchdayRow
	if err := r.db.GetContext(ctx, &row, query, matchdayID); err != nil {
		if isNotFound(err) {
			return matchday.Matchday{}, false, nil
		}
		return matchday.Matchday{}, false, errors.Wrap(err, "get matchday")
	}
	return row.toDomain(), true, nil
}

func (r *MatchdayRepository) ActiveMatchday(ctx context.Context) (matchday.Matchday, bool, error) {
	const activeQuery = `
SELECT id, name, status, start_date, end_date
FROM matchdays
WHERE status <> 'RESULTS'
ORDER BY start_date
LIMIT 1`

	var row matchdayRow
	err := r.db.GetContext(ctx, &row, activeQuery)
	if err == nil {
		return row.toDomain(), true, nil
	}
	if !isNotFound(err) {
		return matchday.Matchday{}, false, errors.Wrap(err, "get active matchday")
	}

	const latestQuery = `
SELECT id, name, status, start_date, end_date
FROM matchdays
ORDER BY start_date DESC
LIMIT 1`

	if err := r.db.GetContext(ctx, &row, latestQuery); err != nil {
		if isNotFound(err) {
			return matchday.Matchday{}, false, nil
		}
		return matchday.Matchday{}, false, errors.Wrap(err, "get latest matchday")
	}
	return row.toDomain(), true, nil
}

func (r *MatchdayRepository) UpdateStatus(ctx context.Context, matchdayID string, status matchday.Status) error {
	const query = `UPDATE matchdays SET status = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, matchdayID, string(status)); err != nil {
		return errors.Wrap(err, "update matchday status")
	}
	return nil
}

func (r *MatchdayRepository) ListMatches(ctx context.Context, matchdayID string) ([]matchday.Match, error) {
	const query = `
SELECT id, matchday_id, home_team_id, away_team_id, home_score, away_score, status, kickoff_at
FROM matches
WHERE matchday_id = $1
ORDER BY kickoff_at, id`

	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, matchdayID); err != nil {
		return nil, errors.Wrap(err, "list matches")
	}

	out := make([]matchday.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchdayRepository) SaveMatch(ctx context.Context, m matchday.Match) error {
	const query = `
INSERT INTO matches (id, matchday_id, home_team_id, away_team_id, home_score, away_score, status, kickoff_at)
VALUES (:id, :matchday_id, :home_team_id, :away_team_id, :home_score, :away_score, :status, :kickoff_at)
ON CONFLICT (id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status`

	sqlStr, args, err := sqlx.Named(query, map[string]any{
		"id":           m.ID,
		"matchday_id":  m.MatchdayID,
		"home_team_id": m.HomeTeamID,
		"away_team_id": m.AwayTeamID,
		"home_score":   m.HomeScore,
		"away_score":   m.AwayScore,
		"status":       string(m.Status),
		"kickoff_at":   m.KickoffAt,
	})
	if err != nil {
		return errors.Wrap(err, "bind save match query")
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(sqlStr), args...); err != nil {
		return errors.Wrap(err, "save match")
	}
	return nil
}
