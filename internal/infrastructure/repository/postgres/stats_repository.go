package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type statRow struct {
	PlayerID      string  `db:"player_id"`
	MatchID       string  `db:"match_id"`
	Rating        float64 `db:"rating"`
	MinutesPlayed int     `db:"minutes_played"`
	Goals         int     `db:"goals"`
	Assists       int     `db:"assists"`
	YellowCards   int     `db:"yellow_cards"`
	RedCards      int     `db:"red_cards"`
}

func (row statRow) toDomain() stats.PlayerMatchStat {
	return stats.PlayerMatchStat{
		PlayerID:      row.PlayerID,
		MatchID:       row.MatchID,
		Rating:        row.Rating,
		MinutesPlayed: row.MinutesPlayed,
		Goals:         row.Goals,
		Assists:       row.Assists,
		YellowCards:   row.YellowCards,
		RedCards:      row.RedCards,
	}
}

const statColumns = `player_id, match_id, rating, minutes_played, goals, assists, yellow_cards, red_cards`

func (r *StatsRepository) ListByMatch(ctx context.Context, matchID string) ([]stats.PlayerMatchStat, error) {
	query := `
SELECT ` + statColumns + `
FROM player_match_stats
WHERE match_id = $1
ORDER BY player_id`

	var rows []statRow
	if err := r.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, errors.Wrap(err, "list match stats")
	}

	out := make([]stats.PlayerMatchStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ListByMatches preserves the order of matchIDs so "first stat per player"
// resolves the same way as the in-memory store.
func (r *StatsRepository) ListByMatches(ctx context.Context, matchIDs []string) ([]stats.PlayerMatchStat, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	var out []stats.PlayerMatchStat
	for _, matchID := range matchIDs {
		rows, err := r.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (r *StatsRepository) Insert(ctx context.Context, s stats.PlayerMatchStat) error {
	query := `
INSERT INTO player_match_stats (` + statColumns + `)
VALUES (:player_id, :match_id, :rating, :minutes_played, :goals, :assists, :yellow_cards, :red_cards)
ON CONFLICT (player_id, match_id) DO NOTHING`

	sqlStr, args, err := sqlx.Named(query, map[string]any{
		"player_id":      s.PlayerID,
		"match_id":       s.MatchID,
		"rating":         s.Rating,
		"minutes_played": s.MinutesPlayed,
		"goals":          s.Goals,
		"assists":        s.Assists,
		"yellow_cards":   s.YellowCards,
		"red_cards":      s.RedCards,
	})
	if err != nil {
		return errors.Wrap(err, "bind insert stat query")
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(sqlStr), args...); err != nil {
		return errors.Wrap(err, "insert stat")
	}
	return nil
}

func (r *StatsRepository) Exists(ctx context.Context, playerID, matchID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM player_match_stats WHERE player_id = $1 AND match_id = $2
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, playerID, matchID); err != nil {
		return false, errors.Wrap(err, "check stat exists")
	}
	return exists, nil
}
