package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

type playerRow struct {
	ID       string  `db:"id"`
	TeamID   string  `db:"team_id"`
	Name     string  `db:"name"`
	Position string  `db:"position"`
	Rating   float64 `db:"rating"`
	Price    float64 `db:"price"`
}

func (row playerRow) toDomain() player.Player {
	return player.Player{
		ID:       row.ID,
		TeamID:   row.TeamID,
		Name:     row.Name,
		Position: player.Position(row.Position),
		Rating:   row.Rating,
		Price:    row.Price,
	}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	const query = `
SELECT id, team_id, name, position, rating, price
FROM players
ORDER BY id`

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "list players")
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]player.Player, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
SELECT id, team_id, name, position, rating, price
FROM players
WHERE team_id IN (?)
ORDER BY id`, teamIDs)
	if err != nil {
		return nil, errors.Wrap(err, "bind list players by teams query")
	}

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "list players by teams")
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	const query = `
SELECT id, team_id, name, position, rating, price
FROM players
WHERE id = $1`

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, playerID); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, errors.Wrap(err, "get player")
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
SELECT id, team_id, name, position, rating, price
FROM players
WHERE id IN (?)
ORDER BY id`, playerIDs)
	if err != nil {
		return nil, errors.Wrap(err, "bind get players query")
	}

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "get players")
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
