package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

type squadRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Formation string    `db:"formation"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type memberRow struct {
	PlayerID     string  `db:"player_id"`
	TeamID       string  `db:"team_id"`
	Position     string  `db:"position"`
	Price        float64 `db:"price"`
	Rating       float64 `db:"rating"`
	IsStarter    bool    `db:"is_starter"`
	IsCaptain    bool    `db:"is_captain"`
	IsCaptainSub bool    `db:"is_captain_sub"`
}

func (r *SquadRepository) GetByUser(ctx context.Context, userID string) (squad.Squad, bool, error) {
	const squadQuery = `
SELECT id, user_id, formation, created_at, updated_at
FROM squads
WHERE user_id = $1`

	var row squadRow
	if err := r.db.GetContext(ctx, &row, squadQuery, userID); err != nil {
		if isNotFound(err) {
			return squad.Squad{}, false, nil
		}
		return squad.Squad{}, false, errors.Wrap(err, "get squad")
	}

	const membersQuery = `
SELECT player_id, team_id, position, price, rating, is_starter, is_captain, is_captain_sub
FROM squad_players
WHERE squad_id = $1
ORDER BY id`

	var memberRows []memberRow
	if err := r.db.SelectContext(ctx, &memberRows, membersQuery, row.ID); err != nil {
		return squad.Squad{}, false, errors.Wrap(err, "list squad players")
	}

	members := make([]squad.Member, 0, len(memberRows))
	for _, m := range memberRows {
		members = append(members, squad.Member{
			PlayerID:     m.PlayerID,
			TeamID:       m.TeamID,
			Position:     player.Position(m.Position),
			Price:        m.Price,
			Rating:       m.Rating,
			IsStarter:    m.IsStarter,
			IsCaptain:    m.IsCaptain,
			IsCaptainSub: m.IsCaptainSub,
		})
	}

	return squad.Squad{
		ID:        row.ID,
		UserID:    row.UserID,
		Formation: formation.Code(row.Formation),
		Members:   members,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *SquadRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT user_id FROM squads ORDER BY user_id`

	var userIDs []string
	if err := r.db.SelectContext(ctx, &userIDs, query); err != nil {
		return nil, errors.Wrap(err, "list squad users")
	}
	return userIDs, nil
}

// Save replaces the full squad state in one transaction: the squad row is
// upserted and its member rows deleted and recreated.
func (r *SquadRepository) Save(ctx context.Context, s squad.Squad) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx for squad save")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertQuery = `
INSERT INTO squads (id, user_id, formation, created_at, updated_at)
VALUES (:id, :user_id, :formation, :created_at, :updated_at)
ON CONFLICT (user_id)
DO UPDATE SET
    formation = EXCLUDED.formation,
    updated_at = EXCLUDED.updated_at`

	upsertSQL, upsertArgs, err := sqlx.Named(upsertQuery, map[string]any{
		"id":         s.ID,
		"user_id":    s.UserID,
		"formation":  string(s.Formation),
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "bind upsert squad query")
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(upsertSQL), upsertArgs...); err != nil {
		return errors.Wrap(err, "upsert squad")
	}

	const clearQuery = `DELETE FROM squad_players WHERE squad_id = $1`
	if _, err := tx.ExecContext(ctx, clearQuery, s.ID); err != nil {
		return errors.Wrap(err, "clear squad players")
	}

	const insertMemberQuery = `
INSERT INTO squad_players (
    squad_id, player_id, team_id, position, price, rating,
    is_starter, is_captain, is_captain_sub
) VALUES (
    :squad_id, :player_id, :team_id, :position, :price, :rating,
    :is_starter, :is_captain, :is_captain_sub
)`

	for _, m := range s.Members {
		memberSQL, memberArgs, err := sqlx.Named(insertMemberQuery, map[string]any{
			"squad_id":       s.ID,
			"player_id":      m.PlayerID,
			"team_id":        m.TeamID,
			"position":       string(m.Position),
			"price":          m.Price,
			"rating":         m.Rating,
			"is_starter":     m.IsStarter,
			"is_captain":     m.IsCaptain,
			"is_captain_sub": m.IsCaptainSub,
		})
		if err != nil {
			return errors.Wrap(err, "bind insert squad player query")
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(memberSQL), memberArgs...); err != nil {
			return errors.Wrap(err, "insert squad player")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit squad save")
	}
	return nil
}

func (r *SquadRepository) Delete(ctx context.Context, squadID string) error {
	const query = `DELETE FROM squads WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, squadID); err != nil {
		return errors.Wrap(err, "delete squad")
	}
	return nil
}
