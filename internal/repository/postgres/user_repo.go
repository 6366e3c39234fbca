package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PlayerRepo reads win/loss history from the players table so that it can
// be shown next to a name. Nothing here writes.
type PlayerRepo struct {
	DB *sql.DB
}

func NewPlayerRepo(db *sql.DB) *PlayerRepo {
	return &PlayerRepo{DB: db}
}

type PlayerStats struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	GamesPlayed int    `json:"gamesPlayed"`
	GamesWon    int    `json:"gamesWon"`
}

// Losses counts every game that was not won, draws included.
func (s PlayerStats) Losses() int {
	return s.GamesPlayed - s.GamesWon
}

// FindStats looks a player up by name, ignoring case the way player
// equality does. found is false when the name is unknown.
func (r *PlayerRepo) FindStats(ctx context.Context, name string) (stats PlayerStats, found bool, err error) {
	query := `SELECT username, games_played, games_won FROM players WHERE LOWER(username) = LOWER($1) LIMIT 1;`

	err = r.DB.QueryRowContext(ctx, query, name).Scan(&stats.Username, &stats.GamesPlayed, &stats.GamesWon)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerStats{}, false, nil
	}
	if err != nil {
		return PlayerStats{}, false, fmt.Errorf("failed to get player stats: %v", err)
	}
	return stats, true, nil
}

// Leaderboard lists the top players by wins.
func (r *PlayerRepo) Leaderboard(ctx context.Context, limit int) ([]PlayerStats, error) {
	query := `
	SELECT
		ROW_NUMBER() OVER (ORDER BY games_won DESC, username ASC) AS rank,
		username,
		games_played,
		games_won
	FROM players
	ORDER BY games_won DESC, username ASC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %v", err)
	}
	defer rows.Close()

	leaderboard := make([]PlayerStats, 0)
	for rows.Next() {
		var stats PlayerStats
		if err := rows.Scan(&stats.Rank, &stats.Username, &stats.GamesPlayed, &stats.GamesWon); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %v", err)
		}
		leaderboard = append(leaderboard, stats)
	}

	return leaderboard, rows.Err()
}
