package game

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

const DefaultDBPath = "highscores.db"
const tableName = "high_scores"

type HighScoreService struct {
	db     *sql.DB
	logger *log.Logger
}

type Score struct {
	ID         int       `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Length     int       `json:"length"`
	Board      string    `json:"board"`
	Autopilot  bool      `json:"autopilot"`
	Won        bool      `json:"won"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewHighScoreService(dbPath string, logger *log.Logger) (*HighScoreService, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", dbPath, err)
	}

	service := &HighScoreService{db: db, logger: logger}
	if err := service.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating high scores table: %w", err)
	}

	return service, nil
}

func (serviceImpl *HighScoreService) Close() error {
	return serviceImpl.db.Close()
}

// createTable creates the high_scores table if it does not exist.
func (serviceImpl *HighScoreService) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		length INTEGER NOT NULL,
		board TEXT NOT NULL,
		autopilot BOOLEAN NOT NULL,
		won BOOLEAN NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := serviceImpl.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	serviceImpl.logger.Debug("High scores table ensured.")
	return nil
}

func (serviceImpl *HighScoreService) SavePlayersHighScore(entry Score) error {
	const insertSQL = `
	INSERT INTO ` + tableName + ` (player_name, score, length, board, autopilot, won)
	VALUES (?, ?, ?, ?, ?, ?);`

	_, err := serviceImpl.db.Exec(insertSQL, entry.PlayerName, entry.Score, entry.Length, entry.Board, entry.Autopilot, entry.Won)
	if err != nil {
		return fmt.Errorf("failed to insert high score for %s: %w", entry.PlayerName, err)
	}

	return nil
}

// GetHighScores retrieves a paginated list of scores, best first.
func (serviceImpl *HighScoreService) GetHighScores(limit, offset int) ([]Score, error) {
	const selectSQL = `
	SELECT id, player_name, score, length, board, autopilot, won, created_at
	FROM ` + tableName + `
	ORDER BY score DESC, id ASC
	LIMIT ? OFFSET ?;`

	rows, err := serviceImpl.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %w", err)
	}
	defer rows.Close()

	var scores []Score

	for rows.Next() {
		var score Score
		err := rows.Scan(&score.ID, &score.PlayerName, &score.Score, &score.Length, &score.Board,
			&score.Autopilot, &score.Won, &score.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}

	return scores, nil
}

func (serviceImpl *HighScoreService) GetTotalScoreCount() (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + tableName + `;`
	var count int
	err := serviceImpl.db.QueryRow(countSQL).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get total score count: %w", err)
	}
	return count, nil
}
