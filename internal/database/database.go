package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"

	"github.com/pilfergame/pilfer-backend/internal"
)

// Service wraps the match-result archive. Live play never reads from it;
// rooms are in-memory only and the database keeps history of finished
// matches.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// SaveMatchResult records one finished room. Saving the same room id
	// twice is a no-op.
	SaveMatchResult(ctx context.Context, room *internal.Room) error

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
}

type service struct {
	db *sql.DB
}

var (
	database   = os.Getenv("DB_DATABASE")
	password   = os.Getenv("DB_PASSWORD")
	username   = os.Getenv("DB_USERNAME")
	port       = os.Getenv("DB_PORT")
	host       = os.Getenv("DB_HOST")
	schema     = os.Getenv("DB_SCHEMA")
	dbInstance *service
)

func New() Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s", username, password, host, port, database, schema)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		log.Fatal(err)
	}
	dbInstance = &service{
		db: db,
	}
	return dbInstance
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	// Ping the database. A failing ping is reported, not fatal; live
	// matches are in-memory only and must outlast a database blip.
	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	// Database is up, add more statistics
	stats["status"] = "up"
	stats["message"] = "It's healthy"

	// Get database stats (like open connections, in use, idle, etc.)
	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	// Evaluate stats to provide a health message
	if dbStats.OpenConnections > 40 { // Assuming 50 is the max for this example
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	if dbStats.MaxIdleClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many idle connections are being closed, consider revising the connection pool settings."
	}

	if dbStats.MaxLifetimeClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many connections are being closed due to max lifetime, consider increasing max lifetime or revising the connection usage pattern."
	}

	return stats
}

const createMatchResultsTable = `
CREATE TABLE IF NOT EXISTS match_results (
	room_id TEXT PRIMARY KEY,
	player_a_id TEXT NOT NULL,
	player_a_username TEXT NOT NULL,
	player_b_id TEXT NOT NULL,
	player_b_username TEXT NOT NULL,
	rounds_played INT NOT NULL,
	final_round_state TEXT NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SaveMatchResult archives one finished room. The table is created lazily
// so a fresh database works without migrations.
func (s *service) SaveMatchResult(ctx context.Context, room *internal.Room) error {
	if _, err := s.db.ExecContext(ctx, createMatchResultsTable); err != nil {
		return fmt.Errorf("create match_results table: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO match_results (room_id, player_a_id, player_a_username, player_b_id, player_b_username, rounds_played, final_round_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (room_id) DO NOTHING`,
		room.Id,
		room.PlayerA.Id,
		room.PlayerA.Username,
		room.PlayerB.Id,
		room.PlayerB.Username,
		room.MatchState.Round,
		string(room.MatchState.RoundState),
	)
	if err != nil {
		return fmt.Errorf("insert match result for room %s: %w", room.Id, err)
	}
	return nil
}

// Close closes the database connection.
// It logs a message indicating the disconnection from the specific database.
// If the connection is successfully closed, it returns nil.
// If an error occurs while closing the connection, it returns the error.
func (s *service) Close() error {
	log.Printf("Disconnected from database: %s", database)
	return s.db.Close()
}
