package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"roomy/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

//go:embed schema.sql
var schemaSQL string

// PostgresRepository handles database operations
type PostgresRepository struct {
	db         *sqlx.DB
	sessionTTL time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository. Sessions idle
// longer than sessionTTL are treated as absent; zero disables expiry.
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int, sessionTTL time.Duration) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db, sessionTTL: sessionTTL}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Migrate creates the tables this service owns when they are missing
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const sessionColumns = `session_id, user_id, history, context, version, created_at, updated_at`

// GetOrCreateSession loads a live session or creates an empty one
func (r *PostgresRepository) GetOrCreateSession(ctx context.Context, sessionID string, userID *string) (*model.ChatSession, error) {
	if r.sessionTTL > 0 {
		purge := `DELETE FROM chat_sessions WHERE session_id = $1 AND updated_at < NOW() - make_interval(secs => $2)`
		if _, err := r.db.ExecContext(ctx, purge, sessionID, int64(r.sessionTTL.Seconds())); err != nil {
			return nil, fmt.Errorf("failed to purge expired session: %w", err)
		}
	}

	insert := `
		INSERT INTO chat_sessions (session_id, user_id, history, context, version)
		VALUES ($1, $2, '[]', '{}', 0)
		ON CONFLICT (session_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, sessionID, userID); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	var session model.ChatSession
	query := fmt.Sprintf(`SELECT %s FROM chat_sessions WHERE session_id = $1`, sessionColumns)
	if err := r.db.GetContext(ctx, &session, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// UpdateSession writes history and context if the stored version still
// matches session.Version, then advances the version.
func (r *PostgresRepository) UpdateSession(ctx context.Context, session *model.ChatSession) error {
	query := `
		UPDATE chat_sessions
		SET user_id = COALESCE($2, user_id), history = $3, context = $4,
			version = version + 1, updated_at = NOW()
		WHERE session_id = $1 AND version = $5
		RETURNING version, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		session.SessionID, session.UserID, session.History, session.Context, session.Version,
	).Scan(&session.Version, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionConflict
		}
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its history
func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes every session idle longer than the TTL
func (r *PostgresRepository) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	if r.sessionTTL <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM chat_sessions WHERE updated_at < NOW() - make_interval(secs => $1)`,
		int64(r.sessionTTL.Seconds()))
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}

// GetPreferences returns the stored preferences of a user, or nil
func (r *PostgresRepository) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	var prefs model.Preferences
	query := `
		SELECT user_id, budget, university, preferred_area, preferred_room_type,
			preferred_amenity, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`
	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

// SaveLearnedPreferences merges the learned values into the stored ones.
// Fields not learned this time keep their stored value.
func (r *PostgresRepository) SaveLearnedPreferences(ctx context.Context, userID string, learned model.LearnedPreferences) error {
	if learned.IsEmpty() {
		return nil
	}
	query := `
		INSERT INTO user_preferences (user_id, preferred_area, preferred_room_type, preferred_amenity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_area = COALESCE(EXCLUDED.preferred_area, user_preferences.preferred_area),
			preferred_room_type = COALESCE(EXCLUDED.preferred_room_type, user_preferences.preferred_room_type),
			preferred_amenity = COALESCE(EXCLUDED.preferred_amenity, user_preferences.preferred_amenity),
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, learned.Area, learned.RoomType, learned.Amenity)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// ClearPreferences forgets everything stored for a user
func (r *PostgresRepository) ClearPreferences(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	return nil
}

const dormColumns = `id, name, price, university, area, room_type, amenities, description, verified, created_at, updated_at`

// ListDorms returns dorm listings, verified ones first unless q.Near asks for
// similarity order
func (r *PostgresRepository) ListDorms(ctx context.Context, q model.DormQuery) ([]model.Dorm, error) {
	query, args := dormListQuery(q)

	var dorms []model.Dorm
	if err := r.db.SelectContext(ctx, &dorms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch dorms: %w", err)
	}
	return dorms, nil
}

func dormListQuery(q model.DormQuery) (string, []interface{}) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	columns := dormColumns
	orderBy := "verified DESC, id"
	if len(q.Near) > 0 {
		// <=> is cosine distance; similarity is its complement
		columns += fmt.Sprintf(", 1 - (embedding <=> $%d) AS similarity", argIndex)
		orderBy = fmt.Sprintf("embedding <=> $%d ASC NULLS LAST, %s", argIndex, orderBy)
		args = append(args, pgvector.NewVector(q.Near))
		argIndex++
	}

	if q.PriceMax != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *q.PriceMax)
		argIndex++
	}

	query := fmt.Sprintf(`SELECT %s FROM dorms WHERE %s ORDER BY %s`,
		columns, strings.Join(whereClauses, " AND "), orderBy)
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, q.Limit)
	}
	return query, args
}

const profileColumns = `user_id AS id, name, budget, university, room_type, area, personality_answers, boost_profile`

// GetProfile returns the roommate profile of a user, or nil
func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	query := fmt.Sprintf(`SELECT %s FROM roommate_profiles WHERE user_id = $1`, profileColumns)
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// ListRoommateProfiles returns active profiles other than excludeUserID,
// most recently updated first
func (r *PostgresRepository) ListRoommateProfiles(ctx context.Context, excludeUserID string, limit int) ([]model.Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM roommate_profiles
		WHERE is_active = true AND user_id <> $1
		ORDER BY updated_at DESC
		LIMIT $2
	`, profileColumns)

	var profiles []model.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, excludeUserID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	return profiles, nil
}

// GetProfiles returns the active profiles with the given user ids, in the
// order the ids were given. Unknown ids are skipped.
func (r *PostgresRepository) GetProfiles(ctx context.Context, userIDs []string) ([]model.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT %s FROM roommate_profiles
		WHERE is_active = true AND user_id = ANY($1)
		ORDER BY array_position($1, user_id)
	`, profileColumns)

	var profiles []model.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	return profiles, nil
}

// UpdateDormEmbeddings stores description embeddings for multiple dorms
func (r *PostgresRepository) UpdateDormEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE dorms SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		res, err := stmt.ExecContext(ctx, pgvector.NewVector(item.Embedding), item.DormID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("dorm_id %d: %v", item.DormID, err))
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			errs = append(errs, fmt.Sprintf("dorm_id %d: not found", item.DormID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// LogSecurityEvent writes an entry to the security audit log
func (r *PostgresRepository) LogSecurityEvent(ctx context.Context, event model.AuditEvent) error {
	query := `
		INSERT INTO security_audit_log (event, detail, stack, request_id, path)
		VALUES (:event, :detail, :stack, :request_id, :path)
	`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		log.Printf("Warning: Failed to write audit entry %q: %v", event.Event, err)
		return fmt.Errorf("failed to log security event: %w", err)
	}
	return nil
}
