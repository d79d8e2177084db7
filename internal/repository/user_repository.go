package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/pkg/database"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, password_hash, created_at,
		strava_athlete_id, strava_access_token, strava_refresh_token, strava_token_expires_at`

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("user %s already exists: %w", user.Username, ErrDuplicateUsername)
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// SetStravaCredential stores the athlete id and token triple atomically
func (r *userRepository) SetStravaCredential(ctx context.Context, userID string, cred domain.StravaCredential) error {
	query := `
		UPDATE users
		SET strava_athlete_id = $2,
		    strava_access_token = $3,
		    strava_refresh_token = $4,
		    strava_token_expires_at = $5
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		userID,
		cred.AthleteID,
		cred.AccessToken,
		cred.RefreshToken,
		cred.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store strava credential: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", userID, ErrNotFound)
	}

	return nil
}

// CompareAndSwapStravaTokens replaces the token triple only if the stored
// refresh token is still the one the caller read. A miss means a
// concurrent refresh already stored a newer credential.
func (r *userRepository) CompareAndSwapStravaTokens(ctx context.Context, userID, previousRefreshToken, accessToken, refreshToken string, expiresAt int64) (bool, error) {
	query := `
		UPDATE users
		SET strava_access_token = $3,
		    strava_refresh_token = $4,
		    strava_token_expires_at = $5
		WHERE id = $1 AND strava_refresh_token = $2
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		userID,
		previousRefreshToken,
		accessToken,
		refreshToken,
		expiresAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update strava tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var (
		athleteID    sql.NullInt64
		accessToken  sql.NullString
		refreshToken sql.NullString
		expiresAt    sql.NullInt64
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&athleteID,
		&accessToken,
		&refreshToken,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if athleteID.Valid {
		user.StravaAthleteID = &athleteID.Int64
	}
	if accessToken.Valid {
		user.StravaAccessToken = &accessToken.String
	}
	if refreshToken.Valid {
		user.StravaRefreshToken = &refreshToken.String
	}
	if expiresAt.Valid {
		user.StravaTokenExpiresAt = &expiresAt.Int64
	}

	return user, nil
}
