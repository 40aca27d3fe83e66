package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"signal-radar/internal/database"
	"signal-radar/internal/database/postgres"
	"signal-radar/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, is_active,
	first_name, last_name, bio, avatar_url, location, linkedin_url, github_url, website,
	skills, experience_years, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	skills, err := encodeSkills(u.Profile.Skills)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, is_active,
			first_name, last_name, bio, avatar_url, location, linkedin_url, github_url, website,
			skills, experience_years)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb, $15)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.IsActive,
		u.Profile.FirstName, u.Profile.LastName, u.Profile.Bio, u.Profile.AvatarURL, u.Profile.Location,
		u.Profile.LinkedInURL, u.Profile.GitHubURL, u.Profile.Website,
		skills, u.Profile.ExperienceYears,
	)
	return mapUserWriteError(err)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		strings.ToLower(email), excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	skills, err := encodeSkills(u.Profile.Skills)
	if err != nil {
		return err
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE users SET
			username = $2, email = $3, password_hash = $4, is_active = $5,
			first_name = $6, last_name = $7, bio = $8, avatar_url = $9, location = $10,
			linkedin_url = $11, github_url = $12, website = $13,
			skills = $14::jsonb, experience_years = $15, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.IsActive,
		u.Profile.FirstName, u.Profile.LastName, u.Profile.Bio, u.Profile.AvatarURL, u.Profile.Location,
		u.Profile.LinkedInURL, u.Profile.GitHubURL, u.Profile.Website,
		skills, u.Profile.ExperienceYears,
	)
	if err != nil {
		return mapUserWriteError(err)
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// List returns active users matching f.Query on username or name, newest
// first, together with the unpaged total.
func (r *PostgresUserRepository) List(ctx context.Context, f user.ListFilter) ([]user.User, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}

	pattern := ""
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern = "%" + q + "%"
	}

	const where = `WHERE is_active
		AND ($1 = '' OR username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users `+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users `+where+`
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		pattern, limit, skip,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u      user.User
		skills []byte
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive,
		&u.Profile.FirstName, &u.Profile.LastName, &u.Profile.Bio, &u.Profile.AvatarURL, &u.Profile.Location,
		&u.Profile.LinkedInURL, &u.Profile.GitHubURL, &u.Profile.Website,
		&skills, &u.Profile.ExperienceYears, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &u.Profile.Skills); err != nil {
			return user.User{}, err
		}
	}
	if u.Profile.Skills == nil {
		u.Profile.Skills = []string{}
	}
	return u, nil
}

func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func mapUserWriteError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := postgres.UniqueViolation(err); ok {
		if strings.Contains(constraint, "email") {
			return user.ErrDuplicateEmail
		}
		return user.ErrDuplicateUsername
	}
	return err
}

func isNoRows(err error) bool {
	return err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows)
}
