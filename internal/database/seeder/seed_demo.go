package seeder

import (
	"context"
	"errors"
	"fmt"

	"signal-radar/internal/database"
	"signal-radar/internal/domain/signal"

	"golang.org/x/crypto/bcrypt"
)

// DemoSeeder creates a handful of users with signals in every category so
// matching and chat can be shown on an empty database. Users that already
// exist are left untouched, along with their signals.
type DemoSeeder struct {
	Password string
}

func (DemoSeeder) Name() string { return "demo" }

type demoUser struct {
	Username  string
	Email     string
	FirstName string
	Skills    []string
	Signals   []demoSignal
}

type demoSignal struct {
	CategoryID int
	Details    string
}

var demoUsers = []demoUser{
	{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		Skills:    []string{"Go", "PostgreSQL", "Kubernetes"},
		Signals: []demoSignal{
			{CategoryID: signal.CategoryFreelancer, Details: `{"role":"Backend engineer","skills":["Go","PostgreSQL"],"rate_per_hour":60}`},
		},
	},
	{
		Username:  "bob",
		Email:     "bob@example.com",
		FirstName: "Bob",
		Skills:    []string{"Product", "Marketing"},
		Signals: []demoSignal{
			{CategoryID: signal.CategoryStartupIdea, Details: `{"title":"Local farm marketplace","needs":["Go backend","mobile"],"stage":"prototype"}`},
		},
	},
	{
		Username:  "carol",
		Email:     "carol@example.com",
		FirstName: "Carol",
		Skills:    []string{"Fundraising"},
		Signals: []demoSignal{
			{CategoryID: signal.CategoryInvestor, Details: `{"ticket_size":"50k-200k","focus":["marketplace","agritech"]}`},
		},
	},
	{
		Username:  "dave",
		Email:     "dave@example.com",
		FirstName: "Dave",
		Skills:    []string{"Design", "Figma"},
		Signals: []demoSignal{
			{CategoryID: signal.CategoryFreelancer, Details: `{"role":"Product designer","skills":["Figma","UX research"]}`},
		},
	},
}

func (s DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if s.Password == "" {
		return errors.New("demo password is empty")
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "username", "email", "password_hash", "skills"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "signals", "id", "user_id", "signal_category_id", "details", "is_active"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, u := range demoUsers {
		var id string
		err := tx.QueryRow(
			ctx,
			`INSERT INTO users (username, email, password_hash, first_name, skills)
			 VALUES ($1, $2, $3, $4, to_jsonb($5::text[]))
			 ON CONFLICT (username) DO NOTHING
			 RETURNING id`,
			u.Username,
			u.Email,
			string(hash),
			u.FirstName,
			u.Skills,
		).Scan(&id)
		if err != nil {
			if isNoRows(err) {
				continue
			}
			return fmt.Errorf("user %s: %w", u.Username, err)
		}

		for _, sg := range u.Signals {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO signals (user_id, signal_category_id, details) VALUES ($1, $2, $3::jsonb)`,
				id,
				sg.CategoryID,
				sg.Details,
			); err != nil {
				return fmt.Errorf("signal for %s: %w", u.Username, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
