package catalog

import (
	"context"
	"fmt"

	"nba-qa-workers/internal/models"

	"github.com/jmoiron/sqlx"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS nba_people (
	id         BIGINT PRIMARY KEY,
	full_name  TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	is_active  BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS nba_teams (
	id           BIGINT PRIMARY KEY,
	full_name    TEXT NOT NULL,
	abbreviation TEXT NOT NULL,
	nickname     TEXT NOT NULL DEFAULT '',
	city         TEXT NOT NULL DEFAULT ''
);`

const (
	selectPeople = `SELECT id, full_name, first_name, last_name, is_active FROM nba_people ORDER BY id`
	selectTeams  = `SELECT id, full_name, abbreviation, nickname, city FROM nba_teams ORDER BY id`

	upsertPerson = `INSERT INTO nba_people (id, full_name, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name, is_active = EXCLUDED.is_active`
	upsertTeam = `INSERT INTO nba_teams (id, full_name, abbreviation, nickname, city)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, abbreviation = EXCLUDED.abbreviation,
			nickname = EXCLUDED.nickname, city = EXCLUDED.city`
)

// PostgresStore keeps the catalog in the nba_people and nba_teams tables.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create catalog tables: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Catalog, error) {
	var people []models.Person
	if err := s.db.SelectContext(ctx, &people, selectPeople); err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}

	var teams []models.Team
	if err := s.db.SelectContext(ctx, &teams, selectTeams); err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	if len(people) == 0 && len(teams) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(people, teams), nil
}

// Save upserts every entry in one transaction.
func (s *PostgresStore) Save(ctx context.Context, c *Catalog) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range c.People() {
		if _, err := tx.ExecContext(ctx, upsertPerson, p.ID, p.FullName, p.FirstName, p.LastName, p.IsActive); err != nil {
			return fmt.Errorf("upsert person %d: %w", p.ID, err)
		}
	}
	for _, t := range c.Teams() {
		if _, err := tx.ExecContext(ctx, upsertTeam, t.ID, t.FullName, t.Abbreviation, t.Nickname, t.City); err != nil {
			return fmt.Errorf("upsert team %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}
