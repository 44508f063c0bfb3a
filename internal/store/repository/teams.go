package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/store"
)

// TeamRepository reads and writes the team registry tables.
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

type teamRow struct {
	code     string
	fullName string
}

type aliasRow struct {
	code  string
	alias string
}

type providerRow struct {
	code     string
	provider string
	id       string
}

// GetAll returns every stored team record, ordered by code, with aliases in
// their stored order.
func (r *TeamRepository) GetAll(ctx context.Context) ([]registry.TeamRecord, error) {
	db := r.db.DB()

	rows, err := db.QueryContext(ctx, `SELECT code, full_name FROM mlb_teams ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []teamRow
	for rows.Next() {
		var t teamRow
		if err := rows.Scan(&t.code, &t.fullName); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aliasRows, err := db.QueryContext(ctx, `SELECT code, alias FROM mlb_team_aliases ORDER BY code, position`)
	if err != nil {
		return nil, fmt.Errorf("querying aliases: %w", err)
	}
	defer aliasRows.Close()

	var aliases []aliasRow
	for aliasRows.Next() {
		var a aliasRow
		if err := aliasRows.Scan(&a.code, &a.alias); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}
		aliases = append(aliases, a)
	}
	if err := aliasRows.Err(); err != nil {
		return nil, err
	}

	idRows, err := db.QueryContext(ctx, `SELECT code, provider, provider_id FROM mlb_team_provider_ids`)
	if err != nil {
		return nil, fmt.Errorf("querying provider ids: %w", err)
	}
	defer idRows.Close()

	var ids []providerRow
	for idRows.Next() {
		var p providerRow
		if err := idRows.Scan(&p.code, &p.provider, &p.id); err != nil {
			return nil, fmt.Errorf("scanning provider id: %w", err)
		}
		ids = append(ids, p)
	}
	if err := idRows.Err(); err != nil {
		return nil, err
	}

	return assemble(teams, aliases, ids), nil
}

// LoadRegistry builds a validated registry from the stored records.
func (r *TeamRepository) LoadRegistry(ctx context.Context) (*registry.Registry, error) {
	records, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("mlb_teams is empty; seed it first")
	}
	return registry.New(records)
}

// Upsert writes records in one transaction. Each team's aliases and provider
// ids are replaced wholesale.
func (r *TeamRepository) Upsert(ctx context.Context, records []registry.TeamRecord) error {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO mlb_teams (code, full_name)
			VALUES ($1, $2)
			ON CONFLICT (code) DO UPDATE
			SET full_name = EXCLUDED.full_name, updated_at = NOW()
		`, rec.Code, rec.FullName)
		if err != nil {
			return fmt.Errorf("upserting team %s: %w", rec.Code, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM mlb_team_aliases WHERE code = $1`, rec.Code); err != nil {
			return fmt.Errorf("clearing aliases for %s: %w", rec.Code, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO mlb_team_aliases (code, position, alias)
			SELECT $1, t.ord - 1, t.alias
			FROM unnest($2::text[]) WITH ORDINALITY AS t(alias, ord)
		`, rec.Code, pq.Array(rec.Aliases))
		if err != nil {
			return fmt.Errorf("inserting aliases for %s: %w", rec.Code, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM mlb_team_provider_ids WHERE code = $1`, rec.Code); err != nil {
			return fmt.Errorf("clearing provider ids for %s: %w", rec.Code, err)
		}
		for provider, id := range rec.ProviderIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO mlb_team_provider_ids (code, provider, provider_id) VALUES ($1, $2, $3)`,
				rec.Code, string(provider), id)
			if err != nil {
				return fmt.Errorf("inserting %s id for %s: %w", provider, rec.Code, err)
			}
		}
	}

	return tx.Commit()
}

// Count returns the number of stored teams.
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM mlb_teams`).Scan(&n)
	return n, err
}

func assemble(teams []teamRow, aliases []aliasRow, ids []providerRow) []registry.TeamRecord {
	index := make(map[string]int, len(teams))
	records := make([]registry.TeamRecord, len(teams))
	for i, t := range teams {
		records[i] = registry.TeamRecord{
			Code:        t.code,
			FullName:    t.fullName,
			ProviderIDs: make(map[registry.Provider]string),
		}
		index[t.code] = i
	}
	for _, a := range aliases {
		if i, ok := index[a.code]; ok {
			records[i].Aliases = append(records[i].Aliases, a.alias)
		}
	}
	for _, p := range ids {
		if i, ok := index[p.code]; ok {
			records[i].ProviderIDs[registry.Provider(p.provider)] = p.id
		}
	}
	return records
}

// OpenRegistry loads a registry from a Postgres DSN, a JSON dataset path, or
// the embedded dataset when source is empty. The database is returned open
// for DSN sources and nil otherwise.
func OpenRegistry(ctx context.Context, source string) (*registry.Registry, *store.Database, error) {
	if !store.IsDSN(source) {
		reg, err := registry.Load(source)
		return reg, nil, err
	}

	db, err := store.NewDatabase(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	reg, err := NewTeamRepository(db).LoadRegistry(ctx)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return reg, db, nil
}
