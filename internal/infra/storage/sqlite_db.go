// Package storage provides the persistence layer for the simulation.
// It implements the repository pattern to keep the domain packages
// pure: domain code only ever sees the events.EventPersister interface,
// never *sqlx.DB directly.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// InitSQLite opens (creating if necessary) the local SQLite database and
// applies the table schema for events, players, appliances, corpses,
// and scheduled jobs.
func InitSQLite(dbPath string) (*sqlx.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sqlx.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			x REAL NOT NULL, y REAL NOT NULL,
			health REAL NOT NULL, hunger REAL NOT NULL, thirst REAL NOT NULL, warmth REAL NOT NULL,
			is_dead BOOLEAN NOT NULL DEFAULT 0,
			is_online BOOLEAN NOT NULL DEFAULT 0,
			last_hit_time INTEGER NOT NULL DEFAULT 0,
			last_respawn_time INTEGER NOT NULL DEFAULT 0,
			connected_at INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			instance_id TEXT PRIMARY KEY,
			def_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			location_kind TEXT NOT NULL,
			owner TEXT, slot INTEGER,
			container_type TEXT, container_id TEXT, slot_index INTEGER,
			item_data TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS active_effects (
			effect_id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			target_player_id TEXT,
			item_def_id TEXT, consuming_item_instance_id TEXT,
			started_at INTEGER NOT NULL, ends_at INTEGER NOT NULL, next_tick_at INTEGER NOT NULL,
			total_amount REAL NOT NULL DEFAULT 0, amount_applied_so_far REAL NOT NULL DEFAULT 0,
			effect_type TEXT NOT NULL, tick_interval_micros INTEGER NOT NULL,
			source_def_id TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS campfires (
			id TEXT PRIMARY KEY,
			x REAL NOT NULL, y REAL NOT NULL, chunk_id INTEGER NOT NULL,
			is_burning BOOLEAN NOT NULL DEFAULT 0, is_cooking BOOLEAN NOT NULL DEFAULT 0,
			current_fuel_def_id TEXT, remaining_fuel_burn_time_secs REAL NOT NULL DEFAULT 0,
			health REAL NOT NULL, max_health REAL NOT NULL, is_destroyed BOOLEAN NOT NULL DEFAULT 0,
			attached_broth_pot_id TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS broth_pots (
			id TEXT PRIMARY KEY,
			x REAL NOT NULL, y REAL NOT NULL, chunk_id INTEGER NOT NULL,
			attached_campfire_id TEXT,
			water_level_ml INTEGER NOT NULL DEFAULT 0, rain_carry_ml REAL NOT NULL DEFAULT 0,
			is_seawater BOOLEAN NOT NULL DEFAULT 0, is_desalinating BOOLEAN NOT NULL DEFAULT 0,
			is_cooking BOOLEAN NOT NULL DEFAULT 0, cooking_recipe_name TEXT,
			cooking_progress_secs REAL NOT NULL DEFAULT 0, cooking_required_secs REAL NOT NULL DEFAULT 0,
			output_def_id TEXT,
			health REAL NOT NULL, max_health REAL NOT NULL, is_destroyed BOOLEAN NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS furnaces (
			id TEXT PRIMARY KEY,
			x REAL NOT NULL, y REAL NOT NULL, chunk_id INTEGER NOT NULL,
			is_burning BOOLEAN NOT NULL DEFAULT 0,
			current_fuel_def_id TEXT, remaining_fuel_burn_time_secs REAL NOT NULL DEFAULT 0,
			health REAL NOT NULL, max_health REAL NOT NULL, is_destroyed BOOLEAN NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS rain_collectors (
			id TEXT PRIMARY KEY,
			x REAL NOT NULL, y REAL NOT NULL, chunk_id INTEGER NOT NULL,
			water_level_ml INTEGER NOT NULL DEFAULT 0, capacity_ml INTEGER NOT NULL,
			rain_carry_ml REAL NOT NULL DEFAULT 0,
			health REAL NOT NULL, max_health REAL NOT NULL, is_destroyed BOOLEAN NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS corpses (
			id TEXT PRIMARY KEY,
			player_identity TEXT NOT NULL,
			x REAL NOT NULL, y REAL NOT NULL, chunk_id INTEGER NOT NULL,
			death_time_micros INTEGER NOT NULL, despawn_scheduled_at INTEGER NOT NULL,
			spawned_at_micros INTEGER NOT NULL,
			health REAL NOT NULL, max_health REAL NOT NULL,
			is_offline BOOLEAN NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS projectiles (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			item_def_id TEXT NOT NULL, ammo_def_id TEXT,
			source_type TEXT NOT NULL, npc_projectile_type TEXT,
			start_time_micros INTEGER NOT NULL,
			start_x REAL NOT NULL, start_y REAL NOT NULL,
			velocity_x REAL NOT NULL, velocity_y REAL NOT NULL,
			max_range REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scheduled_jobs (
			kind TEXT NOT NULL, key TEXT NOT NULL,
			fire_at INTEGER NOT NULL, interval INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (kind, key)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			payload BLOB NOT NULL,
			payload_compressed BOOLEAN NOT NULL DEFAULT 0,
			is_revealed BOOLEAN NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_actor_id ON events(actor_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_container ON inventory_items(container_type, container_id);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
