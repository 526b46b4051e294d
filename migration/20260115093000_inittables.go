package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitTables, downInitTables)
}

func upInitTables(ctx context.Context, tx *sql.Tx) error {
	// Create users table
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			phone VARCHAR(32),
			password_hash VARCHAR(255),
			google_id VARCHAR(255) UNIQUE,
			avatar VARCHAR(512),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return err
	}

	// Create vehicles table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE vehicles (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			model VARCHAR(255) NOT NULL,
			manufacturer VARCHAR(255) NOT NULL,
			vehicle_number VARCHAR(32) NOT NULL UNIQUE,
			insurance_expiry TIMESTAMPTZ NOT NULL,
			tax_date TIMESTAMPTZ NOT NULL,
			test_date TIMESTAMPTZ NOT NULL,
			pollution_date TIMESTAMPTZ NOT NULL,
			fixed_rate_for5_km NUMERIC(10,2) NOT NULL,
			per_km_rate NUMERIC(10,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_vehicles_user
				FOREIGN KEY(user_id)
				REFERENCES users(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_vehicles_user_id ON vehicles(user_id);`)
	if err != nil {
		return err
	}

	// Create drivers table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE drivers (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(32) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_drivers_user
				FOREIGN KEY(user_id)
				REFERENCES users(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_drivers_user_id ON drivers(user_id);`)
	if err != nil {
		return err
	}

	// Create contracts table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE contracts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			contract_name VARCHAR(255) NOT NULL,
			rate NUMERIC(10,2) NOT NULL,
			vehicle_id UUID NOT NULL,
			average_distance NUMERIC(10,2) NOT NULL,
			contract_end_date TIMESTAMPTZ NOT NULL,
			contact_phone VARCHAR(32),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_contracts_user
				FOREIGN KEY(user_id)
				REFERENCES users(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE,
			CONSTRAINT fk_contracts_vehicle
				FOREIGN KEY(vehicle_id)
				REFERENCES vehicles(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_contracts_user_id ON contracts(user_id);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_contracts_end_date ON contracts(contract_end_date);`)
	if err != nil {
		return err
	}

	// Create trips table
	_, err = tx.ExecContext(ctx, `
		CREATE TABLE trips (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			trip_type VARCHAR(16) NOT NULL,
			contract_id UUID,
			vehicle_id UUID NOT NULL,
			client_name VARCHAR(255) NOT NULL,
			client_mobile VARCHAR(32),
			driver_name VARCHAR(255) NOT NULL,
			driver_salary NUMERIC(10,2) NOT NULL DEFAULT 0,
			driver_salary_paid BOOLEAN NOT NULL DEFAULT FALSE,
			is_driver_salary_manual BOOLEAN NOT NULL DEFAULT FALSE,
			trip_rate NUMERIC(10,2) NOT NULL DEFAULT 0,
			owner_take_home NUMERIC(10,2) NOT NULL DEFAULT 0,
			start_km NUMERIC(10,2),
			end_km NUMERIC(10,2),
			distance NUMERIC(10,2),
			fixed_rate_used NUMERIC(10,2),
			per_km_rate_used NUMERIC(10,2),
			additional_km NUMERIC(10,2),
			trip_date TIMESTAMPTZ NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_trips_user
				FOREIGN KEY(user_id)
				REFERENCES users(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE,
			CONSTRAINT fk_trips_vehicle
				FOREIGN KEY(vehicle_id)
				REFERENCES vehicles(id)
				ON UPDATE CASCADE
				ON DELETE CASCADE,
			CONSTRAINT fk_trips_contract
				FOREIGN KEY(contract_id)
				REFERENCES contracts(id)
				ON UPDATE CASCADE
				ON DELETE SET NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_trips_user_id ON trips(user_id);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_trips_contract_id ON trips(contract_id);`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_trips_trip_date ON trips(trip_date);`)
	if err != nil {
		return err
	}

	return nil
}

func downInitTables(ctx context.Context, tx *sql.Tx) error {
	// Foreign key constraints ensure correct drop order or will fail.
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS trips;`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS contracts;`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS drivers;`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS vehicles;`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS users;`)
	if err != nil {
		return err
	}

	return nil
}
