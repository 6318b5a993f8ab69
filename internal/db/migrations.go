package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'violation_status') THEN
			CREATE TYPE violation_status AS ENUM ('pending', 'warning_sent', 'escalated', 'resolved', 'host_complied');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_status') THEN
			CREATE TYPE complaint_status AS ENUM ('pending', 'in_review', 'resolved', 'dismissed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS hosts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		phone VARCHAR(32)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_hosts_name ON hosts (name);`,
	`CREATE TABLE IF NOT EXISTS violations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		plate_number VARCHAR(32) NOT NULL,
		location TEXT NOT NULL,
		gps_id VARCHAR(64),
		geofence_zone VARCHAR(128),
		status violation_status NOT NULL DEFAULT 'pending',
		detected_at TIMESTAMPTZ NOT NULL,
		warning_sent_at TIMESTAMPTZ,
		escalated_at TIMESTAMPTZ,
		resolved_at TIMESTAMPTZ,
		host_id VARCHAR(64),
		host_name VARCHAR(128),
		host_phone VARCHAR(32),
		violation_type VARCHAR(64),
		photo_url TEXT,
		notes TEXT,
		created_by UUID NOT NULL,
		ticket_issued BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_plate_number ON violations (plate_number);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_status ON violations (status);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_detected_at ON violations (detected_at DESC, id DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_violations_location ON violations (location);`,
	`CREATE TABLE IF NOT EXISTS violation_status_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		violation_id UUID NOT NULL REFERENCES violations(id) ON DELETE CASCADE,
		old_status violation_status,
		new_status violation_status NOT NULL,
		note TEXT,
		changed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_violation_status_log_violation_id ON violation_status_log (violation_id);`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title VARCHAR(256) NOT NULL,
		description TEXT NOT NULL,
		reporter_name VARCHAR(128),
		reporter_phone VARCHAR(32),
		location TEXT,
		plate_number VARCHAR(32),
		violation_id UUID REFERENCES violations(id) ON DELETE SET NULL,
		status complaint_status NOT NULL DEFAULT 'pending',
		created_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints (created_at DESC, id DESC);`,
	`CREATE TABLE IF NOT EXISTS visitors (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		host_id VARCHAR(64) NOT NULL,
		host_name VARCHAR(128) NOT NULL,
		plate_number VARCHAR(32) NOT NULL,
		vehicle_category VARCHAR(64),
		gps_id VARCHAR(64),
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_plate_number ON visitors (plate_number);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_violations_updated_at') THEN
			CREATE TRIGGER trg_violations_updated_at
				BEFORE UPDATE ON violations
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(database *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
