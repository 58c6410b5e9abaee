package mysql

import (
	"context"
	"database/sql"
	"strings"
)

// Migrate creates the tables and the indexes the query paths depend on.
// Index errors from re-runs (duplicate key name) are ignored.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id VARCHAR(64) PRIMARY KEY,
  email VARCHAR(255) NOT NULL UNIQUE,
  tier VARCHAR(16) NOT NULL DEFAULT 'free',
  credits INT NOT NULL DEFAULT 0,
  created_at DATETIME(3) NOT NULL,
  last_seen_at DATETIME(3) NOT NULL,
  payment_customer_id VARCHAR(64) NOT NULL DEFAULT ''
)`,
		`CREATE TABLE IF NOT EXISTS analyses (
  id CHAR(36) PRIMARY KEY,
  user_id VARCHAR(64) NOT NULL,
  fingerprint CHAR(64) NOT NULL,
  source TEXT NOT NULL,
  company_name VARCHAR(255) NOT NULL DEFAULT '',
  kind VARCHAR(8) NOT NULL,
  industry_sector VARCHAR(64) NOT NULL DEFAULT '',
  reporting_period VARCHAR(32) NOT NULL DEFAULT '',
  created_at DATETIME(3) NOT NULL,
  environmental DOUBLE NOT NULL DEFAULT 0,
  social DOUBLE NOT NULL DEFAULT 0,
  governance DOUBLE NOT NULL DEFAULT 0,
  overall DOUBLE NOT NULL DEFAULT 0,
  confidence DOUBLE NOT NULL DEFAULT 0,
  result_json LONGTEXT NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS user_activity (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  user_id VARCHAR(64) NOT NULL,
  event VARCHAR(32) NOT NULL,
  payload TEXT,
  created_at DATETIME(3) NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS companies (
  name VARCHAR(255) PRIMARY KEY,
  industry_sector VARCHAR(64) NOT NULL DEFAULT '',
  latest_analysis_id CHAR(36) NOT NULL DEFAULT '',
  latest_overall DOUBLE NOT NULL DEFAULT 0,
  history_json LONGTEXT,
  updated_at DATETIME(3) NOT NULL
)`,
		`CREATE INDEX idx_analyses_user_created ON analyses (user_id, created_at DESC)`,
		`CREATE INDEX idx_analyses_company_created ON analyses (company_name, created_at DESC)`,
		`CREATE INDEX idx_analyses_sector_score ON analyses (industry_sector, overall DESC)`,
		`CREATE INDEX idx_activity_user_event ON user_activity (user_id, event, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if strings.HasPrefix(stmt, "CREATE INDEX") && strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return err
		}
	}
	return nil
}
