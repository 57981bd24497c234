package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/billfolio/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	logger.L.Info("Checking database migrations", "databasePath", databasePath)
	migrateDatabase()

	// Posting amounts are stored as TEXT: they are exact decimals and must
	// never round-trip through REAL.
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS normalized_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id TEXT NOT NULL,
		source TEXT NOT NULL,
		source_file TEXT NOT NULL,
		source_line INTEGER NOT NULL,
		date TEXT NOT NULL,
		time TEXT,
		payee TEXT,
		narration TEXT NOT NULL,
		tag TEXT,
		flag TEXT NOT NULL,
		trade_no TEXT,
		merchant_order_no TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_file, source_line)
	);

	CREATE TABLE IF NOT EXISTS postings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entry_id INTEGER NOT NULL,
		account TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		FOREIGN KEY(entry_id) REFERENCES normalized_transactions(id)
	);
	`

	if _, err = DB.Exec(createTableStatement); err != nil {
		logger.L.Error("failed to create tables", "error", err)
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	logger.L.Info("Database tables ensured/created.")
}

func migrateDatabase() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='normalized_transactions'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.L.Info("normalized_transactions table does not exist, no migration needed as table will be created.")
			return
		}
		logger.L.Error("Error checking for normalized_transactions table", "error", err)
		return
	}

	rows, err := DB.Query("PRAGMA table_info(normalized_transactions)")
	if err != nil {
		logger.L.Error("Error querying table schema for normalized_transactions", "error", err)
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			logger.L.Error("Error scanning column info", "error", err)
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		logger.L.Error("Error iterating over column info", "error", err)
		return
	}

	if _, ok := columnExists["trade_no"]; !ok {
		if _, err := DB.Exec("ALTER TABLE normalized_transactions ADD COLUMN trade_no TEXT"); err != nil {
			logger.L.Error("Error adding trade_no column", "error", err)
		} else {
			logger.L.Info("Added trade_no column to normalized_transactions table")
		}
	}
	if _, ok := columnExists["merchant_order_no"]; !ok {
		if _, err := DB.Exec("ALTER TABLE normalized_transactions ADD COLUMN merchant_order_no TEXT"); err != nil {
			logger.L.Error("Error adding merchant_order_no column", "error", err)
		} else {
			logger.L.Info("Added merchant_order_no column to normalized_transactions table")
		}
	}
}
