package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for history tracking.
const (
	runsTable       = "sustain_runs"
	fileScoresTable = "sustain_file_scores"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		dsn, dsnErr := mysqlDSN(connStr)
		if dsnErr != nil {
			return nil, dsnErr
		}
		db, err = sql.Open(driverFor(backend), dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}

	case schema.NoneBackend:
		// No-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// mysqlDSN makes the driver return DATETIME columns as time.Time.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// createHistoryTables creates the history tables when they are missing.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, createRunsQuery(backend)},
		{fileScoresTable, createFileScoresQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// createRunsQuery returns the CREATE TABLE query for sustain_runs.
func createRunsQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `CREATE TABLE IF NOT EXISTS sustain_runs (
			run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
			command VARCHAR(32) NOT NULL,
			start_time DATETIME(6) NOT NULL,
			end_time DATETIME(6),
			run_duration_ms INT,
			total_files INT NOT NULL DEFAULT 0,
			config_params TEXT
		)`
	case schema.PostgreSQLBackend:
		return `CREATE TABLE IF NOT EXISTS sustain_runs (
			run_id BIGSERIAL PRIMARY KEY,
			command TEXT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			run_duration_ms INT,
			total_files INT NOT NULL DEFAULT 0,
			config_params TEXT
		)`
	default: // SQLite
		return `CREATE TABLE IF NOT EXISTS sustain_runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			command TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT,
			run_duration_ms INTEGER,
			total_files INTEGER NOT NULL DEFAULT 0,
			config_params TEXT
		)`
	}
}

// createFileScoresQuery returns the CREATE TABLE query for sustain_file_scores.
func createFileScoresQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return `CREATE TABLE IF NOT EXISTS sustain_file_scores (
			run_id BIGINT NOT NULL,
			file_path VARCHAR(512) NOT NULL,
			version VARCHAR(16) NOT NULL,
			language VARCHAR(32) NOT NULL,
			analysis_time DATETIME(6) NOT NULL,
			score DOUBLE NOT NULL,
			scored BOOLEAN NOT NULL,
			code_loc INT NOT NULL,
			metrics TEXT NOT NULL,
			skip_reason VARCHAR(64) NOT NULL,
			PRIMARY KEY (run_id, file_path, version)
		)`
	case schema.PostgreSQLBackend:
		return `CREATE TABLE IF NOT EXISTS sustain_file_scores (
			run_id BIGINT NOT NULL,
			file_path TEXT NOT NULL,
			version TEXT NOT NULL,
			language TEXT NOT NULL,
			analysis_time TIMESTAMPTZ NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			scored BOOLEAN NOT NULL,
			code_loc INT NOT NULL,
			metrics TEXT NOT NULL,
			skip_reason TEXT NOT NULL,
			PRIMARY KEY (run_id, file_path, version)
		)`
	default: // SQLite
		return `CREATE TABLE IF NOT EXISTS sustain_file_scores (
			run_id INTEGER NOT NULL,
			file_path TEXT NOT NULL,
			version TEXT NOT NULL,
			language TEXT NOT NULL,
			analysis_time TEXT NOT NULL,
			score REAL NOT NULL,
			scored INTEGER NOT NULL,
			code_loc INTEGER NOT NULL,
			metrics TEXT NOT NULL,
			skip_reason TEXT NOT NULL,
			PRIMARY KEY (run_id, file_path, version)
		)`
	}
}

// disabled reports whether the store is a no-op.
func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// bind rewrites ? placeholders into $N for PostgreSQL.
func (hs *HistoryStoreImpl) bind(query string) string {
	if hs.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(command string, startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := hs.bind(`INSERT INTO sustain_runs (command, start_time, config_params) VALUES (?, ?, ?) RETURNING run_id`)
		err = hs.db.QueryRow(query, command, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = hs.db.Exec(`INSERT INTO sustain_runs (command, start_time, config_params) VALUES (?, ?, ?)`,
			command, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalFiles int) error {
	if hs.disabled() {
		return nil
	}

	row := hs.db.QueryRow(hs.bind(`SELECT start_time FROM sustain_runs WHERE run_id = ?`), runID)
	startTime, err := hs.scanTime(row.Scan)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	_, err = hs.db.Exec(hs.bind(`UPDATE sustain_runs SET end_time = ?, run_duration_ms = ?, total_files = ? WHERE run_id = ?`),
		formatTime(endTime, hs.backend), durationMs, totalFiles, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordFileScore stores the score of one file version.
func (hs *HistoryStoreImpl) RecordFileScore(runID int64, record schema.FileScoreRecord) error {
	if hs.disabled() {
		return nil
	}

	query := hs.bind(`INSERT INTO sustain_file_scores (run_id, file_path, version, language, analysis_time,
		score, scored, code_loc, metrics, skip_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := hs.db.Exec(query,
		runID, record.FilePath, record.Version, record.Language, formatTime(record.AnalysisTime, hs.backend),
		record.Score, record.Scored, record.CodeLOC, record.Metrics, record.SkipReason,
	)
	if err != nil {
		return fmt.Errorf("failed to insert file score: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	if err := hs.db.QueryRow(`SELECT COUNT(*) FROM sustain_runs`).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var err error
		row := hs.db.QueryRow(`SELECT run_id FROM sustain_runs ORDER BY run_id DESC LIMIT 1`)
		if err = row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}
		row = hs.db.QueryRow(`SELECT start_time FROM sustain_runs ORDER BY run_id DESC LIMIT 1`)
		if status.LastRunTime, err = hs.scanTime(row.Scan); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		row = hs.db.QueryRow(`SELECT start_time FROM sustain_runs ORDER BY run_id ASC LIMIT 1`)
		if status.OldestRunTime, err = hs.scanTime(row.Scan); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		row = hs.db.QueryRow(`SELECT COALESCE(SUM(total_files), 0) FROM sustain_runs`)
		if err = row.Scan(&status.TotalFilesScored); err != nil {
			return status, fmt.Errorf("failed to get total files scored: %w", err)
		}
	}

	for _, table := range []string{runsTable, fileScoresTable} {
		var count int64
		if err := hs.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	rows, err := hs.db.Query(`SELECT run_id, command, start_time, end_time, run_duration_ms, total_files, config_params
		FROM sustain_runs ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var startTime, endTime any
		if err := rows.Scan(&record.RunID, &record.Command, &startTime, &endTime,
			&record.RunDurationMs, &record.TotalFiles, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.StartTime, err = parseTimeValue(startTime); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endTime != nil {
			end, err := parseTimeValue(endTime)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &end
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllFileScores retrieves all file scores ordered by run, path and version.
func (hs *HistoryStoreImpl) GetAllFileScores() ([]schema.FileScoreRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	rows, err := hs.db.Query(`SELECT run_id, file_path, version, language, analysis_time,
		score, scored, code_loc, metrics, skip_reason
		FROM sustain_file_scores ORDER BY run_id, file_path, version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query file scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileScoreRecord
	for rows.Next() {
		var record schema.FileScoreRecord
		var analysisTime any
		if err := rows.Scan(&record.RunID, &record.FilePath, &record.Version, &record.Language, &analysisTime,
			&record.Score, &record.Scored, &record.CodeLOC, &record.Metrics, &record.SkipReason); err != nil {
			return nil, fmt.Errorf("failed to scan file score: %w", err)
		}
		if record.AnalysisTime, err = parseTimeValue(analysisTime); err != nil {
			return nil, fmt.Errorf("failed to parse analysis_time: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file scores: %w", err)
	}
	return results, nil
}

// scanTime scans a single time column stored in the backend's format.
func (hs *HistoryStoreImpl) scanTime(scan func(dest ...any) error) (time.Time, error) {
	var raw any
	if err := scan(&raw); err != nil {
		return time.Time{}, err
	}
	return parseTimeValue(raw)
}

// parseTimeValue accepts native timestamps and SQLite RFC 3339 text.
func parseTimeValue(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(time.RFC3339Nano, v)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
