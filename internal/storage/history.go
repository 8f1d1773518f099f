package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	block_number INTEGER NOT NULL,
	path TEXT NOT NULL,
	hop_count INTEGER NOT NULL,
	search_method TEXT NOT NULL,
	optimal_input REAL NOT NULL,
	final_output REAL NOT NULL,
	gross_profit REAL NOT NULL,
	net_profit REAL NOT NULL,
	profit_percentage REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_opportunities_block ON opportunities(block_number);
CREATE INDEX IF NOT EXISTS idx_opportunities_net ON opportunities(net_profit);
`

// HistoryDB persists every evaluated opportunity so profitability over time
// can be analyzed offline or exported.
type HistoryDB struct {
	db *sql.DB
}

func NewHistoryDB(dbPath string) (*HistoryDB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	// WAL lets the exporter read while the monitor writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		return nil, fmt.Errorf("failed to initialise schema: %w", err)
	}

	return &HistoryDB{db: db}, nil
}

func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// HistoryRecord is one persisted opportunity row.
type HistoryRecord struct {
	RecordedAt       time.Time
	BlockNumber      uint64
	Path             string
	HopCount         int
	SearchMethod     string
	OptimalInput     float64
	FinalOutput      float64
	GrossProfit      float64
	NetProfit        float64
	ProfitPercentage float64
}

// Record stores one evaluated opportunity. Legacy opportunities without a
// path are stored with the fixed triangular route description.
func (h *HistoryDB) Record(blockNumber uint64, opp *market.ArbitrageOpportunity) error {
	pathDesc := "WMNT -> MOE -> JOE -> WMNT"
	hopCount := 3
	if opp.Path != nil {
		pathDesc = opp.Path.Description()
		hopCount = opp.Path.HopCount()
	}

	_, err := h.db.Exec(
		`INSERT INTO opportunities
			(recorded_at, block_number, path, hop_count, search_method,
			 optimal_input, final_output, gross_profit, net_profit, profit_percentage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), blockNumber, pathDesc, hopCount,
		opp.SearchMethod, opp.OptimalInput, opp.FinalOutput,
		opp.GrossProfit, opp.NetProfit, opp.ProfitPercentage,
	)
	return err
}

// RecordBatch stores one analysis pass in a single transaction.
func (h *HistoryDB) RecordBatch(blockNumber uint64, opportunities []market.ArbitrageOpportunity) error {
	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO opportunities
			(recorded_at, block_number, path, hop_count, search_method,
			 optimal_input, final_output, gross_profit, net_profit, profit_percentage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i := range opportunities {
		opp := &opportunities[i]
		pathDesc := "WMNT -> MOE -> JOE -> WMNT"
		hopCount := 3
		if opp.Path != nil {
			pathDesc = opp.Path.Description()
			hopCount = opp.Path.HopCount()
		}
		if _, err := stmt.Exec(
			now, blockNumber, pathDesc, hopCount,
			opp.SearchMethod, opp.OptimalInput, opp.FinalOutput,
			opp.GrossProfit, opp.NetProfit, opp.ProfitPercentage,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recent returns the newest records, newest first.
func (h *HistoryDB) Recent(limit int) ([]HistoryRecord, error) {
	rows, err := h.db.Query(
		`SELECT recorded_at, block_number, path, hop_count, search_method,
			optimal_input, final_output, gross_profit, net_profit, profit_percentage
		 FROM opportunities ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// All returns every record in insertion order, for the exporter.
func (h *HistoryDB) All() ([]HistoryRecord, error) {
	rows, err := h.db.Query(
		`SELECT recorded_at, block_number, path, hop_count, search_method,
			optimal_input, final_output, gross_profit, net_profit, profit_percentage
		 FROM opportunities ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]HistoryRecord, error) {
	var out []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var recordedAt string
		if err := rows.Scan(
			&recordedAt, &rec.BlockNumber, &rec.Path, &rec.HopCount, &rec.SearchMethod,
			&rec.OptimalInput, &rec.FinalOutput, &rec.GrossProfit, &rec.NetProfit, &rec.ProfitPercentage,
		); err != nil {
			return nil, err
		}
		rec.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats summarizes the stored history for the monitor banner.
func (h *HistoryDB) Stats() (map[string]int64, error) {
	stats := make(map[string]int64)

	var count int64
	if err := h.db.QueryRow("SELECT COUNT(*) FROM opportunities").Scan(&count); err != nil {
		return nil, err
	}
	stats["total"] = count

	if err := h.db.QueryRow("SELECT COUNT(*) FROM opportunities WHERE net_profit > 0").Scan(&count); err != nil {
		return nil, err
	}
	stats["profitable"] = count

	return stats, nil
}
