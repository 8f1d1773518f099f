package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirror the deployed monitor on Mantle.
const (
	DefaultGasPriceGwei            = 0.02
	DefaultBlockTimeSeconds        = 2
	DefaultMaxRetries              = 3
	DefaultCSVFilePath             = "arbitrage_opportunities.csv"
	DefaultDexFee                  = 0.003
	DefaultTernarySearchIterations = 100
	DefaultMaxHops                 = 4
	DefaultPoolsCSVPath            = "data/selected.csv"
	DefaultHistoryDBPath           = "data/history.db"

	// gwei -> MNT: gas prices are quoted in gwei, profits in whole MNT
	GweiToMNT = 1e-9

	GasUnits3Hops       = 700_000
	GasUnits4Hops       = 900_000
	GasUnitsPerExtraHop = 200_000
)

// GasSchedule prices the execution cost of a path by hop count. It is passed
// into the evaluator explicitly so unit costs are testable per scenario.
type GasSchedule struct {
	Units3Hops       uint64
	Units4Hops       uint64
	UnitsPerExtraHop uint64
	GasPriceGwei     float64
}

func NewGasSchedule(gasPriceGwei float64) GasSchedule {
	return GasSchedule{
		Units3Hops:       GasUnits3Hops,
		Units4Hops:       GasUnits4Hops,
		UnitsPerExtraHop: GasUnitsPerExtraHop,
		GasPriceGwei:     gasPriceGwei,
	}
}

// UnitsFor returns the expected gas units for a path of the given hop count.
// 3 and 4 hops are measured constants; anything longer is a linear estimate
// from the 3-hop base.
func (s GasSchedule) UnitsFor(hopCount int) uint64 {
	switch {
	case hopCount <= 3:
		return s.Units3Hops
	case hopCount == 4:
		return s.Units4Hops
	default:
		return s.Units3Hops + s.UnitsPerExtraHop*uint64(hopCount-3)
	}
}

// CostFor is the execution cost in MNT for a path of the given hop count.
func (s GasSchedule) CostFor(hopCount int) float64 {
	return float64(s.UnitsFor(hopCount)) * s.GasPriceGwei * GweiToMNT
}

type Config struct {
	RPCURL                  string
	GasPriceGwei            float64
	BlockTime               time.Duration
	MaxRetries              int
	CSVFilePath             string
	DexFee                  float64
	TernarySearchIterations int
	MaxHops                 int
	Workers                 int
	MinPoolDepth            float64
	PoolsCSVPath            string
	HistoryDBPath           string
	Strategy                string
	Reporter                string
	ReportFilePath          string
	Gas                     GasSchedule
}

// Load reads configuration from the environment, picking up a .env file if
// one exists. Only the RPC endpoint is mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		rpcURL = os.Getenv("MANTLE_RPC_URL")
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC_URL environment variable is required (example: RPC_URL=https://rpc.mantle.xyz)")
	}

	cfg := &Config{
		RPCURL:                  rpcURL,
		GasPriceGwei:            floatEnv("GAS_PRICE_GWEI", DefaultGasPriceGwei),
		BlockTime:               time.Duration(intEnv("BLOCK_TIME_SECONDS", DefaultBlockTimeSeconds)) * time.Second,
		MaxRetries:              intEnv("MAX_RETRIES", DefaultMaxRetries),
		CSVFilePath:             stringEnv("CSV_FILE_PATH", DefaultCSVFilePath),
		DexFee:                  floatEnv("DEX_FEE", DefaultDexFee),
		TernarySearchIterations: intEnv("TERNARY_SEARCH_ITERATIONS", DefaultTernarySearchIterations),
		MaxHops:                 intEnv("MAX_HOPS", DefaultMaxHops),
		Workers:                 intEnv("WORKERS", runtime.NumCPU()),
		MinPoolDepth:            floatEnv("MIN_POOL_DEPTH", 0),
		PoolsCSVPath:            stringEnv("POOLS_CSV_PATH", DefaultPoolsCSVPath),
		HistoryDBPath:           stringEnv("HISTORY_DB_PATH", DefaultHistoryDBPath),
		Strategy:                stringEnv("STRATEGY", "max_profit"),
		Reporter:                stringEnv("REPORTER", "console"),
		ReportFilePath:          stringEnv("REPORT_FILE_PATH", "arbitrage.log"),
	}
	cfg.Gas = NewGasSchedule(cfg.GasPriceGwei)

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxHops < 3 {
		return nil, fmt.Errorf("MAX_HOPS must be at least 3, got %d", cfg.MaxHops)
	}

	return cfg, nil
}

// PrintSummary dumps the effective configuration at startup.
func (c *Config) PrintSummary() {
	fmt.Printf("🔍 Algorithm: ternary search optimization (%d iterations)\n", c.TernarySearchIterations)
	fmt.Printf("🌐 RPC URL: %s\n", c.RPCURL)
	fmt.Printf("⛽ Gas price: %.3f gwei\n", c.GasPriceGwei)
	fmt.Printf("💸 Gas cost (3-hops): %.6f MNT\n", c.Gas.CostFor(3))
	fmt.Printf("💸 Gas cost (4-hops): %.6f MNT\n", c.Gas.CostFor(4))
	fmt.Printf("💹 DEX fee: %g%%\n", c.DexFee*100)
	fmt.Printf("⏰ Block time: %s\n", c.BlockTime)
	fmt.Printf("👷 Evaluation workers: %d\n", c.Workers)
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
