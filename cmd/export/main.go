package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/config"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/storage"
)

// ParquetRow mirrors the history schema for columnar analysis tooling.
type ParquetRow struct {
	RecordedAt       string  `parquet:"name=recorded_at, type=BYTE_ARRAY, convertedtype=UTF8"`
	BlockNumber      int64   `parquet:"name=block_number, type=INT64"`
	Path             string  `parquet:"name=path, type=BYTE_ARRAY, convertedtype=UTF8"`
	HopCount         int32   `parquet:"name=hop_count, type=INT32"`
	SearchMethod     string  `parquet:"name=search_method, type=BYTE_ARRAY, convertedtype=UTF8"`
	OptimalInput     float64 `parquet:"name=optimal_input, type=DOUBLE"`
	FinalOutput      float64 `parquet:"name=final_output, type=DOUBLE"`
	GrossProfit      float64 `parquet:"name=gross_profit, type=DOUBLE"`
	NetProfit        float64 `parquet:"name=net_profit, type=DOUBLE"`
	ProfitPercentage float64 `parquet:"name=profit_percentage, type=DOUBLE"`
}

// export dumps the opportunity history into a parquet file.
func main() {
	dbPath := flag.String("db", config.DefaultHistoryDBPath, "Path to history SQLite database")
	outPath := flag.String("out", "opportunities.parquet", "Output parquet file")
	flag.Parse()

	fmt.Printf("📤 Exporting %s -> %s...\n", *dbPath, *outPath)

	history, err := storage.NewHistoryDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer history.Close()

	records, err := history.All()
	if err != nil {
		log.Fatalf("Failed to read history: %v", err)
	}
	fmt.Printf("📊 Total records: %d\n", len(records))

	fw, err := local.NewLocalFileWriter(*outPath)
	if err != nil {
		log.Fatalf("Failed to create parquet file: %v", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(ParquetRow), 4)
	if err != nil {
		log.Fatalf("Failed to create parquet writer: %v", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		row := ParquetRow{
			RecordedAt:       rec.RecordedAt.Format(time.RFC3339),
			BlockNumber:      int64(rec.BlockNumber),
			Path:             rec.Path,
			HopCount:         int32(rec.HopCount),
			SearchMethod:     rec.SearchMethod,
			OptimalInput:     rec.OptimalInput,
			FinalOutput:      rec.FinalOutput,
			GrossProfit:      rec.GrossProfit,
			NetProfit:        rec.NetProfit,
			ProfitPercentage: rec.ProfitPercentage,
		}
		if err := pw.Write(row); err != nil {
			log.Fatalf("Failed to write row: %v", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		log.Fatalf("Failed to finalize parquet file: %v", err)
	}

	fmt.Printf("✅ Exported %d records\n", len(records))
}
