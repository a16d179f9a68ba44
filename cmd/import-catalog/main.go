// import-catalog loads a product catalog workbook into Postgres.
// Usage: import-catalog <catalog.xlsx>
// Sheet columns: SKU, Name, Category, Subcategory, Model Family,
// Frequency Band, Price, Cost, Inventory Qty, Lifecycle Status,
// Supported Architectures (comma separated). Rows upsert by SKU.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/database"
	"github.com/mmamrila/aiquoting-sub000/internal/logger"
)

const upsertQuery = `
	INSERT INTO products (
		product_id, sku, name, category, subcategory, model_family,
		frequency_band, price_cents, cost_cents, inventory_qty,
		lifecycle_status, supported_architectures
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (sku)
	DO UPDATE SET name = EXCLUDED.name,
	              category = EXCLUDED.category,
	              subcategory = EXCLUDED.subcategory,
	              model_family = EXCLUDED.model_family,
	              frequency_band = EXCLUDED.frequency_band,
	              price_cents = EXCLUDED.price_cents,
	              cost_cents = EXCLUDED.cost_cents,
	              inventory_qty = EXCLUDED.inventory_qty,
	              lifecycle_status = EXCLUDED.lifecycle_status,
	              supported_architectures = EXCLUDED.supported_architectures`

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: import-catalog <catalog.xlsx>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := config.Load()
	log, err := logger.New(cfg.Log.Level, "console", "import-catalog")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Fatal("Failed to open workbook", zap.String("path", path), zap.Error(err))
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		log.Fatal("Failed to read sheet", zap.String("sheet", sheet), zap.Error(err))
	}
	if len(rows) < 2 {
		log.Fatal("Workbook has no data rows", zap.String("sheet", sheet))
	}

	imported, skipped := 0, 0
	for i, row := range rows[1:] {
		if len(row) < 11 || strings.TrimSpace(cell(row, 0)) == "" {
			skipped++
			continue
		}

		priceCents, err1 := dollarsToCents(cell(row, 6))
		costCents, err2 := dollarsToCents(cell(row, 7))
		inventory, err3 := strconv.Atoi(strings.TrimSpace(cell(row, 8)))
		if err1 != nil || err2 != nil || err3 != nil {
			log.Warn("Skipping row with unparsable numbers", zap.Int("row", i+2))
			skipped++
			continue
		}

		archJSON, err := architecturesJSON(cell(row, 10))
		if err != nil {
			log.Warn("Skipping row with bad architecture list", zap.Int("row", i+2), zap.Error(err))
			skipped++
			continue
		}

		_, err = db.Exec(upsertQuery,
			uuid.New().String(),
			strings.TrimSpace(cell(row, 0)),
			strings.TrimSpace(cell(row, 1)),
			strings.ToLower(strings.TrimSpace(cell(row, 2))),
			strings.ToLower(strings.TrimSpace(cell(row, 3))),
			strings.TrimSpace(cell(row, 4)),
			strings.ToUpper(strings.TrimSpace(cell(row, 5))),
			priceCents,
			costCents,
			inventory,
			strings.ToLower(strings.TrimSpace(cell(row, 9))),
			archJSON,
		)
		if err != nil {
			log.Error("Failed to upsert product", zap.Int("row", i+2), zap.Error(err))
			skipped++
			continue
		}
		imported++
	}

	log.Info("Catalog import finished",
		zap.String("path", path),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
	)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func dollarsToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(v * 100)), nil
}

func architecturesJSON(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte("[]"), nil
	}
	parts := strings.Split(s, ",")
	archs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			archs = append(archs, p)
		}
	}
	return json.Marshal(archs)
}
