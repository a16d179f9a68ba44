// apply-migration 按顺序执行一个SQL迁移文件
// Usage: apply-migration migrations/001_init.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <migration_file.sql>", os.Args[0])
	}

	sqlContent, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	statements := strings.Split(string(sqlContent), ";")
	applied := 0
	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Statement %d failed: %v\n%s", i+1, err, stmt)
		}
		applied++
	}

	fmt.Printf("Applied %d statement(s) from %s\n", applied, os.Args[1])
}
