package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/agencypack/blog-backend/internal/config"
	"github.com/agencypack/blog-backend/internal/migration"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Upgrade task constants
const (
	taskSchema         = "schema"
	taskPublishPeriods = "publish-periods"
	taskFeaturedImage  = "featured-image"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	target := flag.String("target", "all", "upgrade target: all, schema, publish-periods, featured-image")
	dryRun := flag.Bool("dry-run", false, "show what would be upgraded without executing")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if *dryRun {
		runDryRun(db, *target)
		return
	}

	runUpgrade(db, *target)
}

func runUpgrade(db *gorm.DB, target string) {
	start := time.Now()

	for _, t := range parseTargets(target) {
		log.Printf("[upgrade] Starting: %s", t)
		tStart := time.Now()

		var err error
		switch t {
		case taskSchema:
			err = migration.Run(db)
		case taskPublishPeriods:
			err = migration.BackfillPublishPeriods(db)
		case taskFeaturedImage:
			err = runFeaturedImage(db)
		default:
			log.Printf("[upgrade] Unknown target: %s", t)
			continue
		}

		if err != nil {
			log.Printf("[upgrade] FAILED %s: %v", t, err)
			os.Exit(1)
		}
		log.Printf("[upgrade] Completed %s in %v", t, time.Since(tStart))
	}

	log.Printf("[upgrade] All upgrade tasks completed in %v", time.Since(start))
}

func runFeaturedImage(db *gorm.DB) error {
	necessary, err := migration.FeaturedImageUpdateNecessary(db)
	if err != nil {
		return err
	}
	if !necessary {
		log.Println("[upgrade:featured-image] Nothing to do, skipping")
		return nil
	}
	return migration.FeaturedImageUpdate(db)
}

func parseTargets(target string) []string {
	if target == "all" {
		return []string{taskSchema, taskPublishPeriods, taskFeaturedImage}
	}
	return strings.Split(target, ",")
}

func runDryRun(db *gorm.DB, target string) {
	for _, t := range parseTargets(target) {
		switch t {
		case taskSchema:
			log.Println("[dry-run:schema] Would auto-migrate blog tables")
		case taskPublishPeriods:
			var count int64
			db.Raw("SELECT COUNT(*) FROM blog_posts WHERE publish_date > 0 AND (publish_month = 0 OR publish_year = 0)").Scan(&count)
			log.Printf("[dry-run:publish-periods] %d posts need publish period backfill", count)
		case taskFeaturedImage:
			necessary, err := migration.FeaturedImageUpdateNecessary(db)
			if err != nil {
				log.Printf("[dry-run:featured-image] Warning: %v", err)
				continue
			}
			log.Printf("[dry-run:featured-image] update necessary: %v", necessary)
		}
	}
}
