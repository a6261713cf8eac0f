package main

import (
	"flag"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/utils"
)

// One-off run of the nightly session purge:
//
//	go run ./scripts -before 2024-01-31
func main() {
	before := flag.String("before", "", "purge sessions that expired before this date (default: now)")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	cutoff := time.Now()
	if *before != "" {
		t, ok := utils.ParseTime(*before, config.AppConfig.Location)
		if !ok {
			log.Fatalf("Invalid -before value %q", *before)
		}
		cutoff = t
	}

	deleted, err := utils.PurgeSessions(database.Database.Db, cutoff)
	if err != nil {
		log.Fatalf("Failed to purge sessions: %v", err)
	}
	log.Printf("Purged %d sessions expired or revoked before %s", deleted, cutoff.Format(time.RFC3339))
}
