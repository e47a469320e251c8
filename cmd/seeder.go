package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenderops/tender-management/internal/catalog"
	usermodel "github.com/tenderops/tender-management/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"instrument_status_history", "dd_details", "fdr_details", "bg_details",
				"cheque_details", "transfer_details", "portal_details",
				"payment_instruments", "payment_requests",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing tender data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		users := []usermodel.User{
			{Email: "admin@tenderops.local", Name: "Tender Admin", Permissions: "admin"},
			{Email: "clerk@tenderops.local", Name: "Accounts Clerk", Permissions: "create_requests,manage_instruments"},
			{Email: "viewer@tenderops.local", Name: "Business Viewer"},
		}

		for _, u := range users {
			var count int64
			if err := db.Model(&usermodel.User{}).Where("email = ?", u.Email).Count(&count).Error; err == nil && count > 0 {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			u.PasswordHash = string(hash)
			u.IsActive = true
			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		var requestID int64
		row := db.Raw("SELECT id FROM payment_requests WHERE reference_number = ?", "PR-SAMPLE-0001").Row()
		if err := row.Scan(&requestID); err != nil {
			if err := db.Exec(
				"INSERT INTO payment_requests (reference_number, tender_reference, purpose, amount, requested_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?, now(), now())",
				"PR-SAMPLE-0001", "NIT-2026-101", "EMD", 500000, "clerk@tenderops.local",
			).Error; err != nil {
				log.Fatalf("failed to insert sample request: %v", err)
			}
			if err := db.Raw("SELECT id FROM payment_requests WHERE reference_number = ?", "PR-SAMPLE-0001").Row().Scan(&requestID); err != nil {
				log.Fatalf("failed to look up sample request: %v", err)
			}
			fmt.Println("Seeded sample payment request PR-SAMPLE-0001")
		}

		var instrumentCount int64
		if err := db.Raw("SELECT COUNT(1) FROM payment_instruments WHERE request_id = ?", requestID).Row().Scan(&instrumentCount); err == nil && instrumentCount == 0 {
			if err := db.Exec(
				"INSERT INTO payment_instruments (request_id, instrument_type, status, action, amount, favouring, is_active, version, created_at, updated_at) VALUES (?, ?, ?, 0, ?, ?, true, 0, now(), now())",
				requestID, string(catalog.TypeDD), catalog.StatusPending, 500000, "Executive Engineer, PWD",
			).Error; err != nil {
				log.Fatalf("failed to insert sample instrument: %v", err)
			}
			var instrumentID int64
			if err := db.Raw("SELECT id FROM payment_instruments WHERE request_id = ?", requestID).Row().Scan(&instrumentID); err != nil {
				log.Fatalf("failed to look up sample instrument: %v", err)
			}
			if err := db.Exec(
				"INSERT INTO dd_details (instrument_id, created_at, updated_at) VALUES (?, now(), now())", instrumentID,
			).Error; err != nil {
				log.Fatalf("failed to insert sample detail row: %v", err)
			}
			fmt.Println("Seeded sample demand draft instrument")
		}

		fmt.Println("Seeding complete")
	},
}
