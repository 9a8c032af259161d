package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// seed bootstraps the single admin account. Employee accounts are created
// through the admin panel, never seeded.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the admin account",
	Long:  `Create the initial admin account. Password comes from ADMIN_PASSWORD.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			log.Fatal("ADMIN_PASSWORD must be set")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		adminUsername := "admin"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE username = ?", adminUsername).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin account already exists; nothing to do")
			return
		}

		if err := db.Exec(
			"INSERT INTO users (name, username, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, 'admin', now(), now())",
			"Administrator", adminUsername, string(hash),
		).Error; err != nil {
			log.Fatalf("failed to insert admin account: %v", err)
		}

		fmt.Println("Seeded admin account:", adminUsername)
	},
}
