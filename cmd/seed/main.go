package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/campushq/platform/config"
	"github.com/campushq/platform/internal/domain/entity"
	"github.com/campushq/platform/pkg/helpers"
)

// Seeds a college admin and an approved HOD so the registration approval
// chain works on a fresh database.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminID := upsertUser(db, seedUser{
		email:        "admin@campus.local",
		password:     "admin12345",
		role:         entity.RoleCollegeAdmin,
		departmentID: "",
	})
	fmt.Printf("seeded college admin: id=%s email=admin@campus.local\n", adminID)

	hodID := upsertUser(db, seedUser{
		email:        "hod.cse@campus.local",
		password:     "hod12345",
		role:         entity.RoleHOD,
		departmentID: "CSE",
	})
	fmt.Printf("seeded HOD: id=%s email=hod.cse@campus.local department=CSE\n", hodID)
}

type seedUser struct {
	email        string
	password     string
	role         string
	departmentID string
}

func upsertUser(db *sql.DB, u seedUser) string {
	hash, err := helpers.HashPassword(u.password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, role, status, department_id, email_verified)
		VALUES ($1, $2, $3, $4, $5, true)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, status = EXCLUDED.status
		RETURNING id
	`, u.email, hash, u.role, string(entity.StatusApproved), u.departmentID).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed %s: %v", u.email, err)
	}
	return id
}
