package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/bytebeat/bytebeat-api/config"
	"github.com/bytebeat/bytebeat-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminID := seedUser(db, "admin@bytebeat.dev", "password123", "ByteBeat Admin", "admin")
	authorID := seedUser(db, "demo@bytebeat.dev", "password123", "Demo Author", "user")

	seedBlog(db, authorID, "Getting Started with ByteBeat",
		"ByteBeat is a place to write and share posts about software and design. This post walks through creating your first blog.",
		"A quick tour of writing your first post.",
		"Technology", []string{"intro", "bytebeat"})
	seedBlog(db, adminID, "Community Guidelines",
		"Be kind, stay on topic, and credit your sources. Comments that break these rules may be removed by moderators.",
		"House rules for posts and comments.",
		"Other", []string{"community"})

	fmt.Println("seed complete")
}

func seedUser(db *sql.DB, email, password, name, role string) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, avatar_url)
		VALUES ($1, $2, $3, $4, '')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role
		RETURNING id
	`, email, hash, name, role).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s role=%s password=%s\n", id, email, role, password)
	return id
}

func seedBlog(db *sql.DB, authorID, title, content, summary, category string, tags []string) {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM blogs WHERE title = $1 AND author_id = $2)`, title, authorID).Scan(&exists); err != nil {
		log.Fatalf("failed to check blog %q: %v", title, err)
	}
	if exists {
		fmt.Printf("blog already seeded: %s\n", title)
		return
	}
	var id string
	err := db.QueryRow(`
		INSERT INTO blogs (title, content, summary, author_id, category, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, title, content, summary, authorID, category, tags).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed blog %q: %v", title, err)
	}
	fmt.Printf("seeded blog: id=%s title=%s\n", id, title)
}
