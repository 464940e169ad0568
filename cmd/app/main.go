package main

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/wichananm65/user-directory-backend/internal/auth"
	"github.com/wichananm65/user-directory-backend/internal/config"
	"github.com/wichananm65/user-directory-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		panic("JWT_SECRET is not set")
	}

	app := fiber.New()
	setupCORS(app)
	app.Use(logger.New())

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		panic(err)
	}

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, tokens)

	userHandler.RegisterPublicRoutes(app)

	// everything registered after this point requires a valid bearer token
	app.Use(tokens.Middleware())

	userHandler.RegisterProtectedRoutes(app)

	app.Listen(cfg.Addr)
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		gender TEXT NOT NULL,
		modified_by TEXT,
		modified_on TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}
