package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"dapurku/internal/auth"
	"dapurku/internal/db"
	"dapurku/internal/ingredient"
	"dapurku/internal/localstore"
	"dapurku/internal/recipe"
	"dapurku/internal/router"
	"dapurku/internal/storage"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, relying on environment")
		}
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool, err := db.ConnectPostgres()
	if err != nil {
		log.Fatal("database: ", err)
	}
	defer pool.Close()

	localPath := os.Getenv("LOCAL_STORE_PATH")
	if localPath == "" {
		localPath = "dapurku.db"
	}
	local, err := localstore.Open(localPath)
	if err != nil {
		log.Fatal("local store: ", err)
	}
	defer local.Close()

	r2, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("storage: ", err)
	}

	authService := auth.NewService(auth.NewPostgresUserRepository(pool))
	authHandler := auth.NewHandler(authService, local)

	ingredientHub := ingredient.NewHub(ingredient.NewPostgresRepository(pool), local)
	ingredientHandler := ingredient.NewHandler(ingredientHub)

	recipeHub := recipe.NewHub(recipe.NewPostgresRepository(pool), ingredientHub, local)
	recipeHandler := recipe.NewHandler(recipeHub, r2)

	r := router.SetupRouter(authHandler, ingredientHandler, recipeHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Println("listening on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
