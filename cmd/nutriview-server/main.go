package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"nutriview/internal/server"
	"nutriview/nutrition"
)

func main() {
	loadEnv()

	datasetPath := getEnv("DATASET_PATH", "data/cleaned_food.csv")
	port := getEnv("PORT", "5000")

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// The dataset is loaded exactly once; the service refuses to start
	// without it.
	store, err := nutrition.LoadStore(datasetPath)
	if err != nil {
		log.Fatalf("nutriview-server: %v", err)
	}
	service, err := nutrition.NewService(store, logger)
	if err != nil {
		log.Fatalf("nutriview-server: %v", err)
	}

	handler := server.New(service, logger)
	addr := ":" + port
	log.Printf("Listening on %s", addr)
	if err := http.ListenAndServe(addr, handler.Routes()); err != nil {
		log.Fatalf("nutriview-server: %v", err)
	}
}

func loadEnv() {
	for _, file := range []string{"./.env", "../.env"} {
		if err := godotenv.Load(file); err == nil {
			log.Printf("Loaded config from %s", file)
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
