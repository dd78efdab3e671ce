package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/edakseva/grievance-server/grievanceservice"
	"github.com/edakseva/grievance-server/internal/logger"
)

func main() {
	envFile := flag.String("env-file", "", "Optional .env file to load before reading configuration")
	flag.Parse()

	log := logger.New("grievance-service")

	// Local development keeps its settings in a .env file; a missing default
	// file is not an error.
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatal().Err(err).Str("file", *envFile).Msg("Failed to load env file")
		}
	} else {
		_ = godotenv.Load()
	}

	if err := grievanceservice.Run(); err != nil {
		os.Exit(1)
	}
}
