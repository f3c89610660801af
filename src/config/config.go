package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	LogLevel string

	// Root directories scanned for billing documents.
	PlatformDataPath  string
	WarehouseDataPath string

	// Where the generated workbook and run summary land.
	OutputPath string

	// Upper bound on documents parsed concurrently.
	ParseWorkers int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = &AppConfig{
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		PlatformDataPath:  getEnv("PLATFORM_DATA_PATH", "data/platforms"),
		WarehouseDataPath: getEnv("WAREHOUSE_DATA_PATH", "data/warehouses"),
		OutputPath:        getEnv("OUTPUT_PATH", "output"),
		ParseWorkers:      getEnvAsInt("PARSE_WORKERS", 4),
	}

	if Cfg.ParseWorkers < 1 {
		Cfg.ParseWorkers = 1
	}

	log.Printf("Configuration loaded: PlatformDataPath=%s, WarehouseDataPath=%s, OutputPath=%s, ParseWorkers=%d",
		Cfg.PlatformDataPath, Cfg.WarehouseDataPath, Cfg.OutputPath, Cfg.ParseWorkers)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}
