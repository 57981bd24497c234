package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	DatabasePath       string
	LogLevel           string
	MaxUploadSizeBytes int64

	// Ledger accounts owning each platform wallet.
	WeChatAccount string
	AlipayAccount string

	// FallbackAccount receives postings whose payment source matched no
	// mapping rule; empty means the importers' built-in placeholder.
	FallbackAccount string

	// ImportTag, when set, is attached to every imported transaction.
	ImportTag string

	// IncludeTimeMetadata attaches the trade time of day to each transaction.
	IncludeTimeMetadata bool

	// AccountMappingPath points at the ordered JSON mapping file of
	// payment-source tokens to ledger accounts.
	AccountMappingPath string
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", err)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./billfolio.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,

		WeChatAccount:   getEnv("WECHAT_ACCOUNT", "Assets:TPP:WeChat"),
		AlipayAccount:   getEnv("ALIPAY_ACCOUNT", "Assets:TPP:Alipay"),
		FallbackAccount: getEnv("FALLBACK_ACCOUNT", ""),

		ImportTag:           getEnv("IMPORT_TAG", ""),
		IncludeTimeMetadata: getEnvAsBool("INCLUDE_TIME_METADATA", false),

		AccountMappingPath: getEnv("ACCOUNT_MAPPING_PATH", "data/accountMapping.json"),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, MappingPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.AccountMappingPath)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}
