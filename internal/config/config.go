package config

import (
	"os"
	"strconv"
)

type Config struct {
	ServerPort            string
	ChannelAccessToken    string
	ChannelSecret         string
	OCRSpaceAPIKey        string
	AdminUserID           string
	GoogleCredentialsJSON string
	SheetID               string
	CacheDB               string
	UploadDir             string
	RulesFile             string
	RefreshInterval       string
	// PatternNeedsIdentifier makes pattern rules require their identifier to
	// appear in the slip text before they run.
	PatternNeedsIdentifier bool
}

func Load() *Config {
	return &Config{
		ServerPort:             getEnv("PORT", "8080"),
		ChannelAccessToken:     os.Getenv("CHANNEL_ACCESS_TOKEN"),
		ChannelSecret:          os.Getenv("CHANNEL_SECRET"),
		OCRSpaceAPIKey:         os.Getenv("OCR_SPACE_API_KEY"),
		AdminUserID:            os.Getenv("ADMIN_USER_ID"),
		GoogleCredentialsJSON:  os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		SheetID:                os.Getenv("GOOGLE_SHEET_ID"),
		CacheDB:                getEnv("CACHE_DB", "./slipbot.db"),
		UploadDir:              getEnv("UPLOAD_DIR", "./uploads"),
		RulesFile:              os.Getenv("RULES_FILE"),
		RefreshInterval:        getEnv("REFRESH_INTERVAL", "10m"),
		PatternNeedsIdentifier: getEnvBool("PATTERN_NEEDS_IDENTIFIER", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
