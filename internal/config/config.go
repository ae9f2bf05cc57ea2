package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AppEnv        string
	AppURL        string
	MongoURI      string
	MongoDB       string
	SessionSecret string

	ResendAPIKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadDir           string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		AppURL:        getEnv("APP_URL", "http://localhost:8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "bidhaus"),
		SessionSecret: getEnv("SESSION_SECRET", "secret"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		UploadDir:           getEnv("UPLOAD_DIR", "public/uploads"),
	}
}

// IsProduction reports whether the app runs with production settings.
// It gates the cookie Secure attribute and the debug magic link echo.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// HasCloudinary reports whether blob storage credentials are configured.
// Without them image uploads fall back to the local upload directory.
func (c *Config) HasCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
