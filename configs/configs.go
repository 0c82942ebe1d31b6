package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ConfigStruct struct {
	Port                      string
	AccessTokenSecret         string
	RefreshTokenSecret        string
	WaitForRedisConnectionSec int
	RedisUrl                  string
	RedisPassword             string
	DbUrl                     string
	RabbitMqUrl               string
	ImportQueueName           string
	ImportJobMaxAttempts      int
	MetadataApiUrl            string
	MailServerHost            string
	MailServerPort            int
	MailUsername              string
	MailPassword              string
	MailFrom                  string
	CorsAllowedOrigins        []string
	SentryDns                 string
	SentryRelease             string
	PrintErrors               bool
	Domain                    string
}

var configs = ConfigStruct{}

func GetConfigs() ConfigStruct {
	return configs
}

func LoadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	configs.Port = os.Getenv("PORT")
	configs.DbUrl = os.Getenv("POSTGRES_DATABASE_URL")
	configs.AccessTokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	configs.RefreshTokenSecret = os.Getenv("REFRESH_TOKEN_SECRET")
	configs.RedisUrl = os.Getenv("REDIS_URL")
	configs.RedisPassword = os.Getenv("REDIS_PASSWORD")
	configs.WaitForRedisConnectionSec, _ = strconv.Atoi(os.Getenv("WAIT_REDIS_CONNECTION_SEC"))
	configs.RabbitMqUrl = os.Getenv("RABBITMQ_URL")
	configs.ImportQueueName = os.Getenv("IMPORT_QUEUE_NAME")
	if configs.ImportQueueName == "" {
		configs.ImportQueueName = "mal_import_jobs"
	}
	configs.ImportJobMaxAttempts, _ = strconv.Atoi(os.Getenv("IMPORT_JOB_MAX_ATTEMPTS"))
	if configs.ImportJobMaxAttempts <= 0 {
		configs.ImportJobMaxAttempts = 3
	}
	configs.MetadataApiUrl = os.Getenv("METADATA_API_URL")
	if configs.MetadataApiUrl == "" {
		configs.MetadataApiUrl = "https://api.jikan.moe/v4"
	}
	configs.MailServerHost = os.Getenv("MAIL_SERVER_HOST")
	configs.MailServerPort, _ = strconv.Atoi(os.Getenv("MAIL_SERVER_PORT"))
	configs.MailUsername = os.Getenv("MAIL_USERNAME")
	configs.MailPassword = os.Getenv("MAIL_PASSWORD")
	configs.MailFrom = os.Getenv("MAIL_FROM")
	configs.CorsAllowedOrigins = strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), "---")
	for i := range configs.CorsAllowedOrigins {
		configs.CorsAllowedOrigins[i] = strings.TrimSpace(configs.CorsAllowedOrigins[i])
	}
	configs.SentryDns = os.Getenv("SENTRY_DNS")
	configs.SentryRelease = os.Getenv("SENTRY_RELEASE")
	configs.PrintErrors = os.Getenv("PRINT_ERRORS") == "true"
	configs.Domain = os.Getenv("DOMAIN")

	// tokens cannot be verified without the secrets, fail fast
	if configs.AccessTokenSecret == "" || configs.RefreshTokenSecret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be provided")
	}
}
