package config

import (
	"os"
	"strings"
)

type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Storage StorageConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8085)
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

// StorageConfig - выбор бэкенда для хранения изображений
// Type: local (каталог на диске) или s3
type StorageConfig struct {
	Type       string // local | s3
	UploadsDir string // Корневой каталог для local
	S3         S3Config
}

type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // Для S3-совместимых хранилищ, может быть пустым
	BaseURL   string // Публичный URL бакета, если отличается от стандартного
}

type KafkaConfig struct {
	Brokers []string // Список брокеров (пустой список отключает отправку событий)
	Topic   string   // Топик для событий REVIEW_CREATED
}

type RedisConfig struct {
	Addr     string // Пустой адрес отключает кеширование
	Password string
	DB       int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8085"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "bike_reviews"),
		},
		Storage: StorageConfig{
			Type:       getEnv("STORAGE_TYPE", "local"),
			UploadsDir: getEnv("UPLOADS_DIR", "./uploads"),
			S3: S3Config{
				Bucket:    getEnv("S3_BUCKET", ""),
				Region:    getEnv("S3_REGION", "us-east-1"),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				BaseURL:   getEnv("S3_BASE_URL", ""),
			},
		},
		Kafka: KafkaConfig{
			Brokers: splitEnv("KAFKA_BROKERS", ""),
			Topic:   getEnv("KAFKA_TOPIC", "review_events"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitEnv(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
