package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	S3     S3Config
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

type AppConfig struct {
	MaxUploadSize    int64
	JPEGQuality      int
	AllowedTypes     []string
	FetchTimeout     time.Duration
	FetchMaxRedirect int
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	viper.SetDefault("S3_USE_SSL", false)
	viper.SetDefault("S3_BUCKET_NAME", "images")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	viper.SetDefault("APP_JPEG_QUALITY", 95)
	viper.SetDefault("APP_ALLOWED_TYPES", []string{
		"image/jpeg", "image/png", "image/gif",
		"image/webp", "image/bmp", "image/tiff",
	})
	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 30)
	viper.SetDefault("FETCH_MAX_REDIRECTS", 10)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		S3: S3Config{
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
			UseSSL:          viper.GetBool("S3_USE_SSL"),
			BucketName:      viper.GetString("S3_BUCKET_NAME"),
			Region:          viper.GetString("S3_REGION"),
		},
		App: AppConfig{
			MaxUploadSize:    viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
			JPEGQuality:      viper.GetInt("APP_JPEG_QUALITY"),
			AllowedTypes:     viper.GetStringSlice("APP_ALLOWED_TYPES"),
			FetchTimeout:     time.Duration(viper.GetInt("FETCH_TIMEOUT_SECONDS")) * time.Second,
			FetchMaxRedirect: viper.GetInt("FETCH_MAX_REDIRECTS"),
		},
	}

	return cfg, nil
}
