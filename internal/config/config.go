package config

import "os"

type Config struct {
	DatabaseURL    string
	Port           string
	FrontendOrigin string
	RedisURL       string
	MasterKey      string
	CronSecret     string

	HFAPIToken     string
	HFBaseURL      string
	SentimentModel string
	EmotionModel   string

	EmailAPIURL string
	EmailAPIKey string
	EmailFrom   string

	LogLevel string
}

func Load() Config {
	cfg := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           os.Getenv("PORT"),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
		RedisURL:       os.Getenv("REDIS_URL"),
		MasterKey:      os.Getenv("MASTER_KEY"),
		CronSecret:     os.Getenv("CRON_SECRET"),
		HFAPIToken:     os.Getenv("HF_API_TOKEN"),
		HFBaseURL:      os.Getenv("HF_BASE_URL"),
		SentimentModel: os.Getenv("SENTIMENT_MODEL"),
		EmotionModel:   os.Getenv("EMOTION_MODEL"),
		EmailAPIURL:    os.Getenv("EMAIL_API_URL"),
		EmailAPIKey:    os.Getenv("EMAIL_API_KEY"),
		EmailFrom:      os.Getenv("EMAIL_FROM"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FrontendOrigin == "" {
		cfg.FrontendOrigin = "http://localhost:5173"
	}
	if cfg.HFBaseURL == "" {
		cfg.HFBaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.SentimentModel == "" {
		cfg.SentimentModel = "distilbert-base-uncased-finetuned-sst-2-english"
	}
	if cfg.EmotionModel == "" {
		cfg.EmotionModel = "j-hartmann/emotion-english-distilroberta-base"
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = "digest@bizzin.app"
	}
	return cfg
}
