package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port        string
	MetricsPort string
	BaseURL     string
	HTTPTimeout time.Duration

	SnapshotDriver string
	SnapshotDir    string
	RedisURL       string
	DatabaseURL    string
	SQLitePath     string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("METRICS_PORT", "") // vazio: /metrics no mesmo servidor da API
	v.SetDefault("VITIBRASIL_BASE_URL", "http://vitibrasil.cnpuv.embrapa.br/index.php")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("SNAPSHOT_DRIVER", "file") // file, redis, postgres ou sqlite
	v.SetDefault("SNAPSHOT_DIR", "data")
	v.SetDefault("SQLITE_PATH", "data/snapshots.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	return &Config{
		Port:           v.GetString("PORT"),
		MetricsPort:    v.GetString("METRICS_PORT"),
		BaseURL:        v.GetString("VITIBRASIL_BASE_URL"),
		HTTPTimeout:    v.GetDuration("HTTP_TIMEOUT"),
		SnapshotDriver: v.GetString("SNAPSHOT_DRIVER"),
		SnapshotDir:    v.GetString("SNAPSHOT_DIR"),
		RedisURL:       v.GetString("REDIS_URL"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}
}

// InitLogger configura o logger global do zap.
func InitLogger(cfg *Config) error {
	var zapCfg zap.Config
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
