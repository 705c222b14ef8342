package teamimport

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	MongoURI  string `env:"MONGODB_URI,required,notEmpty"`
	DBName    string `env:"DB_NAME" envDefault:"gatherhub"`
	OldDBURI  string `env:"OLD_DB_URI,required,notEmpty"`
	OldDBName string `env:"OLD_DB_NAME" envDefault:"gatherhub_legacy"`

	Bucket string `env:"AWS_S3_BUCKET,required,notEmpty"`
	Region string `env:"AWS_REGION"`

	PageSize     int64         `env:"PAGE_SIZE" envDefault:"100"`
	Concurrency  int           `env:"IMPORT_CONCURRENCY" envDefault:"8"`
	FetchTimeout time.Duration `env:"AVATAR_FETCH_TIMEOUT" envDefault:"30s"`
}

// LoadConfig loads envFile when it exists, then parses the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("IMPORT_CONCURRENCY must be positive, got %d", c.Concurrency)
	}
	return nil
}
