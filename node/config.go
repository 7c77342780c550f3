package node

import (
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/xyths/hs"
	"os"
	"strings"
)

// environment overrides, also read from .env
const (
	EnvApiKey    = "BPX_API_KEY"
	EnvApiSecret = "BPX_API_SECRET"
	EnvHost      = "BPX_HOST"
	EnvMongoURI  = "BPX_MONGO_URI"
)

// EnvFile is loaded into the environment before the overrides are applied. It may be absent.
var EnvFile = ".env"

type Config struct {
	Exchange hs.ExchangeConf
	Mongo    hs.MongoConf
	Log      hs.LogConf
	History  hs.HistoryConf
	Output   string
}

// LoadConfig reads the json config file if it exists, then applies environment overrides.
func LoadConfig(filename string) (Config, error) {
	cfg := Config{}
	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if err := hs.ParseJsonConfig(filename, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "parse config %s", filename)
			}
		} else if !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "stat config %s", filename)
		}
	}
	if err := godotenv.Load(EnvFile); err != nil && !os.IsNotExist(err) {
		return cfg, errors.Wrapf(err, "load env file %s", EnvFile)
	}
	applyEnv(&cfg)
	if cfg.Exchange.Name == "" {
		cfg.Exchange.Name = "backpack"
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvApiKey); v != "" {
		cfg.Exchange.Key = v
	}
	if v := os.Getenv(EnvApiSecret); v != "" {
		cfg.Exchange.Secret = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Exchange.Host = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		cfg.Mongo.URI = v
	}
	// PEM keys are often kept on one line in env files and json
	cfg.Exchange.Secret = strings.Replace(cfg.Exchange.Secret, `\n`, "\n", -1)
}
