package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	envPrefix         = "STOREFRONT_"
	defaultConfigFile = "config.yaml"
)

type Config struct {
	App struct {
		Env  string `yaml:"env"`
		Name string `yaml:"name"`
	} `yaml:"app"`

	HTTP struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"readtimeout"`
		WriteTimeout time.Duration `yaml:"writetimeout"`
		IdleTimeout  time.Duration `yaml:"idletimeout"`
	} `yaml:"http"`

	Upstream struct {
		BaseURL string        `yaml:"baseurl"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Kafka struct {
		Broker        string `yaml:"broker"`
		EventsTopic   string `yaml:"eventstopic"`
		OrderTopic    string `yaml:"ordertopic"`
		ConsumerGroup string `yaml:"consumergroup"`
	} `yaml:"kafka"`

	Session struct {
		Secret     string        `yaml:"secret"`
		CookieName string        `yaml:"cookiename"`
		TTL        time.Duration `yaml:"ttl"`
		Secure     bool          `yaml:"secure"`
	} `yaml:"session"`

	Cart struct {
		RequireIdentity bool `yaml:"requireidentity"`
	} `yaml:"cart"`

	Catalog struct {
		CacheTTL time.Duration `yaml:"cachettl"`
	} `yaml:"catalog"`

	Midtrans struct {
		ServerKey    string `yaml:"serverkey"`
		IsProduction bool   `yaml:"isproduction"`
	} `yaml:"midtrans"`

	Cloudinary struct {
		CloudName string `yaml:"cloudname"`
		APIKey    string `yaml:"apikey"`
		APISecret string `yaml:"apisecret"`
	} `yaml:"cloudinary"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.env":                "development",
		"app.name":               "go-storefront",
		"http.port":              "3000",
		"http.readtimeout":       "5s",
		"http.writetimeout":      "10s",
		"http.idletimeout":       "60s",
		"upstream.timeout":       "10s",
		"redis.addr":             "localhost:6379",
		"kafka.eventstopic":      "storefront.events",
		"kafka.ordertopic":       "order.events",
		"kafka.consumergroup":    "storefront-cart-consumer",
		"session.cookiename":     "sf_session",
		"session.ttl":            "720h",
		"cart.requireidentity":   true,
		"catalog.cachettl":       "5m",
		"midtrans.isproduction":  false,
		"session.secure":         false,
		"upstream.baseurl":       "http://localhost:8080/api/v1",
		"kafka.broker":           "",
		"cloudinary.cloudname":   "",
		"midtrans.serverkey":     "",
		"session.secret":         "",
		"redis.password":         "",
		"redis.db":               0,
		"cloudinary.apikey":      "",
		"cloudinary.apisecret":   "",
	}
}

// Load reads .env, then the optional yaml file, then STOREFRONT_* variables.
// STOREFRONT_REDIS_ADDR overrides redis.addr.
func Load(configPath ...string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, errors.Wrapf(err, "set default %s", key)
		}
	}

	path := defaultConfigFile
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	if cfg.Session.Secret == "" {
		return nil, errors.New("session.secret is required")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
