package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultQAURL         = "http://kellogs.cse356.compas.cs.stonybrook.edu"
	defaultUsersURL      = "http://130.245.171.197"
	defaultQuestionsFile = "stackoverflow-data-idf.json"
	defaultUsersFile     = "users.csv"
	defaultQuestionLimit = 100
	defaultRedisPrefix   = "seed"
	defaultKafkaTopic    = "stackseed.submissions"
	defaultKafkaGroup    = "seed-events"
)

// DefaultIndices are the search indices reset by clear_indices.
var DefaultIndices = []string{"users", "questions", "answers", "views", "q-upvotes", "a-downvotes"}

// Config holds every setting the seeding tools read.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Questions QuestionsConfig `yaml:"questions"`
	Users     UsersConfig     `yaml:"users"`
	Verify    VerifyConfig    `yaml:"verify"`
	Search    SearchConfig    `yaml:"search"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	S3        S3Config        `yaml:"s3"`
}

// APIConfig points at the Q&A service hosts. Questions and verification share one
// host; registration lives on another.
type APIConfig struct {
	QAURL          string `yaml:"qa_url"`
	UsersURL       string `yaml:"users_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout converts TimeoutSeconds; negative values disable the client timeout.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds < 0 {
		return -1
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type QuestionsConfig struct {
	DataPath   string `yaml:"data_path"`
	Limit      int    `yaml:"limit"`
	Cookie     string `yaml:"cookie"`
	TraceToken string `yaml:"trace_token"`
}

type UsersConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type VerifyConfig struct {
	CSVPath string `yaml:"csv_path"`
	Key     string `yaml:"key"`
}

// SearchConfig addresses the search cluster. Credentials may be embedded in URL.
type SearchConfig struct {
	URL     string   `yaml:"url"`
	Indices []string `yaml:"indices"`
}

// LedgerConfig enables the local SQLite audit log when Path is set.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Group   string   `yaml:"group"`
}

// S3Config is used when an input path is an s3://bucket/key URL.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Load reads a YAML config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// FromEnv loads .env (if present), the YAML file named by SEED_CONFIG (if set),
// then overrides with environment variables.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("SEED_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.API.QAURL, "SEED_QA_URL")
	setString(&c.API.UsersURL, "SEED_USERS_URL")
	setInt(&c.API.TimeoutSeconds, "SEED_HTTP_TIMEOUT_SECONDS")

	setString(&c.Questions.DataPath, "SEED_QUESTIONS_FILE")
	setInt(&c.Questions.Limit, "SEED_QUESTIONS_LIMIT")
	setString(&c.Questions.Cookie, "SEED_COOKIE")
	setString(&c.Questions.TraceToken, "SEED_TRACE_TOKEN")

	setString(&c.Users.CSVPath, "SEED_USERS_FILE")
	setString(&c.Verify.CSVPath, "SEED_USERS_FILE")
	setString(&c.Verify.Key, "SEED_VERIFY_KEY")

	setString(&c.Search.URL, "SEARCH_URL")
	setList(&c.Search.Indices, "SEARCH_INDICES")

	setString(&c.Ledger.Path, "SEED_LEDGER_PATH")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")
	setString(&c.Redis.Prefix, "SEED_REDIS_PREFIX")

	if val := os.Getenv("SEED_KAFKA_ENABLED"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			c.Kafka.Enabled = parsed
		}
	}
	setList(&c.Kafka.Brokers, "KAFKA_BROKERS")
	setString(&c.Kafka.Topic, "SEED_KAFKA_TOPIC")
	setString(&c.Kafka.Group, "SEED_KAFKA_GROUP")

	setString(&c.S3.Region, "S3_REGION")
	setString(&c.S3.Endpoint, "S3_ENDPOINT")
	setString(&c.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "S3_SECRET_KEY")
}

func (c *Config) applyDefaults() {
	if c.API.QAURL == "" {
		c.API.QAURL = defaultQAURL
	}
	if c.API.UsersURL == "" {
		c.API.UsersURL = defaultUsersURL
	}
	if c.Questions.DataPath == "" {
		c.Questions.DataPath = defaultQuestionsFile
	}
	if c.Questions.Limit == 0 {
		c.Questions.Limit = defaultQuestionLimit
	}
	if c.Users.CSVPath == "" {
		c.Users.CSVPath = defaultUsersFile
	}
	if c.Verify.CSVPath == "" {
		c.Verify.CSVPath = c.Users.CSVPath
	}
	if len(c.Search.Indices) == 0 {
		c.Search.Indices = append([]string(nil), DefaultIndices...)
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = defaultRedisPrefix
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = defaultKafkaTopic
	}
	if c.Kafka.Group == "" {
		c.Kafka.Group = defaultKafkaGroup
	}
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dst = parsed
		}
	}
}

func setList(dst *[]string, key string) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*dst = out
}
