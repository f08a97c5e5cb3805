package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/school-georesolver/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Selection  SelectionConfig
	Sources    SourcesConfig
	Resolver   ResolverConfig
	Vocabulary domain.Vocabulary
	Log        LogConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string

	// CORSOrigins - список доменов через запятую, пусто означает любой
	CORSOrigins string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig - PostgreSQL для хранилища выбора (backend postgres)
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type SelectionConfig struct {
	// Backend: memory, redis, sqlite, postgres
	Backend    string
	SQLitePath string
}

type SourcesConfig struct {
	OverpassEndpoints  []string
	NominatimBaseURL   string
	NominatimUserAgent string
	NominatimLanguage  string
	// WikipediaBaseURL содержит %s для языка, например https://%s.wikipedia.org
	WikipediaBaseURL  string
	WikidataBaseURL   string
	WikidataSPARQLURL string
	CommonsBaseURL    string
	PlacesProxyURL    string
	RequestTimeout    time.Duration
}

type ResolverConfig struct {
	Radii            []int
	MaxCandidates    int
	CacheSize        int
	BatchConcurrency int
	MaxBatchSize     int
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),

			CORSOrigins: viper.GetString("CORS_ALLOW_ORIGINS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Selection: SelectionConfig{
			Backend:    viper.GetString("SELECTION_BACKEND"),
			SQLitePath: viper.GetString("SELECTION_SQLITE_PATH"),
		},
		Sources: SourcesConfig{
			OverpassEndpoints:  parseList(viper.GetString("OVERPASS_ENDPOINTS")),
			NominatimBaseURL:   viper.GetString("NOMINATIM_BASE_URL"),
			NominatimUserAgent: viper.GetString("NOMINATIM_USER_AGENT"),
			NominatimLanguage:  viper.GetString("NOMINATIM_LANGUAGE"),
			WikipediaBaseURL:   viper.GetString("WIKIPEDIA_BASE_URL"),
			WikidataBaseURL:    viper.GetString("WIKIDATA_BASE_URL"),
			WikidataSPARQLURL:  viper.GetString("WIKIDATA_SPARQL_URL"),
			CommonsBaseURL:     viper.GetString("COMMONS_BASE_URL"),
			PlacesProxyURL:     viper.GetString("PLACES_PROXY_URL"),
			RequestTimeout:     time.Duration(viper.GetInt("HTTP_TIMEOUT")) * time.Second,
		},
		Resolver: ResolverConfig{
			Radii:            parseInts(viper.GetString("RESOLVER_RADII")),
			MaxCandidates:    viper.GetInt("RESOLVER_MAX_CANDIDATES"),
			CacheSize:        viper.GetInt("RESOLVER_CACHE_SIZE"),
			BatchConcurrency: viper.GetInt("RESOLVER_BATCH_CONCURRENCY"),
			MaxBatchSize:     viper.GetInt("RESOLVER_MAX_BATCH_SIZE"),
		},
		Vocabulary: loadVocabulary(),
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     viper.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	cfg.applyDefaults()

	return cfg, nil
}

// GetDatabaseDSN - строка подключения к PostgreSQL
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// Defaults - конфигурация со значениями по умолчанию без чтения окружения
func Defaults() *Config {
	c := &Config{Vocabulary: domain.DefaultVocabulary()}
	c.applyDefaults()
	return c
}

// applyDefaults заполняет значения по умолчанию
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "georesolver"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 10 * time.Minute
	}
	if c.Selection.Backend == "" {
		c.Selection.Backend = "memory"
	}
	if c.Selection.SQLitePath == "" {
		c.Selection.SQLitePath = "selections.db"
	}

	if len(c.Sources.OverpassEndpoints) == 0 {
		c.Sources.OverpassEndpoints = []string{
			"https://overpass-api.de/api/interpreter",
			"https://overpass.kumi.systems/api/interpreter",
		}
	}
	if c.Sources.NominatimBaseURL == "" {
		c.Sources.NominatimBaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Sources.NominatimUserAgent == "" {
		c.Sources.NominatimUserAgent = "school-georesolver/1.0"
	}
	if c.Sources.NominatimLanguage == "" {
		c.Sources.NominatimLanguage = "pt-BR"
	}
	if c.Sources.WikipediaBaseURL == "" {
		c.Sources.WikipediaBaseURL = "https://%s.wikipedia.org"
	}
	if c.Sources.WikidataBaseURL == "" {
		c.Sources.WikidataBaseURL = "https://www.wikidata.org"
	}
	if c.Sources.WikidataSPARQLURL == "" {
		c.Sources.WikidataSPARQLURL = "https://query.wikidata.org/sparql"
	}
	if c.Sources.CommonsBaseURL == "" {
		c.Sources.CommonsBaseURL = "https://commons.wikimedia.org"
	}
	if c.Sources.RequestTimeout == 0 {
		c.Sources.RequestTimeout = 30 * time.Second
	}

	if len(c.Resolver.Radii) == 0 {
		c.Resolver.Radii = []int{5, 15, 30, 60, 120, 250}
	}
	if c.Resolver.MaxCandidates == 0 {
		c.Resolver.MaxCandidates = 5
	}
	if c.Resolver.CacheSize == 0 {
		c.Resolver.CacheSize = 10000
	}
	if c.Resolver.BatchConcurrency == 0 {
		c.Resolver.BatchConcurrency = 4
	}
	if c.Resolver.MaxBatchSize == 0 {
		c.Resolver.MaxBatchSize = 50
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "school-resolver-workers"
	}
	if c.Worker.BatchSize == 0 {
		c.Worker.BatchSize = 20
	}
}

// loadVocabulary - словари по умолчанию с переопределениями из VOCAB_*
func loadVocabulary() domain.Vocabulary {
	v := domain.DefaultVocabulary()

	overrides := map[string]*[]string{
		"VOCAB_OWNERSHIP_TAG_KEYS":  &v.OwnershipTagKeys,
		"VOCAB_PUBLIC_TAG_TERMS":    &v.PublicTagTerms,
		"VOCAB_PRIVATE_TAG_TERMS":   &v.PrivateTagTerms,
		"VOCAB_PUBLIC_NAME_TERMS":   &v.PublicNameTerms,
		"VOCAB_PRIVATE_NAME_TERMS":  &v.PrivateNameTerms,
		"VOCAB_ROAD_PREFIXES":       &v.RoadPrefixes,
		"VOCAB_AREA_SUBSTRINGS":     &v.AreaSubstrings,
		"VOCAB_SEARCH_TERMS":        &v.SearchTerms,
		"VOCAB_POI_CATEGORY_MARKS":  &v.POICategoryMarks,
	}
	for key, target := range overrides {
		if list := parseList(viper.GetString(key)); len(list) > 0 {
			*target = list
		}
	}

	if radii := parseInts(viper.GetString("VOCAB_SEARCH_RADII")); len(radii) > 0 {
		v.SearchRadii = radii
	}

	return v
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseInts(s string) []int {
	parts := parseList(s)
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			continue
		}
		result = append(result, n)
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
