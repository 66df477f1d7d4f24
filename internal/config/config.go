package config

import (
	"time"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
)

// Default configuration values.
const (
	defaultConfigPath          = "config.yml"
	defaultServiceName         = "warc-ingestor"
	defaultServiceVersion      = "1.0.0"
	defaultMaxRecordFetch      = 100
	defaultDBName              = "test"
	defaultArchiveURL          = "https://commoncrawl.s3.amazonaws.com/crawl-data/CC-MAIN-2018-26/segments/1529267859766.6/warc/CC-MAIN-20180618105733-20180618125538-00027.warc.gz"
	defaultMetadataCollection  = "metadata"
	defaultMongoURI            = "mongodb://localhost:27017"
	defaultMongoConnectTimeout = 10 * time.Second
	defaultMongoOpTimeout      = 30 * time.Second
	defaultESURL               = "http://localhost:9200"
	defaultESMaxRetries        = 3
	defaultESTimeout           = 30 * time.Second
	defaultESHealthStatus      = "yellow"
	defaultESRetryInitialDelay = time.Second
	defaultESRetryMaxDelay     = 30 * time.Second
	defaultHTTPDialTimeout     = 30 * time.Second
	defaultHTTPHeaderTimeout   = 60 * time.Second
	defaultHTTPUserAgent       = "warc-ingestor/1.0"
	defaultLogLevel            = "info"
	defaultLogFormat           = "json"
)

// Config holds the application configuration.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Ingest        IngestConfig        `yaml:"ingest"`
	MongoDB       MongoDBConfig       `yaml:"mongodb"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	HTTP          HTTPConfig          `yaml:"http"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServiceConfig holds service configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Debug   bool   `env:"APP_DEBUG" yaml:"debug"`
}

// IngestConfig controls a single ingestion run.
type IngestConfig struct {
	// MaxRecordFetch is the signed run budget. A nil value means unset, so an
	// explicit zero (no-op run) survives defaulting.
	MaxRecordFetch     *int   `env:"MAX_RECORD_FETCH" yaml:"max_record_fetch"`
	DBName             string `env:"DB_NAME"          yaml:"db_name"`
	ArchiveURL         string `env:"ARCHIVE_URL"      yaml:"archive_url"`
	MetadataCollection string `yaml:"metadata_collection"`
	// PrintSummary renders the run report as a table on stderr.
	PrintSummary bool `env:"PRINT_SUMMARY" yaml:"print_summary"`
}

// Budget returns the configured run budget.
func (c IngestConfig) Budget() domain.RunBudget {
	if c.MaxRecordFetch == nil {
		return domain.RunBudget(defaultMaxRecordFetch)
	}
	return domain.RunBudget(*c.MaxRecordFetch)
}

// ContentIndex returns the name of the content index.
func (c IngestConfig) ContentIndex() string {
	return domain.ContentIndex(c.DBName)
}

// MetadataIndex returns the name of the metadata index.
func (c IngestConfig) MetadataIndex() string {
	return domain.MetadataIndex(c.DBName)
}

// MongoDBConfig holds MongoDB configuration.
type MongoDBConfig struct {
	URI              string        `env:"MONGODB_URI" yaml:"uri"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
}

// ElasticsearchConfig holds Elasticsearch configuration.
type ElasticsearchConfig struct {
	URL                string        `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username           string        `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password           string        `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	CACertPath         string        `yaml:"ca_cert_path"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	MaxRetries         int           `yaml:"max_retries"`
	Timeout            time.Duration `yaml:"timeout"`
	HealthStatus       string        `yaml:"health_status"`
	RetryInitialDelay  time.Duration `yaml:"retry_initial_delay"`
	RetryMaxDelay      time.Duration `yaml:"retry_max_delay"`
}

// HTTPConfig holds the archive download client configuration.
type HTTPConfig struct {
	DialTimeout           time.Duration `yaml:"dial_timeout"`
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout"`
	UserAgent             string        `yaml:"user_agent"`
}

// MetricsConfig holds the Prometheus endpoint configuration. An empty Addr
// disables the endpoint.
type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR" yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from a YAML file and the environment.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file path, honouring CONFIG_PATH.
func Path() string {
	return GetConfigPath(defaultConfigPath)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setIngestDefaults(&cfg.Ingest)
	setMongoDefaults(&cfg.MongoDB)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setHTTPDefaults(&cfg.HTTP)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
}

func setIngestDefaults(i *IngestConfig) {
	if i.MaxRecordFetch == nil {
		n := defaultMaxRecordFetch
		i.MaxRecordFetch = &n
	}
	if i.DBName == "" {
		i.DBName = defaultDBName
	}
	if i.ArchiveURL == "" {
		i.ArchiveURL = defaultArchiveURL
	}
	if i.MetadataCollection == "" {
		i.MetadataCollection = defaultMetadataCollection
	}
}

func setMongoDefaults(m *MongoDBConfig) {
	if m.URI == "" {
		m.URI = defaultMongoURI
	}
	if m.ConnectTimeout == 0 {
		m.ConnectTimeout = defaultMongoConnectTimeout
	}
	if m.OperationTimeout == 0 {
		m.OperationTimeout = defaultMongoOpTimeout
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.MaxRetries == 0 {
		e.MaxRetries = defaultESMaxRetries
	}
	if e.Timeout == 0 {
		e.Timeout = defaultESTimeout
	}
	if e.HealthStatus == "" {
		e.HealthStatus = defaultESHealthStatus
	}
	if e.RetryInitialDelay == 0 {
		e.RetryInitialDelay = defaultESRetryInitialDelay
	}
	if e.RetryMaxDelay == 0 {
		e.RetryMaxDelay = defaultESRetryMaxDelay
	}
}

func setHTTPDefaults(h *HTTPConfig) {
	if h.DialTimeout == 0 {
		h.DialTimeout = defaultHTTPDialTimeout
	}
	if h.ResponseHeaderTimeout == 0 {
		h.ResponseHeaderTimeout = defaultHTTPHeaderTimeout
	}
	if h.UserAgent == "" {
		h.UserAgent = defaultHTTPUserAgent
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validateRequired("ingest.db_name", c.Ingest.DBName); err != nil {
		return err
	}
	if err := validateURL("ingest.archive_url", c.Ingest.ArchiveURL, "http", "https"); err != nil {
		return err
	}
	if err := validateRequired("mongodb.uri", c.MongoDB.URI); err != nil {
		return err
	}
	if err := validateURL("elasticsearch.url", c.Elasticsearch.URL, "http", "https"); err != nil {
		return err
	}
	switch c.Elasticsearch.HealthStatus {
	case "green", "yellow", "red":
	default:
		return &ValidationError{Field: "elasticsearch.health_status", Message: "must be one of: green, yellow, red"}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Field: "logging.level", Message: err.Error()}
	}
	return validateLogFormat(c.Logging.Format)
}
