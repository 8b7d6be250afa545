package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Outbox     OutboxConfig     `yaml:"outbox"`
	Consumer   ConsumerConfig   `yaml:"consumer"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds process-level settings.
type ServerConfig struct {
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds the event stream connection settings.
type RedisConfig struct {
	URL         string `yaml:"url"          env:"REDIS_URL"          env-default:"redis://localhost:6379"`
	DictStream  string `yaml:"dict_stream"  env:"REDIS_DICT_STREAM"  env-default:"quillcheck.dict.v1"`
	EventSource string `yaml:"event_source" env:"REDIS_EVENT_SOURCE" env-default:"quillcheck"`
}

// AnalysisConfig holds analysis pipeline settings.
type AnalysisConfig struct {
	FenceWorkers     int           `yaml:"fence_workers"      env:"ANALYSIS_FENCE_WORKERS"      env-default:"3"`
	MaxDocumentBytes int           `yaml:"max_document_bytes" env:"ANALYSIS_MAX_DOCUMENT_BYTES" env-default:"1048576"`
	MaxSpanChars     int           `yaml:"max_span_chars"     env:"ANALYSIS_MAX_SPAN_CHARS"     env-default:"10000"`
	CacheSize        int           `yaml:"cache_size"         env:"ANALYSIS_CACHE_SIZE"         env-default:"512"`
	CacheTTL         time.Duration `yaml:"cache_ttl"          env:"ANALYSIS_CACHE_TTL"          env-default:"15m"`
	WordlistPath     string        `yaml:"wordlist_path"      env:"ANALYSIS_WORDLIST_PATH"      env-default:"/usr/share/dict/words"`
	MinTokenLen      int           `yaml:"min_token_len"      env:"ANALYSIS_MIN_TOKEN_LEN"      env-default:"3"`
}

// DictionaryConfig holds custom dictionary settings.
type DictionaryConfig struct {
	MaxWordsPerScope int `yaml:"max_words_per_scope" env:"DICT_MAX_WORDS_PER_SCOPE" env-default:"5000"`
	MaxWordLen       int `yaml:"max_word_len"        env:"DICT_MAX_WORD_LEN"        env-default:"64"`
}

// OutboxConfig holds relay settings.
type OutboxConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL" env-default:"1s"`
	BatchSize    int           `yaml:"batch_size"    env:"OUTBOX_BATCH_SIZE"    env-default:"100"`
	Retention    time.Duration `yaml:"retention"     env:"OUTBOX_RETENTION"     env-default:"168h"`
}

// ConsumerConfig holds identity event consumer settings.
type ConsumerConfig struct {
	Stream           string        `yaml:"stream"            env:"CONSUMER_STREAM"            env-default:"identity.user.v1"`
	Group            string        `yaml:"group"             env:"CONSUMER_GROUP"             env-default:"quillcheck"`
	ConsumerName     string        `yaml:"consumer_name"     env:"CONSUMER_NAME"              env-default:"quillcheck-1"`
	DeadLetterStream string        `yaml:"dead_letter_stream" env:"CONSUMER_DLQ_STREAM"       env-default:"identity.user.v1.dlq"`
	BlockTimeout     time.Duration `yaml:"block_timeout"     env:"CONSUMER_BLOCK_TIMEOUT"     env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
