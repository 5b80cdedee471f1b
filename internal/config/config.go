/*
Package config holds the collector settings, read from flags and the
environment (optionally seeded from a .env file).
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/shanehull/corpbrief/internal/notify"
)

var ErrMissingKey = errors.New("missing API key")

type SMTP struct {
	Server string `long:"server" env:"SERVER" default:"smtp.gmail.com" description:"SMTP server address"`
	Port   int    `long:"port" env:"PORT" default:"587" description:"SMTP server port"`
	User   string `long:"user" env:"USER" description:"SMTP username (email address)"`
	Pass   string `long:"pass" env:"PASS" description:"SMTP password or app password"`
	From   string `long:"from" env:"FROM" description:"Sender email address (default: smtp user)"`
	To     string `long:"to" env:"TO" description:"Recipient email address"`
}

// EmailConfig enables email only when server, credentials and recipient are all set.
func (s SMTP) EmailConfig() notify.EmailConfig {
	from := s.From
	if from == "" {
		from = s.User
	}
	return notify.EmailConfig{
		SMTPServer: s.Server,
		SMTPPort:   s.Port,
		SMTPUser:   s.User,
		SMTPPass:   s.Pass,
		FromEmail:  from,
		ToEmail:    s.To,
		Enabled:    s.Server != "" && s.User != "" && s.Pass != "" && s.To != "",
	}
}

type Config struct {
	GeminiAPIKey      string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Google Gemini API key"`
	NaverClientID     string `long:"naver-client-id" env:"NAVER_CLIENT_ID" description:"Naver search API client id"`
	NaverClientSecret string `long:"naver-client-secret" env:"NAVER_CLIENT_SECRET" description:"Naver search API client secret"`
	DartAPIKey        string `long:"dart-api-key" env:"DART_API_KEY" description:"OpenDART API key"`

	CorpCodeXML   string `long:"corp-code-xml" env:"CORP_CODE_XML" default:"CORPCODE.xml" description:"Bulk company identifier XML"`
	CorpCodeCache string `long:"corp-code-cache" env:"CORP_CODE_CACHE" default:"corp_codes.csv" description:"Company identifier CSV cache"`
	RefreshCache  bool   `long:"refresh-cache" env:"REFRESH_CACHE" description:"Rebuild the identifier cache from the XML"`

	DBDir       string `long:"db-dir" env:"DB_DIR" default:"rag_db" description:"Vector store directory"`
	RunLog      string `long:"run-log" env:"RUN_LOG" default:"pipeline_logs.json" description:"Rolling run log file"`
	CompanyList string `long:"company-list" env:"COMPANY_LIST" description:"JSON company list file; overrides --preset"`
	Preset      string `long:"preset" env:"PRESET" description:"Company preset (top_10, top_30, top_50, top_100, tech_focus, finance_focus)"`

	RulesFile        string `long:"rules-file" env:"RULES_FILE" description:"YAML disclosure classification rules (default: built-in)"`
	KeepUnclassified bool   `long:"keep-unclassified" env:"KEEP_UNCLASSIFIED" description:"Keep disclosures matching no rule in an uncategorized bucket"`

	NewsCount      int `long:"news-count" env:"NEWS_COUNT" default:"10" description:"News items fetched per company"`
	DisclosureDays int `long:"disclosure-days" env:"DISCLOSURE_DAYS" default:"30" description:"Disclosure look-back window in days"`
	NaverRateLimit int `long:"naver-rate-limit" env:"NAVER_RATE_LIMIT" default:"10" description:"Naver API requests per second"`

	EmbeddingModel string `long:"embedding-model" env:"EMBEDDING_MODEL" default:"gemini-embedding-001" description:"Gemini embedding model"`
	ReportModel    string `long:"report-model" env:"REPORT_MODEL" default:"gemini-2.5-flash" description:"Gemini report model"`

	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`

	SMTP SMTP `group:"SMTP" namespace:"smtp" env-namespace:"SMTP"`
}

// NewParser returns a parser bound to cfg; callers add their commands to it.
func NewParser(cfg *Config) *flags.Parser {
	return flags.NewParser(cfg, flags.Default)
}

// IsHelp reports whether err is go-flags asking to show help.
func IsHelp(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp
}

// LoadEnv reads a .env file into the environment. A missing file is not an error.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY or --gemini-api-key", ErrMissingKey)
	}
	return nil
}

func (c *Config) RequireDart() error {
	if c.DartAPIKey == "" {
		return fmt.Errorf("%w: set DART_API_KEY or --dart-api-key", ErrMissingKey)
	}
	return nil
}

func (c *Config) RequireNaver() error {
	if c.NaverClientID == "" || c.NaverClientSecret == "" {
		return fmt.Errorf("%w: set NAVER_CLIENT_ID and NAVER_CLIENT_SECRET", ErrMissingKey)
	}
	return nil
}
