package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/genie-legal/intake-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Names under which the collaborator credential may be deployed.
// Checked in order, first non-empty wins.
var credentialEnvNames = []string{"OPENAI_API_KEY", "CFS_Key", "CFS_KEY"}

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// External service configurations
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Intake flow pacing
	FlowCfg FlowConfig `envPrefix:"FLOW_"`

	// Conversation store configuration
	ConversationTTL             time.Duration `env:"CONVERSATION_TTL" envDefault:"2h"`
	ConversationCleanupInterval time.Duration `env:"CONVERSATION_CLEANUP_INTERVAL" envDefault:"10m"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	ChatCompletionsEndpoint string               `env:"CHAT_COMPLETIONS_ENDPOINT" envDefault:"/v1/chat/completions"`
	Model                   string               `env:"MODEL" envDefault:"gpt-4o-mini"`
	Temperature             float64              `env:"TEMPERATURE" envDefault:"0.7"`
	Retry                   pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// FlowConfig holds the fixed pacing delays of the guided intake flow.
// Tests set these near zero.
type FlowConfig struct {
	ThinkingStepDwell time.Duration `env:"THINKING_STEP_DWELL" envDefault:"1500ms"`
	InitialFirstDwell time.Duration `env:"INITIAL_FIRST_DWELL" envDefault:"600ms"`
	InitialMinDwell   time.Duration `env:"INITIAL_MIN_DWELL" envDefault:"800ms"`
	ConfigureDwell    time.Duration `env:"CONFIGURE_DWELL" envDefault:"2s"`
	ReplyDelay        time.Duration `env:"REPLY_DELAY" envDefault:"500ms"`
	RedirectDelay     time.Duration `env:"REDIRECT_DELAY" envDefault:"6s"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"30s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// The credential is deployed under one of several names. An empty
	// result is not a startup failure; the chat endpoint reports it
	// per request.
	if cfg.LLMConnectorCfg.Token == "" {
		cfg.LLMConnectorCfg.Token = resolveCredential()
	}

	return cfg, nil
}

func resolveCredential() string {
	for _, name := range credentialEnvNames {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
