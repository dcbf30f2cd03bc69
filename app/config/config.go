package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Log     Log     `yaml:"log"`
	HTTP    HTTP    `yaml:"http"`
	MCP     MCP     `yaml:"mcp"`
	Backend Backend `yaml:"backend"`
	Session Session `yaml:"session"`
	Venues  Venues  `yaml:"venues"`
	Map     Map     `yaml:"map"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type HTTP struct {
	// Listen address of the API server
	Listen string `yaml:"listen" example:":8080" validate:"required"`
}

type MCP struct {
	// Listen address of the MCP SSE server, disabled when empty
	Listen string `yaml:"listen" example:":8081"`
	// Public base URL advertised to MCP clients
	BaseURL string `yaml:"base_url" example:"http://localhost:8081" validate:"omitempty,url"`
}

type Backend struct {
	// URL the search questions are POSTed to
	URL string `yaml:"url" example:"http://localhost:5000/api/ask" validate:"required,url"`
	// Transport timeout of a single request
	Timeout time.Duration `yaml:"timeout" example:"30s" validate:"gt=0"`
}

type Session struct {
	// Upper bound for one submitted question, expiry is reported as a failed answer
	Timeout time.Duration `yaml:"timeout" example:"30s" validate:"gt=0"`
	// Idle sessions are dropped after this long
	IdleTTL time.Duration `yaml:"idle_ttl" example:"1h" validate:"gt=0"`
}

type Venues struct {
	// YAML file with the local venue collection, the embedded sample is used when empty
	File string `yaml:"file" example:"venues.yaml"`
}

type Map struct {
	// Zoom applied when a venue is selected
	SelectZoom int `yaml:"select_zoom" example:"16" validate:"min=1,max=20"`
	// Zoom of a fresh map
	InitialZoom int `yaml:"initial_zoom" example:"13" validate:"min=1,max=20"`
	// Minimum pane size of the map/list splitter
	MinPane float64 `yaml:"min_pane" example:"100" validate:"gte=0"`
	// Frames buffered for the renderer before new ones are dropped
	RenderBuffer int `yaml:"render_buffer" example:"64" validate:"min=1"`
}

func Load() (*Config, error) {
	return LoadFile(DefaultPath)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var result Config

	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.HTTP.Listen == "" {
		result.HTTP.Listen = ":8080"
	}
	if result.Backend.Timeout == 0 {
		result.Backend.Timeout = 30 * time.Second
	}
	if result.Session.Timeout == 0 {
		result.Session.Timeout = 30 * time.Second
	}
	if result.Session.IdleTTL == 0 {
		result.Session.IdleTTL = time.Hour
	}
	if result.Map.SelectZoom == 0 {
		result.Map.SelectZoom = 16
	}
	if result.Map.InitialZoom == 0 {
		result.Map.InitialZoom = 13
	}
	if result.Map.MinPane == 0 {
		result.Map.MinPane = 100
	}
	if result.Map.RenderBuffer == 0 {
		result.Map.RenderBuffer = 64
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
