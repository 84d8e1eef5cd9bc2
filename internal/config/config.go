package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	// FrontendURL is the base used to build "Confirm Email" links.
	FrontendURL string `yaml:"frontend_url"`
}

type OllamaConfig struct {
	Host         string `yaml:"host"`
	DefaultModel string `yaml:"default_model"`
	Embedded     bool   `yaml:"embedded"`
	AutoPull     bool   `yaml:"auto_pull"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Email  EmailConfig  `yaml:"email"`
	Ollama OllamaConfig `yaml:"ollama"`
}

func LoadConfig() *Config {
	path := os.Getenv("AXIESTUDIO_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open config: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config: " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7860
	}
	if cfg.Ollama.Host == "" {
		cfg.Ollama.Host = "127.0.0.1:11434"
	}
	if cfg.Ollama.DefaultModel == "" {
		cfg.Ollama.DefaultModel = "gemma2:2b"
	}
	return &cfg
}
