package appconfig

import (
	"strings"

	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	Tenant string `env:"TENANT" ini:"tenant"`

	ScribeModel   string `ini:"scribe_model"`
	AuditModel    string `ini:"audit_model"`
	RebuttalModel string `ini:"rebuttal_model"`
	IntakeModels  string `ini:"intake_models"` // comma-separated, tried in order
	OllamaModel   string `ini:"ollama_model"`  // when set, clinical extraction runs locally

	DefaultPayer string `ini:"default_payer"`
	HaltOnError  bool   `ini:"halt_on_error"`
}

// IntakeModelList splits the configured fallback chain, preserving order.
func (c *AppConfig) IntakeModelList() []string {
	parts := strings.Split(c.IntakeModels, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			models = append(models, p)
		}
	}
	return models
}
