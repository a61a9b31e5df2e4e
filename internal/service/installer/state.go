package installer

import "github.com/sandevgo/pixbot/internal/config"

// InstallState accumulates the configuration the wizard collects. The typed
// structs are rendered to .env through their env tags at the end.
type InstallState struct {
	App      *config.AppConfig
	HTTP     *config.HTTPConfig
	Telegram *config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{
		App:      &config.AppConfig{},
		HTTP:     &config.HTTPConfig{},
		Telegram: &config.TelegramConfig{},
	}
}
