package models

import (
	"path"
	"time"

	"github.com/kardianos/osext"
)

// AppConfig is the application's main configuration structure. Values are loaded
// from a JSON file beside the executable and can be overridden through environment
// variables with the YJCC prefix (e.g. YJCC_ADMINCODE)
type AppConfig struct {
	// The directory where the application stores all of its data - defaults to the /data
	// subdirectory of the folder the executable resides in
	DataDir string `json:"dataDir" envconfig:"datadir"`
	// The IP address to listen at - including the port number
	ListenAddress string `json:"listenAddress" envconfig:"listenaddress"`
	// The shared code that grants access to the administrator dashboard
	AdminCode string `json:"adminCode" envconfig:"admincode"`
	// How often the notification scheduler scans the events, in seconds
	PollIntervalSeconds uint `json:"pollIntervalSeconds" envconfig:"pollintervalseconds"`
	// Base URL of the WhatsApp deep-link service
	WhatsAppBaseURL string `json:"whatsAppBaseUrl" envconfig:"whatsappbaseurl"`
}

// PollInterval returns the scheduler scan interval as a duration
func (c AppConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// GetDefaultConfig returns the default configuration values for the application
func GetDefaultConfig() (*AppConfig, error) {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		DataDir:             path.Join(execDir, "data"),
		ListenAddress:       ":3000",
		AdminCode:           "changeme",
		PollIntervalSeconds: 60,
		WhatsAppBaseURL:     "https://wa.me",
	}, nil
}
