package server

import (
	"github.com/raysh454/urlanalyzer/internal/formctl"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address, e.g. "127.0.0.1:8000".
	ListenAddr string

	// Form configures the controller behind the server-rendered page.
	Form formctl.Config

	Logger logging.Logger
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: "127.0.0.1:8000",
		Form:       formctl.DefaultConfig(),
	}
}
