package app

import (
	"os"

	"courier-companion/internal/config"
	"courier-companion/internal/logx"
)

// NewLogger writes JSON to stdout; dev mode enables debug.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.Dev)
}
