package debug

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/config"
)

// EinoDebugger exposes the eino visual debug server behind a config flag.
type EinoDebugger struct {
	config *config.Config
	ctx    context.Context
}

func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{
		config: cfg,
		ctx:    context.Background(),
	}
}

func (d *EinoDebugger) Initialize() error {
	if !d.config.EinoDebugEnabled {
		return nil
	}

	if d.config.Debug {
		log.Printf("[EinoDebug] Initializing eino visual debug plugin on port %d", d.config.EinoDebugPort)
	}

	if err := devops.Init(d.ctx); err != nil {
		return fmt.Errorf("initialize eino debug plugin: %w", err)
	}

	if d.config.Debug {
		log.Printf("[EinoDebug] Debug server at http://localhost:%d", d.config.EinoDebugPort)
	}

	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *EinoDebugger) GetDebugURL() string {
	if !d.config.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}
