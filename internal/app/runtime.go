// Package app composes infrastructure and domain systems into a workflow
// runtime for the command-line client.
package app

import (
	"net/http"

	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/internal/config"
	"github.com/JaimeStill/oagrade/internal/infrastructure"
)

// Runtime extends Infrastructure with the configuration sections the domain
// systems need.
type Runtime struct {
	*infrastructure.Infrastructure
	Classifier classifier.Config
	Composite  composite.Config
	AssetsDir  string
	HTTPClient *http.Client
}

// NewRuntime creates an application runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "app"),
			Database:  infra.Database,
			Gallery:   infra.Gallery,
		},
		Classifier: cfg.Classifier,
		Composite:  cfg.Composite,
		AssetsDir:  cfg.History.AssetsDir,
		HTTPClient: &http.Client{},
	}
}
