package app

import (
	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/internal/workflow"
)

// Domain holds the domain systems the workflow sequences.
type Domain struct {
	History    history.System
	Classifier classifier.System
	Composite  composite.System

	runtime *Runtime
}

// NewDomain creates all domain systems from the application runtime. The
// runtime's database must be started before the history system is used.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		History: history.New(
			runtime.Database.Connection(),
			runtime.Logger,
		),
		Classifier: classifier.New(
			&runtime.Classifier,
			runtime.HTTPClient,
			runtime.Logger,
		),
		Composite: composite.New(
			&runtime.Composite,
			runtime.Logger,
		),
		runtime: runtime,
	}
}

// Workflow creates an orchestrator that acquires images from source and
// reports every transition to onChange.
func (d *Domain) Workflow(source acquire.Source, onChange func(workflow.Snapshot)) *workflow.Orchestrator {
	return workflow.New(&workflow.Runtime{
		Source:     source,
		Classifier: d.Classifier,
		History:    d.History,
		Composite:  d.Composite,
		Gallery:    d.runtime.Gallery,
		AssetsDir:  d.runtime.AssetsDir,
		Logger:     d.runtime.Logger,
	}, onChange)
}
