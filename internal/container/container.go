package container

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ocev/adapters/memory"
	"ocev/adapters/postgres"
	"ocev/adapters/shacl"
	"ocev/app"
	"ocev/domain/ontology"
	"ocev/internal/config"
	"ocev/internal/report"
	"ocev/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Core engine
	Registry  *ontology.Registry
	Builder   *ontology.GraphBuilder
	Validator ports.ConstraintValidatorPort
	RunRepo   ports.RunRepository
	Service   *app.ValidationService
	Reports   *report.Generator
}

// New wires the full dependency graph. The constraint schema is loaded
// here, once, at startup: a missing schema aborts construction so the
// engine never serves a run without its constraints.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:   cfg,
		Registry: ontology.NewRegistry(),
		Reports:  report.NewGenerator(),
	}
	c.Builder = ontology.NewGraphBuilder(c.Registry)

	shapes, err := cfg.LoadShapes()
	if err != nil {
		return nil, err
	}

	ontologyDoc, ok := cfg.LoadOntology()
	if !ok {
		log.Printf("No external ontology configured, using built-in type registry")
	}

	validator, err := shacl.NewValidator(shacl.Config{
		BaseURL:   cfg.Validator.URL,
		Timeout:   cfg.Validator.Timeout,
		Inference: cfg.Validator.Inference,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SHACL validator: %w", err)
	}
	c.Validator = validator

	if err := c.initRunRepository(ctx); err != nil {
		return nil, err
	}

	c.Service, err = app.NewValidationService(
		c.Builder, c.Validator, c.RunRepo, shapes, ontologyDoc, app.DefaultValidationConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize validation service: %w", err)
	}

	log.Printf("Container initialized (shapes: %s, validator: %s)", cfg.Resources.ShapesPath, cfg.Validator.URL)
	return c, nil
}

// initRunRepository selects Postgres when configured, in-memory otherwise.
func (c *Container) initRunRepository(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		c.RunRepo = memory.NewRunRepository()
		return nil
	}

	db, err := sqlx.Connect("postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	c.DB = db

	repo := postgres.NewRunRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	c.RunRepo = repo
	log.Printf("Run results persisted to Postgres")
	return nil
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
