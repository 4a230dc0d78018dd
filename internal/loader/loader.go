package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/idlelink/internal/models"
	"github.com/napolitain/idlelink/internal/world"
)

// DefaultContentFile is the content shipped with the game, relative to the data directory
const DefaultContentFile = "base_game.yaml"

var (
	ErrUnknownRarity   = errors.New("unknown rarity")
	ErrUnknownCategory = errors.New("unknown category")
)

// ContentYAML is the top-level layout of a content file
type ContentYAML struct {
	Locations  []LocationYAML `yaml:"locations"`
	Categories []CategoryYAML `yaml:"categories"`
	Buildings  []BuildingYAML `yaml:"buildings"`
	Resources  []ResourceYAML `yaml:"resources"`
}

// LocationYAML represents the YAML structure for a location
type LocationYAML struct {
	Name     string `yaml:"name"`
	Unlocked bool   `yaml:"unlocked"`
}

// CategoryYAML represents the YAML structure for a resource category
type CategoryYAML struct {
	Name string `yaml:"name"`
	Open bool   `yaml:"open"`
}

// BaseValueYAML overrides the base {flat, ratio} of a linkable property. Ratio defaults to 1.
type BaseValueYAML struct {
	Flat  float64  `yaml:"flat"`
	Ratio *float64 `yaml:"ratio,omitempty"`
}

// LinkYAML represents the YAML structure for one link
type LinkYAML struct {
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	Operator string   `yaml:"operator"`
	Argument float64  `yaml:"argument"`
	Mode     string   `yaml:"mode,omitempty"`
	Cap      *float64 `yaml:"cap,omitempty"`
}

// BuildingYAML represents the YAML structure for a building
type BuildingYAML struct {
	Name        string                   `yaml:"name"`
	DisplayName string                   `yaml:"display_name"`
	Description string                   `yaml:"description"`
	Location    string                   `yaml:"location"`
	Owned       int                      `yaml:"owned"`
	Price       map[string]float64       `yaml:"price"`
	Base        map[string]BaseValueYAML `yaml:"base"`
	Links       []LinkYAML               `yaml:"links"`
}

// ResourceYAML represents the YAML structure for a resource
type ResourceYAML struct {
	Name        string                   `yaml:"name"`
	DisplayName string                   `yaml:"display_name"`
	Description string                   `yaml:"description"`
	Rarity      string                   `yaml:"rarity"`
	Category    string                   `yaml:"category"`
	Amount      float64                  `yaml:"amount"`
	Base        map[string]BaseValueYAML `yaml:"base"`
	Links       []LinkYAML               `yaml:"links"`
}

// LoadFile reads a content file and registers everything in it into w
func LoadFile(path string, w *world.World, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := LoadContent(data, w, logger); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadContent registers locations, then buildings, then resources, and validates the link graph.
// Loading stops at the first error.
func LoadContent(data []byte, w *world.World, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var content ContentYAML
	if err := yaml.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("failed to parse content: %w", err)
	}

	for _, l := range content.Locations {
		if _, err := w.AddLocation(world.LocationConfig{Name: l.Name, Unlocked: l.Unlocked}); err != nil {
			return fmt.Errorf("failed to add location: %w", err)
		}
	}

	categories := make(map[string]*models.Category, len(content.Categories))
	for _, c := range content.Categories {
		categories[c.Name] = &models.Category{Name: c.Name, Open: c.Open}
	}

	for _, raw := range content.Buildings {
		cfg, err := buildingConfig(raw)
		if err != nil {
			return err
		}
		if _, err := w.AddBuilding(cfg); err != nil {
			return fmt.Errorf("failed to add building: %w", err)
		}
	}

	for _, raw := range content.Resources {
		cfg, err := resourceConfig(raw, categories)
		if err != nil {
			return err
		}
		if _, err := w.AddResource(cfg); err != nil {
			return fmt.Errorf("failed to add resource: %w", err)
		}
	}

	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid link graph: %w", err)
	}

	idx, err := w.Index()
	if err != nil {
		return err
	}
	logger.Info("content loaded",
		"locations", len(content.Locations),
		"buildings", len(content.Buildings),
		"resources", len(content.Resources),
		"links", idx.Len())
	return nil
}

func buildingConfig(raw BuildingYAML) (world.BuildingConfig, error) {
	links, err := linkSpecs(raw.Links)
	if err != nil {
		return world.BuildingConfig{}, fmt.Errorf("building %q: %w", raw.Name, err)
	}
	return world.BuildingConfig{
		Name:        raw.Name,
		DisplayName: raw.DisplayName,
		Description: raw.Description,
		Location:    raw.Location,
		Owned:       raw.Owned,
		BasePrice:   raw.Price,
		Base:        baseValues(raw.Base),
		Links:       links,
	}, nil
}

func resourceConfig(raw ResourceYAML, categories map[string]*models.Category) (world.ResourceConfig, error) {
	cfg := world.ResourceConfig{
		Name:        raw.Name,
		DisplayName: raw.DisplayName,
		Description: raw.Description,
		Amount:      raw.Amount,
		Base:        baseValues(raw.Base),
	}

	if raw.Rarity != "" {
		rarity, ok := models.RarityByName(raw.Rarity)
		if !ok {
			return cfg, fmt.Errorf("resource %q: %w: %q", raw.Name, ErrUnknownRarity, raw.Rarity)
		}
		cfg.Rarity = rarity
	}

	if raw.Category != "" {
		category, ok := categories[raw.Category]
		if !ok {
			return cfg, fmt.Errorf("resource %q: %w: %q", raw.Name, ErrUnknownCategory, raw.Category)
		}
		cfg.Category = category
	}

	links, err := linkSpecs(raw.Links)
	if err != nil {
		return cfg, fmt.Errorf("resource %q: %w", raw.Name, err)
	}
	cfg.Links = links
	return cfg, nil
}

func baseValues(raw map[string]BaseValueYAML) map[string]models.LinkedPropertyValue {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]models.LinkedPropertyValue, len(raw))
	for prop, v := range raw {
		ratio := 1.0
		if v.Ratio != nil {
			ratio = *v.Ratio
		}
		out[prop] = models.LinkedPropertyValue{Flat: v.Flat, Ratio: ratio}
	}
	return out
}

// linkSpecs converts raw links; operator and mode are checked again when the link is parsed
func linkSpecs(raw []LinkYAML) ([]world.LinkSpec, error) {
	specs := make([]world.LinkSpec, 0, len(raw))
	for _, l := range raw {
		if l.From == "" || l.To == "" {
			return nil, fmt.Errorf("%w: link needs both from and to", models.ErrParse)
		}
		specs = append(specs, world.LinkSpec{
			From: l.From,
			To:   l.To,
			Config: models.LinkConfig{
				Operation: models.Operation{Operator: models.Operator(l.Operator), Argument: l.Argument},
				Mode:      models.CompositionMode(l.Mode),
				Cap:       l.Cap,
			},
		})
	}
	return specs, nil
}
