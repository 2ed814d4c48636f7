package products

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"commerce-sync/feature/storefront"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ColorAPI is the storefront subset the color cache needs.
type ColorAPI interface {
	ListColors(ctx context.Context) ([]storefront.Color, error)
	CreateColor(ctx context.Context, in storefront.ColorInput) (*storefront.Color, error)
}

const (
	defaultColorHex      = "#000000"
	defaultColorPosition = 99
)

// ColorCache maps color names to storefront ids for one sync run.
// It is filled by a single bulk listing and grows as colors are created.
type ColorCache struct {
	api    ColorAPI
	logger *zap.Logger

	mu     sync.RWMutex
	byName map[string]string
	group  singleflight.Group
}

// NewColorCache creates an empty cache.
func NewColorCache(api ColorAPI, logger *zap.Logger) *ColorCache {
	return &ColorCache{
		api:    api,
		logger: logger,
		byName: make(map[string]string),
	}
}

func colorKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load fills the cache from the storefront color listing.
func (c *ColorCache) Load(ctx context.Context) error {
	colors, err := c.api.ListColors(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, col := range colors {
		if col.ID == "" || col.Name == "" {
			continue
		}
		c.byName[colorKey(col.Name)] = col.ID.String()
	}
	c.logger.Debug("Color cache loaded", zap.Int("colors", len(c.byName)))
	return nil
}

// Len returns the number of cached colors.
func (c *ColorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}

// Resolve returns the id of the named color, creating it when unknown.
// Lookups are case-insensitive.
func (c *ColorCache) Resolve(ctx context.Context, name string) (string, error) {
	key := colorKey(name)
	if key == "" {
		return "", fmt.Errorf("empty color name")
	}

	c.mu.RLock()
	id, ok := c.byName[key]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		id, ok := c.byName[key]
		c.mu.RUnlock()
		if ok {
			return id, nil
		}

		created, err := c.api.CreateColor(ctx, storefront.ColorInput{
			Name:        strings.TrimSpace(name),
			Hexadecimal: defaultColorHex,
			Position:    defaultColorPosition,
			Active:      true,
		})
		if err != nil {
			return "", err
		}
		if created == nil || created.ID == "" {
			return "", fmt.Errorf("color %q created without id", name)
		}

		c.mu.Lock()
		c.byName[key] = created.ID.String()
		c.mu.Unlock()
		c.logger.Info("Color created", zap.String("color", name), zap.String("color_id", created.ID.String()))
		return created.ID.String(), nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
