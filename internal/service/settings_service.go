package service

import (
	"context"
	"fmt"
	"strings"

	"histock/internal/feed"
	"histock/internal/logger"

	"go.opentelemetry.io/otel"
)

// SettingsStore writes the shared settings document.
type SettingsStore interface {
	ReplaceCategories(ctx context.Context, categories []string) error
}

// SettingsService mutates the shared category set. The set is always
// written as a whole list; the local view catches up via the settings feed.
type SettingsService struct {
	store      SettingsStore
	categories *feed.CategorySet
}

var SettingsServiceTracer = otel.Tracer("SettingsService")

func NewSettingsService(store SettingsStore, categories *feed.CategorySet) *SettingsService {
	return &SettingsService{store: store, categories: categories}
}

func (s *SettingsService) Categories() []string {
	return s.categories.List()
}

// ReplaceCategories validates and writes the whole list.
func (s *SettingsService) ReplaceCategories(ctx context.Context, categories []string) error {
	ctx, span := SettingsServiceTracer.Start(ctx, "SettingsService.ReplaceCategories")
	defer span.End()
	logger.Info(ctx, "Service")

	cleaned := make([]string, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			return fmt.Errorf("%w: empty entry", ErrInvalidCategories)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		cleaned = append(cleaned, c)
	}
	if len(cleaned) == 0 {
		return fmt.Errorf("%w: empty list", ErrInvalidCategories)
	}

	return s.store.ReplaceCategories(ctx, cleaned)
}

// AddCategory appends one entry, expressed as a whole-list replace.
func (s *SettingsService) AddCategory(ctx context.Context, category string) error {
	return s.ReplaceCategories(ctx, append(s.categories.List(), category))
}

// RemoveCategory drops one entry, expressed as a whole-list replace.
func (s *SettingsService) RemoveCategory(ctx context.Context, category string) error {
	current := s.categories.List()
	next := make([]string, 0, len(current))
	for _, c := range current {
		if c != category {
			next = append(next, c)
		}
	}
	return s.ReplaceCategories(ctx, next)
}
