package service

import (
	"context"
	"testing"

	"histock/internal/feed"

	"github.com/stretchr/testify/require"
)

type fakeSettingsStore struct {
	written [][]string
}

func (f *fakeSettingsStore) ReplaceCategories(ctx context.Context, categories []string) error {
	f.written = append(f.written, categories)
	return nil
}

func newSettingsService(current ...string) (*SettingsService, *fakeSettingsStore, *feed.CategorySet) {
	store := &fakeSettingsStore{}
	categories := feed.NewCategorySet()
	if len(current) > 0 {
		categories.Replace(current)
	}
	return NewSettingsService(store, categories), store, categories
}

func TestReplaceCategoriesCleansInput(t *testing.T) {
	s, store, _ := newSettingsService()

	err := s.ReplaceCategories(context.Background(), []string{" Case ", "Dock", "Case"})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Case", "Dock"}}, store.written)
}

func TestReplaceCategoriesRejectsEmpty(t *testing.T) {
	s, store, _ := newSettingsService()

	require.ErrorIs(t, s.ReplaceCategories(context.Background(), nil), ErrInvalidCategories)
	require.ErrorIs(t, s.ReplaceCategories(context.Background(), []string{"Case", ""}), ErrInvalidCategories)
	require.Empty(t, store.written)
}

func TestAddCategory(t *testing.T) {
	s, store, _ := newSettingsService("Case", "Charger")

	require.NoError(t, s.AddCategory(context.Background(), "Dock"))
	require.Equal(t, []string{"Case", "Charger", "Dock"}, store.written[0])
}

func TestRemoveCategory(t *testing.T) {
	s, store, _ := newSettingsService("Case", "Charger", "Dock")

	require.NoError(t, s.RemoveCategory(context.Background(), "Charger"))
	require.Equal(t, []string{"Case", "Dock"}, store.written[0])
}
