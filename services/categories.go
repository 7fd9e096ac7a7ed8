// services/categories.go
package services

import (
	"context"

	"equiptrack/models"
	"equiptrack/store"
)

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return store.ReadAll[models.Category](ctx, s.store, models.CategoriesCollection)
}

type AddCategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Service) AddCategory(ctx context.Context, in AddCategoryInput) (models.Category, error) {
	cats, err := store.ReadAll[models.Category](ctx, s.store, models.CategoriesCollection)
	if err != nil {
		return models.Category{}, err
	}
	for _, c := range cats {
		if c.Name == in.Name {
			return models.Category{}, conflict("category name already exists")
		}
	}
	cat := models.Category{
		ID:    s.ids.New("cat"),
		Name:  in.Name,
		Color: in.Color,
	}
	cats = append(cats, cat)
	if err := s.store.WriteAll(ctx, models.CategoriesCollection, cats); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	cats, err := store.ReadAll[models.Category](ctx, s.store, models.CategoriesCollection)
	if err != nil {
		return err
	}
	next := cats[:0]
	for _, c := range cats {
		if c.ID != id {
			next = append(next, c)
		}
	}
	if len(next) == len(cats) {
		return notFound("category not found")
	}
	return s.store.WriteAll(ctx, models.CategoriesCollection, next)
}
