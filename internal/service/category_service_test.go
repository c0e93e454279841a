package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/auth"
	"catalog/internal/errors"
	"catalog/internal/model"
)

var adminIdentity = auth.Identity{UserID: 2, Username: "root", Role: model.RoleAdmin}

func TestCategoryService_ListActive(t *testing.T) {
	categories := new(MockCategoryRepository)
	categories.On("ListActive", mock.Anything).Return([]model.Category{
		{ID: 1, Name: "Books", Active: true},
	}, nil)

	svc := NewCategoryService(categories, nil, zap.NewNop())
	list, err := svc.ListActive(context.Background())
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Books", list[0].Name)
}

func TestCategoryService_Create(t *testing.T) {
	categories := new(MockCategoryRepository)
	categories.On("FindByName", mock.Anything, "Toys").Return(nil, gorm.ErrRecordNotFound)
	categories.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

	svc := NewCategoryService(categories, nil, zap.NewNop())
	category, err := svc.Create(context.Background(), adminIdentity, "Toys", "Games and toys")

	assert.NoError(t, err)
	assert.Equal(t, "Toys", category.Name)
	assert.True(t, category.Active)
	assert.Equal(t, "root", category.CreatedBy)
	assert.Equal(t, "root", category.UpdatedBy)
	categories.AssertExpectations(t)
}

func TestCategoryService_CreateConflict(t *testing.T) {
	categories := new(MockCategoryRepository)
	categories.On("FindByName", mock.Anything, "Books").Return(&model.Category{ID: 1, Name: "Books"}, nil)

	svc := NewCategoryService(categories, nil, zap.NewNop())
	category, err := svc.Create(context.Background(), adminIdentity, "Books", "")

	assert.Nil(t, category)
	var conflict *errors.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "category", conflict.Resource)
	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
