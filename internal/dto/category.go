package dto

import (
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a new category.
type CreateCategoryRequest struct {
	Name     string              `json:"name" binding:"required"`
	Type     domain.CategoryType `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	ParentID *string             `json:"parentID"` // Optional, use pointer for nullability
}

// UpdateCategoryRequest defines the data allowed for updating a category.
// Pointers distinguish "not provided" from zero-value updates.
type UpdateCategoryRequest struct {
	Name     *string              `json:"name"`
	Type     *domain.CategoryType `json:"type" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	ParentID *string              `json:"parentID"` // Empty string clears the parent
	IsActive *bool                `json:"isActive"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID    string              `json:"categoryID"`
	Name          string              `json:"name"`
	Type          domain.CategoryType `json:"type"`
	ParentID      string              `json:"parentID,omitempty"`
	IsActive      bool                `json:"isActive"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// DeleteCategoryResponse reports which removal path was taken.
type DeleteCategoryResponse struct {
	CategoryID string              `json:"categoryID"`
	Action     domain.DeleteAction `json:"action"`
}

// ToCategoryResponse converts a domain.Category to CategoryResponse DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:    c.CategoryID,
		Name:          c.Name,
		Type:          c.Type,
		ParentID:      c.ParentID,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListCategoryResponse converts a slice of domain.Category to DTOs.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = ToCategoryResponse(&c)
	}
	return res
}
