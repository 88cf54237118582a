package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/dto"
)

// categoryService enforces the category tree invariants: acyclic parent
// chains, child type equals parent type, unique (type, name), and type
// changes only while a category is unreferenced.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: repo}
}

// Ensure categoryService implements the CategorySvcFacade interface
var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// NormalizeCategoryName is the canonical form used for uniqueness checks:
// trimmed and lowercased.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DescendantIDs collects every descendant of rootID in the given category
// set. It walks a parentID->children index with an explicit stack, so depth
// is bounded by heap, not goroutine stack, and a defective cyclic input
// cannot loop forever. The result never contains rootID itself.
func DescendantIDs(categories []domain.Category, rootID string) map[string]struct{} {
	children := make(map[string][]string, len(categories))
	for _, c := range categories {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.CategoryID)
		}
	}

	descendants := make(map[string]struct{})
	stack := append([]string(nil), children[rootID]...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := descendants[id]; seen {
			continue
		}
		descendants[id] = struct{}{}
		stack = append(stack, children[id]...)
	}
	return descendants
}

func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx, includeInactive)
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", apperrors.ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("unknown category type %q: %w", req.Type, apperrors.ErrValidation)
	}

	var category domain.Category
	err := s.categoryRepo.InCategoryTx(ctx, func(repo portsrepo.CategoryRepositoryFacade) error {
		// Uniqueness spans active and inactive rows alike, so a deactivated
		// category keeps its name reserved.
		existing, err := repo.FindCategoryByTypeAndName(ctx, req.Type, NormalizeCategoryName(name))
		if err != nil {
			return fmt.Errorf("failed to check category name: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("category %q already exists for type %s: %w", name, req.Type, apperrors.ErrDuplicate)
		}

		parentID := ""
		if req.ParentID != nil && *req.ParentID != "" {
			parentID = *req.ParentID
			parent, err := repo.FindCategoryByID(ctx, parentID)
			if err != nil {
				s.LogError(ctx, err, "Failed to find parent category", slog.String("parent_id", parentID))
				return fmt.Errorf("invalid parent category: %w", err)
			}
			if parent.Type != req.Type {
				return fmt.Errorf("parent type %s does not match %s: %w", parent.Type, req.Type, apperrors.ErrTypeMismatch)
			}
		}

		now := time.Now().UTC()
		category = domain.Category{
			CategoryID: uuid.NewString(),
			Name:       name,
			Type:       req.Type,
			ParentID:   parentID,
			IsActive:   true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		return repo.SaveCategory(ctx, category)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create category", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Category created",
		slog.String("category_id", category.CategoryID),
		slog.String("type", string(category.Type)))
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	var updated domain.Category
	err := s.categoryRepo.InCategoryTx(ctx, func(repo portsrepo.CategoryRepositoryFacade) error {
		stored, err := repo.FindCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}

		updated = *stored
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("category name is required: %w", apperrors.ErrValidation)
			}
			updated.Name = name
		}
		if req.Type != nil {
			if !req.Type.IsValid() {
				return fmt.Errorf("unknown category type %q: %w", *req.Type, apperrors.ErrValidation)
			}
			updated.Type = *req.Type
		}
		if req.ParentID != nil {
			updated.ParentID = *req.ParentID
		}
		if req.IsActive != nil {
			updated.IsActive = *req.IsActive
		}

		// One snapshot of the whole tree backs every structural check below,
		// so the cycle test and the parent lookup agree with each other, and
		// the surrounding transaction keeps both consistent with the write.
		all, err := repo.ListCategories(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to load category tree: %w", err)
		}
		byID := make(map[string]domain.Category, len(all))
		for _, c := range all {
			byID[c.CategoryID] = c
		}

		if updated.ParentID != "" {
			if updated.ParentID == categoryID {
				return fmt.Errorf("category cannot be its own parent: %w", apperrors.ErrCycle)
			}
			if _, isDescendant := DescendantIDs(all, categoryID)[updated.ParentID]; isDescendant {
				return fmt.Errorf("parent %s is a descendant of %s: %w", updated.ParentID, categoryID, apperrors.ErrCycle)
			}
			parent, ok := byID[updated.ParentID]
			if !ok {
				return fmt.Errorf("parent category %s: %w", updated.ParentID, apperrors.ErrNotFound)
			}
			if parent.Type != updated.Type {
				return fmt.Errorf("parent type %s does not match %s: %w", parent.Type, updated.Type, apperrors.ErrTypeMismatch)
			}
		}

		if updated.Type != stored.Type {
			usage, err := repo.GetCategoryUsage(ctx, categoryID)
			if err != nil {
				return fmt.Errorf("failed to check category usage: %w", err)
			}
			if usage.TypeLocked() {
				return fmt.Errorf("category has children or transactions: %w", apperrors.ErrTypeLocked)
			}
		}

		if updated.Type != stored.Type || NormalizeCategoryName(updated.Name) != NormalizeCategoryName(stored.Name) {
			existing, err := repo.FindCategoryByTypeAndName(ctx, updated.Type, NormalizeCategoryName(updated.Name))
			if err != nil {
				return fmt.Errorf("failed to check category name: %w", err)
			}
			if existing != nil && existing.CategoryID != categoryID {
				return fmt.Errorf("category %q already exists for type %s: %w", updated.Name, updated.Type, apperrors.ErrDuplicate)
			}
		}

		updated.LastUpdatedAt = time.Now().UTC()
		updated.LastUpdatedBy = userID
		return repo.UpdateCategory(ctx, updated)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Category updated", slog.String("category_id", categoryID))
	return &updated, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string, userID string) (domain.DeleteAction, error) {
	var action domain.DeleteAction
	err := s.categoryRepo.InCategoryTx(ctx, func(repo portsrepo.CategoryRepositoryFacade) error {
		if _, err := repo.FindCategoryByID(ctx, categoryID); err != nil {
			return err
		}

		usage, err := repo.GetCategoryUsage(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}

		// Anything still pointing at the category forces a soft delete so
		// referential history survives. The usage counts and the write share
		// one transaction, so a reference appearing mid-flight cannot slip a
		// hard delete through.
		if usage.IsReferenced() {
			action = domain.DeleteActionDeactivate
			return repo.DeactivateCategory(ctx, categoryID, userID, time.Now().UTC())
		}
		action = domain.DeleteActionHard
		return repo.DeleteCategory(ctx, categoryID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return "", err
	}

	s.LogInfo(ctx, "Category delete resolved",
		slog.String("category_id", categoryID),
		slog.String("action", string(action)))
	return action, nil
}
