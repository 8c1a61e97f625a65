package ledger

import (
	"cmp"
	"context"

	"github.com/buckets-finance/buckets/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryPatch contains the fields of a category to update. Nil fields
// are not changed. The nil UUID for ParentCategoryID makes the category
// a top level category.
type CategoryPatch struct {
	Name             *string        `json:"name"`
	Nature           *models.Nature `json:"nature"`
	Color            *string        `json:"color"`
	ParentCategoryID *uuid.UUID     `json:"parentCategoryId"`
}

// CategoryNode is a top level category with its subcategories.
type CategoryNode struct {
	models.Category
	Subcategories []models.Category `json:"subcategories"`
}

// CategoryUsage is a category with the number of records using it.
type CategoryUsage struct {
	models.Category
	Records int64 `json:"records" example:"12"`
}

// CreateCategory saves a new category.
func (l *Ledger) CreateCategory(ctx context.Context, editable models.CategoryEditable) (models.Category, error) {
	category, err := models.NewCategory(editable)
	if err != nil {
		return models.Category{}, err
	}

	err = l.conn(ctx).Omit(clause.Associations).Create(&category).Error
	return category, err
}

// Category returns the category with the given ID.
func (l *Ledger) Category(ctx context.Context, id uuid.UUID) (models.Category, error) {
	var category models.Category
	err := l.conn(ctx).First(&category, "id = ?", id).Error
	return category, err
}

// Categories returns all categories ordered by name.
func (l *Ledger) Categories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := l.conn(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// UpdateCategory applies the patch to a category.
func (l *Ledger) UpdateCategory(ctx context.Context, id uuid.UUID, patch CategoryPatch) (models.Category, error) {
	category, err := l.Category(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	if patch.Name != nil {
		category.Name = *patch.Name
	}

	if patch.Nature != nil {
		category.Nature = *patch.Nature
	}

	if patch.Color != nil {
		category.Color = *patch.Color
	}

	if patch.ParentCategoryID != nil {
		category.ParentCategoryID = patch.ParentCategoryID
	}

	validated, err := models.NewCategory(category.CategoryEditable)
	if err != nil {
		return models.Category{}, err
	}
	category.CategoryEditable = validated.CategoryEditable

	err = l.conn(ctx).Omit(clause.Associations).Save(&category).Error
	return category, err
}

// DeleteCategory soft deletes a category and its subcategories.
//
// Records keep referencing deleted categories.
func (l *Ledger) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&category).Error; err != nil {
			return err
		}

		children := tx.Where("parent_category_id = ?", id).Delete(&models.Category{})
		if children.Error != nil {
			return children.Error
		}

		log.Debug().Str("category", id.String()).Int64("subcategories", children.RowsAffected).Msg("deleted category")
		return nil
	})
}

// CategoryTree returns the top level categories with their subcategories,
// both ordered by name.
func (l *Ledger) CategoryTree(ctx context.Context) ([]CategoryNode, error) {
	categories, err := l.Categories(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[uuid.UUID][]models.Category)
	for _, c := range categories {
		if c.IsSubcategory() {
			children[*c.ParentCategoryID] = append(children[*c.ParentCategoryID], c)
		}
	}

	tree := []CategoryNode{}
	for _, c := range categories {
		if c.IsSubcategory() {
			continue
		}

		subcategories := children[c.ID]
		if subcategories == nil {
			subcategories = []models.Category{}
		}

		tree = append(tree, CategoryNode{Category: c, Subcategories: subcategories})
	}

	return tree, nil
}

// CategoriesByFrequency returns all categories ordered by the number of
// records using them, most used first.
func (l *Ledger) CategoriesByFrequency(ctx context.Context) ([]CategoryUsage, error) {
	categories, err := l.Categories(ctx)
	if err != nil {
		return nil, err
	}

	var counts []struct {
		CategoryID uuid.UUID
		Count      int64
	}

	err = l.conn(ctx).
		Model(&models.Record{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	usage := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		usage[c.CategoryID] = c.Count
	}

	result := make([]CategoryUsage, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryUsage{Category: c, Records: usage[c.ID]})
	}

	// Stable, so categories with the same usage stay ordered by name
	slices.SortStableFunc(result, func(a, b CategoryUsage) int {
		return cmp.Compare(b.Records, a.Records)
	})

	return result, nil
}
