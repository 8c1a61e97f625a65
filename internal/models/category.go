package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Nature classifies how essential the spending in a category is.
type Nature string

const (
	NatureMust Nature = "Must"
	NatureNeed Nature = "Need"
	NatureWant Nature = "Want"
)

// Valid reports if n is one of the known natures.
func (n Nature) Valid() bool {
	switch n {
	case NatureMust, NatureNeed, NatureWant:
		return true
	}
	return false
}

// DefaultCategoryColor is used for categories that are created without a color.
const DefaultCategoryColor = "white"

// Category groups records, e.g. "Food & Drinks" or its subcategory "Groceries".
//
// Categories only have one level of nesting: a subcategory's parent is
// always a top level category.
type Category struct {
	DefaultModel
	CategoryEditable
	Parent *Category `json:"-" gorm:"foreignKey:ParentCategoryID"`
}

// CategoryEditable contains all user configurable fields of a Category.
type CategoryEditable struct {
	Name             string     `json:"name" example:"Groceries" validate:"required,max=255"`                                   // Name of the category
	Nature           Nature     `json:"nature" example:"Need" validate:"required,oneof=Must Need Want"`                         // How essential the spending in this category is
	Color            string     `json:"color" example:"green" default:"white" validate:"max=64"`                                // Color used to display the category
	ParentCategoryID *uuid.UUID `json:"parentCategoryId" example:"3b1ea324-d438-4419-882a-2fc91d71772f" gorm:"type:uuid;index"` // Parent category. Only set for subcategories
}

// NewCategory validates the editable fields and returns a new, unsaved Category.
func NewCategory(editable CategoryEditable) (Category, error) {
	editable.Name = strings.TrimSpace(editable.Name)
	editable.Color = strings.TrimSpace(editable.Color)

	if editable.Color == "" {
		editable.Color = DefaultCategoryColor
	}

	if err := validateStruct(editable); err != nil {
		return Category{}, err
	}

	return Category{CategoryEditable: editable}, nil
}

// IsSubcategory reports if the category has a parent.
func (c Category) IsSubcategory() bool {
	return c.ParentCategoryID != nil && *c.ParentCategoryID != uuid.Nil
}

// BeforeSave ensures the nesting rules for categories.
//
// A nil UUID parent is replaced with nil, a category cannot be its own
// parent and the parent must be a top level category.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)

	if c.ParentCategoryID != nil && *c.ParentCategoryID == uuid.Nil {
		c.ParentCategoryID = nil
	}

	if c.Nature != "" && !c.Nature.Valid() {
		return ErrCategoryNatureInvalid
	}

	if c.ParentCategoryID == nil {
		return nil
	}

	if *c.ParentCategoryID == c.ID {
		return ErrCategoryParentIsSelf
	}

	var parent Category
	err := tx.Session(&gorm.Session{NewDB: true}).First(&parent, "id = ?", *c.ParentCategoryID).Error
	if err != nil {
		return fmt.Errorf("parent category: %w", err)
	}

	if parent.IsSubcategory() {
		return ErrCategoryNestingTooDeep
	}

	// A category that has subcategories cannot become a subcategory itself
	if c.ID != uuid.Nil {
		var children int64
		err = tx.Session(&gorm.Session{NewDB: true}).Model(&Category{}).Where("parent_category_id = ?", c.ID).Count(&children).Error
		if err != nil {
			return err
		}

		if children > 0 {
			return ErrCategoryNestingTooDeep
		}
	}

	return nil
}
