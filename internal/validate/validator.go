// Package validate checks structures for numbering violations and quality issues.
package validate

import (
	"fmt"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

// MaxItemsPerCategory is the largest item count a two-digit sequence can address
const MaxItemsPerCategory = 99

// Validator reports structural errors and quality warnings for a structure.
// It never mutates its input and holds no per-call state.
type Validator struct {
	maxItems int
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{maxItems: MaxItemsPerCategory}
}

// Validate visits areas, categories and items in stored order and returns a
// fresh report. IsValid is true iff no errors were found.
func (v *Validator) Validate(structure model.Structure) model.ValidationReport {
	report := model.ValidationReport{
		Errors:   []model.ValidationError{},
		Warnings: []model.ValidationWarning{},
	}

	seenAreas := make(map[int]bool)
	seenCategories := make(map[int]bool)

	for _, area := range structure.Areas {
		areaNumber := area.Number

		if !validAreaNumber(areaNumber) {
			report.Errors = append(report.Errors, model.ValidationError{
				Kind:       model.ErrInvalidAreaNumber,
				Message:    fmt.Sprintf("Area number %d is invalid. Must be 10, 20, 30, ..., 90", areaNumber),
				AreaNumber: intPtr(areaNumber),
			})
		}

		if seenAreas[areaNumber] {
			report.Errors = append(report.Errors, model.ValidationError{
				Kind:       model.ErrDuplicateAreaNumber,
				Message:    fmt.Sprintf("Area number %d is used multiple times", areaNumber),
				AreaNumber: intPtr(areaNumber),
			})
		}
		seenAreas[areaNumber] = true

		for _, category := range area.Categories {
			v.validateCategory(&report, areaNumber, category, seenCategories)
		}

		if len(area.Categories) == 0 {
			report.Warnings = append(report.Warnings, model.ValidationWarning{
				Kind:       model.WarnEmptyArea,
				Message:    fmt.Sprintf("Area %d has no categories", areaNumber),
				Suggestion: "Consider removing empty areas or adding categories",
			})
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

func (v *Validator) validateCategory(report *model.ValidationReport, areaNumber int, category model.Category, seen map[int]bool) {
	number := category.Number

	if number < areaNumber || number >= areaNumber+10 {
		report.Errors = append(report.Errors, model.ValidationError{
			Kind: model.ErrInvalidCategoryNumber,
			Message: fmt.Sprintf("Category number %d is outside valid range for area %d (%d-%d)",
				number, areaNumber, areaNumber, areaNumber+9),
			AreaNumber:     intPtr(areaNumber),
			CategoryNumber: intPtr(number),
		})
	}

	// Category numbers are unique across the whole structure, not per area
	if seen[number] {
		report.Errors = append(report.Errors, model.ValidationError{
			Kind:           model.ErrDuplicateCategoryNumber,
			Message:        fmt.Sprintf("Category number %d is used multiple times", number),
			AreaNumber:     intPtr(areaNumber),
			CategoryNumber: intPtr(number),
		})
	}
	seen[number] = true

	for i, item := range category.Items {
		expected := taxonomy.ItemNumber(number, i+1)
		if item.Number != expected {
			report.Warnings = append(report.Warnings, model.ValidationWarning{
				Kind:       model.WarnItemNumbering,
				Message:    fmt.Sprintf("Item number %s should be %s for sequential numbering", item.Number, expected),
				Suggestion: fmt.Sprintf("Renumber to %s", expected),
			})
		}
	}

	if len(category.Items) > v.maxItems {
		report.Warnings = append(report.Warnings, model.ValidationWarning{
			Kind: model.WarnTooManyItems,
			Message: fmt.Sprintf("Category %d has %d items. Consider splitting into multiple categories.",
				number, len(category.Items)),
			Suggestion: "Split large categories for better organization",
		})
	}
}

// Validate checks a structure with a default Validator
func Validate(structure model.Structure) model.ValidationReport {
	return NewValidator().Validate(structure)
}

func validAreaNumber(n int) bool {
	return n%10 == 0 && n >= 10 && n <= 90
}

func intPtr(n int) *int {
	return &n
}
