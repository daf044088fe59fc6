package model

// Validation error kinds
const (
	ErrInvalidAreaNumber       = "invalid_area_number"
	ErrDuplicateAreaNumber     = "duplicate_area_number"
	ErrInvalidCategoryNumber   = "invalid_category_number"
	ErrDuplicateCategoryNumber = "duplicate_category_number"
)

// Validation warning kinds
const (
	WarnItemNumbering = "item_numbering"
	WarnTooManyItems  = "too_many_items"
	WarnEmptyArea     = "empty_area"
)

// ValidationReport is produced fresh on every validation call.
// Errors and warnings keep the order in which areas, categories and items
// were visited.
type ValidationReport struct {
	IsValid  bool                `json:"is_valid" yaml:"is_valid"`
	Errors   []ValidationError   `json:"errors" yaml:"errors"`
	Warnings []ValidationWarning `json:"warnings" yaml:"warnings"`
}

// ValidationError is a structural violation that makes a structure invalid
type ValidationError struct {
	Kind           string `json:"kind" yaml:"kind"`
	Message        string `json:"message" yaml:"message"`
	AreaNumber     *int   `json:"area_number,omitempty" yaml:"area_number,omitempty"`
	CategoryNumber *int   `json:"category_number,omitempty" yaml:"category_number,omitempty"`
}

// ValidationWarning is a quality issue that never affects validity
type ValidationWarning struct {
	Kind       string `json:"kind" yaml:"kind"`
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// CountErrors returns how many errors of the given kind the report holds
func (r ValidationReport) CountErrors(kind string) int {
	count := 0
	for _, e := range r.Errors {
		if e.Kind == kind {
			count++
		}
	}
	return count
}

// CountWarnings returns how many warnings of the given kind the report holds
func (r ValidationReport) CountWarnings(kind string) int {
	count := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			count++
		}
	}
	return count
}
