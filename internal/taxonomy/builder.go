package taxonomy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/jdsort/internal/model"
)

// DefaultStructureName is given to every freshly built structure
const DefaultStructureName = "AI Generated Structure"

// Builder creates complete, renumbered structures from batches of files.
// A Builder holds no mutable state and is safe for concurrent use.
type Builder struct {
	now   func() time.Time
	newID func() string
}

// BuilderOption customizes a Builder
type BuilderOption func(*Builder)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator overrides how structure identifiers are generated
func WithIDGenerator(newID func() string) BuilderOption {
	return func(b *Builder) {
		if newID != nil {
			b.newID = newID
		}
	}
}

// NewBuilder creates a new structure builder
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build groups files into areas and categories through the rule table and
// returns a structure whose categories and items are numbered without gaps.
func (b *Builder) Build(files []model.FileDescriptor, rootPath string) model.Structure {
	areaIndex := make(map[int]int)
	var areas []model.Area

	for _, file := range files {
		areaNumber, label := Lookup(file.Extension)

		idx, ok := areaIndex[areaNumber]
		if !ok {
			areas = append(areas, model.Area{
				Number:      areaNumber,
				Name:        AreaName(areaNumber),
				Description: AreaDescription(areaNumber),
			})
			idx = len(areas) - 1
			areaIndex[areaNumber] = idx
		}
		area := &areas[idx]

		// Exact, case-sensitive label match; only the first item ever grows.
		if category := findCategory(area, label); category != nil {
			if len(category.Items) > 0 && file.Path != "" {
				category.Items[0].Files = append(category.Items[0].Files, file.Path)
			}
			continue
		}

		area.Categories = append(area.Categories, newCategory(areaNumber+1, label, file.Path))
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Number < areas[j].Number
	})
	for i := range areas {
		renumber(&areas[i])
	}

	now := b.now()
	return model.Structure{
		ID:         b.newID(),
		Name:       DefaultStructureName,
		RootPath:   rootPath,
		Areas:      areas,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Build creates a structure with a default Builder
func Build(files []model.FileDescriptor, rootPath string) model.Structure {
	return NewBuilder().Build(files, rootPath)
}

func findCategory(area *model.Area, label string) *model.Category {
	for i := range area.Categories {
		if area.Categories[i].Name == label {
			return &area.Categories[i]
		}
	}
	return nil
}

func newCategory(number int, label, path string) model.Category {
	files := []string{}
	if path != "" {
		files = append(files, path)
	}
	return model.Category{
		Number:      number,
		Name:        label,
		Description: fmt.Sprintf("Files of type: %s", label),
		Items: []model.Item{
			{
				Number:      ItemNumber(number, 1),
				Name:        fmt.Sprintf("%s Files", label),
				Description: fmt.Sprintf("Collection of %s files", strings.ToLower(label)),
				Files:       files,
			},
		},
	}
}

// renumber assigns categories area+1, area+2, ... in their sorted order and
// items {category}.01, {category}.02, ... overwriting earlier numbers.
func renumber(area *model.Area) {
	sort.SliceStable(area.Categories, func(i, j int) bool {
		return area.Categories[i].Number < area.Categories[j].Number
	})
	for i := range area.Categories {
		category := &area.Categories[i]
		category.Number = area.Number + i + 1
		for j := range category.Items {
			category.Items[j].Number = ItemNumber(category.Number, j+1)
		}
	}
}
