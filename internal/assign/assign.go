// Package assign places a single file inside an existing structure.
package assign

import (
	"fmt"
	"strings"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

const (
	// MatchConfidence is reported when the rule table label matches a category
	MatchConfidence = 0.85

	// FallbackConfidence is reported for the miscellaneous placement
	FallbackConfidence = 0.5

	fallbackCategory = taxonomy.MiscArea + 1
)

// Assign proposes where a file belongs inside structure. It never fails and
// never mutates the structure. Unmapped extensions always receive the
// miscellaneous placement, whatever the structure contains.
func Assign(file model.FileDescriptor, structure model.Structure) model.Assignment {
	ext := taxonomy.NormalizeExtension(file.Extension)

	if taxonomy.IsMapped(ext) {
		areaNumber, label := taxonomy.Lookup(ext)
		if area, ok := structure.FindArea(areaNumber); ok {
			if category := matchCategory(area, label); category != nil {
				itemNumber := taxonomy.ItemNumber(category.Number, 1)
				if len(category.Items) > 0 {
					itemNumber = category.Items[0].Number
				}
				return model.Assignment{
					AreaNumber:     areaNumber,
					CategoryNumber: category.Number,
					ItemNumber:     itemNumber,
					Confidence:     MatchConfidence,
					Reasoning: fmt.Sprintf("File extension '%s' matches category '%s' in area %d",
						ext, label, areaNumber),
				}
			}
		}
	}

	return Fallback(ext)
}

// Fallback returns the fixed miscellaneous placement for an extension
func Fallback(ext string) model.Assignment {
	return model.Assignment{
		AreaNumber:     taxonomy.MiscArea,
		CategoryNumber: fallbackCategory,
		ItemNumber:     taxonomy.ItemNumber(fallbackCategory, 1),
		Confidence:     FallbackConfidence,
		Reasoning: fmt.Sprintf("No specific category found for extension '%s', assigned to miscellaneous",
			taxonomy.NormalizeExtension(ext)),
	}
}

// matchCategory returns the first category whose name contains label,
// ignoring case
func matchCategory(area *model.Area, label string) *model.Category {
	needle := strings.ToLower(label)
	for i := range area.Categories {
		if strings.Contains(strings.ToLower(area.Categories[i].Name), needle) {
			return &area.Categories[i]
		}
	}
	return nil
}
