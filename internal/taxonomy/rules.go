// Package taxonomy holds the extension rule table and the structure builder.
//
// The rule table is the single source of truth for mapping a file extension
// to an (area, category label) pair. Both the rule-based classifier and the
// builder resolve files through Lookup.
package taxonomy

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// MiscArea is the area every unmapped extension falls into
	MiscArea = 90

	// MiscLabel is the category label every unmapped extension falls into
	MiscLabel = "Miscellaneous"
)

// Rule is one row of the extension table
type Rule struct {
	Extension string
	Area      int
	Label     string
}

var rules = map[string]Rule{
	// Documents (20-29)
	"pdf":  {Area: 20, Label: "Reports and Documents"},
	"doc":  {Area: 20, Label: "Text Documents"},
	"docx": {Area: 20, Label: "Text Documents"},
	"txt":  {Area: 20, Label: "Text Documents"},
	"rtf":  {Area: 20, Label: "Text Documents"},
	"odt":  {Area: 20, Label: "Text Documents"},
	"md":   {Area: 20, Label: "Text Documents"},
	"xls":  {Area: 20, Label: "Spreadsheets"},
	"xlsx": {Area: 20, Label: "Spreadsheets"},
	"ods":  {Area: 20, Label: "Spreadsheets"},
	"csv":  {Area: 20, Label: "Spreadsheets"},
	"ppt":  {Area: 20, Label: "Presentations"},
	"pptx": {Area: 20, Label: "Presentations"},
	"odp":  {Area: 20, Label: "Presentations"},

	// Media (30-39)
	"jpg":  {Area: 30, Label: "Images"},
	"jpeg": {Area: 30, Label: "Images"},
	"png":  {Area: 30, Label: "Images"},
	"gif":  {Area: 30, Label: "Images"},
	"bmp":  {Area: 30, Label: "Images"},
	"svg":  {Area: 30, Label: "Images"},
	"webp": {Area: 30, Label: "Images"},
	"mp4":  {Area: 30, Label: "Videos"},
	"avi":  {Area: 30, Label: "Videos"},
	"mkv":  {Area: 30, Label: "Videos"},
	"mov":  {Area: 30, Label: "Videos"},
	"wmv":  {Area: 30, Label: "Videos"},
	"mp3":  {Area: 30, Label: "Audio"},
	"wav":  {Area: 30, Label: "Audio"},
	"flac": {Area: 30, Label: "Audio"},
	"aac":  {Area: 30, Label: "Audio"},

	// Development (40-49)
	"js":   {Area: 40, Label: "Source Code"},
	"ts":   {Area: 40, Label: "Source Code"},
	"py":   {Area: 40, Label: "Source Code"},
	"rs":   {Area: 40, Label: "Source Code"},
	"go":   {Area: 40, Label: "Source Code"},
	"java": {Area: 40, Label: "Source Code"},
	"cpp":  {Area: 40, Label: "Source Code"},
	"c":    {Area: 40, Label: "Source Code"},
	"html": {Area: 40, Label: "Web Files"},
	"css":  {Area: 40, Label: "Web Files"},
	"json": {Area: 40, Label: "Configuration"},
	"xml":  {Area: 40, Label: "Configuration"},
	"yaml": {Area: 40, Label: "Configuration"},
	"yml":  {Area: 40, Label: "Configuration"},
	"toml": {Area: 40, Label: "Configuration"},

	// Archives (50-59)
	"zip": {Area: 50, Label: "Compressed Files"},
	"rar": {Area: 50, Label: "Compressed Files"},
	"7z":  {Area: 50, Label: "Compressed Files"},
	"tar": {Area: 50, Label: "Compressed Files"},
	"gz":  {Area: 50, Label: "Compressed Files"},
	"exe": {Area: 50, Label: "Installers"},
	"msi": {Area: 50, Label: "Installers"},
	"dmg": {Area: 50, Label: "Installers"},
	"pkg": {Area: 50, Label: "Installers"},
}

// NormalizeExtension lower-cases an extension and strips a leading dot
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// Lookup resolves an extension to its area number and category label.
// Unknown extensions resolve to (MiscArea, MiscLabel).
func Lookup(ext string) (int, string) {
	if rule, ok := rules[NormalizeExtension(ext)]; ok {
		return rule.Area, rule.Label
	}
	return MiscArea, MiscLabel
}

// IsMapped reports whether the extension has an explicit rule
func IsMapped(ext string) bool {
	_, ok := rules[NormalizeExtension(ext)]
	return ok
}

// Rules returns every table row ordered by area, label, then extension
func Rules() []Rule {
	out := make([]Rule, 0, len(rules))
	for ext, rule := range rules {
		rule.Extension = ext
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Area != out[j].Area {
			return out[i].Area < out[j].Area
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}

// AreaName returns the canonical display name for an area number
func AreaName(number int) string {
	switch number {
	case 10:
		return "10-19 Administration"
	case 20:
		return "20-29 Documents"
	case 30:
		return "30-39 Media"
	case 40:
		return "40-49 Development"
	case 50:
		return "50-59 Archives"
	case 60:
		return "60-69 Projects"
	case 70:
		return "70-79 Reference"
	case 80:
		return "80-89 Resources"
	case 90:
		return "90-99 Miscellaneous"
	default:
		return fmt.Sprintf("%d-%d Custom Area", number, number+9)
	}
}

// AreaDescription returns the canonical description for an area number
func AreaDescription(number int) string {
	switch number {
	case 10:
		return "Administrative documents, policies, and organizational files"
	case 20:
		return "Text documents, reports, presentations, and written content"
	case 30:
		return "Images, videos, audio files, and multimedia content"
	case 40:
		return "Source code, development tools, and programming resources"
	case 50:
		return "Compressed files, archives, and backup collections"
	case 60:
		return "Active projects and work-in-progress materials"
	case 70:
		return "Reference materials, manuals, and documentation"
	case 80:
		return "Tools, utilities, and supporting resources"
	case 90:
		return "Uncategorized and miscellaneous files"
	default:
		return "Custom area for specialized content"
	}
}

// Label joins an area's name and a category label into a suggestion label,
// e.g. "20-29 Documents/Text Documents"
func Label(area int, category string) string {
	return AreaName(area) + "/" + category
}

// LabelFor resolves an extension straight to its suggestion label
func LabelFor(ext string) string {
	return Label(Lookup(ext))
}

// Well-known labels used by the reply heuristics
var (
	MiscellaneousLabel = Label(MiscArea, MiscLabel)
	TextDocumentsLabel = Label(20, "Text Documents")
	ImagesLabel        = Label(30, "Images")
)

// ItemNumber formats an item identifier, e.g. ItemNumber(21, 1) == "21.01"
func ItemNumber(category, sequence int) string {
	return fmt.Sprintf("%d.%02d", category, sequence)
}
