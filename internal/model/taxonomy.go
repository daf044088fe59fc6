package model

import "time"

// Structure is one complete three-level taxonomy rooted at a location
type Structure struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	RootPath   string    `json:"root_path" yaml:"root_path"`
	Areas      []Area    `json:"areas" yaml:"areas"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
}

// Area is a top-level bucket numbered in tens (10, 20, ..., 90)
type Area struct {
	Number      int        `json:"number" yaml:"number"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Categories  []Category `json:"categories" yaml:"categories"`
}

// Category is a second-level bucket numbered within its area's decade
type Category struct {
	Number      int    `json:"number" yaml:"number"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Items       []Item `json:"items" yaml:"items"`
}

// Item is a leaf identified as "{category}.{sequence:02}" holding file paths
type Item struct {
	Number      string   `json:"number" yaml:"number"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Files       []string `json:"files" yaml:"files"`
}

// FindArea returns the first area with the given number
func (s *Structure) FindArea(number int) (*Area, bool) {
	for i := range s.Areas {
		if s.Areas[i].Number == number {
			return &s.Areas[i], true
		}
	}
	return nil, false
}

// FileCount returns the total number of file paths held by all items
func (s *Structure) FileCount() int {
	count := 0
	for _, area := range s.Areas {
		for _, category := range area.Categories {
			for _, item := range category.Items {
				count += len(item.Files)
			}
		}
	}
	return count
}
