package model

// FileDescriptor describes one already-enumerated file.
// Missing fields are tolerated everywhere: an empty extension resolves to the
// miscellaneous rule and an empty path is simply not recorded.
type FileDescriptor struct {
	Path      string `json:"path" yaml:"path"`
	Name      string `json:"name" yaml:"name"`
	Extension string `json:"extension" yaml:"extension"` // Without the leading dot
	Size      int64  `json:"size" yaml:"size"`
	MimeType  string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
}
