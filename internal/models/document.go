package models

import "os"

// Document is the in-memory text buffer owned by a single patch run
type Document struct {
	Path     string      // Where the content was loaded from
	Original string      // Content as it was on disk
	Content  string      // Current content after rule application
	Mode     os.FileMode // Permissions to preserve on save
}

// NewDocument creates a Document whose current content equals what was loaded
func NewDocument(path, content string, mode os.FileMode) *Document {
	return &Document{
		Path:     path,
		Original: content,
		Content:  content,
		Mode:     mode,
	}
}

// Changed returns true if rule application altered the content
func (d *Document) Changed() bool {
	return d.Content != d.Original
}
