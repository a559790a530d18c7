package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Origin records which notation produced a milestone
type Origin string

const (
	OriginHeader Origin = "header" // metadata block field
	OriginInline Origin = "inline" // free text on a body line
	OriginTag    Origin = "tag"    // #date/ or #year/ tag
	OriginLink   Origin = "link"   // [[date]] link
)

// Document is one markdown note handed to the extractor
type Document struct {
	Path  string `json:"path"`  // Opaque identity, usually a file path
	Title string `json:"title"` // Display title
	Text  string `json:"-"`
}

// NewDocument builds a Document whose title is the file base name without extension
func NewDocument(path, text string) Document {
	return Document{
		Path:  path,
		Title: TitleFromPath(path),
		Text:  text,
	}
}

// TitleFromPath derives a display title from a path
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Milestone is one normalized date occurrence extracted from a document
type Milestone struct {
	Date      time.Time `json:"date"`              // 00:00 UTC of the resolved day
	Document  string    `json:"document"`          // Document identity
	Title     string    `json:"title"`             // Document title
	Heading   string    `json:"heading,omitempty"` // Nearest section heading above the date
	Line      int       `json:"line,omitempty"`    // 1-based source line, 0 when unknown
	Context   string    `json:"context"`           // Surrounding text, at most 100 chars plus ellipsis
	Uncertain bool      `json:"uncertain"`         // Partial date or note-level uncertainty
	Tag       bool      `json:"tag"`               // Came from an explicit tag
	Origin    Origin    `json:"origin"`
}

// Timestamp returns the Unix seconds of the milestone date
func (m Milestone) Timestamp() int64 {
	return m.Date.Unix()
}

// YearRef is a bare year found by the year-reference scanner
type YearRef struct {
	Year     int    `json:"year"`
	Document string `json:"document"`
	Line     int    `json:"line"`   // 1-based source line
	Column   int    `json:"column"` // 0-based rune offset within the line
	Context  string `json:"context"`
}
