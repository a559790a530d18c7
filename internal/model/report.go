package model

import "time"

// Report is the rendered result of scanning one or more documents
type Report struct {
	Root        string        `json:"root"`         // File or directory that was scanned
	GeneratedAt time.Time     `json:"generated_at"` // When the scan finished
	Config      ExtractConfig `json:"config"`       // Settings used for extraction

	Documents  int         `json:"documents"`         // Documents scanned successfully
	Failures   []Failure   `json:"failures,omitempty"` // Documents that could not be scanned
	Milestones []Milestone `json:"milestones"`        // Sorted per the timeline settings

	Stats Stats `json:"stats"`
}

// Failure records a document that could not be scanned
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Stats summarizes a report
type Stats struct {
	Total     int            `json:"total"`
	Uncertain int            `json:"uncertain"`
	ByOrigin  map[Origin]int `json:"by_origin"`
	FirstYear int            `json:"first_year,omitempty"`
	LastYear  int            `json:"last_year,omitempty"`
}

// ComputeStats summarizes a milestone set
func ComputeStats(ms []Milestone) Stats {
	s := Stats{
		Total:    len(ms),
		ByOrigin: make(map[Origin]int),
	}
	for _, m := range ms {
		if m.Uncertain {
			s.Uncertain++
		}
		s.ByOrigin[m.Origin]++
		y := m.Date.Year()
		if s.FirstYear == 0 || y < s.FirstYear {
			s.FirstYear = y
		}
		if y > s.LastYear {
			s.LastYear = y
		}
	}
	return s
}
