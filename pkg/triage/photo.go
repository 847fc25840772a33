// Package triage holds the client-side state for reviewing a gallery:
// the photo list with its review status, the transient multi-selection
// used for bulk actions, view preferences, and the batched write-back
// to the server.
//
// Everything here is independent of a UI toolkit. Renderers read a
// View snapshot and call Store methods; the terminal client in
// interfaces/tui is one such renderer.
package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPhoto        = errors.New("unknown photo")
	ErrInvalidReviewStatus = errors.New("invalid review status")
	ErrInvalidFilter       = errors.New("invalid filter mode")
	ErrInvalidGridSize     = errors.New("invalid grid size")
)

// ReviewStatus is the single review axis of a photo. Highlight is
// tracked separately on Photo.
type ReviewStatus string

const (
	StatusUntouched ReviewStatus = "untouched"
	StatusSelected  ReviewStatus = "selected"
	StatusRejected  ReviewStatus = "rejected"
)

func ParseReviewStatus(s string) (ReviewStatus, error) {
	switch ReviewStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusUntouched, "":
		return StatusUntouched, nil
	case StatusSelected:
		return StatusSelected, nil
	case StatusRejected:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReviewStatus, s)
}

// Photo is one image in a gallery as the reviewer sees it.
type Photo struct {
	ID           string
	Filename     string
	URL          string
	ThumbnailURL string
	Status       ReviewStatus
	IsHighlight  bool
	QualityScore *float64 // 0-100, nil when not scored
}

func (p Photo) Selected() bool { return p.Status == StatusSelected }
func (p Photo) Rejected() bool { return p.Status == StatusRejected }

// photoJSON is the wire shape. It carries the legacy selected/rejected
// booleans next to status so older clients keep working.
type photoJSON struct {
	ID           string   `json:"id"`
	Filename     string   `json:"filename"`
	URL          string   `json:"url"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Status       string   `json:"status"`
	Selected     bool     `json:"selected"`
	Rejected     bool     `json:"rejected"`
	IsHighlight  bool     `json:"isHighlight"`
	QualityScore *float64 `json:"qualityScore"`
}

func (p Photo) MarshalJSON() ([]byte, error) {
	status := p.Status
	if status == "" {
		status = StatusUntouched
	}
	return json.Marshal(photoJSON{
		ID:           p.ID,
		Filename:     p.Filename,
		URL:          p.URL,
		ThumbnailURL: p.ThumbnailURL,
		Status:       string(status),
		Selected:     status == StatusSelected,
		Rejected:     status == StatusRejected,
		IsHighlight:  p.IsHighlight,
		QualityScore: p.QualityScore,
	})
}

// UnmarshalJSON accepts either the status field or the legacy booleans.
// When both booleans are set, rejected wins.
func (p *Photo) UnmarshalJSON(data []byte) error {
	var raw photoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	status := StatusUntouched
	if raw.Status != "" {
		s, err := ParseReviewStatus(raw.Status)
		if err != nil {
			return err
		}
		status = s
	} else if raw.Rejected {
		status = StatusRejected
	} else if raw.Selected {
		status = StatusSelected
	}

	*p = Photo{
		ID:           raw.ID,
		Filename:     raw.Filename,
		URL:          raw.URL,
		ThumbnailURL: raw.ThumbnailURL,
		Status:       status,
		IsHighlight:  raw.IsHighlight,
		QualityScore: raw.QualityScore,
	}
	return nil
}

// FilterMode decides which photos the grid renders.
type FilterMode string

const (
	FilterAll        FilterMode = "all"
	FilterSelected   FilterMode = "selected"
	FilterRejected   FilterMode = "rejected"
	FilterHighlights FilterMode = "highlights"
)

// FilterModes lists the modes in toolbar order.
var FilterModes = []FilterMode{FilterAll, FilterSelected, FilterRejected, FilterHighlights}

func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterSelected:
		return FilterSelected, nil
	case FilterRejected:
		return FilterRejected, nil
	case FilterHighlights:
		return FilterHighlights, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

func (m FilterMode) Matches(p Photo) bool {
	switch m {
	case FilterSelected:
		return p.Status == StatusSelected
	case FilterRejected:
		return p.Status == StatusRejected
	case FilterHighlights:
		return p.IsHighlight
	default:
		return true
	}
}

// Next returns the following mode in toolbar order, wrapping around.
func (m FilterMode) Next() FilterMode {
	for i, mode := range FilterModes {
		if mode == m {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

// GridSize is purely presentational.
type GridSize string

const (
	GridSmall  GridSize = "small"
	GridMedium GridSize = "medium"
	GridLarge  GridSize = "large"
)

var GridSizes = []GridSize{GridSmall, GridMedium, GridLarge}

func ParseGridSize(s string) (GridSize, error) {
	switch GridSize(strings.ToLower(strings.TrimSpace(s))) {
	case GridSmall:
		return GridSmall, nil
	case GridMedium, "":
		return GridMedium, nil
	case GridLarge:
		return GridLarge, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGridSize, s)
}

// Columns is the number of cards per row at this density.
func (g GridSize) Columns() int {
	switch g {
	case GridSmall:
		return 6
	case GridLarge:
		return 2
	default:
		return 4
	}
}

func (g GridSize) Next() GridSize {
	for i, size := range GridSizes {
		if size == g {
			return GridSizes[(i+1)%len(GridSizes)]
		}
	}
	return GridMedium
}
