package triage

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestNewGridModel_EmptyStates(t *testing.T) {
	empty := NewStore("g1", nil, nil)
	g := NewGridModel(empty.Snapshot())
	assert.True(t, g.Empty())
	assert.Equal(t, EmptyGalleryMessage, g.EmptyMessage)

	s := NewStore("g1", samplePhotos("a"), nil)
	s.SetFilterMode(FilterHighlights)
	g = NewGridModel(s.Snapshot())
	assert.Equal(t, EmptyFilterMessage, g.EmptyMessage)

	s.SetFilterMode(FilterAll)
	g = NewGridModel(s.Snapshot())
	assert.Empty(t, g.EmptyMessage)
	assert.Len(t, g.Cards, 1)
}

func TestNewGridModel_Rows(t *testing.T) {
	s := NewStore("g1", samplePhotos("a", "b", "c", "d", "e"), nil)
	s.SetGridSize(GridLarge)

	rows := NewGridModel(s.Snapshot()).Rows()
	require.Len(t, rows, 3)
	assert.Len(t, rows[2], 1)

	s.SetGridSize(GridSmall)
	assert.Len(t, NewGridModel(s.Snapshot()).Rows(), 1)
}

func TestNewCard(t *testing.T) {
	c := NewCard(Photo{ID: "a", Status: StatusSelected, IsHighlight: true, QualityScore: score(86.6)}, true)
	assert.True(t, c.Checked)
	assert.Equal(t, []Badge{BadgeKept, BadgeHighlight}, c.Badges)
	assert.Equal(t, "Q 87", c.QualityLabel)
	assert.Contains(t, c.Actions, ActionReset)

	c = NewCard(Photo{ID: "b", Status: StatusRejected}, false)
	assert.Equal(t, []Badge{BadgeDiscarded}, c.Badges)

	c = NewCard(Photo{ID: "c", Status: StatusUntouched}, false)
	assert.Empty(t, c.Badges)
	assert.Empty(t, c.QualityLabel)
	assert.NotContains(t, c.Actions, ActionReset)
}

func TestNewToolbarModel(t *testing.T) {
	photos := []Photo{{ID: "a", Status: StatusSelected, IsHighlight: true}, {ID: "b", Status: StatusRejected}, {ID: "c"}}
	s := NewStore("g1", photos, nil)
	s.SetFilterMode(FilterRejected)

	tb := NewToolbarModel(s.Snapshot())
	assert.False(t, tb.ShowBulkBar)
	assert.Empty(t, tb.Saving)
	assert.Empty(t, tb.ErrorBanner)
	require.Len(t, tb.Filters, 4)
	assert.Equal(t, "all (3)", tb.Filters[0].Label())
	assert.Equal(t, 1, tb.Filters[1].Count)
	assert.True(t, tb.Filters[2].Active)
	assert.Equal(t, 1, tb.Filters[3].Count)

	require.NoError(t, s.TogglePhotoCheck("b", false))
	tb = NewToolbarModel(s.Snapshot())
	assert.True(t, tb.ShowBulkBar)
	assert.Equal(t, 1, tb.CheckedCount)
}

func TestNewToolbarModel_SavingAndErrors(t *testing.T) {
	v := View{
		IsUpdating: true,
		Failures: []Failure{
			{Change: Change{Kind: ChangeStatus, Status: StatusSelected, IDs: []string{"a"}}, Err: errors.New("old"), At: time.Now()},
			{Change: Change{Kind: ChangeHighlight, Highlight: true, IDs: []string{"a", "b"}}, Err: errors.New("timeout"), At: time.Now()},
		},
	}
	tb := NewToolbarModel(v)
	assert.Equal(t, SavingIndicator, tb.Saving)
	assert.Equal(t, "Could not save highlight=true on 2 photo(s): timeout", tb.ErrorBanner)
}

func TestPhotoJSON(t *testing.T) {
	var p Photo
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","selected":true,"rejected":true}`), &p))
	assert.Equal(t, StatusRejected, p.Status, "rejected wins over selected")

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","status":"selected","rejected":true}`), &p))
	assert.Equal(t, StatusSelected, p.Status)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"id":"a","status":"maybe"}`), &p), ErrInvalidReviewStatus)

	out, err := json.Marshal(Photo{ID: "a", Status: StatusRejected})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","filename":"","url":"","thumbnailUrl":"","status":"rejected",
		"selected":false,"rejected":true,"isHighlight":false,"qualityScore":null}`, string(out))
}

func TestParseHelpers(t *testing.T) {
	m, err := ParseFilterMode("Highlights")
	require.NoError(t, err)
	assert.Equal(t, FilterHighlights, m)
	_, err = ParseFilterMode("starred")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	assert.Equal(t, FilterAll, FilterHighlights.Next())
	assert.Equal(t, GridSmall, GridLarge.Next())

	g, err := ParseGridSize("")
	require.NoError(t, err)
	assert.Equal(t, 4, g.Columns())
	_, err = ParseGridSize("huge")
	assert.ErrorIs(t, err, ErrInvalidGridSize)
}
