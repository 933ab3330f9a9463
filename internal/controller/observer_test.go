package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewport_BreakpointEmitsCurrentThenChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vp := NewViewport(1024)
	ch, err := vp.ObserveBreakpoint(ctx, TableMaxWidth)
	require.NoError(t, err)
	assert.False(t, <-ch)

	vp.Resize(800) // same side of the breakpoint
	vp.Resize(400)
	vp.Resize(500)
	vp.Resize(1200)

	assert.True(t, <-ch)
	assert.False(t, <-ch)
	assert.Empty(t, ch)
	assert.Equal(t, 1200, vp.Width())
}

func TestViewport_ScrollFiltersToObservedIDs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vp := NewViewport(1024)
	ch, err := vp.ObserveSections(ctx, []string{"home", "pricing"})
	require.NoError(t, err)

	vp.Scroll(
		SectionEntry{ID: "pricing", Ratio: 0.6, Intersecting: true},
		SectionEntry{ID: "footer", Ratio: 1, Intersecting: true},
	)
	vp.Scroll(SectionEntry{ID: "footer", Ratio: 1, Intersecting: true})

	batch := <-ch
	assert.Equal(t, []SectionEntry{{ID: "pricing", Ratio: 0.6, Intersecting: true}}, batch)
	assert.Empty(t, ch)
}

func TestViewport_CancelledObserversAreDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	vp := NewViewport(1024)
	_, err := vp.ObserveBreakpoint(ctx, TableMaxWidth)
	require.NoError(t, err)
	_, err = vp.ObserveSections(ctx, []string{"home"})
	require.NoError(t, err)

	cancel()
	vp.Resize(300)
	vp.Scroll(SectionEntry{ID: "home", Ratio: 1, Intersecting: true})

	assert.Empty(t, vp.breakpoints)
	assert.Empty(t, vp.sections)
}
