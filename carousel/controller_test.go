package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func mount(t *testing.T, total int) *Controller {
	t.Helper()
	c, err := NewController(total, DefaultConfig(), t0)
	require.NoError(t, err)
	return c
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestAutoplayScenario(t *testing.T) {
	c := mount(t, 3)

	c.Tick(at(4999))
	assert.False(t, c.State().IsTransitioning)

	c.Tick(at(5000))
	st := c.State()
	assert.True(t, st.IsTransitioning)
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Equal(t, 1, st.TargetIndex)

	c.Tick(at(5299))
	assert.Equal(t, 0, c.State().CurrentIndex)

	c.Tick(at(5300))
	assert.Equal(t, 1, c.State().CurrentIndex)
	assert.True(t, c.State().IsTransitioning)

	c.Tick(at(5349))
	assert.True(t, c.State().IsTransitioning)

	c.Tick(at(5350))
	assert.False(t, c.State().IsTransitioning)

	c.Tick(at(10300))
	assert.Equal(t, 2, c.State().CurrentIndex)
	assert.True(t, c.State().IsAutoPlaying)
}

func TestManualNextScenario(t *testing.T) {
	c := mount(t, 3)

	require.True(t, c.Next(t0))
	assert.False(t, c.State().IsAutoPlaying)
	assert.True(t, c.State().IsTransitioning)

	c.Tick(at(300))
	assert.Equal(t, 1, c.State().CurrentIndex)
	c.Tick(at(350))
	assert.False(t, c.State().IsTransitioning)

	c.Tick(at(10349))
	assert.False(t, c.State().IsAutoPlaying)

	c.Tick(at(10350))
	assert.True(t, c.State().IsAutoPlaying)
	next, ok := c.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, at(15350), next)

	c.Tick(at(15650))
	assert.Equal(t, 2, c.State().CurrentIndex)
}

func TestNextCyclesThroughAllItems(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8} {
		c := mount(t, n)
		now := t0
		seen := map[int]bool{}
		for i := 0; i < n; i++ {
			require.True(t, c.Next(now))
			now = now.Add(DefaultConfig().TransitionWindow())
			c.Tick(now)
			seen[c.State().CurrentIndex] = true
		}
		assert.Equal(t, 0, c.State().CurrentIndex, "n=%d", n)
		assert.Len(t, seen, n)
	}
}

func TestPreviousWrapsToEnd(t *testing.T) {
	c := mount(t, 4)
	require.True(t, c.Previous(t0))
	c.Tick(at(300))
	assert.Equal(t, 3, c.State().CurrentIndex)
}

func TestGoToCurrentIsNoop(t *testing.T) {
	c := mount(t, 3)
	c.Drain()
	before, _ := c.NextDeadline()

	moved, err := c.GoTo(0, t0)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.False(t, c.State().IsTransitioning)
	assert.True(t, c.State().IsAutoPlaying)
	assert.Empty(t, c.Drain())

	after, _ := c.NextDeadline()
	assert.Equal(t, before, after)
}

func TestGoToPendingTargetPausesAutoplay(t *testing.T) {
	c := mount(t, 3)
	c.Tick(at(5000))
	require.Equal(t, 1, c.State().TargetIndex)
	c.Drain()

	moved, err := c.GoTo(1, at(5100))
	require.NoError(t, err)
	assert.False(t, moved, "the running transition is kept")
	st := c.State()
	assert.False(t, st.IsAutoPlaying)
	assert.True(t, st.IsTransitioning)
	assert.Equal(t, 0, st.CurrentIndex)

	commit, ok := c.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, at(5300), commit)

	c.Tick(at(5350))
	assert.Equal(t, 1, c.State().CurrentIndex)
	assert.False(t, c.State().IsTransitioning)

	c.Tick(at(15349))
	assert.False(t, c.State().IsAutoPlaying)
	c.Tick(at(15350))
	assert.True(t, c.State().IsAutoPlaying)

	events := c.Drain()
	assert.Equal(t, 1, countKind(events, EventAutoplayPaused))
	assert.Zero(t, countKind(events, EventTransitionStarted))
	for _, e := range events {
		if e.Kind == EventIndexCommitted {
			assert.True(t, e.Manual)
		}
	}
}

func TestGoToOutOfRange(t *testing.T) {
	c := mount(t, 3)
	_, err := c.GoTo(3, t0)
	var oor ErrIndexOutOfRange
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 3, oor.Total)
	_, err = c.GoTo(-1, t0)
	assert.Error(t, err)
}

func TestCooldownResetsOnSecondNavigation(t *testing.T) {
	c := mount(t, 5)
	c.Next(t0)
	c.Tick(at(350))

	c.Tick(at(5000))
	c.Next(at(5000))
	c.Tick(at(5350))
	assert.Equal(t, 2, c.State().CurrentIndex)

	c.Tick(at(10350))
	assert.False(t, c.State().IsAutoPlaying, "first cooldown must be superseded")

	c.Tick(at(15349))
	assert.False(t, c.State().IsAutoPlaying)
	c.Tick(at(15350))
	assert.True(t, c.State().IsAutoPlaying)

	assert.Equal(t, 1, countKind(c.Drain(), EventAutoplayResumed))
}

func TestNavigationOverridesInFlightTransition(t *testing.T) {
	c := mount(t, 5)
	c.Next(t0)
	c.Next(at(100))
	assert.Equal(t, 2, c.State().TargetIndex)

	c.Tick(at(399))
	assert.Equal(t, 0, c.State().CurrentIndex)
	c.Tick(at(400))
	assert.Equal(t, 2, c.State().CurrentIndex)
	c.Tick(at(450))
	assert.False(t, c.State().IsTransitioning)

	assert.Equal(t, 1, countKind(c.Drain(), EventIndexCommitted))
}

func TestEmptyShowcase(t *testing.T) {
	c := mount(t, 0)
	_, ok := c.NextDeadline()
	assert.False(t, ok)

	assert.False(t, c.Next(t0))
	assert.False(t, c.Previous(t0))
	moved, err := c.GoTo(0, t0)
	assert.NoError(t, err)
	assert.False(t, moved)

	assert.Zero(t, c.Tick(at(60000)))
	_, ok = c.NextDeadline()
	assert.False(t, ok)
	assert.Empty(t, c.Drain())
}

func TestSingleItemDoesNotRotate(t *testing.T) {
	c := mount(t, 1)
	_, ok := c.NextDeadline()
	assert.False(t, ok)
	assert.False(t, c.Next(t0))
	assert.True(t, c.State().IsAutoPlaying)
}

func TestSetTotalClampsIndex(t *testing.T) {
	c := mount(t, 5)
	c.GoTo(4, t0)
	c.Tick(at(350))
	require.Equal(t, 4, c.State().CurrentIndex)

	c.SetTotal(3, at(400))
	assert.Equal(t, 2, c.State().CurrentIndex)
	assert.Equal(t, 2, c.State().TargetIndex)
}

func TestSetTotalAbandonsVanishedTarget(t *testing.T) {
	c := mount(t, 5)
	c.GoTo(4, t0)
	c.SetTotal(2, at(100))

	st := c.State()
	assert.False(t, st.IsTransitioning)
	assert.Equal(t, 0, st.CurrentIndex)

	c.Tick(at(10099))
	assert.False(t, c.State().IsAutoPlaying)
	c.Tick(at(10100))
	assert.True(t, c.State().IsAutoPlaying)
}

func TestSetTotalZeroTearsDown(t *testing.T) {
	c := mount(t, 3)
	c.Next(t0)
	c.SetTotal(0, at(10))

	_, ok := c.NextDeadline()
	assert.False(t, ok)
	assert.Equal(t, State{Total: 0, IsAutoPlaying: true}, c.State())

	c.SetTotal(2, at(20))
	next, ok := c.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, at(5020), next)
}

func TestProgress(t *testing.T) {
	c := mount(t, 3)
	assert.InDelta(t, 0.5, c.Progress(at(2500)), 1e-9)
	c.Next(at(2500))
	assert.Zero(t, c.Progress(at(3000)))
}

func TestCloseCancelsTimers(t *testing.T) {
	c := mount(t, 3)
	c.Next(t0)
	c.Close()

	_, ok := c.NextDeadline()
	assert.False(t, ok)
	assert.Zero(t, c.Tick(at(60000)))
	assert.False(t, c.Next(at(60000)))
	assert.True(t, c.Closed())
}

func TestNewControllerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoplayInterval = 0
	c, err := NewController(3, cfg, t0)
	var invalid ErrInvalidConfig
	require.ErrorAs(t, err, &invalid)
	assert.Nil(t, c)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.AutoplayInterval = 300 * time.Millisecond
	var invalid ErrInvalidConfig
	require.ErrorAs(t, cfg.Validate(), &invalid)
	assert.Equal(t, "autoplay_interval", invalid.Field)

	cfg = DefaultConfig()
	cfg.SettleDelay = 0
	assert.Error(t, cfg.Validate())
}
