package carousel

import (
	"sync"
	"time"
)

// Snapshot is what a rendering surface consumes: the displayed item plus the flags it
// animates against.
type Snapshot[T any] struct {
	State
	Item     *T        `json:"item,omitempty"`
	Progress float64   `json:"progress"`
	At       time.Time `json:"at"`
}

// ChangeFunc receives every snapshot that differs from the previous one together with
// the events that produced it. It runs on the player's goroutine and must not call back
// into the Player.
type ChangeFunc[T any] func(Snapshot[T], []Event)

// Player runs one Controller on a dedicated goroutine. Commands and timer expiries are
// handled one at a time on that goroutine, so the controller never sees concurrent input.
type Player[T any] struct {
	ctrl     *Controller
	items    []T
	onChange ChangeFunc[T]
	now      func() time.Time

	cmds     chan func(now time.Time)
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	last    State
	emitted bool
}

// NewPlayer mounts items and starts the rotation loop.
func NewPlayer[T any](items []T, cfg Config, onChange ChangeFunc[T]) (*Player[T], error) {
	p := &Player[T]{
		items:    append([]T(nil), items...),
		onChange: onChange,
		now:      time.Now,
		cmds:     make(chan func(time.Time)),
		stopChan: make(chan struct{}),
	}
	ctrl, err := NewController(len(p.items), cfg, p.now())
	if err != nil {
		return nil, err
	}
	p.ctrl = ctrl
	p.wg.Add(1)
	go p.loop()
	return p, nil
}

func (p *Player[T]) Next() error {
	return p.do(func(now time.Time) { p.ctrl.Next(now) })
}

func (p *Player[T]) Previous() error {
	return p.do(func(now time.Time) { p.ctrl.Previous(now) })
}

func (p *Player[T]) GoTo(i int) error {
	var err error
	if derr := p.do(func(now time.Time) { _, err = p.ctrl.GoTo(i, now) }); derr != nil {
		return derr
	}
	return err
}

// Replace swaps the item list while mounted.
func (p *Player[T]) Replace(items []T) error {
	cp := append([]T(nil), items...)
	return p.do(func(now time.Time) {
		p.items = cp
		p.ctrl.SetTotal(len(cp), now)
	})
}

func (p *Player[T]) Snapshot() (Snapshot[T], error) {
	var s Snapshot[T]
	err := p.do(func(now time.Time) { s = p.snapshot(now) })
	return s, err
}

// Close stops the loop and cancels every pending timer. No ChangeFunc call happens after
// Close returns. Safe to call more than once.
func (p *Player[T]) Close() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
	p.wg.Wait()
}

// do runs fn on the loop goroutine and waits for it.
func (p *Player[T]) do(fn func(now time.Time)) error {
	done := make(chan struct{})
	select {
	case p.cmds <- func(now time.Time) { fn(now); close(done) }:
	case <-p.stopChan:
		return ErrClosed
	}
	<-done
	return nil
}

func (p *Player[T]) loop() {
	defer p.wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	p.flush(p.now())
	for {
		var timerC <-chan time.Time
		if at, ok := p.ctrl.NextDeadline(); ok {
			timer.Reset(at.Sub(p.now()))
			timerC = timer.C
		} else {
			timer.Stop()
		}

		select {
		case <-p.stopChan:
			p.ctrl.Close()
			return
		case cmd := <-p.cmds:
			cmd(p.now())
		case <-timerC:
			p.ctrl.Tick(p.now())
		}
		p.flush(p.now())
	}
}

func (p *Player[T]) flush(now time.Time) {
	events := p.ctrl.Drain()
	st := p.ctrl.State()
	if p.emitted && st == p.last && len(events) == 0 {
		return
	}
	p.last, p.emitted = st, true
	if p.onChange != nil {
		p.onChange(p.snapshot(now), events)
	}
}

func (p *Player[T]) snapshot(now time.Time) Snapshot[T] {
	st := p.ctrl.State()
	s := Snapshot[T]{State: st, Progress: p.ctrl.Progress(now), At: now}
	if st.Total > 0 {
		item := p.items[st.CurrentIndex]
		s.Item = &item
	}
	return s
}
