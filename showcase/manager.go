// Package showcase mounts one carousel per viewer and keeps every mounted carousel in
// step with the item catalog.
package showcase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"showcase/carousel"
	"showcase/logger"
	"showcase/metrics"
	"showcase/models"
)

// Repository supplies the ordered items of a showcase.
type Repository interface {
	ListItems(ctx context.Context, showcase string) ([]models.Item, error)
}

// EventPublisher forwards controller events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.ShowcaseEvent) error
}

// View is what a viewer renders.
type View = carousel.Snapshot[models.Item]

const (
	eventQueueSize = 256
	publishTimeout = 2 * time.Second
)

type Manager struct {
	repo Repository
	pub  EventPublisher
	cfg  carousel.Config
	hub  *Hub

	mu     sync.Mutex
	closed bool

	events chan models.ShowcaseEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewManager validates cfg and starts the event publishing worker. pub may be nil.
func NewManager(repo Repository, pub EventPublisher, cfg carousel.Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		repo:   repo,
		pub:    pub,
		cfg:    cfg,
		hub:    NewHub(),
		events: make(chan models.ShowcaseEvent, eventQueueSize),
		done:   make(chan struct{}),
	}
	m.wg.Add(1)
	go m.publishLoop()
	return m, nil
}

func (m *Manager) Hub() *Hub { return m.hub }

// Items reads the current catalog of a showcase.
func (m *Manager) Items(ctx context.Context, showcase string) ([]models.Item, error) {
	return m.repo.ListItems(ctx, showcase)
}

// Mount loads the showcase items once and starts a carousel for one viewer. A failed load
// mounts an empty showcase. onView runs on the session's loop and must not block.
func (m *Manager) Mount(ctx context.Context, showcase string, onView func(View)) (*Session, error) {
	items, err := m.repo.ListItems(ctx, showcase)
	if err != nil {
		logger.Error("showcase items load failed, mounting empty", err, logger.FieldKV("showcase", showcase))
		metrics.IncCatalogLoadFailures()
		items = nil
	}

	s := &Session{ID: uuid.NewString(), Showcase: showcase, mgr: m}
	p, err := carousel.NewPlayer(items, m.cfg, func(v View, events []carousel.Event) {
		m.record(s, events)
		if onView != nil {
			onView(v)
		}
	})
	if err != nil {
		return nil, err
	}
	s.player = p

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		p.Close()
		return nil, ErrManagerClosed
	}
	m.hub.Add(s)
	m.mu.Unlock()
	metrics.IncSessionsMounted()
	logger.Info("showcase session mounted",
		logger.FieldKV("session_id", s.ID),
		logger.FieldKV("showcase", showcase),
		logger.FieldKV("total", len(items)))
	return s, nil
}

// Reload re-reads a showcase's items and hands them to every mounted session. When the
// read fails the sessions keep their current list.
func (m *Manager) Reload(ctx context.Context, showcase string) error {
	items, err := m.repo.ListItems(ctx, showcase)
	if err != nil {
		metrics.IncCatalogLoadFailures()
		return err
	}
	sessions := m.hub.Sessions(showcase)
	for _, s := range sessions {
		if err := s.player.Replace(items); err != nil && !errors.Is(err, carousel.ErrClosed) {
			logger.Error("session replace failed", err, logger.FieldKV("session_id", s.ID))
		}
	}
	metrics.IncCatalogReloads()
	logger.Info("showcase reloaded",
		logger.FieldKV("showcase", showcase),
		logger.FieldKV("total", len(items)),
		logger.FieldKV("sessions", len(sessions)))
	return nil
}

// Close unmounts every session and flushes queued events.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.wg.Wait()
		return
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	for _, s := range m.hub.All() {
		s.Unmount()
	}
	m.wg.Wait()
}

func (m *Manager) record(s *Session, events []carousel.Event) {
	for _, e := range events {
		switch e.Kind {
		case carousel.EventTransitionStarted:
			metrics.IncTransition(e.Manual)
		case carousel.EventAutoplayResumed:
			metrics.IncAutoplayResumes()
		}
		logger.Debug("showcase event",
			logger.FieldKV("session_id", s.ID),
			logger.FieldKV("kind", string(e.Kind)),
			logger.FieldKV("index", e.Index))

		ev := models.ShowcaseEvent{
			EventID:   uuid.NewString(),
			SessionID: s.ID,
			Showcase:  s.Showcase,
			Kind:      string(e.Kind),
			Index:     e.Index,
			Manual:    e.Manual,
			Timestamp: e.At.UTC(),
		}
		select {
		case m.events <- ev:
		default:
			metrics.IncEventPublishFailures()
		}
	}
}

func (m *Manager) publishLoop() {
	defer m.wg.Done()
	for {
		select {
		case ev := <-m.events:
			m.publish(ev)
		case <-m.done:
			for {
				select {
				case ev := <-m.events:
					m.publish(ev)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) publish(ev models.ShowcaseEvent) {
	if m.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := m.pub.Publish(ctx, ev); err != nil {
		metrics.IncEventPublishFailures()
		logger.Error("showcase event publish failed", err, logger.FieldKV("event_id", ev.EventID))
	}
}
