package showcase

import (
	"errors"
	"fmt"
	"sync"

	"showcase/carousel"
	"showcase/logger"
	"showcase/models"
)

var ErrManagerClosed = errors.New("showcase: manager closed")

// Session is one mounted carousel. It lives from Mount until Unmount.
type Session struct {
	ID       string
	Showcase string

	mgr         *Manager
	player      *carousel.Player[models.Item]
	unmountOnce sync.Once
}

func (s *Session) Next() error      { return s.player.Next() }
func (s *Session) Previous() error  { return s.player.Previous() }
func (s *Session) GoTo(i int) error { return s.player.GoTo(i) }

func (s *Session) View() (View, error) { return s.player.Snapshot() }

// Apply dispatches a viewer command.
func (s *Session) Apply(cmd models.Command) error {
	switch cmd.Action {
	case models.ActionNext:
		return s.Next()
	case models.ActionPrevious:
		return s.Previous()
	case models.ActionGoTo:
		if cmd.Index == nil {
			return fmt.Errorf("goto without index")
		}
		return s.GoTo(*cmd.Index)
	}
	return fmt.Errorf("unknown action %q", cmd.Action)
}

// Unmount stops the carousel and its timers. Safe to call more than once.
func (s *Session) Unmount() {
	s.unmountOnce.Do(func() {
		s.player.Close()
		s.mgr.hub.Remove(s)
		logger.Info("showcase session unmounted", logger.FieldKV("session_id", s.ID), logger.FieldKV("showcase", s.Showcase))
	})
}
