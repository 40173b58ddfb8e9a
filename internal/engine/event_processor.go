package engine

import (
	"context"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/sirupsen/logrus"
)

// persistTimeout - сколько ждём ledger при записи итога
const persistTimeout = 5 * time.Second

// processEvent - точка входа для событий сессии. Вызывается в потоке сессии,
// поэтому всё медленное (БД, диск) уходит в отдельные горутины.
func (s *GameService) processEvent(h *SessionHandle, ev domain.Event) {
	s.metrics.ObserveEvent(context.Background(), ev)

	s.Hub.Publish(ev.SessionID, api.ServerResponse{
		Type:      api.MsgEvent,
		SessionID: ev.SessionID,
		Event:     &ev,
	})

	switch ev.Type {
	case domain.EventSessionEnded:
		s.handleSessionEnded(h, ev)
	case domain.EventWaveChanged:
		logger.ForSession("event_processor", ev.SessionID).
			WithField("wave", ev.Wave).Debug("Wave changed")
	}
}

// handleSessionEnded отправляет итог во внешний учёт и сохраняет реплей
func (s *GameService) handleSessionEnded(h *SessionHandle, ev domain.Event) {
	if ev.Summary == nil {
		return
	}
	summary := *ev.Summary

	var replay *domain.ReplaySession
	if h.session != nil {
		// После GameOver лента больше не пишется
		replay = h.session.Replay
	}

	if s.results == nil && (s.replays == nil || replay == nil) {
		return
	}

	log := logger.ForSession("event_processor", ev.SessionID)

	s.persist.Add(1)
	h.persisting.Add(1)
	go func() {
		defer s.persist.Done()
		defer h.persisting.Done()

		if s.results != nil {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			err := s.results.Record(ctx, summary)
			cancel()
			if err != nil {
				log.WithError(err).Error("Failed to record run summary")
			} else {
				log.WithFields(logrus.Fields{
					"reason": summary.Reason,
					"spent":  summary.AmmoSpent(),
				}).Info("Run summary recorded")
			}
		}

		if s.replays != nil && replay != nil {
			path, err := s.replays.Save(replay)
			if err != nil {
				log.WithError(err).Error("Failed to save replay")
				return
			}
			log.WithField("path", path).Info("Replay saved")
		}
	}()
}
