package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
	"github.com/PabloGalante/jarvis-agent/internal/observability"
)

// Message is the persona-consistent reminder shown when no briefing
// exists yet for today.
const Message = "Sir, a gentle reminder to provide the daily WhatsApp summary for a complete operational overview."

// Service decides whether the daily "no briefing yet" reminder should be
// shown. At most one reminder fires per calendar day per device; the
// last-shown marker lives locally, independent of the briefing store.
type Service struct {
	briefings domain.BriefingStore
	marker    domain.ReminderMarker
	now       func() time.Time
}

func NewService(briefings domain.BriefingStore, marker domain.ReminderMarker) *Service {
	return &Service{
		briefings: briefings,
		marker:    marker,
		now:       time.Now,
	}
}

// WithClock overrides the wall clock, letting tests simulate day turns.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Check reports whether the reminder should fire for identity right now.
// Firing records today in the marker so a later check on the same day
// stays quiet. All failures degrade: store errors count as "no briefing",
// marker errors are logged and the reminder still fires.
func (s *Service) Check(ctx context.Context, identity domain.IdentityID) bool {
	log := observability.LoggerFromContext(ctx).With("identity", identity)
	today := domain.CivilDate(s.now())

	briefing, err := s.briefings.Get(ctx, identity, today)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Error("briefing lookup failed, treating as absent", "error", err)
	}
	if err == nil && briefing != nil {
		return false
	}

	last, err := s.marker.LastShown()
	if err != nil {
		log.Error("failed to read reminder marker", "error", err)
	}
	if last == today {
		return false
	}

	if err := s.marker.SetLastShown(today); err != nil {
		log.Error("failed to record reminder marker", "error", err)
	}
	return true
}
