package internal

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/yjcc/events/internal/clock"
	"github.com/yjcc/events/internal/log"
	"github.com/yjcc/events/internal/models"
	"github.com/yjcc/events/internal/repos"
	"github.com/yjcc/events/internal/whatsapp"
	"golang.org/x/net/context"
)

const (
	// Reminders go out when the event starts in more than 23 but at most 24 hours
	reminderWindowEnd   = 24 * time.Hour
	reminderWindowStart = 23 * time.Hour
	// Feedback requests go out when the event started more than 12 but at most 13 hours ago
	feedbackWindowStart = 12 * time.Hour
	feedbackWindowEnd   = 13 * time.Hour
)

// NotificationService periodically scans all events and dispatches reminders and
// feedback requests to qualifying participants. It owns its timer: Start spins up
// the scan loop and Stop tears it down again. Each (event, participant, kind)
// notification fires at most once - the dispatch repo keeps the sent marks
type NotificationService struct {
	events     repos.EventRepo
	dispatches repos.DispatchRepo
	messenger  whatsapp.Messenger
	clock      clock.Clock
	interval   time.Duration
	logger     *logrus.Entry

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewNotificationService creates a new notification scheduler
func NewNotificationService(
	events repos.EventRepo,
	dispatches repos.DispatchRepo,
	messenger whatsapp.Messenger,
	clk clock.Clock,
	interval time.Duration,
	logger *logrus.Entry,
) *NotificationService {
	return &NotificationService{
		events:     events,
		dispatches: dispatches,
		messenger:  messenger,
		clock:      clk,
		interval:   interval,
		logger:     logger,
	}
}

// Start launches the periodic scan. Calling Start on a running scheduler does nothing
func (s *NotificationService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.logger.WithField("interval", s.interval.String()).Info("Starting notification scheduler")
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Stop shuts the scan loop down and waits until it has finished. Calling Stop on a
// stopped scheduler does nothing
func (s *NotificationService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
	s.logger.Info("Notification scheduler stopped")
}

func (s *NotificationService) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Evaluate(context.Background(), s.clock.Now())
		case <-stop:
			return
		}
	}
}

// Evaluate performs one scan pass over all events at the given instant. The event
// snapshot is read fresh from the store, so changes made by other parts of the
// application are always picked up. A failure on one event is logged and does not
// abort the evaluation of the remaining events
func (s *NotificationService) Evaluate(ctx context.Context, now time.Time) {
	events, err := s.events.All()
	if err != nil {
		s.logger.WithError(err).Error("Notification scan cannot read events")
		return
	}
	for _, ev := range events {
		if err := s.evaluateEvent(ctx, ev, now); err != nil {
			s.logger.WithError(err).WithField(log.FldEvent, ev.ID).Error("Skipping event in notification scan")
		}
	}
}

func (s *NotificationService) evaluateEvent(ctx context.Context, ev models.Event, now time.Time) error {
	if ev.Date.IsZero() {
		return fmt.Errorf("event has no date")
	}
	until := ev.Date.Sub(now)
	if until <= reminderWindowEnd && until > reminderWindowStart {
		confirmed := lo.Filter(ev.Participants, func(p models.Participant, _ int) bool { return p.Confirmed })
		if err := s.dispatch(ctx, ev, confirmed, repos.KindReminder, GenerateEventReminder(ev)); err != nil {
			return err
		}
	}
	since := now.Sub(ev.Date)
	if since > feedbackWindowStart && since <= feedbackWindowEnd {
		attended := lo.Filter(ev.Participants, func(p models.Participant, _ int) bool { return p.Attended })
		if err := s.dispatch(ctx, ev, attended, repos.KindFeedback, GenerateFeedbackRequest(ev)); err != nil {
			return err
		}
	}
	return nil
}

// dispatch sends the given message to every listed participant that has not received
// this notification kind for this event yet
func (s *NotificationService) dispatch(
	ctx context.Context,
	ev models.Event,
	participants []models.Participant,
	kind repos.NotificationKind,
	text string,
) error {
	for _, p := range participants {
		first, err := s.dispatches.MarkSent(ev.ID, p.Phone, kind)
		if err != nil {
			return err
		}
		if !first {
			continue
		}
		s.logger.WithFields(logrus.Fields{
			log.FldEvent: ev.ID,
			log.FldPhone: p.Phone,
			log.FldKind:  kind,
		}).Info("Dispatching notification")
		if err := s.messenger.Send(ctx, p.Phone, text); err != nil {
			// The mark is already set - the message boundary gives no delivery
			// guarantee anyway, so a failed send is not retried
			s.logger.WithError(err).WithField(log.FldPhone, p.Phone).Error("Messenger rejected notification")
		}
	}
	return nil
}

// ReminderLink builds the manual-dispatch deep link for one participant of an event
func (s *NotificationService) ReminderLink(ctx context.Context, eventID int64, phone string) (string, error) {
	ev, err := s.events.GetByID(eventID)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return "", MakeError(http.StatusNotFound, ErrCodeEventNotFound,
				fmt.Sprintf("Event #%d does not exist", eventID),
			)
		}
		return "", MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving event #%d", eventID), err,
		)
	}
	p, ok := ev.FindParticipant(phone)
	if !ok {
		return "", MakeError(http.StatusNotFound, ErrCodeParticipantNotFound,
			fmt.Sprintf("No participant with phone number %s on event #%d", phone, eventID),
		)
	}
	return s.messenger.Link(p.Phone, GenerateEventReminder(*ev)), nil
}

// -- Message templates ------------------------------------------------------------------------------------------------

var hebrewMonths = [...]string{
	"ינואר", "פברואר", "מרץ", "אפריל", "מאי", "יוני",
	"יולי", "אוגוסט", "ספטמבר", "אוקטובר", "נובמבר", "דצמבר",
}

// FormatEventDate renders a date the way the dashboard shows it (he-IL locale)
func FormatEventDate(t time.Time) string {
	return fmt.Sprintf("%d ב%s %d, %02d:%02d",
		t.Day(), hebrewMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// GenerateEventReminder renders the reminder message for an event
func GenerateEventReminder(ev models.Event) string {
	return fmt.Sprintf("שלום! תזכורת לאירוע \"%s\" שיתקיים ב-%s ב%s. נשמח לראותך!",
		ev.Name, FormatEventDate(ev.Date), ev.Location)
}

// GenerateFeedbackRequest renders the feedback request message for an event
func GenerateFeedbackRequest(ev models.Event) string {
	return fmt.Sprintf("תודה שהשתתפת באירוע \"%s\"! נשמח אם תוכל/י למלא משוב קצר על חווית האירוע.", ev.Name)
}
