package events

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

const subscriberBuffer = 100

// fanout tracks local subscriber channels per bus channel. Slow subscribers
// drop events instead of blocking the publisher.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.AppointmentEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.AppointmentEvent]struct{})}
}

func (f *fanout) add(channel string) (chan *entities.AppointmentEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.AppointmentEvent]struct{})
	}
	eventChan := make(chan *entities.AppointmentEvent, subscriberBuffer)
	f.subscribers[channel][eventChan] = struct{}{}
	return eventChan, len(f.subscribers[channel])
}

// remove closes eventChan and returns how many subscribers remain
func (f *fanout) remove(channel string, eventChan chan *entities.AppointmentEvent) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscribers, ok := f.subscribers[channel]
	if !ok {
		return 0
	}
	if _, ok := subscribers[eventChan]; ok {
		delete(subscribers, eventChan)
		close(eventChan)
	}
	if len(subscribers) == 0 {
		delete(f.subscribers, channel)
	}
	return len(subscribers)
}

func (f *fanout) broadcast(channel string, event *entities.AppointmentEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for subscriber := range f.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber channel full, skipping event")
		}
	}
}

func (f *fanout) closeChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for subscriber := range f.subscribers[channel] {
		close(subscriber)
	}
	delete(f.subscribers, channel)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for channel, subscribers := range f.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(f.subscribers, channel)
	}
}
