package broadcast

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/rga610/citizen-reporting-react/internal/models"
	"github.com/rga610/citizen-reporting-react/internal/services"
)

// Event types delivered on every tick, in this order.
const (
	EventCoop       = "coop"
	EventComp       = "comp"
	EventIndividual = "individual"
	EventPeriod     = "period"
)

type CoopEvent struct {
	Type  string `json:"type"`
	Found int    `json:"found"`
	Total int    `json:"total"`
}

type CompEvent struct {
	Type        string                      `json:"type"`
	Leaderboard []services.LeaderboardEntry `json:"leaderboard"`
	GroupSize   int                         `json:"group_size"`
	ViewerRank  int                         `json:"viewer_rank"`
	ViewerScore int                         `json:"viewer_score"`
}

type IndividualEvent struct {
	Type    string `json:"type"`
	MyCount int    `json:"my_count"`
}

type PeriodEvent struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
}

// Subscriber is one connected live client. ParticipantID is empty when the
// request carried no resolvable identity; TreatmentHint is the query-param
// fallback used only in that case.
type Subscriber struct {
	Slot          int
	ParticipantID string
	TreatmentHint string
	ch            chan any
}

// Events delivers the per-tick messages. The channel closes when the hub
// stops; a slow consumer loses events instead of stalling the tick.
func (s *Subscriber) Events() <-chan any {
	return s.ch
}

// Hub runs one aggregation pass per slot per tick and fans the computed
// views out to every subscriber, so query cost scales with the number of
// treatment groups rather than the number of connected clients.
type Hub struct {
	mu       sync.RWMutex
	subs     map[*Subscriber]bool
	sessions *services.SessionService
	feedback *services.FeedbackService
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewHub(sessions *services.SessionService, feedback *services.FeedbackService, interval time.Duration) *Hub {
	return &Hub{
		subs:     make(map[*Subscriber]bool),
		sessions: sessions,
		feedback: feedback,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Start() {
	go h.run()
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.tick(time.Now())
		case <-h.stop:
			h.closeAll()
			return
		}
	}
}

func (h *Hub) Subscribe(slot int, participantID, treatmentHint string) *Subscriber {
	sub := &Subscriber{
		Slot:          slot,
		ParticipantID: participantID,
		TreatmentHint: treatmentHint,
		ch:            make(chan any, 16),
	}

	h.mu.Lock()
	h.subs[sub] = true
	total := len(h.subs)
	h.mu.Unlock()

	log.Printf("broadcast: client subscribed to slot %d (total: %d)", slot, total)
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if h.subs[sub] {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
	log.Printf("broadcast: client unsubscribed from slot %d", sub.Slot)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		close(sub.ch)
		delete(h.subs, sub)
	}
}

// slotView is one aggregation pass over a slot's active session. All
// subscribers of the slot are served from the same view; per-group data is
// computed once per group, never per client.
type slotView struct {
	session      *models.Session
	found        int
	total        int
	leaderboards map[string][]services.LeaderboardEntry
	participants map[string]*models.Participant
	period       int
}

func (h *Hub) tick(now time.Time) {
	h.mu.RLock()
	bySlot := make(map[int][]*Subscriber)
	for sub := range h.subs {
		bySlot[sub.Slot] = append(bySlot[sub.Slot], sub)
	}
	h.mu.RUnlock()

	for slot, subs := range bySlot {
		view, err := h.buildView(slot, now)
		if err != nil {
			log.Printf("broadcast: slot %d aggregation failed: %v", slot, err)
			continue
		}
		if view == nil {
			continue
		}
		for _, sub := range subs {
			h.deliver(sub, view)
		}
	}
}

func (h *Hub) buildView(slot int, now time.Time) (*slotView, error) {
	session, err := h.sessions.Active(slot)
	if err != nil {
		if errors.Is(err, services.ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}

	found, total, err := h.feedback.CooperativeProgress(session)
	if err != nil {
		return nil, err
	}

	view := &slotView{
		session:      session,
		found:        found,
		total:        total,
		leaderboards: make(map[string][]services.LeaderboardEntry),
		participants: make(map[string]*models.Participant),
		period:       services.PeriodID(session.StartTs, now),
	}

	for _, treatment := range models.Treatments {
		entries, err := h.feedback.GroupLeaderboard(session.ID, treatment, 0)
		if err != nil {
			return nil, err
		}
		view.leaderboards[treatment] = entries
	}

	roster, err := h.feedback.SessionParticipants(session.ID)
	if err != nil {
		return nil, err
	}
	for i := range roster {
		view.participants[roster[i].ID] = &roster[i]
	}

	return view, nil
}

// deliver composes the subscriber's messages from the shared view. The
// viewer's treatment is re-resolved every tick: identity first, query hint
// only as fallback. Unresolved viewers get an empty leaderboard rather than
// another group's data.
func (h *Hub) deliver(sub *Subscriber, view *slotView) {
	treatment := ""
	var viewer *models.Participant
	if sub.ParticipantID != "" {
		if p, ok := view.participants[sub.ParticipantID]; ok {
			viewer = p
			treatment = p.Treatment
		}
	}
	if treatment == "" && models.ValidTreatment(sub.TreatmentHint) {
		treatment = sub.TreatmentHint
	}

	h.send(sub, CoopEvent{Type: EventCoop, Found: view.found, Total: view.total})

	comp := CompEvent{Type: EventComp, Leaderboard: []services.LeaderboardEntry{}}
	if treatment != "" {
		entries := view.leaderboards[treatment]
		comp.Leaderboard = entries
		comp.GroupSize = len(entries)
		if viewer != nil {
			for i, e := range entries {
				if e.PublicCode == viewer.PublicCode {
					comp.ViewerRank = i + 1
					comp.ViewerScore = e.TotalReports
					break
				}
			}
		}
	}
	h.send(sub, comp)

	if viewer != nil {
		h.send(sub, IndividualEvent{Type: EventIndividual, MyCount: viewer.TotalReports})
	}

	h.send(sub, PeriodEvent{Type: EventPeriod, ID: view.period})
}

// send never blocks the tick and never races Unsubscribe's channel close:
// membership is re-checked under the hub lock.
func (h *Hub) send(sub *Subscriber, ev any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.subs[sub] {
		return
	}
	select {
	case sub.ch <- ev:
	default:
	}
}
