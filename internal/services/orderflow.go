package services

import (
	"regexp"
	"strings"
	"sync"

	"github.com/yeheskieltame/asisten-backend/internal/models"
)

// FlowStore maps session ids to their order-in-progress record. It is
// the only owner of order state: stage handlers mutate records through
// Update, never through a private copy that could race with the next
// inbound message.
type FlowStore struct {
	mu     sync.RWMutex
	states map[string]models.OrderState
}

// NewFlowStore creates an empty flow store.
func NewFlowStore() *FlowStore {
	return &FlowStore{
		states: make(map[string]models.OrderState),
	}
}

// Get returns the session's order record, or the zero record (stage
// none) when no order is in progress.
func (f *FlowStore) Get(sessionID string) models.OrderState {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.states[sessionID]
}

// Set replaces the session's order record.
func (f *FlowStore) Set(sessionID string, state models.OrderState) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.states[sessionID] = state
}

// Update mutates the session's order record in place under the store's
// lock. This is the handlers' mutation path.
func (f *FlowStore) Update(sessionID string, fn func(*models.OrderState)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.states[sessionID]
	fn(&state)
	f.states[sessionID] = state
}

// Delete removes the session's order record.
func (f *FlowStore) Delete(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.states, sessionID)
}

// customerReplyRe matches the "Nama: ... / Email: ..." format the
// customer_data stage asks new customers to reply in.
var customerReplyRe = regexp.MustCompile(`(?is)nama\s*:\s*(.+?)\s*email\s*:\s*(\S+)`)

// DetectTransition classifies a message/response pair into an
// order-flow stage transition. Pure and total: no side effects, always
// returns a record, possibly unchanged.
//
// Transitions are content-sniffing, not authoritative: each one is
// gated by a case-insensitive substring match against either the
// inbound message or the generated response, so a false-positive match
// silently advances the flow. There is no rejection or rollback branch.
// serviceNames is the catalog vocabulary (LAYANAN column 0).
func DetectTransition(message, response string, state models.OrderState, serviceNames []string) models.OrderState {
	lowerMessage := strings.ToLower(message)
	lowerResponse := strings.ToLower(response)

	next := state

	// Order initiation.
	if state.Stage == models.StageNone {
		if strings.Contains(lowerMessage, "order") || strings.Contains(lowerMessage, "pesan") {
			next.Stage = models.StageIdentifyService
		}
		return next
	}

	switch state.Stage {
	case models.StageIdentifyService:
		if state.Service != "" {
			break
		}
		for _, name := range serviceNames {
			if name != "" && strings.Contains(lowerMessage, strings.ToLower(name)) {
				next.Service = name
				next.Stage = models.StageCustomization
				break
			}
		}

	case models.StageCustomization:
		if strings.Contains(lowerResponse, "custom") {
			if next.CustomNotes == "" {
				// The message that triggers the advance is the user's
				// customization request.
				next.CustomNotes = strings.TrimSpace(message)
			}
			next.Stage = models.StagePriceCalculation
		}

	case models.StagePriceCalculation:
		if strings.Contains(lowerResponse, "total") {
			next.Stage = models.StageCustomerData
		}

	case models.StageCustomerData:
		// A reply in the requested "Nama: / Email:" format registers a
		// new customer on the record before any stage change.
		if !state.HasCustomer() {
			if m := customerReplyRe.FindStringSubmatch(message); m != nil {
				next.Customer = models.CustomerData{
					Name:  strings.TrimSpace(m[1]),
					Email: strings.TrimSpace(m[2]),
					IsNew: true,
				}
			}
		}
		if strings.Contains(lowerResponse, "nama") || strings.Contains(lowerResponse, "email") {
			next.Stage = models.StagePaymentMethod
		}

	case models.StagePaymentMethod:
		if strings.Contains(lowerResponse, "pembayaran") {
			next.Stage = models.StageFinalConfirmation
		}

	case models.StageFinalConfirmation:
		if lowerMessage == "ya" {
			next.Stage = models.StageDataSaving
		}

	case models.StageDataSaving:
		if strings.Contains(lowerResponse, "berhasil") {
			next.Stage = models.StageFollowUp
		}
	}

	return next
}
