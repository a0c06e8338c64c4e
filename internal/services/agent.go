package services

import (
	"context"
	"log"
	"sync"

	"github.com/yeheskieltame/asisten-backend/internal/models"
	"github.com/yeheskieltame/asisten-backend/internal/storage"
)

// FallbackResponse replaces the assistant turn when the completion call
// fails. No stage transition is taken on such a turn.
const FallbackResponse = "Maaf, saya tidak bisa memproses permintaan Anda saat ini."

// Agent is the conversation/order orchestration engine. One logical
// turn per inbound message: fetch grounding data, generate a response,
// classify the stage transition, dispatch the stage handler, record the
// turn. Turns for the same session are serialized; sessions are
// independent.
type Agent struct {
	store     storage.Store
	generator Generator
	memory    *SessionMemory
	flows     *FlowStore
	stages    *StageRunner

	locks sync.Map // session id -> *sync.Mutex
}

// NewAgent wires the orchestrator.
func NewAgent(store storage.Store, generator Generator, notifier Notifier) *Agent {
	flows := NewFlowStore()
	return &Agent{
		store:     store,
		generator: generator,
		memory:    NewSessionMemory(),
		flows:     flows,
		stages:    NewStageRunner(store, notifier, flows),
	}
}

// Memory exposes the session memory, for monitoring.
func (a *Agent) Memory() *SessionMemory {
	return a.memory
}

// Flows exposes the order-flow store.
func (a *Agent) Flows() *FlowStore {
	return a.flows
}

func (a *Agent) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := a.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ProcessChatMessage runs one conversation turn. Retrieval and
// persistence failures abort the turn and propagate upward; generation
// failures are swallowed and replaced with the fixed apology turn.
func (a *Agent) ProcessChatMessage(ctx context.Context, message, sessionID, phone string) (string, error) {
	mu := a.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	knowledge, err := FetchKnowledge(ctx, a.store)
	if err != nil {
		return "", err
	}

	state := a.flows.Get(sessionID)
	systemPrompt := BuildSystemPrompt(knowledge, state)
	history := a.memory.History(sessionID)

	response, err := a.generator.Complete(ctx, systemPrompt, history, message)
	if err != nil {
		log.Printf("❌ Completion failed for session %s: %v", sessionID, err)
		response = FallbackResponse
		a.memory.Append(sessionID,
			models.Turn{Role: models.RoleUser, Content: message},
			models.Turn{Role: models.RoleAssistant, Content: response},
		)
		return response, nil
	}

	next := DetectTransition(message, response, state, knowledge.ServiceNames())
	if next.Customer.IsNew && next.Customer.Phone == "" {
		// Phone always equals the sending address.
		next.Customer.Phone = phone
	}

	if next.Stage != state.Stage {
		log.Printf("📦 Session %s: stage %q → %q", sessionID, state.Stage, next.Stage)
		// Save before dispatch so handler mutations through the update
		// path land on the advanced record.
		a.flows.Set(sessionID, next)
		if err := a.stages.Run(ctx, phone, sessionID, next); err != nil {
			// A failed handler aborts the turn; the record stays where
			// it was so the next message can retry the transition.
			a.flows.Set(sessionID, state)
			return "", err
		}
	} else if next != state {
		a.flows.Set(sessionID, next)
	}

	a.memory.Append(sessionID,
		models.Turn{Role: models.RoleUser, Content: message},
		models.Turn{Role: models.RoleAssistant, Content: response},
	)

	return response, nil
}
