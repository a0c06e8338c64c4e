package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
	"github.com/yeheskieltame/asisten-backend/internal/models"
	"github.com/yeheskieltame/asisten-backend/internal/storage"
)

// scriptedGenerator returns canned responses in order.
type scriptedGenerator struct {
	responses []string
	calls     int
	err       error
}

func (g *scriptedGenerator) Complete(_ context.Context, _ string, _ []models.Turn, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	resp := g.responses[g.calls%len(g.responses)]
	g.calls++
	return resp, nil
}

// captureNotifier records every outbound message.
type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *captureNotifier) Send(_, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
	return nil
}

func (n *captureNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

// failingStore fails every sheet read.
type failingStore struct {
	*storage.MemoryStore
}

func (f *failingStore) GetSheetData(context.Context, string) ([][]string, error) {
	return nil, fmt.Errorf("quota exceeded")
}

func seededStore() *storage.MemoryStore {
	store := storage.NewMemoryStore()
	store.Seed(storage.SheetServices, [][]string{
		{"Website", "100000", "10", "Yes"},
		{"Chatbot", "200000", "0", "No"},
		{"AI", "500000", "5", "Yes"},
	})
	return store
}

func TestAgent_OrderInitiationScenario(t *testing.T) {
	store := seededStore()
	notifier := &captureNotifier{}
	gen := &scriptedGenerator{responses: []string{"Tentu, mau pesan apa? 😎"}}
	agent := NewAgent(store, gen, notifier)

	response, err := agent.ProcessChatMessage(context.Background(), "saya mau order", "sess-1", "0811111111")
	require.NoError(t, err)
	assert.Equal(t, "Tentu, mau pesan apa? 😎", response)

	assert.Equal(t, models.StageIdentifyService, agent.Flows().Get("sess-1").Stage)

	sent := notifier.messages()
	require.Len(t, sent, 1, "service-list handler must send exactly one message")
	assert.Contains(t, sent[0], "- Website")
	assert.Contains(t, sent[0], "- Chatbot")
	assert.Contains(t, sent[0], "- AI")
}

func TestAgent_NoChangeTickIsNoOp(t *testing.T) {
	store := seededStore()
	notifier := &captureNotifier{}
	gen := &scriptedGenerator{responses: []string{"Siap!"}}
	agent := NewAgent(store, gen, notifier)

	_, err := agent.ProcessChatMessage(context.Background(), "saya mau order", "sess-1", "0811111111")
	require.NoError(t, err)

	// The triggering substring persists but the stage does not change,
	// so no handler fires again.
	_, err = agent.ProcessChatMessage(context.Background(), "iya saya mau order", "sess-1", "0811111111")
	require.NoError(t, err)

	assert.Len(t, notifier.messages(), 1)
	assert.Equal(t, models.StageIdentifyService, agent.Flows().Get("sess-1").Stage)
}

func TestAgent_GenerationFailure(t *testing.T) {
	store := seededStore()
	notifier := &captureNotifier{}
	gen := &scriptedGenerator{err: apperrors.NewGenerationError(fmt.Errorf("rate limited"))}
	agent := NewAgent(store, gen, notifier)

	response, err := agent.ProcessChatMessage(context.Background(), "saya mau order", "sess-1", "0811111111")
	require.NoError(t, err, "generation failures are swallowed")
	assert.Equal(t, FallbackResponse, response)

	// No stage transition on a fallback turn, no handler dispatch.
	assert.Equal(t, models.StageNone, agent.Flows().Get("sess-1").Stage)
	assert.Empty(t, notifier.messages())

	// The history still records the fallback as the assistant turn.
	history := agent.Memory().History("sess-1")
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "saya mau order", history[0].Content)
	assert.Equal(t, models.RoleAssistant, history[1].Role)
	assert.Equal(t, FallbackResponse, history[1].Content)
}

func TestAgent_RetrievalFailureFailsTurn(t *testing.T) {
	store := &failingStore{storage.NewMemoryStore()}
	notifier := &captureNotifier{}
	gen := &scriptedGenerator{responses: []string{"halo"}}
	agent := NewAgent(store, gen, notifier)

	_, err := agent.ProcessChatMessage(context.Background(), "halo", "sess-1", "0811111111")
	require.Error(t, err)

	var retrieval *apperrors.RetrievalError
	assert.True(t, errors.As(err, &retrieval))
	assert.Empty(t, agent.Memory().History("sess-1"), "a failed turn records nothing")
}

func TestAgent_HistoryAppendsUserThenAssistant(t *testing.T) {
	store := seededStore()
	gen := &scriptedGenerator{responses: []string{"Halo juga!"}}
	agent := NewAgent(store, gen, &captureNotifier{})

	_, err := agent.ProcessChatMessage(context.Background(), "halo", "sess-1", "0811111111")
	require.NoError(t, err)
	_, err = agent.ProcessChatMessage(context.Background(), "apa kabar?", "sess-1", "0811111111")
	require.NoError(t, err)

	history := agent.Memory().History("sess-1")
	require.Len(t, history, 4)
	assert.Equal(t, []models.Turn{
		{Role: models.RoleUser, Content: "halo"},
		{Role: models.RoleAssistant, Content: "Halo juga!"},
		{Role: models.RoleUser, Content: "apa kabar?"},
		{Role: models.RoleAssistant, Content: "Halo juga!"},
	}, history)
}

// TestAgent_FullOrderFlow walks the happy path end to end and checks
// that the observed stages form the documented forward sequence and
// that data_saving persists both rows.
func TestAgent_FullOrderFlow(t *testing.T) {
	store := seededStore()
	notifier := &captureNotifier{}
	gen := &scriptedGenerator{responses: []string{""}}
	agent := NewAgent(store, gen, notifier)

	ctx := context.Background()
	const session = "sess-flow"
	const phone = "0811111111"

	turns := []struct {
		message   string
		response  string
		wantStage string
	}{
		{"saya mau order", "Tentu! Mau jasa apa?", models.StageIdentifyService},
		{"website dong", "Pilihan mantap!", models.StageCustomization},
		{"tambah halaman galeri", "Bisa custom sesuai kebutuhan.", models.StagePriceCalculation},
		{"ok", "Berikut total harganya ya.", models.StageCustomerData},
		{"Nama: Budi Santoso\nEmail: budi@example.com", "Nama dan email sudah dicatat.", models.StagePaymentMethod},
		{"transfer bank", "Metode pembayaran kamu sudah dipilih.", models.StageFinalConfirmation},
		{"ya", "Siap, diproses sekarang!", models.StageDataSaving},
		{"makasih", "Order kamu berhasil disimpan!", models.StageFollowUp},
	}

	for i, turn := range turns {
		gen.responses = []string{turn.response}
		_, err := agent.ProcessChatMessage(ctx, turn.message, session, phone)
		require.NoError(t, err, "turn %d", i)
		assert.Equal(t, turn.wantStage, agent.Flows().Get(session).Stage, "turn %d", i)
	}

	state := agent.Flows().Get(session)
	assert.Equal(t, "Website", state.Service)
	assert.Equal(t, 90000.0, state.Price, "price flows from the price_calculation total")
	assert.Equal(t, "Budi Santoso", state.Customer.Name)
	assert.Equal(t, phone, state.Customer.Phone)

	// data_saving appended the new customer and the order row.
	customer, err := store.GetCustomerByPhone(ctx, phone)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "Budi Santoso", customer.Name)
	assert.Len(t, customer.ID, 8)

	orders, err := store.GetSheetData(ctx, storage.SheetOrders)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0], 8)
	assert.Equal(t, "Budi Santoso", orders[0][1])
	assert.Equal(t, "budi@example.com", orders[0][2])
	assert.Equal(t, "Website", orders[0][3])
	assert.Equal(t, models.DefaultPackage, orders[0][4])
	assert.Equal(t, "tambah halaman galeri", orders[0][5])
	assert.Equal(t, models.StatusAwaitPayment, orders[0][7])

	// One outbound message per stage-change event, eight stages total.
	assert.Len(t, notifier.messages(), 8)
}
