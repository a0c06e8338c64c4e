package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeheskieltame/asisten-backend/internal/models"
)

var testServiceNames = []string{"Website", "Chatbot", "AI"}

func TestDetectTransition_OrderInitiation(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantStage string
	}{
		{"order keyword", "saya mau order", models.StageIdentifyService},
		{"pesan keyword", "mau PESAN jasa dong", models.StageIdentifyService},
		{"no keyword", "halo, apa kabar?", models.StageNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := DetectTransition(tt.message, "Halo! Ada yang bisa dibantu?", models.OrderState{}, testServiceNames)
			assert.Equal(t, tt.wantStage, next.Stage)
		})
	}
}

func TestDetectTransition_ServiceSelection(t *testing.T) {
	state := models.OrderState{Stage: models.StageIdentifyService}

	next := DetectTransition("aku butuh website untuk portofolio", "Oke!", state, testServiceNames)
	assert.Equal(t, models.StageCustomization, next.Stage)
	assert.Equal(t, "Website", next.Service)

	// No catalog name in the message keeps the stage put.
	same := DetectTransition("yang bagus yang mana ya?", "Tergantung kebutuhan.", state, testServiceNames)
	assert.Equal(t, models.StageIdentifyService, same.Stage)
	assert.Empty(t, same.Service)
}

func TestDetectTransition_ServiceImmutableOnceSet(t *testing.T) {
	state := models.OrderState{Stage: models.StageIdentifyService, Service: "Chatbot"}

	next := DetectTransition("eh ganti website aja", "Oke", state, testServiceNames)
	assert.Equal(t, "Chatbot", next.Service)
	assert.Equal(t, models.StageIdentifyService, next.Stage)
}

func TestDetectTransition_ResponseGates(t *testing.T) {
	tests := []struct {
		name      string
		stage     string
		message   string
		response  string
		wantStage string
	}{
		{"customization advances on custom", models.StageCustomization, "tambah fitur login", "Bisa custom sesuai kebutuhan!", models.StagePriceCalculation},
		{"customization holds otherwise", models.StageCustomization, "tambah fitur login", "Siap, dicatat ya.", models.StageCustomization},
		{"price advances on total", models.StagePriceCalculation, "ok", "Total harga Rp90.000", models.StageCustomerData},
		{"customer data advances on nama", models.StageCustomerData, "ok", "Boleh minta nama lengkap?", models.StagePaymentMethod},
		{"payment advances on pembayaran", models.StagePaymentMethod, "transfer", "Metode pembayaran dicatat.", models.StageFinalConfirmation},
		{"confirmation needs exact ya", models.StageFinalConfirmation, "ya", "Siap diproses!", models.StageDataSaving},
		{"confirmation rejects longer message", models.StageFinalConfirmation, "ya boleh deh", "Siap!", models.StageFinalConfirmation},
		{"saving advances on berhasil", models.StageDataSaving, "ok", "Order berhasil disimpan!", models.StageFollowUp},
		{"follow up is terminal", models.StageFollowUp, "tidak ada lagi", "Terima kasih! Order ya kalau butuh lagi.", models.StageFollowUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.OrderState{Stage: tt.stage, Service: "Website"}
			next := DetectTransition(tt.message, tt.response, state, testServiceNames)
			assert.Equal(t, tt.wantStage, next.Stage)
		})
	}
}

func TestDetectTransition_NeverMovesBackward(t *testing.T) {
	// Run every gate keyword against every stage: the resulting stage
	// index must never be lower than where it started.
	messages := []string{"order", "pesan", "website", "ya"}
	responses := []string{"custom", "total", "nama", "email", "pembayaran", "berhasil"}

	for _, stage := range models.StageOrder {
		state := models.OrderState{Stage: stage, Service: "Website"}
		from := models.StageIndex(stage)
		for _, msg := range messages {
			for _, resp := range responses {
				next := DetectTransition(msg, resp, state, testServiceNames)
				assert.GreaterOrEqual(t, models.StageIndex(next.Stage), from,
					"stage %q regressed to %q on message %q / response %q", stage, next.Stage, msg, resp)
			}
		}
	}
}

func TestDetectTransition_ParsesCustomerReply(t *testing.T) {
	state := models.OrderState{Stage: models.StageCustomerData, Service: "Website"}

	next := DetectTransition(
		"Nama: Budi Santoso\nEmail: budi@example.com",
		"Terima kasih! Nama dan email sudah dicatat.",
		state, testServiceNames)

	assert.Equal(t, models.StagePaymentMethod, next.Stage)
	assert.Equal(t, "Budi Santoso", next.Customer.Name)
	assert.Equal(t, "budi@example.com", next.Customer.Email)
	assert.True(t, next.Customer.IsNew)
}

func TestDetectTransition_KeepsExistingCustomer(t *testing.T) {
	state := models.OrderState{
		Stage: models.StageCustomerData,
		Customer: models.CustomerData{
			Name: "Siti", Email: "siti@example.com", Phone: "0811", IsNew: false,
		},
	}

	next := DetectTransition("Nama: Budi\nEmail: budi@example.com", "oke", state, testServiceNames)
	assert.Equal(t, "Siti", next.Customer.Name, "registered customer data must not be overwritten")
}

func TestFlowStore_UpdatePath(t *testing.T) {
	flows := NewFlowStore()
	flows.Set("s1", models.OrderState{Stage: models.StagePriceCalculation, Service: "Website"})

	flows.Update("s1", func(state *models.OrderState) {
		state.Price = 90000
	})

	got := flows.Get("s1")
	assert.Equal(t, 90000.0, got.Price)
	assert.Equal(t, models.StagePriceCalculation, got.Stage)

	// Absent sessions read as the zero record.
	assert.Equal(t, models.OrderState{}, flows.Get("unknown"))
}
