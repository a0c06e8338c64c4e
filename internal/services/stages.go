package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yeheskieltame/asisten-backend/internal/models"
	"github.com/yeheskieltame/asisten-backend/internal/storage"
	"github.com/yeheskieltame/asisten-backend/internal/utils"
)

// paymentMethods is the fixed list presented during payment_method.
var paymentMethods = []string{"Transfer Bank", "COD", "E-Wallet"}

// StageRunner dispatches the side effects of a stage transition: one
// outbound message per stage, plus persistence writes in data_saving.
// Invoked exactly once per stage-change event, never on a no-change
// tick.
type StageRunner struct {
	store    storage.Store
	notifier Notifier
	flows    *FlowStore
}

// NewStageRunner creates a stage runner.
func NewStageRunner(store storage.Store, notifier Notifier, flows *FlowStore) *StageRunner {
	return &StageRunner{
		store:    store,
		notifier: notifier,
		flows:    flows,
	}
}

// Run executes the handler for the record's stage. Persistence failures
// abort the turn; notification failures are logged and swallowed.
func (r *StageRunner) Run(ctx context.Context, phone, sessionID string, state models.OrderState) error {
	switch state.Stage {
	case models.StageIdentifyService:
		return r.sendServiceList(ctx, phone)
	case models.StageCustomization:
		return r.askForCustomization(ctx, phone, state.Service)
	case models.StagePriceCalculation:
		return r.calculateAndSendPrice(ctx, phone, sessionID, state.Service)
	case models.StageCustomerData:
		return r.collectCustomerData(ctx, phone, sessionID)
	case models.StagePaymentMethod:
		return r.askForPaymentMethod(phone)
	case models.StageFinalConfirmation:
		return r.sendOrderSummary(phone, sessionID)
	case models.StageDataSaving:
		return r.saveOrderData(ctx, phone, sessionID)
	case models.StageFollowUp:
		return r.sendFollowUp(phone)
	}
	return nil
}

// notify sends a best-effort outbound message. Transport failures are
// logged and discarded, never surfaced to the end user or retried.
func (r *StageRunner) notify(phone, text string) {
	if err := r.notifier.Send(phone, text); err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
	}
}

func (r *StageRunner) sendServiceList(ctx context.Context, phone string) error {
	services, err := r.store.GetSheetData(ctx, storage.SheetServices)
	if err != nil {
		return err
	}

	items := make([]string, 0, len(services))
	for _, row := range services {
		if len(row) > 0 {
			items = append(items, "- "+row[0])
		}
	}

	r.notify(phone, fmt.Sprintf(
		"🚀 Anda ingin memesan jasa? Kami menyediakan:\n%s\n\nSilakan sebutkan layanan yang Anda butuhkan.",
		strings.Join(items, "\n")))
	return nil
}

func (r *StageRunner) askForCustomization(ctx context.Context, phone, serviceName string) error {
	service, err := r.findService(ctx, serviceName)
	if err != nil {
		return err
	}

	// Only customizable services prompt for custom notes.
	if service != nil && service.Customizable {
		r.notify(phone, "🎨 Produk ini bisa disesuaikan. Silakan tambahkan catatan custom Anda.")
	}
	return nil
}

func (r *StageRunner) calculateAndSendPrice(ctx context.Context, phone, sessionID, serviceName string) error {
	service, err := r.findService(ctx, serviceName)
	if err != nil {
		return err
	}
	if service == nil {
		return nil
	}

	total := service.Total()

	var msg strings.Builder
	fmt.Fprintf(&msg, "💰 Harga dasar: %s", FormatRupiah(service.BasePrice))
	if service.DiscountPct > 0 {
		fmt.Fprintf(&msg, "\n🎁 Diskon %v%%: %s",
			service.DiscountPct, FormatRupiah(service.BasePrice*service.DiscountPct/100))
	}
	fmt.Fprintf(&msg, "\n\n💵 Total: %s", FormatRupiah(total))

	// The computed total flows onto the record so the later summary and
	// order row see a real price.
	r.flows.Update(sessionID, func(state *models.OrderState) {
		state.Price = total
	})

	r.notify(phone, msg.String())
	return nil
}

func (r *StageRunner) collectCustomerData(ctx context.Context, phone, sessionID string) error {
	customer, err := r.store.GetCustomerByPhone(ctx, phone)
	if err != nil {
		return err
	}

	if customer != nil {
		r.notify(phone, fmt.Sprintf(
			"👋 Konfirmasi data Anda:\nNama: %s\nEmail: %s\n\nApa data masih benar? (Ya/Tidak)",
			customer.Name, customer.Email))

		r.flows.Update(sessionID, func(state *models.OrderState) {
			state.Customer = models.CustomerData{
				Name:  customer.Name,
				Email: customer.Email,
				Phone: phone,
				IsNew: false,
			}
		})
		return nil
	}

	r.notify(phone,
		"📋 Kami membutuhkan beberapa data untuk melanjutkan:\n1. Nama lengkap\n2. Email\n\nSilakan kirim dalam format:\nNama: [nama Anda]\nEmail: [email Anda]")
	return nil
}

func (r *StageRunner) askForPaymentMethod(phone string) error {
	items := make([]string, len(paymentMethods))
	for i, method := range paymentMethods {
		items[i] = "- " + method
	}
	r.notify(phone, "💳 Pilih metode pembayaran:\n"+strings.Join(items, "\n"))
	return nil
}

func (r *StageRunner) sendOrderSummary(phone, sessionID string) error {
	state := r.flows.Get(sessionID)

	notes := state.CustomNotes
	if notes == "" {
		notes = "-"
	}
	email := state.Customer.Email
	if email == "" {
		email = "-"
	}

	r.notify(phone, fmt.Sprintf(
		"📋 **Order Summary**\n"+
			"* Layanan: %s\n"+
			"* Kustomisasi: %s\n"+
			"* Jumlah: 1\n"+
			"* Total: %s\n"+
			"* Email: %s\n"+
			"\nApakah data sudah benar? Ketik 'YA' untuk proses atau 'UBAH' untuk revisi.",
		state.Service, notes, FormatRupiah(state.Price), email))
	return nil
}

func (r *StageRunner) saveOrderData(ctx context.Context, phone, sessionID string) error {
	state := r.flows.Get(sessionID)

	// New customers get a fresh random id on their row.
	if state.Customer.IsNew {
		_, _, err := r.store.UpsertCustomer(ctx, &models.Customer{
			ID:    utils.NewToken(),
			Name:  state.Customer.Name,
			Phone: phone,
			Email: state.Customer.Email,
		})
		if err != nil {
			return err
		}
	}

	err := r.store.AppendOrder(ctx, &models.Order{
		Date:         time.Now().Format("2006-01-02"),
		CustomerName: state.Customer.Name,
		Email:        state.Customer.Email,
		Service:      state.Service,
		Description:  state.CustomNotes,
		Status:       models.StatusAwaitPayment,
	})
	if err != nil {
		return err
	}

	// The confirmation id is a second, unrelated token. It is shown to
	// the user but never written to the order row, which has no id
	// column at all.
	r.notify(phone, fmt.Sprintf(
		"✅ Order berhasil! ID Order: %s\n\nSilakan bayar ke 087861330910 (DANA).", utils.NewToken()))
	return nil
}

func (r *StageRunner) sendFollowUp(phone string) error {
	r.notify(phone, "🤔 Apakah Anda masih membutuhkan bantuan lainnya?")
	return nil
}

// findService looks a catalog entry up by name, case-insensitively.
func (r *StageRunner) findService(ctx context.Context, name string) (*models.Service, error) {
	services, err := r.store.GetServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, service := range services {
		if strings.EqualFold(service.Name, name) {
			return service, nil
		}
	}
	return nil, nil
}
