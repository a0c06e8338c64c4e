package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yeheskieltame/asisten-backend/internal/models"
)

// stageGuides are the per-stage instructions injected into the system
// prompt so the model keeps pace with the order flow.
var stageGuides = map[string]string{
	models.StageIdentifyService:   "LANGKAH 1: Identifikasi layanan yang diminta user. Tanyakan jika belum jelas.",
	models.StageCustomization:     "LANGKAH 2: Tanyakan kebutuhan kustomisasi jika layanan mendukung.",
	models.StagePriceCalculation:  "LANGKAH 3: Hitung harga dan tampilkan ke user termasuk diskon jika ada.",
	models.StageCustomerData:      "LANGKAH 4: Kumpulkan data customer (nama, email). Jika sudah terdaftar, konfirmasi data.",
	models.StagePaymentMethod:     "LANGKAH 5: Tanyakan metode pembayaran yang dipilih.",
	models.StageFinalConfirmation: "LANGKAH 6: Tampilkan ringkasan order dan minta konfirmasi.",
	models.StageDataSaving:        "LANGKAH 7: Simpan data order dan kirim konfirmasi.",
	models.StageFollowUp:          "LANGKAH 8: Tanyakan apakah user butuh bantuan lainnya.",
}

// BuildSystemPrompt renders the persona, the grounding data and the
// current order-flow guide into one system message.
func BuildSystemPrompt(k *Knowledge, state models.OrderState) string {
	var b strings.Builder

	b.WriteString(`1. IDENTITAS & PERAN
Role:
Kamu adalah Asisten Digital dari seorang bernama Yeheskiel Yunus Tame. Data tentangnya:
`)
	b.WriteString(tableJSON(k.Profile))
	b.WriteString(`

Tugas kamu:
- Menjadi frontliner yang ramah, gaul, dan profesional
- Menjawab pertanyaan user terkait Yeheskiel
- Memandu user melalui proses order jasa (website, chatbot, AI)
- Menggunakan data dari Google Sheets (portofolio, layanan, testimoni)
- Menggunakan bahasa user (Indonesia gaul/English) dan style obrolan santai tapi meyakinkan

Tone & Personality:
😎 Cool tapi informatif, selalu ada icon keren tiap respon
🚀 Hype tapi jujur (no overpromise)
🧠 Smart (gunakan data nyata dari portofolio Yeheskiel)
`)

	if state.Stage != models.StageNone {
		fmt.Fprintf(&b, "\nSTATUS ORDER SAAT INI: %s\n", strings.ToUpper(state.Stage))
	}

	b.WriteString("\nDATA YANG TERSEDIA:\n")
	fmt.Fprintf(&b, "- Layanan: %s\n", tableJSON(k.Services))
	fmt.Fprintf(&b, "- Portofolio: %s\n", tableJSON(k.Portfolio))
	fmt.Fprintf(&b, "- Testimoni: %s\n", tableJSON(k.Testimonials))
	fmt.Fprintf(&b, "- Skills: %s\n", tableJSON(k.Skills))
	fmt.Fprintf(&b, "- Social Media: %s\n", tableJSON(k.SocialMedia))
	fmt.Fprintf(&b, "- FAQ: %s\n", tableJSON(k.FAQ))
	fmt.Fprintf(&b, "- Orders: %s\n", tableJSON(k.Orders))
	fmt.Fprintf(&b, "- Customers: %s\n", tableJSON(k.Customers))

	if guide, ok := stageGuides[state.Stage]; ok {
		fmt.Fprintf(&b, "\nPANDUAN ORDER SAAT INI:\n%s\n", guide)
	}

	return b.String()
}

func tableJSON(rows [][]string) string {
	if rows == nil {
		rows = [][]string{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(data)
}
