package models

// Order flow stages, in the order the flow advances through them.
// StageNone is the implicit initial stage: a session without an order
// in progress has no record at all. StageFollowUp is a dangling
// terminal - the flow never returns to StageNone after it.
const (
	StageNone              = ""
	StageIdentifyService   = "identify_service"
	StageCustomization     = "customization"
	StagePriceCalculation  = "price_calculation"
	StageCustomerData      = "customer_data"
	StagePaymentMethod     = "payment_method"
	StageFinalConfirmation = "final_confirmation"
	StageDataSaving        = "data_saving"
	StageFollowUp          = "follow_up"
)

// StageOrder lists the stages in flow order, used to assert that a
// session's stage only ever moves forward.
var StageOrder = []string{
	StageNone,
	StageIdentifyService,
	StageCustomization,
	StagePriceCalculation,
	StageCustomerData,
	StagePaymentMethod,
	StageFinalConfirmation,
	StageDataSaving,
	StageFollowUp,
}

// StageIndex returns the position of a stage in the flow, or -1 for an
// unknown stage.
func StageIndex(stage string) int {
	for i, s := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// CustomerData is the customer identity attached to an order in
// progress. Phone always equals the sending address. IsNew marks
// whether the customer still has to be written to the Customers sheet
// during data_saving. The zero value means "not collected yet".
type CustomerData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	IsNew bool   `json:"is_new"`
}

// OrderState is the single order-in-progress record of a session. It is
// owned by the flow store; stage handlers must mutate it through the
// store's update path, never through a private copy.
type OrderState struct {
	Stage         string       `json:"stage"`
	Service       string       `json:"service,omitempty"`
	CustomNotes   string       `json:"custom_notes,omitempty"`
	Price         float64      `json:"price,omitempty"`
	Customer      CustomerData `json:"customer_data,omitempty"`
	PaymentMethod string       `json:"payment_method,omitempty"`
}

// HasCustomer reports whether customer data has been collected.
func (s OrderState) HasCustomer() bool {
	return s.Customer != (CustomerData{})
}
