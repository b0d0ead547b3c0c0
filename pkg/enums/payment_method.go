package enums

// PaymentMethod is how the buyer pays at checkout. Card and PayPal settle
// immediately, cash on delivery settles on fulfilment.
type PaymentMethod string

const (
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodPayPal         PaymentMethod = "paypal"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodPayPal, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}

// SettlesImmediately reports whether payment is captured at order placement.
func (m PaymentMethod) SettlesImmediately() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodPayPal
}
