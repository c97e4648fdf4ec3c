package currency

// USD is the ledger currency: every amount is normalized to it before the
// gateway records anything.
const USD = "USD"

// Conversion is a display-currency amount produced from a USD value.
type Conversion struct {
	Value    float64
	Currency string
}
