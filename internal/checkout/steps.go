package checkout

// Step identifies one screen of the donation wizard. Steps are matched by
// value, never by localized title.
type Step string

const (
	StepAmount        Step = "amount"
	StepBillingDay    Step = "billing_day"
	StepTeamSupport   Step = "team_support"
	StepPaymentFees   Step = "payment_fees"
	StepConfirmation  Step = "confirmation"
	StepPaymentMethod Step = "payment_method"
	StepPaymentInfo   Step = "payment_info"
)

// ComputeSteps maps (donation kind, entry context) to the ordered step list.
//
// Cart checkouts are always one-time and take their amount from the cart
// subtotal, so the amount and billing-day steps are omitted. Category
// quick-donate sessions are monthly-only but skip the billing-day step.
func ComputeSteps(kind Kind, entry EntryContext) []Step {
	if entry.Mode == ModeCart {
		return []Step{
			StepTeamSupport,
			StepPaymentFees,
			StepConfirmation,
			StepPaymentMethod,
			StepPaymentInfo,
		}
	}

	if entry.Mode == ModeCategory {
		return []Step{
			StepAmount,
			StepTeamSupport,
			StepPaymentFees,
			StepConfirmation,
			StepPaymentMethod,
			StepPaymentInfo,
		}
	}

	if kind == KindMonthly {
		return []Step{
			StepAmount,
			StepBillingDay,
			StepTeamSupport,
			StepPaymentFees,
			StepConfirmation,
			StepPaymentMethod,
			StepPaymentInfo,
		}
	}

	return []Step{
		StepAmount,
		StepTeamSupport,
		StepPaymentFees,
		StepConfirmation,
		StepPaymentMethod,
		StepPaymentInfo,
	}
}
