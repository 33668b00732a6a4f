package relay

// DeliveryMode is the fan-out strategy chosen once per request and then
// dispatched on exhaustively.
type DeliveryMode int

const (
	// ModeBCC sends a single message with every recipient on the Bcc
	// header, rendered once against the global context.
	ModeBCC DeliveryMode = iota
	// ModeIndividual sends one personalized message per recipient,
	// concurrently and without ordering guarantees.
	ModeIndividual
	// ModeIndividualDelayed sends one personalized message per recipient,
	// strictly in input order with a fixed pause between sends.
	ModeIndividualDelayed
)

// SelectMode maps the request flags onto a delivery mode. A positive delay
// always forces sequential individual delivery, even when the individual
// flag is unset.
func SelectMode(individual bool, delaySeconds int) DeliveryMode {
	switch {
	case delaySeconds > 0:
		return ModeIndividualDelayed
	case individual:
		return ModeIndividual
	default:
		return ModeBCC
	}
}

// Individual reports whether the mode produces one message per recipient.
func (m DeliveryMode) Individual() bool {
	return m == ModeIndividual || m == ModeIndividualDelayed
}

func (m DeliveryMode) String() string {
	switch m {
	case ModeIndividual:
		return "individual"
	case ModeIndividualDelayed:
		return "individual_delayed"
	default:
		return "bcc"
	}
}
