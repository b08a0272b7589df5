package types

// ClosedReason explains how a case reached the resolved stage
type ClosedReason string

const (
	ClosedReasonNone           ClosedReason = ""
	ClosedReasonDecided        ClosedReason = "decided"
	ClosedReasonOutsideMandate ClosedReason = "outside_mandate"
)

func (r ClosedReason) String() string {
	return string(r)
}
