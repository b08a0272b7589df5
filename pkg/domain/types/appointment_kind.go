package types

// AppointmentKind distinguishes hearings from mediation sessions
type AppointmentKind string

const (
	AppointmentHearing   AppointmentKind = "hearing"
	AppointmentMediation AppointmentKind = "mediation"
)

func (k AppointmentKind) String() string {
	return string(k)
}
