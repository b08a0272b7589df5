package types

// HistoryAction labels an entry of the case audit trail
type HistoryAction string

const (
	HistoryFiled              HistoryAction = "filed"
	HistoryAssigned           HistoryAction = "assigned"
	HistoryMandateDecided     HistoryAction = "mandate_decided"
	HistoryDocumentsAdded     HistoryAction = "documents_added"
	HistoryEvidenceRequested  HistoryAction = "evidence_requested"
	HistoryHearingScheduled   HistoryAction = "hearing_scheduled"
	HistoryMediationScheduled HistoryAction = "mediation_scheduled"
	HistoryDecisionRecorded   HistoryAction = "decision_recorded"
	HistoryStageAdvanced      HistoryAction = "stage_advanced"
	HistoryAttendance         HistoryAction = "attendance"
	HistoryRescheduleRequest  HistoryAction = "reschedule_requested"
	HistoryRescheduleApplied  HistoryAction = "reschedule_applied"
	HistoryRescheduleDeclined HistoryAction = "reschedule_declined"
)

func (a HistoryAction) String() string {
	return string(a)
}
