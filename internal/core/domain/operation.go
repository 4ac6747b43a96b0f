package domain

// Operation names a user-triggered session operation.
type Operation string

// Session operations.
const (
	OpSendMessage          Operation = "send_message"
	OpStart                Operation = "start"
	OpApplyFeedback        Operation = "apply_feedback"
	OpClassify             Operation = "classify"
	OpGenerateStories      Operation = "generate_stories"
	OpIdentifyStakeholders Operation = "identify_stakeholders"
	OpGenerateReport       Operation = "generate_report"
	OpSpeak                Operation = "speak"
	OpEditRequirement      Operation = "edit_requirement"
	OpDeleteRequirement    Operation = "delete_requirement"
)

// String returns the string representation.
func (o Operation) String() string {
	return string(o)
}

// FailureTitle is the notification title shown when the operation fails.
func (o Operation) FailureTitle() string {
	switch o {
	case OpClassify:
		return "Classification Failed"
	case OpGenerateStories:
		return "Failed to Generate User Stories"
	case OpIdentifyStakeholders:
		return "Failed to Identify Stakeholders"
	case OpGenerateReport:
		return "Failed to Generate Report"
	case OpSpeak:
		return "Failed to generate audio"
	case OpApplyFeedback:
		return "Failed to Update Requirements"
	default:
		return "An Error Occurred"
	}
}

// Assistant messages appended after successful operations.
const (
	MsgClassified      = "I've classified the requirements and updated the repository. You can view the classified requirements on the dashboard or generate user stories from them."
	MsgStories         = "Here are the user stories I've generated based on the functional requirements:"
	MsgNoStories       = "There were no functional requirements to generate user stories from."
	MsgStakeholders    = "Here are the potential stakeholders I've identified based on the requirements:"
	MsgReport          = "I've generated the full report: requirements are classified and sorted, with user stories and stakeholders."
	MsgSpeaking        = "I'm reading the requirements out loud now."
	MsgFeedbackApplied = "I've updated the requirements based on your feedback."
)
