package ui

import "fmt"

const (
	MsgReplyRequired       = "Reply to the offender's message to use this command"
	MsgAdminsOnly          = "Only group admins can do that"
	MsgRoleCheckFailed     = "Could not verify your role"
	MsgCannotKickBot       = "The bot cannot kick itself"
	MsgChooseReason        = "Choose a reason for the kick"
	MsgCannotParseReason   = "Cannot parse reason"
	MsgNoPendingKick       = "No pending kick for this button"
	MsgWrongOperator       = "Only the originating admin may choose a reason"
	MsgReasonSaved         = "Reason recorded"
	MsgAwaitingCustom      = "Waiting for your reason"
	MsgEnterCustomReason   = "Send the reason as a plain message"
	MsgCustomReasonEmpty   = "Reason cannot be empty, try again"
	MsgAuditWriteFailed    = "Failed to write the audit log"
	MsgNoKicksRecorded     = "No kicks recorded yet"
	MsgDurationRequired    = "Duration must be positive, e.g. /j 1d 2h 30m"
	MsgExportFailed        = "Failed to export the audit log"
	MsgExportCaption       = "Kick audit log"
)

func KickConfirmation(target string) string {
	return fmt.Sprintf("%s has been kicked", target)
}

func KickFailed(err error) string {
	return fmt.Sprintf("Failed to kick: %v", err)
}

func ReasonRecorded(target, reason string) string {
	return fmt.Sprintf("Recorded kick of %s: %s", target, reason)
}

func MuteConfirmation(target, span string) string {
	return fmt.Sprintf("%s muted for %s", target, span)
}

func MuteFailed(err error) string {
	return fmt.Sprintf("Failed to mute: %v", err)
}

func UnmuteConfirmation(target string) string {
	return fmt.Sprintf("%s can speak again", target)
}

func UnmuteFailed(err error) string {
	return fmt.Sprintf("Failed to unmute: %v", err)
}
