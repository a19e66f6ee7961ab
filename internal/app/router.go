package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/enums"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/model"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/infra/telegram"
	auditsvc "github.com/shelvinliu/banlogger-bot-sub000/internal/services/audit"
	moderationsvc "github.com/shelvinliu/banlogger-bot-sub000/internal/services/moderation"
	"github.com/shelvinliu/banlogger-bot-sub000/internal/ui"
)

const (
	callbackPrefixKick   = "kick"
	callbackActionReason = "reason"
)

const reasonButtonsPerRow = 3

func (a *App) routeUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		a.routeMessage(ctx, update.Message)
	}

	if update.CallbackQuery != nil {
		a.handleReasonCallback(ctx, update.CallbackQuery)
	}
}

func (a *App) routeMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	if message.IsCommand() {
		// Commands are matched case-insensitively, so /Unmute works too.
		switch strings.ToLower(message.Command()) {
		case "f", "kick":
			a.handleKick(ctx, message)
		case "j", "mute":
			a.handleMute(ctx, message)
		case "unmute":
			a.handleUnmute(ctx, message)
		case "export":
			a.handleExport(ctx, message)
		}
		return
	}

	a.handleCustomReasonIfNeeded(ctx, message)
}

func (a *App) handleKick(ctx context.Context, message *tgbotapi.Message) {
	target := message.ReplyToMessage
	if target == nil || target.From == nil {
		a.replyEphemeral(message.Chat.ID, ui.MsgReplyRequired)
		return
	}

	if !a.requireAdmin(message.Chat.ID, message.From.ID) {
		return
	}

	if target.From.ID == a.gw.BotID() {
		a.replyEphemeral(message.Chat.ID, ui.MsgCannotKickBot)
		return
	}

	// The ban is attempted even when the target looks like an admin; the
	// platform is the authority and its refusal is surfaced as-is.
	if err := a.gw.BanMember(message.Chat.ID, target.From.ID); err != nil {
		a.logger.Warn("ban member", "error", err, "chat_id", message.Chat.ID, "target_id", target.From.ID)
		a.replyEphemeral(message.Chat.ID, ui.KickFailed(err))
		return
	}

	display := displayName(target.From)
	token := a.flows.PutKick(message.Chat.ID, model.PendingKick{
		OperatorID:    message.From.ID,
		TargetID:      target.From.ID,
		TargetDisplay: display,
		ChatTitle:     message.Chat.Title,
	})

	a.replyEphemeral(message.Chat.ID, ui.KickConfirmation(display))

	promptID, err := a.gw.SendInline(message.Chat.ID, ui.MsgChooseReason, reasonKeyboard(token))
	if err != nil {
		a.logger.Error("send reason keyboard", "error", err, "chat_id", message.Chat.ID)
		return
	}
	a.scheduleDelete(message.Chat.ID, promptID)
}

func (a *App) handleReasonCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query == nil || query.From == nil {
		return
	}

	ackText := ""
	ackAlert := false
	defer func() {
		if err := a.gw.AnswerCallback(query.ID, ackText, ackAlert); err != nil {
			a.logger.Warn("answer callback", "error", err)
		}
	}()

	chatID, ok := callbackChatID(query)
	if !ok {
		return
	}

	parts := strings.Split(query.Data, ":")
	if len(parts) != 4 || parts[0] != callbackPrefixKick || parts[1] != callbackActionReason {
		ackText, ackAlert = ui.MsgCannotParseReason, true
		return
	}
	token := parts[2]
	reason, ok := enums.ReasonByCode(parts[3])
	if !ok {
		ackText, ackAlert = ui.MsgCannotParseReason, true
		return
	}

	pending, ok := a.flows.KickByToken(chatID, token)
	if !ok {
		// Unknown, expired, or already consumed: a duplicate click lands here.
		ackText = ui.MsgNoPendingKick
		return
	}

	if pending.OperatorID != query.From.ID {
		ackText, ackAlert = ui.MsgWrongOperator, true
		return
	}

	// Role may have changed since /kick; check it on the near side of the
	// append.
	role, err := a.gw.RoleOf(chatID, query.From.ID)
	if err != nil {
		a.logger.Warn("role check", "error", err, "chat_id", chatID, "user_id", query.From.ID)
		ackText, ackAlert = ui.MsgRoleCheckFailed, true
		return
	}
	if !role.CanModerate() {
		ackText, ackAlert = ui.MsgAdminsOnly, true
		return
	}

	operatorDisplay := displayName(query.From)

	if reason.Freeform {
		promptID, err := a.gw.SendText(chatID, ui.MsgEnterCustomReason)
		if err != nil {
			a.logger.Error("send custom reason prompt", "error", err, "chat_id", chatID)
			return
		}
		a.flows.DeleteKick(chatID, token)
		a.flows.PutCustom(query.From.ID, model.PendingCustomReason{
			ChatID:          chatID,
			PromptMessageID: promptID,
			TargetDisplay:   pending.TargetDisplay,
			ChatTitle:       pending.ChatTitle,
			OperatorDisplay: operatorDisplay,
		})
		ackText = ui.MsgAwaitingCustom
		return
	}

	event := model.KickEvent{
		Time:            a.clock.Stamp(),
		ChatTitle:       pending.ChatTitle,
		TargetDisplay:   pending.TargetDisplay,
		OperatorDisplay: operatorDisplay,
		Reason:          reason.Label,
	}
	if err := a.audit.Append(ctx, event); err != nil {
		a.logger.Error("append kick event", "error", err, "chat_id", chatID)
		ackText, ackAlert = ui.MsgAuditWriteFailed, true
		return
	}
	a.flows.DeleteKick(chatID, token)

	if query.Message != nil {
		a.scheduleDelete(chatID, query.Message.MessageID)
	}
	a.replyEphemeral(chatID, ui.ReasonRecorded(pending.TargetDisplay, reason.Label))
	ackText = ui.MsgReasonSaved
}

func (a *App) handleCustomReasonIfNeeded(ctx context.Context, message *tgbotapi.Message) bool {
	pending, ok := a.flows.CustomByOperator(message.From.ID)
	if !ok {
		return false
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		a.replyEphemeral(message.Chat.ID, ui.MsgCustomReasonEmpty)
		return true
	}

	event := model.KickEvent{
		Time:            a.clock.Stamp(),
		ChatTitle:       pending.ChatTitle,
		TargetDisplay:   pending.TargetDisplay,
		OperatorDisplay: pending.OperatorDisplay,
		Reason:          text,
	}
	if err := a.audit.Append(ctx, event); err != nil {
		a.logger.Error("append kick event", "error", err, "chat_id", message.Chat.ID)
		a.replyEphemeral(message.Chat.ID, ui.MsgAuditWriteFailed)
		return true
	}
	a.flows.DeleteCustom(message.From.ID)

	if pending.PromptMessageID != 0 {
		if err := a.gw.DeleteMessage(pending.ChatID, pending.PromptMessageID); err != nil {
			a.logger.Debug("delete custom reason prompt", "error", err)
		}
	}
	if err := a.gw.DeleteMessage(message.Chat.ID, message.MessageID); err != nil {
		a.logger.Debug("delete operator reason message", "error", err)
	}

	a.replyEphemeral(message.Chat.ID, ui.ReasonRecorded(pending.TargetDisplay, text))
	return true
}

func (a *App) handleMute(ctx context.Context, message *tgbotapi.Message) {
	target := message.ReplyToMessage
	if target == nil || target.From == nil {
		a.replyEphemeral(message.Chat.ID, ui.MsgReplyRequired)
		return
	}

	if !a.requireAdmin(message.Chat.ID, message.From.ID) {
		return
	}

	duration, err := moderationsvc.ParseDuration(message.CommandArguments())
	if err != nil {
		a.replyEphemeral(message.Chat.ID, ui.MsgDurationRequired)
		return
	}

	until := moderationsvc.MuteUntil(time.Unix(int64(message.Date), 0), duration)
	if err := a.gw.RestrictMember(message.Chat.ID, target.From.ID, false, until); err != nil {
		a.logger.Warn("restrict member", "error", err, "chat_id", message.Chat.ID, "target_id", target.From.ID)
		a.replyEphemeral(message.Chat.ID, ui.MuteFailed(err))
		return
	}

	a.replyEphemeral(message.Chat.ID, ui.MuteConfirmation(displayName(target.From), moderationsvc.FormatDuration(duration)))
}

func (a *App) handleUnmute(ctx context.Context, message *tgbotapi.Message) {
	target := message.ReplyToMessage
	if target == nil || target.From == nil {
		a.replyEphemeral(message.Chat.ID, ui.MsgReplyRequired)
		return
	}

	if !a.requireAdmin(message.Chat.ID, message.From.ID) {
		return
	}

	if err := a.gw.RestrictMember(message.Chat.ID, target.From.ID, true, 0); err != nil {
		a.logger.Warn("lift restriction", "error", err, "chat_id", message.Chat.ID, "target_id", target.From.ID)
		a.replyEphemeral(message.Chat.ID, ui.UnmuteFailed(err))
		return
	}

	a.replyEphemeral(message.Chat.ID, ui.UnmuteConfirmation(displayName(target.From)))
}

func (a *App) handleExport(ctx context.Context, message *tgbotapi.Message) {
	if !a.requireAdmin(message.Chat.ID, message.From.ID) {
		return
	}

	data, err := a.audit.Snapshot(ctx)
	if errors.Is(err, auditsvc.ErrStoreMissing) {
		a.replyEphemeral(message.Chat.ID, ui.MsgNoKicksRecorded)
		return
	}
	if err != nil {
		a.logger.Error("snapshot audit store", "error", err)
		a.replyEphemeral(message.Chat.ID, ui.MsgExportFailed)
		return
	}

	if err := a.gw.SendDocument(message.Chat.ID, a.exportName, data, ui.MsgExportCaption); err != nil {
		a.logger.Error("send audit document", "error", err, "chat_id", message.Chat.ID)
		a.replyEphemeral(message.Chat.ID, ui.MsgExportFailed)
		return
	}

	if a.archive != nil {
		key := fmt.Sprintf("exports/%s_%s", a.clock.Now().Format("20060102-150405"), a.exportName)
		if err := a.archive.Archive(ctx, key, data); err != nil {
			a.logger.Warn("archive export", "error", err, "key", key)
		}
	}
}

func (a *App) requireAdmin(chatID, userID int64) bool {
	role, err := a.gw.RoleOf(chatID, userID)
	if err != nil {
		a.logger.Warn("role check", "error", err, "chat_id", chatID, "user_id", userID)
		a.replyEphemeral(chatID, ui.MsgRoleCheckFailed)
		return false
	}
	if !role.CanModerate() {
		a.replyEphemeral(chatID, ui.MsgAdminsOnly)
		return false
	}
	return true
}

func (a *App) replyEphemeral(chatID int64, text string) {
	messageID, err := a.gw.SendText(chatID, text)
	if err != nil {
		a.logger.Error("send message", "error", fmt.Errorf("chat=%d: %w", chatID, err))
		return
	}
	a.scheduleDelete(chatID, messageID)
}

func (a *App) scheduleDelete(chatID int64, messageID int) {
	a.sched.After(a.autoDelete, func() error {
		return a.gw.DeleteMessage(chatID, messageID)
	})
}

func reasonKeyboard(token string) [][]telegram.InlineButton {
	buttons := make([]telegram.InlineButton, 0, len(enums.Reasons))
	for _, reason := range enums.Reasons {
		buttons = append(buttons, telegram.InlineButton{
			Text: reason.Label,
			Data: fmt.Sprintf("%s:%s:%s:%s", callbackPrefixKick, callbackActionReason, token, reason.Code),
		})
	}
	return telegram.Grid(buttons, reasonButtonsPerRow)
}

func callbackChatID(query *tgbotapi.CallbackQuery) (int64, bool) {
	if query == nil || query.Message == nil || query.Message.Chat == nil {
		return 0, false
	}
	return query.Message.Chat.ID, true
}

// displayName prefers the username and falls back to the full name, matching
// what lands in the audit log.
func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if name := strings.TrimSpace(user.UserName); name != "" {
		return name
	}
	full := strings.TrimSpace(user.FirstName)
	if last := strings.TrimSpace(user.LastName); last != "" {
		if full != "" {
			full += " "
		}
		full += last
	}
	return full
}
