package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/enums"
)

type UpdateHandler func(context.Context, tgbotapi.Update)

// Client is the only component that talks to Telegram. It carries no policy:
// every method is a single API call. An empty token puts the client into dry
// mode, where the poll loop idles and every call is a successful no-op.
type Client struct {
	api         *tgbotapi.BotAPI
	logger      *slog.Logger
	handler     UpdateHandler
	pollTimeout int
	dryRun      bool
}

func NewClient(token string, pollTimeout int, logger *slog.Logger, handler UpdateHandler) (*Client, error) {
	if handler == nil {
		return nil, errors.New("telegram update handler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if strings.TrimSpace(token) == "" {
		return &Client{
			logger:      logger,
			handler:     handler,
			pollTimeout: pollTimeout,
			dryRun:      true,
		}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Client{
		api:         api,
		logger:      logger,
		handler:     handler,
		pollTimeout: pollTimeout,
	}, nil
}

func (c *Client) Start(ctx context.Context) error {
	if c.dryRun {
		c.logger.Warn("BOT_TOKEN is empty, running in dry mode")
		<-ctx.Done()
		return nil
	}

	timeout := c.pollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout
	updates := c.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			c.handler(ctx, update)
		}
	}
}

func (c *Client) BotID() int64 {
	if c.dryRun {
		return 0
	}
	return c.api.Self.ID
}

func (c *Client) BanMember(chatID, userID int64) error {
	if c.dryRun {
		return nil
	}
	_, err := c.api.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
	})
	return err
}

// RestrictMember toggles the target's send permissions. untilUnix of zero
// means indefinite, per the Bot API contract.
func (c *Client) RestrictMember(chatID, userID int64, canSend bool, untilUnix int64) error {
	if c.dryRun {
		return nil
	}
	_, err := c.api.Request(tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		UntilDate:        untilUnix,
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages:       canSend,
			CanSendMediaMessages:  canSend,
			CanSendOtherMessages:  canSend,
			CanAddWebPagePreviews: canSend,
		},
	})
	return err
}

func (c *Client) RoleOf(chatID, userID int64) (enums.ChatRole, error) {
	if c.dryRun {
		return enums.ChatRoleMember, nil
	}
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return "", err
	}
	return enums.ChatRole(member.Status), nil
}

func (c *Client) SendText(chatID int64, text string) (int, error) {
	if c.dryRun {
		return 0, nil
	}
	sent, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) SendInline(chatID int64, text string, rows [][]InlineButton) (int, error) {
	if c.dryRun {
		return 0, nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = BuildInlineKeyboard(rows)
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) SendDocument(chatID int64, filename string, data []byte, caption string) error {
	if c.dryRun {
		return nil
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	_, err := c.api.Send(doc)
	return err
}

// DeleteMessage is idempotent: a message that is already gone is not an
// error.
func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	if c.dryRun {
		return nil
	}
	_, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	if err != nil && strings.Contains(err.Error(), "message to delete not found") {
		return nil
	}
	return err
}

func (c *Client) AnswerCallback(callbackID, text string, alert bool) error {
	if c.dryRun {
		return nil
	}
	callback := tgbotapi.NewCallback(callbackID, text)
	callback.ShowAlert = alert
	_, err := c.api.Request(callback)
	return err
}
