package bot

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Buay-SS/slipbot/internal/line"
)

// HandleEvents processes one webhook delivery. Events are independent, so a
// failure in one never blocks the rest.
func (b *Bot) HandleEvents(ctx context.Context, events []line.Event) {
	for _, ev := range events {
		switch ev.Type {
		case line.EventMessage:
			switch ev.Message.Type {
			case line.MessageText:
				b.handleText(ctx, ev)
			case line.MessageImage:
				b.handleImage(ctx, ev)
			}
		case line.EventJoin:
			b.handleJoin(ctx, ev)
		case line.EventFollow:
			b.handleFollow(ctx, ev)
		}
	}
}

func (b *Bot) handleText(ctx context.Context, ev line.Event) {
	text := strings.ToLower(strings.TrimSpace(ev.Message.Text))
	sourceID := ev.SourceID()

	if b.approved(ctx, sourceID) {
		switch text {
		case "สรุปเดือนนี้":
			b.replyWith(ctx, ev.ReplyToken, b.summaryReply(ctx, sourceID, periodMonth))
			return
		case "สรุปปีนี้":
			b.replyWith(ctx, ev.ReplyToken, b.summaryReply(ctx, sourceID, periodYear))
			return
		}
	}

	if b.settings.AdminUserID != "" && ev.Source.UserID == b.settings.AdminUserID {
		if b.handleAdminCommand(ctx, ev) {
			return
		}
	}

	switch text {
	case "ping", "wake up", "ตื่น", "หวัดดี", "สวัสดี":
		b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_WAKE_UP", nil))
	}
}

// handleAdminCommand runs operator commands and reports whether the text was
// one. Alias names keep their original casing, so this works on the raw text.
func (b *Bot) handleAdminCommand(ctx context.Context, ev line.Event) bool {
	raw := strings.TrimSpace(ev.Message.Text)
	lower := strings.ToLower(raw)

	switch lower {
	case "reload aliases":
		aliases, err := b.store.Aliases(ctx)
		if err != nil {
			b.log.Error("reload aliases", zap.Error(err))
			b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_LOG_ERROR", nil))
			return true
		}
		b.mu.Lock()
		b.aliases = aliases
		b.mu.Unlock()
		b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_RELOAD_SUCCESS", map[string]string{
			"count": strconv.Itoa(len(aliases)),
		}))
		return true

	case "reload config":
		replies, err := b.store.Config(ctx)
		if err != nil {
			b.log.Error("reload config", zap.Error(err))
			b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_LOG_ERROR", nil))
			return true
		}
		b.mu.Lock()
		b.replies = replies
		b.mu.Unlock()
		b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_RELOAD_SUCCESS", map[string]string{
			"count": strconv.Itoa(len(replies)),
		}))
		return true

	case "reload rules":
		b.refreshRules(ctx)
		b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_RELOAD_SUCCESS", map[string]string{
			"count": strconv.Itoa(len(b.currentRules())),
		}))
		return true
	}

	if strings.HasPrefix(lower, "alias:") {
		b.handleAliasCommand(ctx, ev.ReplyToken, raw[len("alias:"):])
		return true
	}
	return false
}

// handleAliasCommand parses "alias: original = nickname" and upserts the pair.
func (b *Bot) handleAliasCommand(ctx context.Context, replyToken, body string) {
	parts := strings.SplitN(body, "=", 2)
	if len(parts) != 2 {
		b.replyWith(ctx, replyToken, b.reply("MSG_ALIAS_CMD_ERROR", nil))
		return
	}
	original := strings.TrimSpace(parts[0])
	nickname := strings.TrimSpace(parts[1])
	if original == "" || nickname == "" {
		b.replyWith(ctx, replyToken, b.reply("MSG_ALIAS_CMD_ERROR", nil))
		return
	}

	added, err := b.store.UpsertAlias(ctx, original, nickname)
	if err != nil {
		b.log.Error("upsert alias", zap.Error(err))
		b.replyWith(ctx, replyToken, b.reply("MSG_LOG_ERROR", nil))
		return
	}

	b.mu.Lock()
	b.aliases[original] = nickname
	b.mu.Unlock()

	key := "MSG_ALIAS_UPDATED"
	if added {
		key = "MSG_ALIAS_ADDED"
	}
	b.replyWith(ctx, replyToken, b.reply(key, nil))
}

func (b *Bot) handleJoin(ctx context.Context, ev line.Event) {
	if ev.Source.GroupID == "" {
		return
	}
	groupName := "Unknown Group"
	if summary, err := b.msg.GetGroupSummary(ctx, ev.Source.GroupID); err != nil {
		b.log.Warn("group summary on join", zap.Error(err))
	} else {
		groupName = summary.GroupName
	}

	b.registerSource(ctx, ev.Source.GroupID, groupName, "group")
	b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_JOIN_GREETING", map[string]string{
		"group": groupName,
	}))
}

func (b *Bot) handleFollow(ctx context.Context, ev line.Event) {
	if ev.Source.UserID == "" {
		return
	}
	displayName := "Unknown User"
	if profile, err := b.msg.GetProfile(ctx, ev.Source.UserID); err != nil {
		b.log.Warn("profile on follow", zap.Error(err))
	} else {
		displayName = profile.DisplayName
	}

	b.registerSource(ctx, ev.Source.UserID, displayName, "user")
	b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_FOLLOW_GREETING", nil))
}

// registerSource records a new chat scope as pending and pings the admin.
func (b *Bot) registerSource(ctx context.Context, sourceID, displayName, sourceType string) {
	added, err := b.store.RegisterSource(ctx, sourceID, displayName, sourceType)
	if err != nil {
		b.log.Error("register source", zap.String("source", sourceID), zap.Error(err))
		return
	}
	if !added || b.settings.AdminUserID == "" {
		return
	}
	notice := "รออนุมัติ: " + sourceType + " '" + displayName + "' (" + sourceID + ")"
	if err := b.msg.PushText(ctx, b.settings.AdminUserID, notice); err != nil {
		b.log.Error("notify admin", zap.Error(err))
	}
}
