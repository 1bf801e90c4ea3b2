package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Buay-SS/slipbot/internal/line"
	"github.com/Buay-SS/slipbot/internal/sheets"
	"github.com/Buay-SS/slipbot/internal/slip"
)

// Ledger timestamps use bank-local time regardless of where the bot runs.
var bangkok = time.FixedZone("ICT", 7*60*60)

// clock is swapped in tests to pin recorded timestamps.
var clock = time.Now

func (b *Bot) handleImage(ctx context.Context, ev line.Event) {
	sourceID := ev.SourceID()
	if !b.approved(ctx, sourceID) {
		b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_APPROVAL_PENDING", nil))
		return
	}

	senderName, groupName := b.resolveNames(ctx, ev)

	image, err := b.msg.GetMessageContent(ctx, ev.Message.ID)
	if err != nil {
		b.log.Error("fetch slip image", zap.String("message", ev.Message.ID), zap.Error(err))
		b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_OCR_ERROR", nil))
		return
	}

	var archived string
	if b.archive != nil {
		if name, err := b.archive.Save(image, ".jpg"); err != nil {
			b.log.Warn("archive slip image", zap.Error(err))
		} else {
			archived = name
			b.log.Debug("slip image archived", zap.String("path", b.archive.Path(name)))
		}
	}

	rawText, err := b.ocr.ExtractText(ctx, image)
	if err != nil {
		b.log.Error("ocr slip image", zap.Error(err))
		// An unreadable image never reaches the ledger and has no dispute
		// value; drop the archived copy and let the resend re-archive.
		if archived != "" {
			if derr := b.archive.Delete(archived); derr != nil {
				b.log.Warn("discard archived image", zap.Error(derr))
			}
		}
		b.replyWith(ctx, ev.ReplyToken, b.reply("MSG_OCR_ERROR", nil))
		return
	}

	rec := slip.ExtractWithOptions(rawText, b.currentRules(), slip.Options{
		PatternNeedsIdentifier: b.settings.PatternNeedsIdentifier,
	})

	displayFrom := b.aliasFor(rec.Account)
	displayTo := b.aliasFor(rec.Recipient)

	status := b.record(ctx, rec, displayFrom, displayTo, sourceID, senderName, ev.Source.UserID, groupName)
	b.replyWith(ctx, ev.ReplyToken, b.slipReply(rec, displayFrom, displayTo, senderName, status))
}

// record appends the slip to the ledger unless its reference id is missing or
// already recorded, and returns the status line for the reply.
func (b *Bot) record(ctx context.Context, rec slip.Record, displayFrom, displayTo, sourceID, senderName, senderID, groupName string) string {
	if rec.RefID == slip.NotAvailable {
		return b.reply("MSG_LOG_NO_REF", nil)
	}

	if row, seen, err := b.refs.SeenRef(rec.RefID); err != nil {
		b.log.Warn("ref cache lookup", zap.Error(err))
	} else if seen {
		return b.reply("MSG_LOG_DUPLICATE", map[string]string{"row": strconv.Itoa(row)})
	}

	row, err := b.store.FindRef(ctx, rec.RefID)
	if err != nil {
		b.log.Error("ledger ref lookup", zap.Error(err))
		return b.reply("MSG_LOG_ERROR", nil)
	}
	if row > 0 {
		if err := b.refs.MarkRef(rec.RefID, row, sourceID); err != nil {
			b.log.Warn("ref cache backfill", zap.Error(err))
		}
		return b.reply("MSG_LOG_DUPLICATE", map[string]string{"row": strconv.Itoa(row)})
	}

	entry := sheets.Entry{
		RecordedAt: clock().In(bangkok).Format("2006-01-02 15:04:05"),
		Date:       rec.Date,
		From:       displayFrom,
		To:         displayTo,
		Amount:     rec.Amount,
		RefID:      rec.RefID,
		SenderName: senderName,
		SenderID:   senderID,
		SourceID:   sourceID,
		GroupName:  groupName,
	}
	if err := b.store.AppendEntry(ctx, entry); err != nil {
		b.log.Error("append ledger entry", zap.Error(err))
		return b.reply("MSG_LOG_ERROR", nil)
	}

	newRow, err := b.store.FindRef(ctx, rec.RefID)
	if err != nil {
		b.log.Warn("ledger row lookup after append", zap.Error(err))
	}
	if err := b.refs.MarkRef(rec.RefID, newRow, sourceID); err != nil {
		b.log.Warn("ref cache mark", zap.Error(err))
	}
	return b.reply("MSG_LOG_SUCCESS", nil)
}

// slipReply renders the per-slip confirmation message.
func (b *Bot) slipReply(rec slip.Record, displayFrom, displayTo, senderName, status string) string {
	amount := rec.Amount
	if v, ok := rec.AmountValue(); ok {
		amount = formatBaht(v)
	}

	var sb strings.Builder
	sb.WriteString(b.reply("LABEL_SUMMARY", nil))
	sb.WriteString(" (")
	sb.WriteString(b.reply("LABEL_RECORDED_BY", nil))
	sb.WriteString(": ")
	sb.WriteString(senderName)
	sb.WriteString(")\n-------------------\n")
	sb.WriteString(b.reply("LABEL_DATE", nil) + ": " + rec.Date + "\n")
	sb.WriteString(b.reply("LABEL_FROM", nil) + ": " + displayFrom + "\n")
	sb.WriteString(b.reply("LABEL_TO", nil) + ": " + displayTo + "\n")
	sb.WriteString(b.reply("LABEL_AMOUNT", nil) + ": " + amount + " " + b.reply("LABEL_AMOUNT_UNIT", nil) + "\n")
	sb.WriteString(b.reply("LABEL_REF", nil) + ": " + rec.RefID + "\n")
	sb.WriteString("-------------------\n")
	sb.WriteString(b.reply("LABEL_STATUS", nil) + ": " + status)
	return sb.String()
}

// resolveNames looks up who sent the slip and which group it came from. API
// failures degrade to placeholders so the slip still gets recorded.
func (b *Bot) resolveNames(ctx context.Context, ev line.Event) (senderName, groupName string) {
	senderName = "N/A (API Error)"
	groupName = "N/A (Direct Message)"

	if ev.Source.GroupID != "" {
		if summary, err := b.msg.GetGroupSummary(ctx, ev.Source.GroupID); err != nil {
			b.log.Warn("group summary", zap.String("group", ev.Source.GroupID), zap.Error(err))
			groupName = "N/A (API Error)"
		} else {
			groupName = summary.GroupName
		}
		if profile, err := b.msg.GetGroupMemberProfile(ctx, ev.Source.GroupID, ev.Source.UserID); err != nil {
			b.log.Warn("group member profile", zap.String("user", ev.Source.UserID), zap.Error(err))
		} else {
			senderName = profile.DisplayName
		}
		return senderName, groupName
	}

	if profile, err := b.msg.GetProfile(ctx, ev.Source.UserID); err != nil {
		b.log.Warn("user profile", zap.String("user", ev.Source.UserID), zap.Error(err))
	} else {
		senderName = profile.DisplayName
	}
	return senderName, groupName
}
