// Package bot dispatches LINE webhook events through the slip pipeline:
// approval gating, OCR, extraction, alias mapping, ledger recording with
// reference-id dedupe, and summary queries.
package bot

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Buay-SS/slipbot/internal/line"
	"github.com/Buay-SS/slipbot/internal/sheets"
	"github.com/Buay-SS/slipbot/internal/slip"
	"github.com/Buay-SS/slipbot/internal/storage"
)

// Messenger is the slice of the LINE API the bot talks to.
type Messenger interface {
	ReplyText(ctx context.Context, replyToken, text string) error
	PushText(ctx context.Context, to, text string) error
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
	GetGroupSummary(ctx context.Context, groupID string) (*line.GroupSummary, error)
	GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*line.Profile, error)
	GetMessageContent(ctx context.Context, messageID string) ([]byte, error)
}

// TextRecognizer turns a slip image into raw text.
type TextRecognizer interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Ledger is the spreadsheet store behind the bot's tables.
type Ledger interface {
	AppendEntry(ctx context.Context, e sheets.Entry) error
	FindRef(ctx context.Context, refID string) (int, error)
	Entries(ctx context.Context) ([]sheets.Entry, error)
	Aliases(ctx context.Context) (map[string]string, error)
	UpsertAlias(ctx context.Context, original, nickname string) (bool, error)
	Config(ctx context.Context) (map[string]string, error)
	Rules(ctx context.Context) ([]slip.Rule, error)
	SourceStatus(ctx context.Context, sourceID string) (string, error)
	RegisterSource(ctx context.Context, sourceID, displayName, sourceType string) (bool, error)
}

// RefIndex is the local dedupe index over recorded reference ids.
type RefIndex interface {
	SeenRef(refID string) (int, bool, error)
	MarkRef(refID string, sheetRow int, sourceID string) error
}

// Settings carries deployment knobs that are not collaborators.
type Settings struct {
	AdminUserID   string
	ChannelSecret string
	// RulesFile overrides the Rules worksheet with a local YAML file.
	RulesFile string
	// PatternNeedsIdentifier tightens pattern-rule activation, see slip.Options.
	PatternNeedsIdentifier bool
}

type Bot struct {
	log      *zap.Logger
	msg      Messenger
	ocr      TextRecognizer
	store    Ledger
	refs     RefIndex
	archive  *storage.Archive
	settings Settings

	mu      sync.RWMutex
	aliases map[string]string
	replies map[string]string
	rules   []slip.Rule
}

func New(log *zap.Logger, msg Messenger, ocrClient TextRecognizer, store Ledger, refs RefIndex, archive *storage.Archive, settings Settings) *Bot {
	return &Bot{
		log:      log,
		msg:      msg,
		ocr:      ocrClient,
		store:    store,
		refs:     refs,
		archive:  archive,
		settings: settings,
		aliases:  map[string]string{},
		replies:  map[string]string{},
	}
}

// Refresh reloads aliases, reply templates, and extraction rules. Failures
// leave the previous snapshot in place; the bot keeps answering with stale
// data rather than going dark.
func (b *Bot) Refresh(ctx context.Context) {
	if aliases, err := b.store.Aliases(ctx); err != nil {
		b.log.Warn("refresh aliases", zap.Error(err))
	} else {
		b.mu.Lock()
		b.aliases = aliases
		b.mu.Unlock()
	}

	if replies, err := b.store.Config(ctx); err != nil {
		b.log.Warn("refresh config", zap.Error(err))
	} else {
		b.mu.Lock()
		b.replies = replies
		b.mu.Unlock()
	}

	b.refreshRules(ctx)
}

func (b *Bot) refreshRules(ctx context.Context) {
	var (
		rules []slip.Rule
		err   error
	)
	if b.settings.RulesFile != "" {
		rules, err = LoadRulesFile(b.settings.RulesFile)
	} else {
		rules, err = b.store.Rules(ctx)
	}
	if err != nil {
		b.log.Warn("refresh rules", zap.Error(err))
		return
	}
	b.mu.Lock()
	b.rules = rules
	b.mu.Unlock()
	b.log.Info("extraction rules loaded", zap.Int("count", len(rules)))
}

// currentRules returns the rule snapshot for one extraction call. The slice
// is never mutated after load, so sharing it is safe.
func (b *Bot) currentRules() []slip.Rule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rules
}

func (b *Bot) aliasFor(name string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if nick, ok := b.aliases[name]; ok && nick != "" {
		return nick
	}
	return name
}

func (b *Bot) aliasSnapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snapshot := make(map[string]string, len(b.aliases))
	for k, v := range b.aliases {
		snapshot[k] = v
	}
	return snapshot
}

// reply returns a configured reply template with {name} placeholders
// substituted, falling back to the built-in defaults.
func (b *Bot) reply(key string, args map[string]string) string {
	b.mu.RLock()
	tmpl, ok := b.replies[key]
	b.mu.RUnlock()
	if !ok || tmpl == "" {
		tmpl = defaultReplies[key]
	}
	if tmpl == "" {
		tmpl = key
	}
	for k, v := range args {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", v)
	}
	return tmpl
}

func (b *Bot) replyWith(ctx context.Context, replyToken, text string) {
	if err := b.msg.ReplyText(ctx, replyToken, text); err != nil {
		b.log.Error("send reply", zap.Error(err))
	}
}

// approved reports whether a user or group has been cleared to use the bot.
func (b *Bot) approved(ctx context.Context, sourceID string) bool {
	status, err := b.store.SourceStatus(ctx, sourceID)
	if err != nil {
		b.log.Warn("check approval", zap.String("source", sourceID), zap.Error(err))
		return false
	}
	return status == sheets.StatusApproved
}

// defaultReplies backs the Config worksheet so a fresh deployment answers in
// Thai before any operator customization.
var defaultReplies = map[string]string{
	"MSG_WAKE_UP":          "ตื่นแล้วครับ พร้อมรับสลิป!",
	"MSG_APPROVAL_PENDING": "ยังไม่ได้รับการอนุมัติให้ใช้งาน กรุณารอแอดมินอนุมัติครับ",
	"MSG_OCR_ERROR":        "อ่านสลิปไม่สำเร็จ กรุณาลองส่งรูปใหม่อีกครั้ง",
	"MSG_LOG_NO_REF":       "ไม่พบเลขที่รายการในสลิป จึงไม่บันทึกซ้ำอัตโนมัติ",
	"MSG_LOG_DUPLICATE":    "สลิปนี้ถูกบันทึกไปแล้ว (แถวที่ {row})",
	"MSG_LOG_SUCCESS":      "บันทึกเรียบร้อย",
	"MSG_LOG_ERROR":        "บันทึกไม่สำเร็จ กรุณาลองใหม่",
	"MSG_ALIAS_CMD_ERROR":  "รูปแบบคำสั่งไม่ถูกต้อง ใช้ alias: ชื่อเดิม = ชื่อเล่น",
	"MSG_ALIAS_ADDED":      "เพิ่มชื่อเล่นเรียบร้อย",
	"MSG_ALIAS_UPDATED":    "อัปเดตชื่อเล่นเรียบร้อย",
	"MSG_RELOAD_SUCCESS":   "โหลดข้อมูลใหม่ {count} รายการสำเร็จ",
	"MSG_SUMMARY_ERROR":    "ไม่สามารถดึงข้อมูลสรุปได้",
	"MSG_JOIN_GREETING":    "สวัสดีครับ! บอทเข้ากลุ่ม '{group}' แล้ว กำลังรอการอนุมัติเพื่อเริ่มใช้งานครับ",
	"MSG_FOLLOW_GREETING":  "ขอบคุณที่เพิ่มเป็นเพื่อนครับ! กำลังรอการอนุมัติเพื่อเริ่มใช้งาน",
	"LABEL_SUMMARY":        "สรุปรายการโอน",
	"LABEL_RECORDED_BY":    "บันทึกโดย",
	"LABEL_DATE":           "วันที่",
	"LABEL_FROM":           "จาก",
	"LABEL_TO":             "ถึง",
	"LABEL_AMOUNT":         "จำนวนเงิน",
	"LABEL_AMOUNT_UNIT":    "บาท",
	"LABEL_REF":            "เลขที่รายการ",
	"LABEL_STATUS":         "สถานะ",
}
