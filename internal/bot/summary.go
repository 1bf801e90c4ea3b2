package bot

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Buay-SS/slipbot/internal/models"
	"github.com/Buay-SS/slipbot/internal/sheets"
)

type period string

const (
	periodMonth period = "month"
	periodYear  period = "year"
)

// The extractor always writes YYYY-MM-DD; operator pattern rules may capture
// Thai slip dates verbatim, which are day-first. No month-first layout is
// accepted, so a given string has exactly one reading.
var entryDateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

var thaiPrinter = message.NewPrinter(language.Thai)

func formatBaht(v float64) string {
	return thaiPrinter.Sprintf("%v", number.Decimal(v, number.Scale(2)))
}

func parseEntryDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BuildSummary filters ledger entries to one chat scope and period and
// aggregates spending per payee nickname. Payees without an alias are lumped
// under a single bucket so the report stays short.
func BuildSummary(entries []sheets.Entry, aliases map[string]string, sourceID string, p period, now time.Time) models.Summary {
	known := make(map[string]bool, len(aliases))
	for _, nick := range aliases {
		known[nick] = true
	}

	totals := make(map[string]float64)
	var total float64
	for _, e := range entries {
		if e.SourceID != sourceID {
			continue
		}
		d, ok := parseEntryDate(e.Date)
		if !ok {
			continue
		}
		if d.Year() != now.Year() {
			continue
		}
		if p == periodMonth && d.Month() != now.Month() {
			continue
		}
		amt, err := strconv.ParseFloat(strings.ReplaceAll(e.Amount, ",", ""), 64)
		if err != nil {
			continue
		}
		payee := e.To
		if !known[payee] {
			payee = "อื่นๆ"
		}
		totals[payee] += amt
		total += amt
	}

	summary := models.Summary{Period: string(p), Total: total}
	for payee, amt := range totals {
		summary.ByPayee = append(summary.ByPayee, models.PayeeAmount{Payee: payee, Amount: amt})
	}
	sort.Slice(summary.ByPayee, func(i, j int) bool {
		if summary.ByPayee[i].Amount != summary.ByPayee[j].Amount {
			return summary.ByPayee[i].Amount > summary.ByPayee[j].Amount
		}
		return summary.ByPayee[i].Payee < summary.ByPayee[j].Payee
	})
	return summary
}

func (b *Bot) summaryReply(ctx context.Context, sourceID string, p period) string {
	entries, err := b.store.Entries(ctx)
	if err != nil {
		b.log.Error("load ledger entries", zap.Error(err))
		return b.reply("MSG_SUMMARY_ERROR", nil)
	}

	now := clock().In(bangkok)
	summary := BuildSummary(entries, b.aliasSnapshot(), sourceID, p, now)
	return renderSummary(summary, sourceID, now)
}

func renderSummary(s models.Summary, sourceID string, now time.Time) string {
	periodLabel := "ปีนี้ (" + strconv.Itoa(now.Year()) + ")"
	if s.Period == string(periodMonth) {
		periodLabel = "เดือนนี้ (" + now.Format("01/2006") + ")"
	}
	scopeLabel := "ของกลุ่ม"
	if strings.HasPrefix(sourceID, "U") {
		scopeLabel = "ส่วนตัว"
	}

	var sb strings.Builder
	sb.WriteString("สรุปรายจ่าย" + periodLabel + " " + scopeLabel + "\n")
	if len(s.ByPayee) == 0 {
		sb.WriteString("ไม่พบรายการในช่วงเวลานี้")
		return sb.String()
	}
	sb.WriteString("รายจ่ายทั้งหมด " + formatBaht(s.Total) + " บาท\n")
	sb.WriteString("-------------------\n")
	for _, p := range s.ByPayee {
		sb.WriteString(p.Payee + ": " + formatBaht(p.Amount) + " บาท\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
