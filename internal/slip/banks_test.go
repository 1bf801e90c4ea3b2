package slip

import "testing"

func TestKBankWalletRecipient(t *testing.T) {
	text := "K+\nโอนเงินสำเร็จ\nนาย สมชาย ใจดี\nTrueMoney Wallet\nจำนวน: 100.00"

	rec := Extract(text, nil)
	if rec.Account != "สมชาย ใจดี" {
		t.Fatalf("account = %q, want สมชาย ใจดี", rec.Account)
	}
	if rec.Recipient != "TrueMoney Wallet" {
		t.Fatalf("recipient = %q, want TrueMoney Wallet", rec.Recipient)
	}
}

func TestKBankShopeePayGarbledMarker(t *testing.T) {
	// OCR often mangles the ShopeePay logo into "รี Shopee".
	text := "กสิกรไทย\nน.ส. สมหญิง รักดี\nรี Shopee\nจำนวน: 59.00"

	rec := Extract(text, nil)
	if rec.Account != "สมหญิง รักดี" {
		t.Fatalf("account = %q, want สมหญิง รักดี", rec.Account)
	}
	if rec.Recipient != "ShopeePay" {
		t.Fatalf("recipient = %q, want ShopeePay", rec.Recipient)
	}
}

func TestKBankPromptPayNextLine(t *testing.T) {
	text := "K+\nนาย สมชาย ใจดี\nPrompt Pay\nร้านกาแฟ ดีใจ\nจำนวน: 45.00"

	rec := Extract(text, nil)
	if rec.Recipient != "ร้านกาแฟ ดีใจ" {
		t.Fatalf("recipient = %q, want ร้านกาแฟ ดีใจ", rec.Recipient)
	}
}

func TestSCBFromToNextLine(t *testing.T) {
	text := "SCB\nจาก\nนาย สมชาย ใจดี\nไปยัง\nบริษัท ขายดี จำกัด\nจำนวนเงิน 250.00"

	rec := Extract(text, nil)
	if rec.Account != "นาย สมชาย ใจดี" {
		t.Fatalf("account = %q, want นาย สมชาย ใจดี", rec.Account)
	}
	if rec.Recipient != "บริษัท ขายดี จำกัด" {
		t.Fatalf("recipient = %q, want บริษัท ขายดี จำกัด", rec.Recipient)
	}
}

func TestBBLExclusionDisambiguation(t *testing.T) {
	text := "Bangkok Bank\nจาก\nนาย สมชาย ใจดี\nไปที่\nนาย สมหญิง รักดี"

	rec := Extract(text, nil)
	if rec.Account != "สมชาย ใจดี" {
		t.Fatalf("account = %q, want สมชาย ใจดี", rec.Account)
	}
	if rec.Recipient != "สมหญิง รักดี" {
		t.Fatalf("recipient = %q, want สมหญิง รักดี", rec.Recipient)
	}
}

func TestBBLExclusionPreventsDoubleAssignment(t *testing.T) {
	// Both direction keywords land before either name; a naive nearest match
	// would hand the first name to both roles.
	text := "Bangkok Bank\nจาก ไปที่\nนาย สมชาย ใจดี\nนาย สมหญิง รักดี"

	rec := Extract(text, nil)
	if rec.Account != "สมชาย ใจดี" {
		t.Fatalf("account = %q, want สมชาย ใจดี", rec.Account)
	}
	if rec.Recipient != "สมหญิง รักดี" {
		t.Fatalf("recipient = %q, want สมหญิง รักดี", rec.Recipient)
	}
	if rec.Account == rec.Recipient {
		t.Fatal("sender and recipient must be distinct occurrences")
	}
}

func TestBBLSingleNameOnlySender(t *testing.T) {
	text := "Bangkok Bank\nจาก\nนาย สมชาย ใจดี\nไปที่"

	rec := Extract(text, nil)
	if rec.Account != "สมชาย ใจดี" {
		t.Fatalf("account = %q, want สมชาย ใจดี", rec.Account)
	}
	if rec.Recipient != NotAvailable {
		t.Fatalf("recipient = %q, want %q", rec.Recipient, NotAvailable)
	}
}

func TestUnknownIssuerLeavesNamesUnavailable(t *testing.T) {
	text := "โอนเงินสำเร็จ 5 มิ.ย. 68\nจำนวน: 120.00\nเลขที่รายการ: 015068142212345678"

	rec := Extract(text, nil)
	if rec.Account != NotAvailable || rec.Recipient != NotAvailable {
		t.Fatalf("account/recipient = %q/%q, want sentinels", rec.Account, rec.Recipient)
	}
	if rec.Date != "2025-06-05" {
		t.Fatalf("date = %q, generic extraction must still run", rec.Date)
	}
	if rec.Amount != "120.00" {
		t.Fatalf("amount = %q, generic extraction must still run", rec.Amount)
	}
	if rec.RefID != "015068142212345678" {
		t.Fatalf("ref id = %q, generic extraction must still run", rec.RefID)
	}
}

func TestIssuerPriorityFirstMatchWins(t *testing.T) {
	// KBank markers are checked before SCB; a slip mentioning both uses the
	// KBank layout.
	text := "K+ โอนไป SCB\nนาย สมชาย ใจดี\nPrompt Pay\nร้านหนังสือ"

	rec := Extract(text, nil)
	if rec.Account != "สมชาย ใจดี" {
		t.Fatalf("account = %q, want KBank-style honorific capture", rec.Account)
	}
	if rec.Recipient != "ร้านหนังสือ" {
		t.Fatalf("recipient = %q, want ร้านหนังสือ", rec.Recipient)
	}
}

func TestFallbackDoesNotOverwrite(t *testing.T) {
	rules := []Rule{
		{Identifier: "K+", Field: FieldAccount, Method: MethodFixed, Value: "บัญชีหลัก"},
	}
	text := "K+\nนาย สมชาย ใจดี\nTrueMoney Wallet"

	rec := Extract(text, rules)
	if rec.Account != "บัญชีหลัก" {
		t.Fatalf("account = %q, rule value must survive the fallback", rec.Account)
	}
	if rec.Recipient != "TrueMoney Wallet" {
		t.Fatalf("recipient = %q, fallback still fills the other gap", rec.Recipient)
	}
}
