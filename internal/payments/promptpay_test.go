package payments

import (
	"strings"
	"testing"
)

func TestCRC16CCITTFalse(t *testing.T) {
	// Standard check value for CRC-16/CCITT-FALSE.
	if got := crc16("123456789"); got != 0x29B1 {
		t.Fatalf("crc16 check value mismatch: got %04X, want 29B1", got)
	}
}

func TestStaticPayloadForPhoneTarget(t *testing.T) {
	got := buildPayload("089-999-9999", 0)
	want := "00020101021129370016A000000677010111011300668999999995802TH53037646304FE29"
	if got != want {
		t.Fatalf("payload mismatch:\n got  %s\n want %s", got, want)
	}
}

func TestDynamicPayloadEmbedsAmount(t *testing.T) {
	got := buildPayload("0899999999", 4.22)
	if !strings.Contains(got, "010212") {
		t.Fatalf("dynamic payload must use method 12: %s", got)
	}
	if !strings.Contains(got, "54044.22") {
		t.Fatalf("dynamic payload must carry the amount tag: %s", got)
	}
}

func TestTargetNormalization(t *testing.T) {
	if got := targetTLV("0899999999"); got != "01130066899999999" {
		t.Fatalf("phone target: got %s", got)
	}
	if got := targetTLV("1234567890123"); got != "02131234567890123" {
		t.Fatalf("national id target: got %s", got)
	}
	if got := targetTLV("123456789012345"); got != "0315123456789012345" {
		t.Fatalf("e-wallet target: got %s", got)
	}
}

func TestBuildPaymentQRRequiresTarget(t *testing.T) {
	_, err := PromptPay{}.BuildPaymentQR(100)
	if err != ErrTargetUnconfigured {
		t.Fatalf("expected ErrTargetUnconfigured, got %v", err)
	}
}

func TestBuildPaymentQRRejectsNonPositiveAmount(t *testing.T) {
	if _, err := (PromptPay{Target: "0899999999"}).BuildPaymentQR(0); err == nil {
		t.Fatalf("expected error for zero amount")
	}
}

func TestBuildPaymentQRRendersDataURL(t *testing.T) {
	qr, err := PromptPay{Target: "0899999999", FixedAmount: true}.BuildPaymentQR(250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(qr.DataURL, "data:image/png;base64,") {
		t.Fatalf("data url prefix missing: %.40s", qr.DataURL)
	}
	if !strings.Contains(qr.Payload, "5406250.00") {
		t.Fatalf("fixed amount not embedded: %s", qr.Payload)
	}
}
