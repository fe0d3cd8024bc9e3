package payments

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// PromptPay builds EMVCo merchant-presented QR payloads for the Thai
// PromptPay rail. Target is a phone number, national id, or e-wallet id.
type PromptPay struct {
	Target      string
	FixedAmount bool
}

// QR is the generated payment artifact: the raw EMV payload and a PNG
// data URL ready for an <img> tag.
type QR struct {
	Payload string `json:"payload"`
	DataURL string `json:"dataUrl"`
}

var ErrTargetUnconfigured = errors.New("promptpay target is not configured")

const (
	aidPromptPay = "A000000677010111"
	currencyTHB  = "764"
	qrPixels     = 256
)

// BuildPaymentQR returns the payload and rendered PNG for the amount.
// The amount is embedded only when FixedAmount is set; otherwise the payer
// keys it in.
func (p PromptPay) BuildPaymentQR(amount float64) (QR, error) {
	if strings.TrimSpace(p.Target) == "" {
		return QR{}, ErrTargetUnconfigured
	}
	if amount <= 0 {
		return QR{}, errors.New("amount must be greater than 0")
	}

	var payload string
	if p.FixedAmount {
		payload = buildPayload(p.Target, amount)
	} else {
		payload = buildPayload(p.Target, 0)
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrPixels)
	if err != nil {
		return QR{}, fmt.Errorf("render qr: %w", err)
	}

	return QR{
		Payload: payload,
		DataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// buildPayload assembles the EMV TLV string. amount == 0 means a reusable
// (static) code; a positive amount makes it one-time (dynamic).
func buildPayload(target string, amount float64) string {
	method := "11"
	if amount > 0 {
		method = "12"
	}

	var sb strings.Builder
	sb.WriteString(tlv("00", "01"))
	sb.WriteString(tlv("01", method))
	sb.WriteString(tlv("29", tlv("00", aidPromptPay)+targetTLV(target)))
	sb.WriteString(tlv("58", "TH"))
	sb.WriteString(tlv("53", currencyTHB))
	if amount > 0 {
		sb.WriteString(tlv("54", fmt.Sprintf("%.2f", amount)))
	}

	payload := sb.String() + "6304"
	return payload + fmt.Sprintf("%04X", crc16(payload))
}

// targetTLV normalizes the receiving account: a local phone number becomes
// 0066-prefixed (tag 01), a 13-digit national id stays as-is (tag 02),
// anything longer is treated as an e-wallet id (tag 03).
func targetTLV(target string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, target)

	switch {
	case len(digits) >= 15:
		return tlv("03", digits)
	case len(digits) == 13:
		return tlv("02", digits)
	default:
		phone := strings.TrimPrefix(digits, "0")
		return tlv("01", fmt.Sprintf("0066%s", phone))
	}
}

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16 is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF) as required by the
// EMV QR spec for tag 63.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range []byte(s) {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
