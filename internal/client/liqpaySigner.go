package client

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedPayload = errors.New("malformed liqpay payload")

// LiqpaySigner implements the LiqPay data/signature envelope:
// data = base64(json(params)), signature = base64(sha1(private_key + data + private_key)).
// SHA-1 is fixed by the gateway protocol and must not be reused elsewhere.
type LiqpaySigner struct {
	privateKey string
}

func NewLiqpaySigner(privateKey string) *LiqpaySigner {
	return &LiqpaySigner{privateKey: privateKey}
}

// Encode serializes params and base64 encodes the result. Struct params keep their
// field order, so equal inputs always produce the same payload.
func (s *LiqpaySigner) Encode(params any) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal liqpay params: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (s *LiqpaySigner) Sign(data string) string {
	h := sha1.New()
	h.Write([]byte(s.privateKey))
	h.Write([]byte(data))
	h.Write([]byte(s.privateKey))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *LiqpaySigner) Verify(data, signature string) bool {
	if data == "" || signature == "" {
		return false
	}
	expected := s.Sign(data)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// Decode reverses Encode into v. It must only be called on verified data.
func (s *LiqpaySigner) Decode(data string, v any) error {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("%w: base64: %w", ErrMalformedPayload, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: json: %w", ErrMalformedPayload, err)
	}
	return nil
}
