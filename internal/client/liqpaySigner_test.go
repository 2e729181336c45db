package client

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"testing"
)

func TestLiqpaySignerMatchesGatewayFormula(t *testing.T) {
	signer := NewLiqpaySigner("private-key")
	data := "eyJ2ZXJzaW9uIjoiMyJ9"

	sum := sha1.Sum([]byte("private-key" + data + "private-key"))
	want := base64.StdEncoding.EncodeToString(sum[:])

	if got := signer.Sign(data); got != want {
		t.Fatalf("Sign() = %q, want %q", got, want)
	}
}

func TestLiqpaySignerVerify(t *testing.T) {
	signer := NewLiqpaySigner("private-key")

	payloads := []string{
		"a",
		"eyJvcmRlcl9pZCI6InN1Yi0xIiwic3RhdHVzIjoic3VjY2VzcyJ9",
		"ZGF0YSB3aXRoIHNwYWNlcyBhbmQgKyBzaWducw==",
	}

	for _, data := range payloads {
		sig := signer.Sign(data)
		if !signer.Verify(data, sig) {
			t.Fatalf("Verify(%q, Sign()) = false", data)
		}

		for i := range len(data) {
			mutated := []byte(data)
			mutated[i] ^= 0x01
			if signer.Verify(string(mutated), sig) {
				t.Fatalf("Verify accepted payload mutated at byte %d", i)
			}
		}
		for i := range len(sig) {
			mutated := []byte(sig)
			mutated[i] ^= 0x01
			if signer.Verify(data, string(mutated)) {
				t.Fatalf("Verify accepted signature mutated at byte %d", i)
			}
		}
	}
}

func TestLiqpaySignerVerifyRejectsEmptyAndForeignKeys(t *testing.T) {
	signer := NewLiqpaySigner("private-key")
	other := NewLiqpaySigner("other-key")

	if signer.Verify("", signer.Sign("")) {
		t.Fatal("Verify accepted empty data")
	}
	if signer.Verify("abc", "") {
		t.Fatal("Verify accepted empty signature")
	}
	if signer.Verify("abc", other.Sign("abc")) {
		t.Fatal("Verify accepted a signature made with another key")
	}
}

func TestLiqpaySignerEncodeIsDeterministic(t *testing.T) {
	signer := NewLiqpaySigner("k")
	params := checkoutParams{PublicKey: "pub", Version: "3", Action: "pay", OrderID: "sub-1", Sandbox: "1"}

	first, err := signer.Encode(params)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for range 5 {
		again, err := signer.Encode(params)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if again != first {
			t.Fatalf("Encode not deterministic: %q != %q", again, first)
		}
	}
}

func TestDecodeNotification(t *testing.T) {
	signer := NewLiqpaySigner("k")

	data, err := signer.Encode(map[string]any{
		"order_id":       "sub-42",
		"status":         "Success",
		"amount":         1500.5,
		"currency":       "UAH",
		"transaction_id": 2361958394,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	n, err := signer.DecodeNotification(data)
	if err != nil {
		t.Fatalf("DecodeNotification: %v", err)
	}
	if n.OrderID != "sub-42" || n.Status != "success" || n.Currency != "UAH" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.TransactionID != "2361958394" {
		t.Fatalf("TransactionID = %q", n.TransactionID)
	}
	if n.Amount == nil || n.Amount.String() != "1500.5" {
		t.Fatalf("Amount = %v", n.Amount)
	}
}

func TestDecodeNotificationFallsBackToPaymentID(t *testing.T) {
	signer := NewLiqpaySigner("k")
	data, _ := signer.Encode(map[string]any{"order_id": "sub-1", "status": "failure", "payment_id": 77})

	n, err := signer.DecodeNotification(data)
	if err != nil {
		t.Fatalf("DecodeNotification: %v", err)
	}
	if n.TransactionID != "77" {
		t.Fatalf("TransactionID = %q, want 77", n.TransactionID)
	}
	if n.Amount != nil {
		t.Fatalf("Amount = %v, want nil", n.Amount)
	}
}

func TestDecodeNotificationMalformed(t *testing.T) {
	signer := NewLiqpaySigner("k")

	for _, data := range []string{
		"not base64!!",
		base64.StdEncoding.EncodeToString([]byte("{not json")),
		base64.StdEncoding.EncodeToString([]byte("null")),
	} {
		if _, err := signer.DecodeNotification(data); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("DecodeNotification(%q) error = %v, want ErrMalformedPayload", data, err)
		}
	}
}
