package schema

import (
	"errors"
	"testing"
)

func TestFunnelSchema(t *testing.T) {
	v := MustNew()

	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"full payload", `{"client":{"name":"Acme","email":"a@acme.io","phone":"+1555"},"subaccount":{"id":"sub_1"}}`, true},
		{"numeric subaccount id", `{"client":{},"subaccount":{"id":42}}`, true},
		{"null contact fields", `{"client":{"name":null,"email":null},"subaccount":{"id":"x"}}`, true},
		{"missing client", `{"subaccount":{"id":"sub_1"}}`, false},
		{"missing subaccount", `{"client":{"name":"Acme"}}`, false},
		{"missing subaccount id", `{"client":{},"subaccount":{}}`, false},
		{"empty subaccount id", `{"client":{},"subaccount":{"id":""}}`, false},
		{"not an object", `[]`, false},
		{"malformed", `{"client":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(Funnel, []byte(tt.body))
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestCRMSchema(t *testing.T) {
	v := MustNew()

	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"event with data", `{"event":"message_received","data":{"from":"a@b.c","message":"hi"}}`, true},
		{"unknown event still valid envelope", `{"event":"contact_deleted","data":{"id":"c1"}}`, true},
		{"missing event", `{"data":{"id":"c1"}}`, false},
		{"empty event", `{"event":"","data":{"id":"c1"}}`, false},
		{"empty data", `{"event":"message_received","data":{}}`, false},
		{"missing data", `{"event":"onboarding_completed"}`, false},
		{"null data", `{"event":"onboarding_completed","data":null}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(CRM, []byte(tt.body))
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestUnknownSchema(t *testing.T) {
	if err := MustNew().Validate("billing", []byte(`{}`)); err == nil {
		t.Fatal("expected error for unknown schema")
	}
}
