package dto

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// FlexString accepts a JSON string or number. External senders are not
// consistent about id types.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// --- Funnel (client provisioning) ---

type FunnelWebhook struct {
	Client     *FunnelClient     `json:"client"`
	Subaccount *FunnelSubaccount `json:"subaccount"`
}

type FunnelClient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type FunnelSubaccount struct {
	ID FlexString `json:"id"`
}

type FunnelCreatedResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	ClientID  uuid.UUID  `json:"clientId"`
	ProjectID *uuid.UUID `json:"projectId"`
}

type FunnelExistingResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	ClientID uuid.UUID `json:"clientId"`
}

// --- CRM (event dispatch) ---

type CRMWebhook struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type OnboardingCompletedData struct {
	SubaccountID FlexString `json:"subaccount_id"`
}

type TaskStatusChangedData struct {
	TaskID FlexString `json:"task_id"`
	Status string     `json:"status"`
}

type MessageReceivedData struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

type WebhookSuccess struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WebhookError is the error body shared by both webhook endpoints.
type WebhookError struct {
	Error string `json:"error"`
}
