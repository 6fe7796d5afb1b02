package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/careloop/symptom-intake/internal/domain/providers"
	"github.com/careloop/symptom-intake/pkg/config"
)

func TestNewWhatsAppCloudSender(t *testing.T) {
	tests := []struct {
		name          string
		accessToken   string
		phoneNumberID string
		wantErr       bool
	}{
		{
			name:          "Valid credentials",
			accessToken:   "test_token",
			phoneNumberID: "123456789",
			wantErr:       false,
		},
		{
			name:          "Missing access token",
			accessToken:   "",
			phoneNumberID: "123456789",
			wantErr:       true,
		},
		{
			name:          "Missing phone number ID",
			accessToken:   "test_token",
			phoneNumberID: "",
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewWhatsAppCloudSender(&config.WhatsAppConfig{
				AccessToken:   tt.accessToken,
				PhoneNumberID: tt.phoneNumberID,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewWhatsAppCloudSender() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && sender == nil {
				t.Error("NewWhatsAppCloudSender() returned nil sender")
			}
		})
	}
}

func TestWhatsAppCloudSender_SendFollowUp(t *testing.T) {
	tests := []struct {
		name           string
		msg            providers.FollowUpMessage
		mockStatusCode int
		mockResponse   WhatsAppResponse
		wantErr        bool
	}{
		{
			name: "Successful send",
			msg: providers.FollowUpMessage{
				To:        "+2348001234567",
				Name:      "Ada",
				YesAction: "http://localhost:8080/api/followup/respond?decision=yes&risk_id=r1",
				NoAction:  "http://localhost:8080/api/followup/respond?decision=no&risk_id=r1",
			},
			mockStatusCode: http.StatusOK,
			mockResponse: WhatsAppResponse{
				MessagingProduct: "whatsapp",
				Messages: []struct {
					ID string `json:"id"`
				}{
					{ID: "wamid.test123"},
				},
			},
			wantErr: false,
		},
		{
			name: "API error response",
			msg: providers.FollowUpMessage{
				To: "+2348001234567",
			},
			mockStatusCode: http.StatusBadRequest,
			mockResponse:   WhatsAppResponse{},
			wantErr:        true,
		},
		{
			name: "API rate limit error",
			msg: providers.FollowUpMessage{
				To: "+2348001234567",
			},
			mockStatusCode: http.StatusTooManyRequests,
			mockResponse:   WhatsAppResponse{},
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != "POST" {
					t.Errorf("Expected POST request, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("Expected Content-Type: application/json, got %s", r.Header.Get("Content-Type"))
				}

				w.WriteHeader(tt.mockStatusCode)
				if err := json.NewEncoder(w).Encode(tt.mockResponse); err != nil {
					t.Errorf("failed to encode mock response: %v", err)
				}
			}))
			defer server.Close()

			sender := &WhatsAppCloudSender{
				accessToken:   "test_token",
				phoneNumberID: "123456789",
				httpClient:    server.Client(),
				baseURL:       server.URL,
			}

			messageID, err := sender.SendFollowUp(context.Background(), tt.msg)

			if (err != nil) != tt.wantErr {
				t.Errorf("SendFollowUp() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && messageID == "" {
				t.Error("SendFollowUp() returned empty message ID")
			}
		})
	}
}

func TestWhatsAppCloudSender_SendFollowUp_EmbedsActionURLs(t *testing.T) {
	var captured WhatsAppTextMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if err := json.NewEncoder(w).Encode(WhatsAppResponse{
			Messages: []struct {
				ID string `json:"id"`
			}{{ID: "wamid.actions"}},
		}); err != nil {
			t.Errorf("failed to encode mock response: %v", err)
		}
	}))
	defer server.Close()

	sender := &WhatsAppCloudSender{
		accessToken:   "test_token",
		phoneNumberID: "123456789",
		httpClient:    server.Client(),
		baseURL:       server.URL,
	}

	_, err := sender.SendFollowUp(context.Background(), providers.FollowUpMessage{
		To:        "+2348001234567",
		YesAction: "http://example.test/yes",
		NoAction:  "http://example.test/no",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(captured.Text.Body, "http://example.test/yes") {
		t.Errorf("body missing yes action URL: %s", captured.Text.Body)
	}
	if !strings.Contains(captured.Text.Body, "http://example.test/no") {
		t.Errorf("body missing no action URL: %s", captured.Text.Body)
	}
}

func TestWhatsAppResponse_NoMessageID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(WhatsAppResponse{
			Messages: []struct {
				ID string `json:"id"`
			}{},
		}); err != nil {
			t.Errorf("failed to encode mock response: %v", err)
		}
	}))
	defer server.Close()

	sender := &WhatsAppCloudSender{
		accessToken:   "test_token",
		phoneNumberID: "123456789",
		baseURL:       server.URL,
		httpClient:    server.Client(),
	}

	_, err := sender.SendFollowUp(context.Background(), providers.FollowUpMessage{To: "+2348001234567"})
	if err == nil {
		t.Error("Expected error for missing message ID, got nil")
	}
}
