package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aromaten/aromaten-backend/internal/orders"
	"github.com/aromaten/aromaten-backend/pkg/config"
)

func TestResendClientSend(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody sendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewResendClient(config.MailConfig{
		APIKey:  "re_test_key",
		BaseURL: server.URL,
		From:    "Aromaten <onboarding@resend.dev>",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Send(context.Background(), Email{
		To:      "lena@example.com",
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAuth != "Bearer re_test_key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/emails" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(gotBody.To) != 1 || gotBody.To[0] != "lena@example.com" {
		t.Fatalf("unexpected recipients %v", gotBody.To)
	}
	if gotBody.From != "Aromaten <onboarding@resend.dev>" {
		t.Fatalf("unexpected from %q", gotBody.From)
	}
}

func TestResendClientSendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid to"}`))
	}))
	defer server.Close()

	client, err := NewResendClient(config.MailConfig{APIKey: "k", BaseURL: server.URL, From: "a@b.c"}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Send(context.Background(), Email{To: "bad", Subject: "s", HTML: "h"})
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestNewResendClientRequiresKey(t *testing.T) {
	if _, err := NewResendClient(config.MailConfig{}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}

type captureSender struct {
	last Email
}

func (c *captureSender) Send(_ context.Context, email Email) error {
	c.last = email
	return nil
}

func TestOrderMailerRendersConfirmation(t *testing.T) {
	sender := &captureSender{}
	mailer, err := NewOrderMailer(sender, nil)
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}

	order := &orders.OrderDTO{
		ID:            uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000"),
		CustomerName:  "Лена Дуран",
		CustomerEmail: "lena@example.com",
		Address:       "ул. Витоша 1, София",
		TotalAmount:   decimal.NewFromFloat(118.00),
		Items: []orders.OrderItemDTO{
			{ProductName: "Midnight Oud", UnitPrice: decimal.NewFromFloat(49.90), Quantity: 2},
			{ProductName: "Bundle: Launch Duo", UnitPrice: decimal.NewFromFloat(59.00), Quantity: 1},
		},
	}

	if err := mailer.SendOrderConfirmation(context.Background(), order); err != nil {
		t.Fatalf("send confirmation: %v", err)
	}

	if sender.last.To != "lena@example.com" {
		t.Fatalf("unexpected recipient %q", sender.last.To)
	}
	if sender.last.Subject != "Потвърждение на поръчка #a1b2c3d4" {
		t.Fatalf("unexpected subject %q", sender.last.Subject)
	}
	html := sender.last.HTML
	for _, want := range []string{
		"Лена Дуран",
		"Midnight Oud",
		"Bundle: Launch Duo",
		"99.80 лв.",
		"118.00 лв.",
		"ул. Витоша 1, София",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered email missing %q", want)
		}
	}
}
