package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	records []*Notification
}

func (s *memStore) Create(_ context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, n)
	return nil
}

func (s *memStore) ListByRecipient(_ context.Context, recipient string, limit int) ([]*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Notification
	for _, n := range s.records {
		if n.Recipient == recipient && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.records {
		if n.ID == id {
			now := time.Now()
			n.ReadAt = &now
			return nil
		}
	}
	return ErrNotFound
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, string, string, string) error {
	return errors.New("relay down")
}

type okMailer struct{ sent int }

func (m *okMailer) Send(context.Context, string, string, string) error {
	m.sent++
	return nil
}

func TestSMSClientPostsProviderPayload(t *testing.T) {
	var got smsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewSMSClient(srv.URL, "key-1", "partner-1", "ALIVE")
	err := client.Send(context.Background(), "+254700000001", "your code is 123456")
	require.NoError(t, err)

	require.Equal(t, "key-1", got.APIKey)
	require.Equal(t, "partner-1", got.PartnerID)
	require.Equal(t, "ALIVE", got.Shortcode)
	require.Equal(t, "+254700000001", got.Mobile)
	require.Equal(t, "your code is 123456", got.Message)
}

func TestSMSClientRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewSMSClient(srv.URL, "key", "partner", "ALIVE")
	err := client.Send(context.Background(), "+254700000001", "hello")
	require.Error(t, err)
}

func TestSMSClientUnconfigured(t *testing.T) {
	client := NewSMSClient("", "", "", "")
	require.Error(t, client.Send(context.Background(), "+254700000001", "hello"))
}

func TestGatewayRecordsSentAndFailed(t *testing.T) {
	store := &memStore{}
	mailer := &okMailer{}
	g := NewGateway(mailer, nil, store)

	require.True(t, g.SendEmail(context.Background(), "a@example.com", "Welcome", "<p>hi</p>"))
	require.False(t, g.SendSMS(context.Background(), "+254700000001", "hi"))

	require.Len(t, store.records, 2)
	require.Equal(t, StatusSent, store.records[0].Status)
	require.Equal(t, ChannelEmail, store.records[0].Channel)
	require.Equal(t, StatusFailed, store.records[1].Status)
	require.Equal(t, ChannelSMS, store.records[1].Channel)
	require.Equal(t, 1, mailer.sent)
}

func TestGatewayFailedDeliveryDoesNotPropagate(t *testing.T) {
	store := &memStore{}
	g := NewGateway(failingMailer{}, nil, store)

	require.False(t, g.SendEmail(context.Background(), "a@example.com", "Welcome", "<p>hi</p>"))
	require.Len(t, store.records, 1)
	require.Equal(t, StatusFailed, store.records[0].Status)
}

func TestGatewayListClampsLimit(t *testing.T) {
	store := &memStore{}
	g := NewGateway(&okMailer{}, nil, store)
	for i := 0; i < 60; i++ {
		g.SendEmail(context.Background(), "a@example.com", "s", "m")
	}

	out, err := g.ListByRecipient(context.Background(), "a@example.com", 0)
	require.NoError(t, err)
	require.Len(t, out, 50)
}

func TestPGStoreMarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPGStore(db)

	mock.ExpectExec("update notifications set read_at").
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.MarkRead(context.Background(), "n1"))

	mock.ExpectExec("update notifications set read_at").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	require.ErrorIs(t, store.MarkRead(context.Background(), "missing"), ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreListByRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPGStore(db)
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("select (.+) from notifications").
		WithArgs("a@example.com", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient", "channel", "subject", "message", "status", "read_at", "created_at"}).
			AddRow("n1", "a@example.com", ChannelEmail, "Welcome", "<p>hi</p>", StatusSent, nil, created))

	out, err := store.ListByRecipient(context.Background(), "a@example.com", 20)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Nil(t, out[0].ReadAt)
	require.Equal(t, created, out[0].CreatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}
