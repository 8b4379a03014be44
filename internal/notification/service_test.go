package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/security"
)

type mockNotificationRepo struct {
	createFn func(ctx context.Context, n *model.Notification) error
	listFn   func(ctx context.Context) ([]*model.Notification, error)

	created []*model.Notification
	deleted []string
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	m.created = append(m.created, n)
	if m.createFn != nil {
		return m.createFn(ctx, n)
	}
	return nil
}
func (m *mockNotificationRepo) List(ctx context.Context) ([]*model.Notification, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockNotificationRepo) DeleteByID(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo *mockNotificationRepo) *Service {
	return NewService(repo, security.NewTextSanitizer(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithClock(func() time.Time { return testNow }))
}

func TestCreate_Success(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := newTestService(repo)

	n, err := svc.Create(context.Background(), "年末年始の営業時間", "12/31〜1/3は休館します")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if n.ID == "" {
		t.Error("notification id is empty")
	}
	if !n.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", n.CreatedAt, testNow)
	}
	if len(repo.created) != 1 {
		t.Errorf("created = %d, want 1", len(repo.created))
	}
}

func TestCreate_SanitizesInput(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := newTestService(repo)

	n, err := svc.Create(context.Background(),
		`<script>alert(1)</script>設備点検のお知らせ`,
		"<b>6/10</b>はプール利用不可")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if n.Title != "設備点検のお知らせ" {
		t.Errorf("Title = %q, want sanitized text", n.Title)
	}
	if n.Description != "6/10はプール利用不可" {
		t.Errorf("Description = %q, want sanitized text", n.Description)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	tests := []struct {
		name        string
		title, desc string
	}{
		{"empty title", "", "本文"},
		{"empty description", "タイトル", ""},
		{"title empty after sanitize", "<script>x</script>", "本文"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockNotificationRepo{}
			svc := newTestService(repo)

			_, err := svc.Create(context.Background(), tt.title, tt.desc)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotificationRequired {
				t.Errorf("error = %v, want NOTIFICATION_FIELDS_REQUIRED", err)
			}
			if len(repo.created) != 0 {
				t.Error("notification was created despite validation error")
			}
		})
	}
}

func TestList_PropagatesError(t *testing.T) {
	repo := &mockNotificationRepo{
		listFn: func(ctx context.Context) ([]*model.Notification, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(repo)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDelete(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), "n-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "n-1" {
		t.Errorf("deleted = %v, want [n-1]", repo.deleted)
	}
}
