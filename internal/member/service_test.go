package member

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/gymman/internal/catalog"
	"github.com/hitoshi/gymman/internal/model"
	"github.com/hitoshi/gymman/internal/repository"
	"github.com/hitoshi/gymman/internal/security"
)

type mockMemberRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Member, error)
	createFn     func(ctx context.Context, m *model.Member) error
	updateDietFn func(ctx context.Context, id, dietDetails string, updatedAt time.Time) error

	created      []*model.Member
	deleted      []string
	dietsUpdated []string
}

func (m *mockMemberRepo) FindByID(ctx context.Context, id string) (*model.Member, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockMemberRepo) List(ctx context.Context) ([]*model.Member, error) {
	return nil, nil
}
func (m *mockMemberRepo) Create(ctx context.Context, member *model.Member) error {
	m.created = append(m.created, member)
	if m.createFn != nil {
		return m.createFn(ctx, member)
	}
	return nil
}
func (m *mockMemberRepo) MarkExpired(ctx context.Context, id string, processedAt time.Time) error {
	return nil
}
func (m *mockMemberRepo) UpdateLastReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	return nil
}
func (m *mockMemberRepo) UpdateRenewal(ctx context.Context, id, packageType string, expiry, renewedAt time.Time) error {
	return nil
}
func (m *mockMemberRepo) UpdateDiet(ctx context.Context, id, dietDetails string, updatedAt time.Time) error {
	m.dietsUpdated = append(m.dietsUpdated, id)
	if m.updateDietFn != nil {
		return m.updateDietFn(ctx, id, dietDetails, updatedAt)
	}
	return nil
}
func (m *mockMemberRepo) DeleteByID(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockOrderRepo struct {
	createFn func(ctx context.Context, order *model.Order) error
	created  []*model.Order
}

func (m *mockOrderRepo) Create(ctx context.Context, order *model.Order) error {
	m.created = append(m.created, order)
	if m.createFn != nil {
		return m.createFn(ctx, order)
	}
	return nil
}
func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) ListByMemberID(ctx context.Context, memberID string) ([]*model.Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) ListAllWithMember(ctx context.Context) ([]repository.OrderWithMember, error) {
	return nil, nil
}
func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, updatedAt time.Time) error {
	return nil
}
func (m *mockOrderRepo) DeleteByID(ctx context.Context, id string) error {
	return nil
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(memberRepo *mockMemberRepo, orderRepo *mockOrderRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(memberRepo, orderRepo, security.NewTextSanitizer(),
		catalog.Default(logger), logger,
		WithClock(func() time.Time { return testNow }))
}

func wantAPIError(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected APIError %s, got nil", code)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != code {
		t.Errorf("error code = %q, want %q", apiErr.Code, code)
	}
}

func TestCreate_Success(t *testing.T) {
	memberRepo := &mockMemberRepo{}
	orderRepo := &mockOrderRepo{}
	svc := newTestService(memberRepo, orderRepo)

	m, err := svc.Create(context.Background(), CreateMemberInput{
		ID: "member-1", Email: "taro@example.com", Name: "Taro",
		PackageType: catalog.PackageSixMonths,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if m.Status != model.StatusActive {
		t.Errorf("status = %q, want active", m.Status)
	}
	wantExpiry := testNow.Add(180 * 24 * time.Hour)
	if m.ExpiryDate == nil || !m.ExpiryDate.Equal(wantExpiry) {
		t.Errorf("ExpiryDate = %v, want %v", m.ExpiryDate, wantExpiry)
	}

	// 入会金が収益台帳に記録される
	if len(orderRepo.created) != 1 {
		t.Fatalf("orders created = %d, want 1", len(orderRepo.created))
	}
	if orderRepo.created[0].TotalPrice != 5099 {
		t.Errorf("order total = %d, want 5099", orderRepo.created[0].TotalPrice)
	}
	if orderRepo.created[0].Items[0].Category != model.ItemCategoryMembership {
		t.Errorf("item category = %q, want membership", orderRepo.created[0].Items[0].Category)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input CreateMemberInput
	}{
		{"missing id", CreateMemberInput{Email: "a@example.com", Name: "A"}},
		{"missing name", CreateMemberInput{ID: "m1", Email: "a@example.com"}},
		{"missing email", CreateMemberInput{ID: "m1", Name: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memberRepo := &mockMemberRepo{}
			svc := newTestService(memberRepo, &mockOrderRepo{})

			_, err := svc.Create(context.Background(), tt.input)
			wantAPIError(t, err, model.ErrCodeMemberFieldsRequired)
			if len(memberRepo.created) != 0 {
				t.Error("member was created despite validation error")
			}
		})
	}
}

func TestCreate_DefaultsToBasic(t *testing.T) {
	memberRepo := &mockMemberRepo{}
	svc := newTestService(memberRepo, &mockOrderRepo{})

	m, err := svc.Create(context.Background(), CreateMemberInput{
		ID: "member-1", Email: "a@example.com", Name: "A",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if m.PackageType != catalog.PackageBasic {
		t.Errorf("PackageType = %q, want basic", m.PackageType)
	}
	wantExpiry := testNow.Add(30 * 24 * time.Hour)
	if m.ExpiryDate == nil || !m.ExpiryDate.Equal(wantExpiry) {
		t.Errorf("ExpiryDate = %v, want %v", m.ExpiryDate, wantExpiry)
	}
}

// 台帳書き込みの失敗は登録を失敗させない。
func TestCreate_OrderFailureNotFatal(t *testing.T) {
	orderRepo := &mockOrderRepo{
		createFn: func(ctx context.Context, order *model.Order) error {
			return errors.New("ledger unavailable")
		},
	}
	svc := newTestService(&mockMemberRepo{}, orderRepo)

	if _, err := svc.Create(context.Background(), CreateMemberInput{
		ID: "member-1", Email: "a@example.com", Name: "A",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(&mockMemberRepo{}, &mockOrderRepo{})

	_, err := svc.Get(context.Background(), "ghost")
	wantAPIError(t, err, model.ErrCodeMemberNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	memberRepo := &mockMemberRepo{}
	svc := newTestService(memberRepo, &mockOrderRepo{})

	err := svc.Delete(context.Background(), "ghost")
	wantAPIError(t, err, model.ErrCodeMemberNotFound)
	if len(memberRepo.deleted) != 0 {
		t.Error("delete was issued for unknown member")
	}
}

func TestUpdateDiet_Success(t *testing.T) {
	expiry := testNow.Add(30 * 24 * time.Hour)
	memberRepo := &mockMemberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Member, error) {
			return &model.Member{
				ID: id, Status: model.StatusActive, ExpiryDate: &expiry,
			}, nil
		},
		updateDietFn: func(ctx context.Context, id, dietDetails string, updatedAt time.Time) error {
			// HTMLタグが除去された状態で保存される
			if dietDetails != "鶏胸肉 300g" {
				t.Errorf("stored diet = %q, want sanitized plain text", dietDetails)
			}
			return nil
		},
	}
	svc := newTestService(memberRepo, &mockOrderRepo{})

	m, err := svc.UpdateDiet(context.Background(), "member-1", "<b>鶏胸肉 300g</b>")
	if err != nil {
		t.Fatalf("UpdateDiet returned error: %v", err)
	}
	if m.DietDetails != "鶏胸肉 300g" {
		t.Errorf("DietDetails = %q, want sanitized text", m.DietDetails)
	}
	if m.DietUpdatedAt == nil || !m.DietUpdatedAt.Equal(testNow) {
		t.Errorf("DietUpdatedAt = %v, want %v", m.DietUpdatedAt, testNow)
	}
}

func TestUpdateDiet_EmptyAfterSanitize(t *testing.T) {
	memberRepo := &mockMemberRepo{}
	svc := newTestService(memberRepo, &mockOrderRepo{})

	_, err := svc.UpdateDiet(context.Background(), "member-1", `<script>alert("x")</script>`)
	wantAPIError(t, err, model.ErrCodeDietRequired)
	if len(memberRepo.dietsUpdated) != 0 {
		t.Error("diet was updated despite empty sanitized input")
	}
}

func TestUpdateDiet_ExpiredMembership(t *testing.T) {
	expired := testNow.Add(-24 * time.Hour)
	memberRepo := &mockMemberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Member, error) {
			return &model.Member{ID: id, Status: model.StatusActive, ExpiryDate: &expired}, nil
		},
	}
	svc := newTestService(memberRepo, &mockOrderRepo{})

	_, err := svc.UpdateDiet(context.Background(), "member-1", "メモ")
	wantAPIError(t, err, model.ErrCodeMembershipExpired)
}

func TestUpdateDiet_InactiveStatus(t *testing.T) {
	expiry := testNow.Add(30 * 24 * time.Hour)
	memberRepo := &mockMemberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Member, error) {
			return &model.Member{ID: id, Status: "suspended", ExpiryDate: &expiry}, nil
		},
	}
	svc := newTestService(memberRepo, &mockOrderRepo{})

	_, err := svc.UpdateDiet(context.Background(), "member-1", "メモ")
	wantAPIError(t, err, model.ErrCodeMembershipInactive)
}

func TestUpdateDiet_MemberNotFound(t *testing.T) {
	svc := newTestService(&mockMemberRepo{}, &mockOrderRepo{})

	_, err := svc.UpdateDiet(context.Background(), "ghost", "メモ")
	wantAPIError(t, err, model.ErrCodeMemberNotFound)
}

func TestGetDiet(t *testing.T) {
	dietUpdated := testNow.Add(-time.Hour)
	memberRepo := &mockMemberRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Member, error) {
			return &model.Member{
				ID: id, DietDetails: "低糖質", DietUpdatedAt: &dietUpdated,
			}, nil
		},
	}
	svc := newTestService(memberRepo, &mockOrderRepo{})

	diet, updatedAt, err := svc.GetDiet(context.Background(), "member-1")
	if err != nil {
		t.Fatalf("GetDiet returned error: %v", err)
	}
	if diet != "低糖質" {
		t.Errorf("diet = %q, want 低糖質", diet)
	}
	if updatedAt == nil || !updatedAt.Equal(dietUpdated) {
		t.Errorf("updatedAt = %v, want %v", updatedAt, dietUpdated)
	}
}
