package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/gymman/internal/member"
	"github.com/hitoshi/gymman/internal/model"
)

// mockMemberService はMemberServiceInterfaceのモック実装。
type mockMemberService struct {
	createFn     func(ctx context.Context, in member.CreateMemberInput) (*model.Member, error)
	getFn        func(ctx context.Context, memberID string) (*model.Member, error)
	listFn       func(ctx context.Context) ([]*model.Member, error)
	deleteFn     func(ctx context.Context, memberID string) error
	updateDietFn func(ctx context.Context, memberID, dietDetails string) (*model.Member, error)
	getDietFn    func(ctx context.Context, memberID string) (string, *time.Time, error)
}

func (m *mockMemberService) Create(ctx context.Context, in member.CreateMemberInput) (*model.Member, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, nil
}

func (m *mockMemberService) Get(ctx context.Context, memberID string) (*model.Member, error) {
	if m.getFn != nil {
		return m.getFn(ctx, memberID)
	}
	return nil, nil
}

func (m *mockMemberService) List(ctx context.Context) ([]*model.Member, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockMemberService) Delete(ctx context.Context, memberID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, memberID)
	}
	return nil
}

func (m *mockMemberService) UpdateDiet(ctx context.Context, memberID, dietDetails string) (*model.Member, error) {
	if m.updateDietFn != nil {
		return m.updateDietFn(ctx, memberID, dietDetails)
	}
	return nil, nil
}

func (m *mockMemberService) GetDiet(ctx context.Context, memberID string) (string, *time.Time, error) {
	if m.getDietFn != nil {
		return m.getDietFn(ctx, memberID)
	}
	return "", nil, nil
}

// --- POST /api/members テスト ---

func TestMemberHandler_Create_Success(t *testing.T) {
	joined := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := joined.Add(30 * 24 * time.Hour)
	svc := &mockMemberService{
		createFn: func(ctx context.Context, in member.CreateMemberInput) (*model.Member, error) {
			if in.ID != "member-1" {
				t.Errorf("ID = %q, want %q", in.ID, "member-1")
			}
			if in.PackageType != "basic" {
				t.Errorf("PackageType = %q, want %q", in.PackageType, "basic")
			}
			return &model.Member{
				ID:          in.ID,
				Email:       in.Email,
				Name:        in.Name,
				PackageType: in.PackageType,
				Status:      model.StatusActive,
				JoinedAt:    joined,
				ExpiryDate:  &expiry,
			}, nil
		},
	}

	h := NewMemberHandler(svc)

	body := `{"id": "member-1", "email": "taro@example.com", "name": "山田太郎", "packageType": "basic"}`
	req := httptest.NewRequest(http.MethodPost, "/api/members", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["id"] != "member-1" {
		t.Errorf("id = %v, want %q", result["id"], "member-1")
	}
	if result["status"] != model.StatusActive {
		t.Errorf("status = %v, want %q", result["status"], model.StatusActive)
	}
}

func TestMemberHandler_Create_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	h := NewMemberHandler(&mockMemberService{})

	body := `{invalid json`
	req := httptest.NewRequest(http.MethodPost, "/api/members", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestMemberHandler_Create_MissingFields_ReturnsBadRequest(t *testing.T) {
	svc := &mockMemberService{
		createFn: func(ctx context.Context, in member.CreateMemberInput) (*model.Member, error) {
			return nil, model.NewMemberFieldsRequiredError()
		},
	}

	h := NewMemberHandler(svc)

	body := `{"id": "member-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/members", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeMemberFieldsRequired {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeMemberFieldsRequired)
	}
}

// --- GET /api/members テスト ---

func TestMemberHandler_List_Success(t *testing.T) {
	joined := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockMemberService{
		listFn: func(ctx context.Context) ([]*model.Member, error) {
			return []*model.Member{
				{ID: "member-1", Name: "会員1", PackageType: "basic", Status: model.StatusActive, JoinedAt: joined},
				{ID: "member-2", Name: "会員2", PackageType: "fullYear", Status: model.StatusActive, JoinedAt: joined},
			}, nil
		},
	}

	h := NewMemberHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var results []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[1]["packageType"] != "fullYear" {
		t.Errorf("packageType = %v, want %q", results[1]["packageType"], "fullYear")
	}
}

// --- GET /api/members/{id} テスト ---

func TestMemberHandler_Get_NotFound_Returns404(t *testing.T) {
	svc := &mockMemberService{
		getFn: func(ctx context.Context, memberID string) (*model.Member, error) {
			return nil, model.NewMemberNotFoundError(memberID)
		},
	}

	h := NewMemberHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/members/no-such-member", nil)
	req = withChiURLParam(req, "id", "no-such-member")
	w := httptest.NewRecorder()

	h.Get(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeMemberNotFound {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeMemberNotFound)
	}
}

// --- DELETE /api/members/{id} テスト ---

func TestMemberHandler_Delete_Success_ReturnsNoContent(t *testing.T) {
	deleted := ""
	svc := &mockMemberService{
		deleteFn: func(ctx context.Context, memberID string) error {
			deleted = memberID
			return nil
		},
	}

	h := NewMemberHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/members/member-1", nil)
	req = withChiURLParam(req, "id", "member-1")
	w := httptest.NewRecorder()

	h.Delete(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if deleted != "member-1" {
		t.Errorf("deleted = %q, want %q", deleted, "member-1")
	}
}

// --- PUT /api/members/{id}/diet テスト ---

func TestMemberHandler_UpdateDiet_Success(t *testing.T) {
	updatedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockMemberService{
		updateDietFn: func(ctx context.Context, memberID, dietDetails string) (*model.Member, error) {
			if dietDetails != "高タンパク食" {
				t.Errorf("dietDetails = %q, want %q", dietDetails, "高タンパク食")
			}
			return &model.Member{
				ID:            memberID,
				DietDetails:   dietDetails,
				DietUpdatedAt: &updatedAt,
			}, nil
		},
	}

	h := NewMemberHandler(svc)

	body := `{"dietDetails": "高タンパク食"}`
	req := httptest.NewRequest(http.MethodPut, "/api/members/member-1/diet", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withChiURLParam(req, "id", "member-1")
	w := httptest.NewRecorder()

	h.UpdateDiet(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["dietDetails"] != "高タンパク食" {
		t.Errorf("dietDetails = %v, want %q", result["dietDetails"], "高タンパク食")
	}
}

func TestMemberHandler_UpdateDiet_ExpiredMembership_Returns403(t *testing.T) {
	svc := &mockMemberService{
		updateDietFn: func(ctx context.Context, memberID, dietDetails string) (*model.Member, error) {
			return nil, model.NewMembershipExpiredError()
		},
	}

	h := NewMemberHandler(svc)

	body := `{"dietDetails": "高タンパク食"}`
	req := httptest.NewRequest(http.MethodPut, "/api/members/member-1/diet", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withChiURLParam(req, "id", "member-1")
	w := httptest.NewRecorder()

	h.UpdateDiet(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeMembershipExpired {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeMembershipExpired)
	}
}

func TestMemberHandler_UpdateDiet_EmptyDetails_ReturnsBadRequest(t *testing.T) {
	svc := &mockMemberService{
		updateDietFn: func(ctx context.Context, memberID, dietDetails string) (*model.Member, error) {
			return nil, model.NewDietRequiredError()
		},
	}

	h := NewMemberHandler(svc)

	body := `{"dietDetails": ""}`
	req := httptest.NewRequest(http.MethodPut, "/api/members/member-1/diet", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = withChiURLParam(req, "id", "member-1")
	w := httptest.NewRecorder()

	h.UpdateDiet(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

// --- GET /api/members/{id}/diet テスト ---

func TestMemberHandler_GetDiet_Success(t *testing.T) {
	updatedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockMemberService{
		getDietFn: func(ctx context.Context, memberID string) (string, *time.Time, error) {
			return "低糖質食", &updatedAt, nil
		},
	}

	h := NewMemberHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/members/member-1/diet", nil)
	req = withChiURLParam(req, "id", "member-1")
	w := httptest.NewRecorder()

	h.GetDiet(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["dietDetails"] != "低糖質食" {
		t.Errorf("dietDetails = %v, want %q", result["dietDetails"], "低糖質食")
	}
}
