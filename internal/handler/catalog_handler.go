package handler

import (
	"net/http"

	"github.com/hitoshi/gymman/internal/catalog"
)

// CatalogHandler はパッケージカタログのHTTPハンドラー。
// カタログはイミュータブルなためサービス層を介さず直接参照する。
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// packageResponse は会員パッケージのAPIレスポンス。
type packageResponse struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	DurationLabel string `json:"durationLabel"`
	Price         int    `json:"price"`
}

// List は全パッケージ定義を表示順で返す。
// GET /api/packages
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	packages := h.catalog.All()

	results := make([]packageResponse, len(packages))
	for i, p := range packages {
		results[i] = packageResponse{
			Type:          p.Type,
			Name:          p.Name,
			DurationLabel: p.DurationLabel,
			Price:         p.Price,
		}
	}
	writeJSON(w, http.StatusOK, results)
}
