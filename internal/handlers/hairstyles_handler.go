package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-onboarding/internal/diagnostics"
	"github.com/BruksfildServices01/salon-onboarding/internal/domain/onboarding"
	"github.com/BruksfildServices01/salon-onboarding/internal/dto"
	ucOnboarding "github.com/BruksfildServices01/salon-onboarding/internal/usecase/onboarding"
)

type HairstylesHandler struct {
	responder
	catalog *ucOnboarding.ListCatalog
	replace *ucOnboarding.ReplaceHairstyles
}

func NewHairstylesHandler(
	catalog *ucOnboarding.ListCatalog,
	replace *ucOnboarding.ReplaceHairstyles,
	reporter diagnostics.Reporter,
) *HairstylesHandler {
	return &HairstylesHandler{
		responder: newResponder(reporter),
		catalog:   catalog,
		replace:   replace,
	}
}

func (h *HairstylesHandler) Catalog(c *gin.Context) {
	list, err := h.catalog.Execute(c.Request.Context())
	if err != nil {
		h.fail(c, "list_catalog", err)
		return
	}

	c.JSON(http.StatusOK, dto.CatalogResponse{Hairstyles: list})
}

// Replace swaps the hairdresser's whole selection for the submitted set in
// one transaction.
func (h *HairstylesHandler) Replace(c *gin.Context) {
	var req dto.HairstylesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	userID, ok := ownerID(c, req.UserID)
	if !ok {
		return
	}

	sel := make([]onboarding.HairstyleSelection, 0, len(req.Hairstyles))
	for _, item := range req.Hairstyles {
		sel = append(sel, onboarding.HairstyleSelection{
			HairstyleID:     item.HairstyleID,
			Price:           item.Price,
			PortfolioImages: item.PortfolioImages,
		})
	}

	rows, err := h.replace.Execute(c.Request.Context(), userID, sel)
	if err != nil {
		h.fail(c, "replace_hairstyles", err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
