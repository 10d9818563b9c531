package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bengkelku.id/app/internal/http/middleware"
	"bengkelku.id/app/internal/modules/catalog"
	"bengkelku.id/app/internal/shared/apperr"
)

type CatalogHandler struct {
	Catalog *catalog.Repo
}

func NewCatalogHandler(repo *catalog.Repo) *CatalogHandler {
	return &CatalogHandler{Catalog: repo}
}

// GET /packages
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	list, err := h.Catalog.ListPackages(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /mechanics
func (h *CatalogHandler) ListMechanics(c *gin.Context) {
	list, err := h.Catalog.ListMechanics(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /mechanics/:id
func (h *CatalogHandler) GetMechanic(c *gin.Context) {
	m, err := h.Catalog.GetMechanic(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Mechanic not found"))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, m)
}
