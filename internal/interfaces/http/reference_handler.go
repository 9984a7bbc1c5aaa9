package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/customer-registry/internal/application/registry"
)

// ReferenceHandler consultas de ciudades y países (solo lectura).
type ReferenceHandler struct {
	uc *registry.ReferenceUseCase
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(uc *registry.ReferenceUseCase) *ReferenceHandler {
	return &ReferenceHandler{uc: uc}
}

// ListCountries godoc
// @Summary      Listar países
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CountryResponse
// @Router       /api/countries [get]
func (h *ReferenceHandler) ListCountries(c *fiber.Ctx) error {
	list, err := h.uc.ListCountries(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetCountry godoc
// @Summary      Obtener país
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del país"
// @Success      200  {object}  dto.CountryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/countries/{id} [get]
func (h *ReferenceHandler) GetCountry(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetCountry(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListCities godoc
// @Summary      Listar ciudades de un país
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del país"
// @Success      200  {array}  dto.CityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/countries/{id}/cities [get]
func (h *ReferenceHandler) ListCities(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	list, err := h.uc.ListCities(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetCity godoc
// @Summary      Obtener ciudad
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la ciudad"
// @Success      200  {object}  dto.CityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cities/{id} [get]
func (h *ReferenceHandler) GetCity(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetCity(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
