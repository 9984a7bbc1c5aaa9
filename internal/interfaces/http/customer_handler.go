package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/application/registry"
)

// CustomerHandler maneja las peticiones HTTP del registro de clientes.
type CustomerHandler struct {
	uc             *registry.CustomerUseCase
	bulk           *registry.BulkImportUseCase
	profile        *registry.ProfileUseCase
	export         *registry.ExportUseCase
	maxUploadBytes int64
}

// NewCustomerHandler construye el handler. maxUploadBytes <= 0 desactiva el límite propio
// (queda el BodyLimit de fiber).
func NewCustomerHandler(
	uc *registry.CustomerUseCase,
	bulk *registry.BulkImportUseCase,
	profile *registry.ProfileUseCase,
	export *registry.ExportUseCase,
	maxUploadBytes int64,
) *CustomerHandler {
	return &CustomerHandler{uc: uc, bulk: bulk, profile: profile, export: export, maxUploadBytes: maxUploadBytes}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRecord  true  "name, dateOfBirth, nic, mobileNumbers, addresses, familyMemberIds"
// @Success      201   {object}  dto.CustomerRecord
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRecord
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente (reemplaza móviles, direcciones y familiares)
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "ID del cliente"
// @Param        body  body  dto.CustomerRecord  true  "registro completo"
// @Success      200   {object}  dto.CustomerRecord
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in dto.CustomerRecord
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerRecord
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CustomerRecord
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         customers
// @Security     Bearer
// @Param        id  path  int  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkUpload godoc
// @Summary      Carga masiva desde Excel o CSV
// @Tags         customers
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  ".xlsx o .csv con columnas Name, Date of Birth, NIC"
// @Success      200   {object}  dto.BulkUploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Router       /api/customers/bulk-upload [post]
func (h *CustomerHandler) BulkUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "campo 'file' requerido"})
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo supera %d bytes", h.maxUploadBytes),
		})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	defer f.Close()

	report, err := h.bulk.ImportFile(c.Context(), f, fh.Filename)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// ProfilePDF godoc
// @Summary      Ficha del cliente en PDF
// @Tags         customers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del cliente"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/pdf [get]
func (h *CustomerHandler) ProfilePDF(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	pdfBytes, filename, err := h.profile.Render(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// ExportXML godoc
// @Summary      Exportar el registro completo en XML
// @Tags         customers
// @Security     Bearer
// @Produce      application/xml
// @Success      200  {file}  binary
// @Router       /api/customers/export [get]
func (h *CustomerHandler) ExportXML(c *fiber.Ctx) error {
	out, err := h.export.ExportXML(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="clientes.xml"`)
	return c.Send(out)
}
