package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/application/registry"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/infrastructure/memory"
	"github.com/jhoicas/customer-registry/internal/infrastructure/pdf"
	"github.com/jhoicas/customer-registry/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/customer-registry/internal/infrastructure/xmlexport"
	apphttp "github.com/jhoicas/customer-registry/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/customer-registry/pkg/jwt"
	"github.com/jhoicas/customer-registry/pkg/logger"
)

type testServer struct {
	app     *fiber.App
	country *entity.Country
}

// newServer arma la API completa sobre el almacenamiento en memoria.
func newServer(t *testing.T, jwtSecret string) *testServer {
	t.Helper()
	store := memory.NewStore()
	lk, err := store.SeedCountry("Sri Lanka", "Colombo", "Kandy")
	require.NoError(t, err)

	log := logger.Nop()
	customerUC := registry.NewCustomerUseCase(store, store.Customers(), log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CustomerUC:     customerUC,
		BulkImportUC:   registry.NewBulkImportUseCase(customerUC, spreadsheet.NewParser(), spreadsheet.Factory, 100, log),
		ProfileUC:      registry.NewProfileUseCase(store.Customers(), pdf.NewMarotoProfileGenerator("test")),
		ExportUC:       registry.NewExportUseCase(store.Customers(), xmlexport.NewExporter(0)),
		ReferenceUC:    registry.NewReferenceUseCase(store.Cities(), store.Countries()),
		JWTSecret:      jwtSecret,
		MaxUploadBytes: 1 << 20,
	})
	return &testServer{app: app, country: lk}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, contentType, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) doJSON(t *testing.T, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return s.do(t, method, path, body, fiber.MIMEApplicationJSON, "")
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func multipartFile(t *testing.T, field, filename, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCustomerAPI_CRUD(t *testing.T) {
	s := newServer(t, "")
	cityID := s.country.Cities()[0].ID

	payload := map[string]interface{}{
		"name":          "Ana Perera",
		"dateOfBirth":   "1990-05-03",
		"nic":           "901234567V",
		"mobileNumbers": []string{"0771"},
		"addresses": []map[string]interface{}{
			{"addressLine1": "12 Main St", "addressLine2": "", "cityId": cityID, "countryId": s.country.ID},
		},
	}
	resp := s.doJSON(t, http.MethodPost, "/api/customers", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CustomerRecord](t, resp)
	require.NotZero(t, created.ID)
	assert.Equal(t, "1990-05-03", created.DateOfBirth.Format(dto.DateLayout))

	resp = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/customers/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "901234567V", got["nic"])
	assert.Equal(t, "1990-05-03", got["dateOfBirth"])
	assert.Equal(t, []interface{}{}, got["familyMemberIds"])

	payload["name"] = "Ana María"
	payload["mobileNumbers"] = []string{"0779", "0778"}
	resp = s.doJSON(t, http.MethodPut, fmt.Sprintf("/api/customers/%d", created.ID), payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.CustomerRecord](t, resp)
	assert.Equal(t, "Ana María", updated.Name)
	assert.Equal(t, []string{"0779", "0778"}, updated.MobileNumbers)

	resp = s.doJSON(t, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.CustomerRecord](t, resp), 1)

	resp = s.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/customers/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/customers/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
	assert.Equal(t, fmt.Sprintf("Customer not found with id: %d", created.ID), errBody.Message)
}

func TestCustomerAPI_Errores(t *testing.T) {
	s := newServer(t, "")
	base := map[string]interface{}{"name": "Ana", "dateOfBirth": "1990-05-03", "nic": "X1"}

	resp := s.doJSON(t, http.MethodPost, "/api/customers", base)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.doJSON(t, http.MethodPost, "/api/customers", base)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Customer with NIC X1 already exists", decode[dto.ErrorResponse](t, resp).Message)

	withBadCity := map[string]interface{}{
		"name": "Ben", "dateOfBirth": "1990-05-03", "nic": "X2",
		"addresses": []map[string]interface{}{{"addressLine1": "l1", "cityId": 999}},
	}
	resp = s.doJSON(t, http.MethodPost, "/api/customers", withBadCity)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "REFERENCE_NOT_FOUND", body.Code)
	assert.Equal(t, "City not found with id: 999", body.Message)

	resp = s.doJSON(t, http.MethodPost, "/api/customers", map[string]interface{}{"nic": "X3"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/api/customers", strings.NewReader(`{"dateOfBirth":"03-05-1990"}`), fiber.MIMEApplicationJSON, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.doJSON(t, http.MethodGet, "/api/customers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.doJSON(t, http.MethodPut, "/api/customers/42", base)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.doJSON(t, http.MethodDelete, "/api/customers/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomerAPI_BulkUpload(t *testing.T) {
	s := newServer(t, "")
	csv := "Name,Date of Birth,NIC,Mobile Numbers,City ID\n" +
		"Ana,1990-05-03,X1,0771;0772,\n" +
		"Ben,1991-01-01,X2,,999\n" +
		"Ana bis,1990-05-03,X1,,\n"
	body, contentType := multipartFile(t, "file", "clientes.csv", csv)

	resp := s.do(t, http.MethodPost, "/api/customers/bulk-upload", body, contentType, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[map[string]interface{}](t, resp)
	assert.Equal(t, float64(3), report["totalRecords"])
	assert.Equal(t, float64(1), report["successCount"])
	assert.Equal(t, float64(2), report["failureCount"])
	assert.Equal(t,
		"Some records failed to process. Errors: Row 2: City not found with id: 999, Duplicate NIC: X1",
		report["message"])
}

func TestCustomerAPI_BulkUploadArchivoInvalido(t *testing.T) {
	s := newServer(t, "")

	body, contentType := multipartFile(t, "otro", "clientes.csv", "Name\n")
	resp := s.do(t, http.MethodPost, "/api/customers/bulk-upload", body, contentType, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, contentType = multipartFile(t, "file", "clientes.pdf", "%PDF")
	resp = s.do(t, http.MethodPost, "/api/customers/bulk-upload", body, contentType, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_FILE", decode[dto.ErrorResponse](t, resp).Code)

	body, contentType = multipartFile(t, "file", "clientes.csv", "Foo,Bar\n1,2\n")
	resp = s.do(t, http.MethodPost, "/api/customers/bulk-upload", body, contentType, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_FILE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCustomerAPI_PDFYExport(t *testing.T) {
	s := newServer(t, "")
	resp := s.doJSON(t, http.MethodPost, "/api/customers", map[string]interface{}{
		"name": "Ana", "dateOfBirth": "1990-05-03", "nic": "X1", "mobileNumbers": []string{"0771"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CustomerRecord](t, resp)

	resp = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/customers/%d/pdf", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cliente-X1.pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	resp = s.doJSON(t, http.MethodGet, "/api/customers/99/pdf", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.doJSON(t, http.MethodGet, "/api/customers/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	xmlBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(xmlBytes), `<customer id="1" nic="X1">`)
}

func TestReferenceAPI(t *testing.T) {
	s := newServer(t, "")

	resp := s.doJSON(t, http.MethodGet, "/api/countries", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	countries := decode[[]dto.CountryResponse](t, resp)
	require.Len(t, countries, 1)
	assert.Equal(t, "Sri Lanka", countries[0].Name)

	resp = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/countries/%d/cities", s.country.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cities := decode[[]dto.CityResponse](t, resp)
	require.Len(t, cities, 2)
	assert.Equal(t, "Colombo", cities[0].Name)

	resp = s.doJSON(t, http.MethodGet, fmt.Sprintf("/api/cities/%d", cities[1].ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, s.country.ID, decode[dto.CityResponse](t, resp).CountryID)

	resp = s.doJSON(t, http.MethodGet, "/api/countries/77", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ConJWT(t *testing.T) {
	s := newServer(t, testJWTSecret)
	operator := tokenForRole(t, pkgjwt.RoleOperator)
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	resp := s.do(t, http.MethodGet, "/api/customers", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/customers", nil, "", operator)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/customers",
		strings.NewReader(`{"name":"Ana","dateOfBirth":"1990-05-03","nic":"X1"}`), fiber.MIMEApplicationJSON, operator)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CustomerRecord](t, resp)
	path := fmt.Sprintf("/api/customers/%d", created.ID)

	resp = s.do(t, http.MethodDelete, path, nil, "", operator)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, contentType := multipartFile(t, "file", "c.csv", "Name,Date of Birth,NIC\n")
	resp = s.do(t, http.MethodPost, "/api/customers/bulk-upload", body, contentType, operator)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, path, nil, "", admin)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
