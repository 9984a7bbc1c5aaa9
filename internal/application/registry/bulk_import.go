package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/domain"
	"github.com/jhoicas/customer-registry/pkg/logger"
)

// Mensajes del resumen de carga masiva (contrato con el frontend).
const (
	MsgAllProcessed    = "All records processed successfully"
	MsgSomeFailedTitle = "Some records failed to process. Errors: "
)

// customerCreator es lo que la carga masiva necesita de la fachada de clientes.
// Lo implementa *CustomerUseCase.
type customerCreator interface {
	ExistsByNIC(ctx context.Context, nic string) (bool, error)
	Create(ctx context.Context, in dto.CustomerRecord) (*dto.CustomerRecord, error)
}

// BulkImportUseCase procesa una hoja de clientes fila por fila. Cada fila es su propia
// transacción; el lote no es transaccional y el éxito parcial es el comportamiento esperado.
type BulkImportUseCase struct {
	customers  customerCreator
	parser     SheetParser
	newDecoder RowDecoderFactory
	maxErrors  int
	log        *logger.Logger
}

// NewBulkImportUseCase construye el caso de uso. maxErrors limita los mensajes de error
// incluidos en el resumen (0 = sin límite); los contadores no se ven afectados.
func NewBulkImportUseCase(
	customers customerCreator,
	parser SheetParser,
	newDecoder RowDecoderFactory,
	maxErrors int,
	log *logger.Logger,
) *BulkImportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BulkImportUseCase{
		customers:  customers,
		parser:     parser,
		newDecoder: newDecoder,
		maxErrors:  maxErrors,
		log:        log,
	}
}

// ImportFile lee el archivo subido y lo importa. Solo falla si el archivo no se puede leer
// como tabla o si el contexto se cancela; los errores por fila van al resumen.
func (uc *BulkImportUseCase) ImportFile(ctx context.Context, r io.Reader, filename string) (*dto.BulkUploadResponse, error) {
	rows, err := uc.parser.Parse(r, filename)
	if err != nil {
		return nil, err
	}
	return uc.Import(ctx, rows)
}

// Import procesa filas ya leídas. La fila 0 es el encabezado; el resto se procesa en orden:
//  1. decodificar (falla -> "Row <n>: <motivo>")
//  2. verificar NIC existente (falla -> "Duplicate NIC: <nic>")
//  3. crear (falla -> "Row <n>: <mensaje>")
func (uc *BulkImportUseCase) Import(ctx context.Context, rows [][]string) (*dto.BulkUploadResponse, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: hoja vacía", domain.ErrUnreadableSheet)
	}
	decoder, err := uc.newDecoder(rows[0])
	if err != nil {
		if !errors.Is(err, domain.ErrUnreadableSheet) {
			err = fmt.Errorf("%w: %v", domain.ErrUnreadableSheet, err)
		}
		return nil, err
	}

	log := uc.log.WithStr("batch_id", uuid.NewString())
	log.Info().Int("rows", len(rows)-1).Msg("carga masiva iniciada")

	var (
		successCount int
		failureCount int
		errs         []string
	)
	fail := func(msg string) {
		failureCount++
		errs = append(errs, msg)
	}

	for n := 1; n < len(rows); n++ {
		if err := ctx.Err(); err != nil {
			log.Warn().Int("row", n).Err(err).Msg("carga masiva cancelada")
			return nil, fmt.Errorf("carga masiva cancelada en fila %d: %w", n, err)
		}
		row := rows[n]
		if isBlankRow(row) {
			continue
		}

		rec, err := decoder.DecodeRow(row)
		if err != nil {
			log.Debug().Int("row", n).Err(err).Msg("fila inválida")
			fail(fmt.Sprintf("Row %d: %s", n, err.Error()))
			continue
		}

		exists, err := uc.customers.ExistsByNIC(ctx, rec.NIC)
		if err != nil {
			log.Error().Int("row", n).Err(err).Msg("verificar NIC")
			fail(fmt.Sprintf("Row %d: %s", n, err.Error()))
			continue
		}
		if exists {
			fail("Duplicate NIC: " + rec.NIC)
			continue
		}

		if _, err := uc.customers.Create(ctx, *rec); err != nil {
			log.Debug().Int("row", n).Err(err).Msg("crear cliente")
			fail(fmt.Sprintf("Row %d: %s", n, err.Error()))
			continue
		}
		successCount++
	}

	report := buildReport(successCount, failureCount, errs, uc.maxErrors)
	log.Info().
		Int("total", report.TotalRecords).
		Int("success", report.SuccessCount).
		Int("failure", report.FailureCount).
		Msg("carga masiva terminada")
	return report, nil
}

func buildReport(successCount, failureCount int, errs []string, maxErrors int) *dto.BulkUploadResponse {
	report := &dto.BulkUploadResponse{
		TotalRecords: successCount + failureCount,
		SuccessCount: successCount,
		FailureCount: failureCount,
		Message:      MsgAllProcessed,
	}
	if failureCount == 0 {
		return report
	}
	shown := errs
	var omitted int
	if maxErrors > 0 && len(errs) > maxErrors {
		shown = errs[:maxErrors]
		omitted = len(errs) - maxErrors
	}
	report.Message = MsgSomeFailedTitle + strings.Join(shown, ", ")
	if omitted > 0 {
		report.Message += fmt.Sprintf(", ... and %d more", omitted)
	}
	return report
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
