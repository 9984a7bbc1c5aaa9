package registry

import (
	"context"
	"io"

	"github.com/jhoicas/customer-registry/internal/application/dto"
	"github.com/jhoicas/customer-registry/internal/domain/entity"
	"github.com/jhoicas/customer-registry/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace rollback; nada de lo escrito en fn queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		cityRepo repository.CityRepository,
		countryRepo repository.CountryRepository,
	) error) error
}

// SheetParser convierte el archivo subido en filas crudas (fila 0 = encabezado).
// Un archivo que no es una tabla reconocible retorna domain.ErrUnreadableSheet.
type SheetParser interface {
	Parse(r io.Reader, filename string) ([][]string, error)
}

// RowDecoder convierte una fila cruda en registro plano. Los errores son *domain.DecodeError.
type RowDecoder interface {
	DecodeRow(row []string) (*dto.CustomerRecord, error)
}

// RowDecoderFactory construye el decodificador a partir de la fila de encabezado.
type RowDecoderFactory func(header []string) (RowDecoder, error)

// ProfilePDFGenerator genera la ficha PDF de un cliente.
type ProfilePDFGenerator interface {
	GenerateProfilePDF(ctx context.Context, customer *entity.Customer) ([]byte, error)
}

// RegistryExporter serializa el registro completo de clientes.
type RegistryExporter interface {
	ExportXML(customers []*entity.Customer) ([]byte, error)
}
