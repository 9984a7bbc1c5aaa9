package dto

// CustomerRecord representación plana de un cliente (body de POST/PUT, respuesta de GET y
// registro decodificado de cada fila de la carga masiva).
// Los nombres JSON siguen el contrato del frontend existente.
type CustomerRecord struct {
	ID              int64           `json:"id,omitempty"`
	Name            string          `json:"name"`
	DateOfBirth     Date            `json:"dateOfBirth"`
	NIC             string          `json:"nic"`
	MobileNumbers   []string        `json:"mobileNumbers"`
	Addresses       []AddressRecord `json:"addresses"`
	FamilyMemberIDs []int64         `json:"familyMemberIds"`
}

// AddressRecord dirección plana: solo los IDs de ciudad y país, ambos opcionales.
type AddressRecord struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	CityID       *int64 `json:"cityId,omitempty"`
	CountryID    *int64 `json:"countryId,omitempty"`
}

// BulkUploadResponse resumen de una carga masiva.
type BulkUploadResponse struct {
	TotalRecords int    `json:"totalRecords"`
	SuccessCount int    `json:"successCount"`
	FailureCount int    `json:"failureCount"`
	Message      string `json:"message"`
}
