package dto

// CountryResponse país en respuestas.
type CountryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CityResponse ciudad en respuestas.
type CityResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"countryId,omitempty"`
}
