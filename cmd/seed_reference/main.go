// seed_reference genera un script SQL idempotente para poblar países y ciudades
// a partir de una tabla (CSV o XLSX) con las columnas Country y City.
//
// Uso: go run ./cmd/seed_reference [ruta/ciudades.csv]
// Por defecto busca cities.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/seed_reference.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/customer-registry/internal/infrastructure/spreadsheet"
)

func main() {
	inPath := "cities.csv"
	if len(os.Args) > 1 {
		inPath = os.Args[1]
	}
	f, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir tabla: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// El parser de la carga masiva ya resuelve XLSX, delimitador y archivos Windows-1252.
	rows, err := spreadsheet.NewParser().Parse(f, inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer tabla: %v\n", err)
		os.Exit(1)
	}
	countries, err := collect(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seed_reference.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	names := make([]string, 0, len(countries))
	for name := range countries {
		names = append(names, name)
	}
	sort.Strings(names)

	out.WriteString("-- Países y ciudades de referencia\n")
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(inPath))

	out.WriteString("-- 1. Países\n")
	out.WriteString("INSERT INTO countries (name) VALUES\n")
	for i, name := range names {
		sep := ","
		if i == len(names)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s')%s\n", escapeSQL(name), sep)
	}
	out.WriteString("ON CONFLICT ON CONSTRAINT uk_country_name DO UPDATE SET name = EXCLUDED.name;\n\n")

	out.WriteString("-- 2. Ciudades\n")
	var total int
	for _, country := range names {
		for _, city := range countries[country] {
			fmt.Fprintf(out, "INSERT INTO cities (country_id, name)\n")
			fmt.Fprintf(out, "SELECT id, '%s' FROM countries WHERE name = '%s'\n", escapeSQL(city), escapeSQL(country))
			out.WriteString("ON CONFLICT ON CONSTRAINT uk_city_country_name DO NOTHING;\n")
			total++
		}
	}

	fmt.Printf("Generado %s: %d países, %d ciudades\n", outPath, len(names), total)
}

// collect agrupa las ciudades por país, sin duplicados y ordenadas.
func collect(rows [][]string) (map[string][]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("tabla vacía")
	}
	countryCol, cityCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "country", "pais", "país":
			countryCol = i
		case "city", "ciudad":
			cityCol = i
		}
	}
	if countryCol < 0 || cityCol < 0 {
		return nil, fmt.Errorf("encabezado sin columnas Country y City: %v", rows[0])
	}

	seen := make(map[string]map[string]bool)
	for _, row := range rows[1:] {
		country := cellAt(row, countryCol)
		if country == "" {
			continue
		}
		if seen[country] == nil {
			seen[country] = make(map[string]bool)
		}
		if city := cellAt(row, cityCol); city != "" {
			seen[country][city] = true
		}
	}

	out := make(map[string][]string, len(seen))
	for country, cities := range seen {
		list := make([]string, 0, len(cities))
		for c := range cities {
			list = append(list, c)
		}
		sort.Strings(list)
		out[country] = list
	}
	return out, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.Join(strings.Fields(row[i]), " ")
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
