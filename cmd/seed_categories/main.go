// seed_categories genera el script SQL que carga la clasificación de artículos
// (대분류/중분류/소분류) de una empresa a partir de un CSV.
//
// Uso: go run ./cmd/seed_categories <company_id> [ruta/categorias.csv]
// Por defecto lee categories.csv del directorio actual. Acepta UTF-8 o EUC-KR
// (las exportaciones de hojas de cálculo coreanas suelen venir en EUC-KR).
// Escribe: migrations/002_seed_categories.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// espacio de nombres de los ids deterministas (reejecutar el script no duplica filas)
var seedNamespace = uuid.MustParse("6f1c2a52-4b0e-4d6a-9a57-2f4c8b1e7d10")

type category struct {
	id, parentID, level, name string
	order                     int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_categories <company_id> [categories.csv]")
		os.Exit(2)
	}
	companyID := os.Args[1]
	if _, err := uuid.Parse(companyID); err != nil {
		fmt.Fprintf(os.Stderr, "company_id inválido: %v\n", err)
		os.Exit(2)
	}
	csvPath := "categories.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	var r io.Reader = bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")))
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, korean.EUCKR.NewDecoder())
	}

	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	records, err := rd.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cats, err := build(companyID, records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "002_seed_categories.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Clasificación de artículos de la empresa %s\n", companyID)
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))
	counts := map[string]int{}
	// el orden de build garantiza que cada padre se inserta antes que sus hijos
	for _, c := range cats {
		parent := "NULL"
		if c.parentID != "" {
			parent = "'" + c.parentID + "'"
		}
		fmt.Fprintf(out, "INSERT INTO item_categories (id, company_id, parent_id, level, name, sort_order)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', %s, '%s', '%s', %d)\n", c.id, companyID, parent, c.level, escapeSQL(c.name), c.order)
		out.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order;\n")
		counts[c.level]++
	}

	fmt.Printf("Generado %s: %d 대분류, %d 중분류, %d 소분류\n", outPath, counts["major"], counts["middle"], counts["minor"])
}

// build recorre las filas (대분류, 중분류, 소분류); las celdas vacías repiten el valor de
// la fila anterior, como en las hojas con celdas combinadas.
func build(companyID string, records [][]string) ([]category, error) {
	levels := []string{"major", "middle", "minor"}
	seen := map[string]bool{}
	siblings := map[string]int{}
	var out []category
	var last [3]string

	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.Contains(rec[0], "대분류") {
			continue
		}
		var path [3]string
		for l := 0; l < 3; l++ {
			if l < len(rec) {
				path[l] = strings.TrimSpace(rec[l])
			}
		}
		if path == ([3]string{}) {
			continue
		}
		changed := false
		for l := 0; l < 3; l++ {
			switch {
			case path[l] == "" && !changed:
				path[l] = last[l]
			case path[l] != last[l]:
				// cambió un nivel: los inferiores ya no se heredan
				changed = true
			}
		}
		last = path
		if path[0] == "" {
			return nil, fmt.Errorf("fila %d: falta el 대분류", i+1)
		}
		if path[1] == "" && path[2] != "" {
			return nil, fmt.Errorf("fila %d: 소분류 sin 중분류", i+1)
		}

		parentID := ""
		key := ""
		for l := 0; l < 3 && path[l] != ""; l++ {
			key += "/" + path[l]
			id := uuid.NewSHA1(seedNamespace, []byte(companyID+key)).String()
			if !seen[id] {
				seen[id] = true
				siblings[parentID]++
				out = append(out, category{id: id, parentID: parentID, level: levels[l], name: path[l], order: siblings[parentID]})
			}
			parentID = id
		}
	}
	return out, nil
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
