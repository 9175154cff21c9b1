package holders

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DataFiles are read in order by LoadHoldersFromDataDir; missing ones are skipped.
var DataFiles = []string{"holders.csv", "holders_extra.csv"}

var columnAliases = map[string]string{
	"id":            "id",
	"name":          "name",
	"full_name":     "name",
	"id_number":     "id_number",
	"idnumber":      "id_number",
	"date_of_birth": "date_of_birth",
	"dob":           "date_of_birth",
	"birth_date":    "date_of_birth",
	"department":    "department",
	"photo_url":     "photo_url",
	"photo":         "photo_url",
	"qr_text":       "qr_text",
	"qr":            "qr_text",
}

// LoadHoldersFromDataDir loads the holder CSVs found in dataDir.
func LoadHoldersFromDataDir(dataDir string) ([]Holder, error) {
	var all []Holder
	var found bool
	for _, name := range DataFiles {
		f := filepath.Join(dataDir, name)
		if _, err := os.Stat(f); err != nil {
			continue
		}
		found = true
		hs, err := LoadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		all = append(all, hs...)
	}
	if !found {
		return nil, fmt.Errorf("no holder CSVs found in %s", dataDir)
	}
	return all, nil
}

func LoadCSV(path string) ([]Holder, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadCSV(fp)
}

// ReadCSV parses holder rows. Headers are matched case-insensitively and
// unknown columns are kept in Holder.Extra. Rows without an id fall back
// to the id_number.
func ReadCSV(r io.Reader) ([]Holder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}

	header := rows[0]
	cols := map[string]int{}
	extra := map[int]string{}
	for i, h := range header {
		key := normalizeHeader(h)
		if field, ok := columnAliases[key]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
			continue
		}
		if key != "" {
			extra[i] = key
		}
	}

	get := func(row []string, field string) string {
		if idx, ok := cols[field]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Holder{}
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		h := Holder{
			ID:          get(row, "id"),
			Name:        get(row, "name"),
			IDNumber:    get(row, "id_number"),
			DateOfBirth: get(row, "date_of_birth"),
			Department:  get(row, "department"),
			PhotoURL:    get(row, "photo_url"),
			QRText:      get(row, "qr_text"),
		}
		for idx, key := range extra {
			if idx < len(row) {
				if h.Extra == nil {
					h.Extra = map[string]string{}
				}
				h.Extra[key] = strings.TrimSpace(row[idx])
			}
		}
		if h.ID == "" {
			h.ID = h.IDNumber
		}
		if h.ID == "" {
			return nil, fmt.Errorf("row %d: missing id and id_number", n+2)
		}
		out = append(out, h)
	}
	return out, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
