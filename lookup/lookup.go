package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Table maps an uppercase code to its display name.
type Table map[string]string

// Set holds the three static code dictionaries the displays resolve against.
type Set struct {
	Airports Table
	Airlines Table
	Aircraft Table
}

// LoadSet reads the OpenFlights-style data files from dir. A missing or
// unreadable file yields an empty table, never a startup failure.
func LoadSet(dir string) *Set {
	return &Set{
		Airports: loadOrEmpty(filepath.Join(dir, "airports.dat"), 4, 1),
		Airlines: loadOrEmpty(filepath.Join(dir, "airlines.dat"), 3, 1),
		Aircraft: loadOrEmpty(filepath.Join(dir, "planes.dat"), 1, 0),
	}
}

func loadOrEmpty(path string, codeIndex, nameIndex int) Table {
	table, err := Load(path, codeIndex, nameIndex)
	if err != nil {
		log.Printf("unable to load lookup table %v: %v", path, err.Error())
		return Table{}
	}
	return table
}

// Load reads one CSV table, taking the code from codeIndex and the display
// name from nameIndex. Malformed rows are skipped.
func Load(path string, codeIndex, nameIndex int) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open lookup table %v", path)
	}
	defer func() {
		err := file.Close()
		if err != nil {
			log.Printf("error when closing lookup table %v: %v", path, err.Error())
		}
	}()
	return parse(file, codeIndex, nameIndex), nil
}

func parse(r io.Reader, codeIndex, nameIndex int) Table {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	table := Table{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) <= codeIndex || len(record) <= nameIndex {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(record[codeIndex]))
		name := strings.TrimSpace(record[nameIndex])
		// OpenFlights uses \N for missing values.
		if code == "" || code == "\\N" || name == "" {
			continue
		}
		table[code] = name
	}
	return table
}

// Format renders a code as "Name (CODE)", falling back to the bare code when
// the table has no entry and to a dash when the code is empty.
func (t Table) Format(code string) string {
	if code == "" {
		return "—"
	}
	code = strings.ToUpper(code)
	if name, ok := t[code]; ok {
		return fmt.Sprintf("%v (%v)", name, code)
	}
	return code
}
