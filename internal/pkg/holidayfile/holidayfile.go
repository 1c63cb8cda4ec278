// Package holidayfile reads holiday calendar seed files.
//
// A seed file is YAML:
//
//	holidays:
//	  - name: New Year's Day
//	    date: 2026-01-01
//	    type: regular
package holidayfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

type file struct {
	Holidays []entry `yaml:"holidays"`
}

type entry struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"`
	Type string `yaml:"type"`
}

func Load(path string) ([]holiday.Holiday, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holiday file: %w", err)
	}
	defer f.Close()

	holidays, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return holidays, nil
}

// Parse decodes a seed file. Unknown keys, bad dates and unknown types are
// errors; type defaults to regular.
func Parse(r io.Reader) ([]holiday.Holiday, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc file
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode holiday file: %w", err)
	}

	holidays := make([]holiday.Holiday, 0, len(doc.Holidays))
	for i, e := range doc.Holidays {
		if e.Name == "" {
			return nil, fmt.Errorf("holiday %d: name is required", i+1)
		}
		date, err := dateutil.Parse(e.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %d (%s): %w", i+1, e.Name, err)
		}
		t := holiday.Type(e.Type)
		if t == "" {
			t = holiday.TypeRegular
		}
		if !t.Valid() {
			return nil, fmt.Errorf("holiday %d (%s): unknown type %q", i+1, e.Name, e.Type)
		}
		holidays = append(holidays, holiday.Holiday{Name: e.Name, Date: date, Type: t})
	}
	return holidays, nil
}
