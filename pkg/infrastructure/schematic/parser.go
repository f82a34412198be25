package schematic

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
)

// skippedDeviceSets are power, test point and mechanical symbols that never
// become BOM lines
var skippedDeviceSets = []string{
	"GND", "FIDUCIAL", "MOUNTING", "FRAME", "+3V3", "TP", "VCC", "VBUS",
	"V5V0", "DOCFIELD", "VBAT", "VSYS", "PAD", "VDC",
}

// Design is the bill of materials extracted from a schematic
type Design struct {
	PartNumber  entities.PartNumber
	Description string
	Lines       []Line
}

// Line is one consolidated schematic line. Placements counts the symbols
// merged into it.
type Line struct {
	ComponentKey string
	Names        []string
	Placements   entities.Quantity
	NoStuff      bool
	Library      LibraryPart
}

// ReferenceDesignators joins the symbol names of the line
func (l Line) ReferenceDesignators() string {
	return strings.Join(l.Names, " ")
}

// LibraryPart holds the technology attributes of a component in the parts library
type LibraryPart struct {
	Found       bool
	MPN         string
	Description string
	Multiplier  entities.Quantity
	Alias       entities.PartNumber
}

// ParseFile reads a schematic from disk
func ParseFile(filename, library string) (*Design, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: open schematic %s: %w", entities.ErrStorage, filename, err)
	}
	defer file.Close()
	return Parse(file, library)
}

// Parse decodes an Eagle schematic and consolidates its parts. Attributes of
// components are looked up in the named library.
func Parse(r io.Reader, library string) (*Design, error) {
	var doc eagleFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse schematic: %w", entities.ErrInvalidInput, err)
	}

	design := &Design{}
	for _, attr := range doc.Sheet.Attributes {
		switch attr.Name {
		case "PN":
			design.PartNumber = entities.PartNumber(strings.TrimSpace(attr.Value))
		case "DESC":
			design.Description = attr.Value
		}
	}
	if design.PartNumber == "" {
		return nil, fmt.Errorf("%w: schematic has no PN attribute", entities.ErrInvalidInput)
	}

	attrs, err := indexLibrary(doc.Sheet.Libraries, library)
	if err != nil {
		return nil, err
	}

	type lineKey struct {
		key     string
		noStuff bool
	}
	index := make(map[lineKey]int)
	for _, p := range doc.Sheet.Parts {
		if skipped(p.DeviceSet) {
			continue
		}
		key := p.DeviceSet + p.Technology + p.Device
		noStuff := p.unpopulated()

		lk := lineKey{key: key, noStuff: noStuff}
		if i, ok := index[lk]; ok {
			design.Lines[i].Names = append(design.Lines[i].Names, p.Name)
			design.Lines[i].Placements++
			continue
		}
		index[lk] = len(design.Lines)
		design.Lines = append(design.Lines, Line{
			ComponentKey: key,
			Names:        []string{p.Name},
			Placements:   1,
			NoStuff:      noStuff,
			Library:      attrs[key],
		})
	}
	return design, nil
}

func (p eaglePart) unpopulated() bool {
	for _, v := range p.Variants {
		if v.Populate == "no" {
			return true
		}
	}
	return false
}

func skipped(deviceSet string) bool {
	for _, s := range skippedDeviceSets {
		if strings.Contains(deviceSet, s) {
			return true
		}
	}
	return false
}

// indexLibrary maps deviceset+technology+device to technology attributes
func indexLibrary(libraries []eagleLibrary, name string) (map[string]LibraryPart, error) {
	out := make(map[string]LibraryPart)
	for _, lib := range libraries {
		if lib.Name != name {
			continue
		}
		for _, ds := range lib.DeviceSets {
			for _, dev := range ds.Devices {
				for _, tech := range dev.Technologies {
					key := ds.Name + tech.Name + dev.Name
					lp := LibraryPart{Found: true, Multiplier: 1}
					for _, a := range tech.Attributes {
						value := strings.TrimSpace(a.Value)
						if value == "" {
							continue
						}
						switch a.Name {
						case "MPN":
							lp.MPN = value
						case "DESC":
							lp.Description = value
						case "MQTY":
							n, err := strconv.ParseInt(value, 10, 64)
							if err != nil || n < 1 {
								return nil, fmt.Errorf("%w: %s: MQTY %q is not a positive integer", entities.ErrInvalidInput, key, a.Value)
							}
							lp.Multiplier = entities.Quantity(n)
						case "ALIAS":
							lp.Alias = entities.PartNumber(value)
						}
					}
					if _, dup := out[key]; !dup {
						out[key] = lp
					}
				}
			}
		}
	}
	return out, nil
}
