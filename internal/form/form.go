// Package form implements the interactive terminal form of the calculator:
// it prompts for the three vertices, re-prompts on invalid input and renders
// the result with locale-aware number grouping.
package form

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

// ErrAborted is returned when the input ends before the form is complete.
var ErrAborted = errors.New("form aborted")

// Form reads vertices from in and writes prompts and results to out.
type Form struct {
	in      *bufio.Scanner
	out     io.Writer
	printer *message.Printer
}

// New creates a form using English number formatting.
func New(in io.Reader, out io.Writer) *Form {
	return &Form{
		in:      bufio.NewScanner(in),
		out:     out,
		printer: message.NewPrinter(language.English),
	}
}

// ReadTriangle collects the three vertices. A non-empty preset entry
// ("lat,lon") is used for that vertex instead of prompting; an invalid
// preset is returned as an error since there is nobody to re-prompt.
func (f *Form) ReadTriangle(preset [3]string) (domain.Triangle, error) {
	var tri domain.Triangle
	for i := range tri {
		name := domain.VertexName(i)
		if preset[i] != "" {
			p, err := ParsePair(name, preset[i])
			if err != nil {
				return tri, err
			}
			tri[i] = p
			continue
		}
		p, err := f.readPoint(name)
		if err != nil {
			return tri, err
		}
		tri[i] = p
	}
	return tri, nil
}

func (f *Form) readPoint(name string) (domain.GeoPoint, error) {
	for {
		lat, err := f.ask(fmt.Sprintf("Latitude for %s: ", name))
		if err != nil {
			return domain.GeoPoint{}, err
		}
		lon, err := f.ask(fmt.Sprintf("Longitude for %s: ", name))
		if err != nil {
			return domain.GeoPoint{}, err
		}

		p, err := domain.ParseGeoPoint(name, lat, lon)
		if err == nil {
			return p, nil
		}
		f.Error(err)
	}
}

func (f *Form) ask(prompt string) (string, error) {
	fmt.Fprint(f.out, prompt)
	if !f.in.Scan() {
		if err := f.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrAborted
	}
	return f.in.Text(), nil
}

// Error writes a validation message.
func (f *Form) Error(err error) {
	fmt.Fprintf(f.out, "Error: %v\n", err)
}

// Result writes the perimeter in meters and kilometres.
func (f *Form) Result(res *domain.PerimeterResult) {
	fmt.Fprintln(f.out, Format(f.printer, res.PerimeterM, res.PerimeterKm))
}

// Format renders a perimeter as "Perimeter: 1,234,567.89 m  (~ 1,234.568 km)".
func Format(p *message.Printer, meters, km float64) string {
	return p.Sprintf("Perimeter: %.2f m  (~ %.3f km)", meters, km)
}

// ParsePair parses a "lat,lon" pair for the named vertex.
func ParsePair(name, pair string) (domain.GeoPoint, error) {
	lat, lon, ok := strings.Cut(pair, ",")
	if !ok {
		return domain.GeoPoint{}, &domain.CoordinateError{
			Point: name,
			Field: domain.FieldLatitude,
			Input: pair,
			Err:   domain.ErrNonNumeric,
		}
	}
	return domain.ParseGeoPoint(name, lat, lon)
}
