// Package extractor turns MLS report text into a structured report by
// matching field patterns line by line. It performs no I/O and keeps no
// state between calls.
package extractor

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stwalsh4118/mlsreport/internal/config"
	"github.com/stwalsh4118/mlsreport/internal/models"
	"github.com/stwalsh4118/mlsreport/internal/statistics"
)

// defaultBathrooms is the full/half/quarter value of a listing with no
// bathroom line.
const defaultBathrooms = "0/0/0"

// Extractor parses report text. The zero value is not usable; create one
// with New or Default.
type Extractor struct {
	marketCity  string
	synthesizer *statistics.Synthesizer
}

// New creates an Extractor that assigns marketCity to every listing and
// synthesizes statistics with the given heuristics.
func New(marketCity string, heuristics config.StatisticsConfig) *Extractor {
	return &Extractor{
		marketCity:  marketCity,
		synthesizer: statistics.NewSynthesizer(heuristics),
	}
}

// Default creates an Extractor with the default market city and heuristics.
func Default() *Extractor {
	return New(config.DefaultMarketCity, config.DefaultStatistics())
}

// lineHandler applies one recognized line to the accumulator. It reports
// whether the line matched.
type lineHandler func(s *scanState, line string) bool

// handlers are checked in order; the first match wins.
var handlers = []lineHandler{
	handleMLSNumber,
	handleAddress,
	handlePrice,
	handleBedrooms,
	handleBathrooms,
	handleSqft,
	handleDaysOnMarket,
	handleSoldDate,
	handleYearBuilt,
}

// scanState is the in-progress listing plus everything flushed so far.
type scanState struct {
	marketCity string
	current    *models.Property
	flushed    []models.Property
}

func (s *scanState) start(mlsNumber string) {
	s.flush()
	s.current = &models.Property{
		MLSNumber: mlsNumber,
		City:      s.marketCity,
		Bathrooms: defaultBathrooms,
	}
}

func (s *scanState) flush() {
	if s.current == nil || s.current.MLSNumber == "" {
		s.current = nil
		return
	}
	p := *s.current
	if p.PricePerSqft == 0 && p.ListPrice > 0 && p.Sqft > 0 {
		p.PricePerSqft = math.Round(p.ListPrice / p.Sqft)
	}
	if p.SoldPrice != nil && p.ListPrice > 0 {
		p.SaleToListRatio = models.Float64(*p.SoldPrice / p.ListPrice)
	}
	s.flushed = append(s.flushed, p)
	s.current = nil
}

// Extract parses text into a report. Listings with a sold price land in
// ClosedListings, the rest in ActiveListings, preserving text order.
func (e *Extractor) Extract(text string) *models.MLSReport {
	state := &scanState{marketCity: e.marketCity}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), max(64*1024, len(text)+1))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		for _, handle := range handlers {
			if handle(state, line) {
				break
			}
		}
	}
	state.flush()

	report := models.NewUnenrichedReport()
	for _, p := range state.flushed {
		if p.IsSold() {
			report.ClosedListings = append(report.ClosedListings, p)
		} else {
			report.ActiveListings = append(report.ActiveListings, p)
		}
	}

	if len(state.flushed) > 0 {
		e.applySubject(report, state.flushed[0])
	}
	report.Statistics = e.synthesizer.Synthesize(report.ActiveListings, report.ClosedListings)

	return report
}

// applySubject copies the first listing's fields to the report header.
func (e *Extractor) applySubject(report *models.MLSReport, subject models.Property) {
	report.MLSNumber = subject.MLSNumber
	report.ListPrice = subject.ListPrice
	report.Bedrooms = subject.Bedrooms
	report.Bathrooms = bathroomTotal(subject.Bathrooms)
	report.SquareFeet = subject.Sqft
	report.YearBuilt = subject.YearBuilt
	report.Address.Street = subject.Address
	report.Address.City = subject.City
}

// bathroomTotal converts a full/half/quarter value back to a count,
// 2/1/0 being 2.5.
func bathroomTotal(bathrooms string) float64 {
	parts := strings.Split(bathrooms, "/")
	weights := []float64{1, 0.5, 0.25}
	total := 0.0
	for i, part := range parts {
		if i >= len(weights) {
			break
		}
		n, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0
		}
		total += n * weights[i]
	}
	return total
}

// formatBathrooms maps a bathroom count onto full/half/quarter: the fraction
// .5 is one half bath, .25 one quarter bath, .75 one of each. Other
// fractions round to the nearest quarter.
func formatBathrooms(raw string) string {
	count, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultBathrooms
	}
	full := math.Floor(count)
	quarters := int(math.Round((count - full) * 4))
	if quarters == 4 {
		full++
		quarters = 0
	}
	half, quarter := quarters/2, quarters%2
	return fmt.Sprintf("%d/%d/%d", int(full), half, quarter)
}

func handleMLSNumber(s *scanState, line string) bool {
	m := mlsNumberPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	s.start(separatorPattern.ReplaceAllString(m[1], ""))
	return true
}

func handleAddress(s *scanState, line string) bool {
	m := addressPattern.FindString(line)
	if m == "" {
		return false
	}
	if s.current != nil {
		s.current.Address = strings.TrimSpace(m)
	}
	return true
}

func handlePrice(s *scanState, line string) bool {
	m := pricePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	price, ok := parseAmount(m[2])
	if !ok || s.current == nil {
		return true
	}
	if strings.Contains(strings.ToLower(line), "sold") {
		s.current.SoldPrice = models.Float64(price)
	} else {
		s.current.ListPrice = price
	}
	return true
}

func handleBedrooms(s *scanState, line string) bool {
	m := bedroomsPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if n, err := strconv.Atoi(m[1]); err == nil && s.current != nil {
		s.current.Bedrooms = n
	}
	return true
}

func handleBathrooms(s *scanState, line string) bool {
	m := bathroomsPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if s.current != nil {
		s.current.Bathrooms = formatBathrooms(m[1])
	}
	return true
}

func handleSqft(s *scanState, line string) bool {
	m := sqftPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	sqft, ok := parseAmount(m[1])
	if !ok || s.current == nil {
		return true
	}
	s.current.Sqft = sqft
	if s.current.ListPrice > 0 && sqft > 0 {
		s.current.PricePerSqft = math.Round(s.current.ListPrice / sqft)
	}
	return true
}

func handleDaysOnMarket(s *scanState, line string) bool {
	m := daysOnMarketPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if n, err := strconv.Atoi(m[1]); err == nil && s.current != nil {
		s.current.DaysOnMarket = models.Int(n)
	}
	return true
}

func handleSoldDate(s *scanState, line string) bool {
	m := soldDatePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if s.current != nil {
		s.current.SoldDate = models.String(m[1])
	}
	return true
}

func handleYearBuilt(s *scanState, line string) bool {
	m := yearBuiltPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	if n, err := strconv.Atoi(m[1]); err == nil && s.current != nil {
		s.current.YearBuilt = n
	}
	return true
}

// parseAmount parses a number with thousands separators.
func parseAmount(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
