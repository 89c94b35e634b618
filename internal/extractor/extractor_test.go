package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/mlsreport/internal/config"
	"github.com/stwalsh4118/mlsreport/internal/models"
	"github.com/stwalsh4118/mlsreport/internal/validation"
)

const twoBlockReport = `
Tucson Residential Report

MLS# 22-401234
1234 Saguaro Dr
List Price: $450,000
3 beds
2 baths
1,800 sqft
DOM: 12

MLS# 22401299
88 Mesquite Ln
List Price: $520,000
Sold Price: $510,000
4 bedrooms
3 bathrooms
2,600 sqft
Days on Market: 41
Sold Date: 2024-03-15
Year Built: 1998
`

func TestExtract_TwoBlocksPartition(t *testing.T) {
	report := Default().Extract(twoBlockReport)

	require.Len(t, report.ActiveListings, 1)
	require.Len(t, report.ClosedListings, 1)

	active := report.ActiveListings[0]
	assert.Equal(t, "22401234", active.MLSNumber)
	assert.Equal(t, "1234 Saguaro Dr", active.Address)
	assert.Equal(t, config.DefaultMarketCity, active.City)
	assert.Equal(t, 450000.0, active.ListPrice)
	assert.Equal(t, 3, active.Bedrooms)
	assert.Equal(t, "2/0/0", active.Bathrooms)
	assert.Equal(t, 1800.0, active.Sqft)
	assert.Equal(t, 250.0, active.PricePerSqft)
	assert.Nil(t, active.SoldPrice)
	require.NotNil(t, active.DaysOnMarket)
	assert.Equal(t, 12, *active.DaysOnMarket)

	closed := report.ClosedListings[0]
	assert.Equal(t, "22401299", closed.MLSNumber)
	assert.Equal(t, 520000.0, closed.ListPrice)
	require.NotNil(t, closed.SoldPrice)
	assert.Equal(t, 510000.0, *closed.SoldPrice)
	assert.Equal(t, 4, closed.Bedrooms)
	assert.Equal(t, "3/0/0", closed.Bathrooms)
	assert.Equal(t, 200.0, closed.PricePerSqft)
	require.NotNil(t, closed.SoldDate)
	assert.Equal(t, "2024-03-15", *closed.SoldDate)
	assert.Equal(t, 1998, closed.YearBuilt)
	require.NotNil(t, closed.SaleToListRatio)
	assert.InDelta(t, 510000.0/520000.0, *closed.SaleToListRatio, 1e-9)
}

func TestExtract_ReportHeaderFromFirstListing(t *testing.T) {
	report := Default().Extract(twoBlockReport)

	assert.Equal(t, "22401234", report.MLSNumber)
	assert.Equal(t, 450000.0, report.ListPrice)
	assert.Equal(t, 3, report.Bedrooms)
	assert.Equal(t, 2.0, report.Bathrooms)
	assert.Equal(t, 1800.0, report.SquareFeet)
	assert.Equal(t, "1234 Saguaro Dr", report.Address.Street)
	assert.Equal(t, config.DefaultMarketCity, report.Address.City)
}

func TestExtract_Statistics(t *testing.T) {
	report := Default().Extract(twoBlockReport)

	assert.Equal(t, 2, report.Statistics.TotalListings)
	assert.Equal(t, 450000.0, report.Statistics.AverageListPrice)
	assert.Equal(t, 510000.0, report.Statistics.AverageSoldPrice)
	assert.Equal(t, 100.0, report.Statistics.AbsorptionRate)
	assert.Equal(t, 41.0, report.Statistics.AverageDaysOnMarket)
}

func TestExtract_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\n\t\n", "no listing data here"} {
		report := Default().Extract(text)

		assert.Equal(t, models.UnknownMLSNumber, report.MLSNumber)
		assert.NotNil(t, report.ActiveListings)
		assert.NotNil(t, report.ClosedListings)
		assert.Empty(t, report.ActiveListings)
		assert.Empty(t, report.ClosedListings)
		assert.Equal(t, 0, report.Statistics.TotalListings)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	e := Default()
	assert.Equal(t, e.Extract(twoBlockReport), e.Extract(twoBlockReport))
}

func TestExtract_PartitionInvariant(t *testing.T) {
	text := `MLS# 1
List Price: $100,000
MLS# 2
List Price: $200,000
Sold Price: $190,000
MLS# 3
List Price: $300,000
MLS# 4
Sold: $410,000
MLS# 5
List Price: $500,000`

	report := Default().Extract(text)

	seen := map[string]bool{}
	for _, p := range report.ActiveListings {
		assert.Nil(t, p.SoldPrice, "active listing %s has a sold price", p.MLSNumber)
		assert.False(t, seen[p.MLSNumber])
		seen[p.MLSNumber] = true
	}
	for _, p := range report.ClosedListings {
		assert.NotNil(t, p.SoldPrice, "closed listing %s has no sold price", p.MLSNumber)
		assert.False(t, seen[p.MLSNumber])
		seen[p.MLSNumber] = true
	}
	assert.Len(t, seen, 5)
	assert.Equal(t, []string{"1", "3", "5"}, mlsNumbers(report.ActiveListings))
	assert.Equal(t, []string{"2", "4"}, mlsNumbers(report.ClosedListings))
}

func TestExtract_LinesBeforeFirstMLSNumberIgnored(t *testing.T) {
	text := `List Price: $999,999
123 Nowhere St
MLS# 7
List Price: $100,000`

	report := Default().Extract(text)

	require.Len(t, report.ActiveListings, 1)
	assert.Equal(t, 100000.0, report.ActiveListings[0].ListPrice)
	assert.Empty(t, report.ActiveListings[0].Address)
}

func TestExtract_FirstMatchingRecognizerWins(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, p models.Property)
	}{
		{
			name: "price beats bedrooms",
			line: "List Price: $300,000 3 beds",
			check: func(t *testing.T, p models.Property) {
				assert.Equal(t, 300000.0, p.ListPrice)
				assert.Equal(t, 0, p.Bedrooms)
			},
		},
		{
			name: "bedrooms beats bathrooms and sqft",
			line: "3 beds 2 baths 1,500 sqft",
			check: func(t *testing.T, p models.Property) {
				assert.Equal(t, 3, p.Bedrooms)
				assert.Equal(t, "0/0/0", p.Bathrooms)
				assert.Equal(t, 0.0, p.Sqft)
			},
		},
		{
			name: "bathrooms beats sqft",
			line: "2.5 baths 1,500 sqft",
			check: func(t *testing.T, p models.Property) {
				assert.Equal(t, "2/1/0", p.Bathrooms)
				assert.Equal(t, 0.0, p.Sqft)
			},
		},
		{
			name: "address beats price",
			line: "42 Desert View Rd List Price: $1",
			check: func(t *testing.T, p models.Property) {
				assert.Equal(t, "42 Desert View Rd", p.Address)
				assert.Equal(t, 0.0, p.ListPrice)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Default().Extract("MLS# 1\n" + tt.line)
			require.Len(t, report.ActiveListings, 1)
			tt.check(t, report.ActiveListings[0])
		})
	}
}

func TestFormatBathrooms(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "2", want: "2/0/0"},
		{raw: "2.5", want: "2/1/0"},
		{raw: "3.25", want: "3/0/1"},
		{raw: "1.75", want: "1/1/1"},
		{raw: "2.9", want: "3/0/0"},
		{raw: "2.1", want: "2/0/0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := formatBathrooms(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.True(t, validation.IsBathroomFormat(got))
		})
	}
}

func TestExtract_HalfBathsReportTotal(t *testing.T) {
	report := Default().Extract("MLS# 1\n2.5 baths")

	require.Len(t, report.ActiveListings, 1)
	assert.Equal(t, "2/1/0", report.ActiveListings[0].Bathrooms)
	assert.Equal(t, 2.5, report.Bathrooms)
}

func TestExtract_ListingsPassPropertyValidation(t *testing.T) {
	text := twoBlockReport + `
MLS# 22401377
17 Ocotillo Ct
List Price: $360,000
2 beds
2.5 baths
1,440 sqft
`
	report := Default().Extract(text)

	listings := report.AllListings()
	require.Len(t, listings, 3)
	for _, p := range listings {
		assert.NoError(t, validation.ValidateProperty(p), "listing %s", p.MLSNumber)
	}
}

func TestExtract_SoldRoutingIsCaseInsensitive(t *testing.T) {
	report := Default().Extract("MLS# 1\nList Price: $400,000\nSOLD PRICE: $395,000")

	require.Len(t, report.ClosedListings, 1)
	assert.Equal(t, 395000.0, *report.ClosedListings[0].SoldPrice)
	assert.Equal(t, 400000.0, report.ClosedListings[0].ListPrice)
}

func TestExtract_PricePerSqftComputedAtFlush(t *testing.T) {
	report := Default().Extract("MLS# 1\n1,600 sqft\nList Price: $400,000")

	require.Len(t, report.ActiveListings, 1)
	assert.Equal(t, 250.0, report.ActiveListings[0].PricePerSqft)
}

func TestExtract_PricePerSqftRounded(t *testing.T) {
	report := Default().Extract("MLS# 1\nList Price: $100,000\n3,000 square feet")

	require.Len(t, report.ActiveListings, 1)
	assert.Equal(t, 33.0, report.ActiveListings[0].PricePerSqft)
}

func TestExtract_MLSNumberSeparatorsStripped(t *testing.T) {
	tests := map[string]string{
		"MLS# 22-401234":  "22401234",
		"MLS#22 401234":   "22401234",
		"mls 22 - 401234": "22401234",
		"MLS 5":           "5",
	}

	for line, want := range tests {
		t.Run(line, func(t *testing.T) {
			report := Default().Extract(line)
			require.Len(t, report.ActiveListings, 1)
			assert.Equal(t, want, report.ActiveListings[0].MLSNumber)
		})
	}
}

func TestExtract_ConfiguredMarketCity(t *testing.T) {
	report := New("Phoenix", config.DefaultStatistics()).Extract("MLS# 1")

	require.Len(t, report.ActiveListings, 1)
	assert.Equal(t, "Phoenix", report.ActiveListings[0].City)
	assert.Equal(t, "0/0/0", report.ActiveListings[0].Bathrooms)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "mls number", text: "see MLS# 123", want: true},
		{name: "price", text: "Price: $100", want: true},
		{name: "sqft", text: "about 1,200 sqft", want: true},
		{name: "bedrooms", text: "4 bedrooms", want: true},
		{name: "bathrooms", text: "2 baths", want: true},
		{name: "prose", text: "Quarterly newsletter for homeowners", want: false},
		{name: "empty", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.text))
		})
	}
}

func mlsNumbers(props []models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.MLSNumber)
	}
	return out
}
