package extractor

import "regexp"

// Field recognizers, in precedence order. The first pattern that matches a
// line claims it.
var (
	mlsNumberPattern = regexp.MustCompile(`(?i)MLS#?\s*(\d+[-\s]*\d*)`)
	addressPattern   = regexp.MustCompile(`^\s*\d+\s+(?:[A-Za-z0-9.']+\s+)+?(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Drive|Dr|Court|Ct|Circle|Cir|Way)\b\.?`)
	pricePattern     = regexp.MustCompile(`(?i)(List|Price|Sold)(?:\s*Price)?:\s*\$?([\d,]+)`)
	bedroomsPattern  = regexp.MustCompile(`(?i)(\d+)\s*(beds|bedrooms|BR)`)
	bathroomsPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*(baths|bathrooms|BA)`)
	sqftPattern      = regexp.MustCompile(`(?i)([\d,]+)\s*(sqft|sf|square\s*feet)`)

	// Lower-precedence recognizers for fields the six above do not cover.
	daysOnMarketPattern = regexp.MustCompile(`(?i)\b(?:DOM|Days\s+on\s+Market)\b\s*:?\s*(\d+)`)
	soldDatePattern     = regexp.MustCompile(`(?i)Sold\s+Date\s*:\s*(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})`)
	yearBuiltPattern    = regexp.MustCompile(`(?i)\b(?:Year\s+Built|Built)\s*:?\s*(\d{4})`)

	separatorPattern = regexp.MustCompile(`[-\s]+`)
)

// sniffPatterns are the indicators the content sniff looks for.
var sniffPatterns = []*regexp.Regexp{
	mlsNumberPattern,
	pricePattern,
	sqftPattern,
	bedroomsPattern,
	bathroomsPattern,
}

// Sniff reports whether text looks like an MLS report at all: at least one
// MLS number, price, square-footage, bedroom or bathroom indicator.
func Sniff(text string) bool {
	for _, p := range sniffPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
