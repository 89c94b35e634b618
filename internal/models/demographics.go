package models

// Trend is the direction of a demographic or market metric.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// SchoolType is the level a school serves.
type SchoolType string

const (
	SchoolElementary SchoolType = "elementary"
	SchoolMiddle     SchoolType = "middle"
	SchoolHigh       SchoolType = "high"
)

// DemographicMetric is a value with its direction and percent change.
type DemographicMetric struct {
	Value         float64 `json:"value"`
	Trend         Trend   `json:"trend"`
	PercentChange float64 `json:"percentChange"`
}

// EducationLevels holds attainment shares as fractions of the population.
type EducationLevels struct {
	HighSchool DemographicMetric `json:"highSchool"`
	Bachelors  DemographicMetric `json:"bachelors"`
	Graduate   DemographicMetric `json:"graduate"`
}

// DemographicAnalysis is the canonical, metric-rich demographic shape.
type DemographicAnalysis struct {
	Population      DemographicMetric `json:"population"`
	MedianAge       DemographicMetric `json:"medianAge"`
	MedianIncome    DemographicMetric `json:"medianIncome"`
	EmploymentRate  DemographicMetric `json:"employmentRate"`
	EducationLevels EducationLevels   `json:"educationLevels"`
}

// Demographics is the legacy flat shape kept for older consumers.
type Demographics struct {
	Population      float64             `json:"population"`
	MedianAge       float64             `json:"medianAge"`
	MedianIncome    float64             `json:"medianIncome"`
	EmploymentRate  float64             `json:"employmentRate"`
	EducationLevels FlatEducationLevels `json:"educationLevels"`
}

// FlatEducationLevels is the legacy flat education breakdown.
type FlatEducationLevels struct {
	HighSchool float64 `json:"highSchool"`
	Bachelors  float64 `json:"bachelors"`
	Graduate   float64 `json:"graduate"`
}

// Flatten derives the legacy Demographics shape.
func (a DemographicAnalysis) Flatten() Demographics {
	return Demographics{
		Population:     a.Population.Value,
		MedianAge:      a.MedianAge.Value,
		MedianIncome:   a.MedianIncome.Value,
		EmploymentRate: a.EmploymentRate.Value,
		EducationLevels: FlatEducationLevels{
			HighSchool: a.EducationLevels.HighSchool.Value,
			Bachelors:  a.EducationLevels.Bachelors.Value,
			Graduate:   a.EducationLevels.Graduate.Value,
		},
	}
}

// NamedMetric pairs a metric with its dotted path inside DemographicAnalysis.
type NamedMetric struct {
	Path   string
	Metric DemographicMetric
}

// Metrics lists every metric, nested education levels included, in a
// stable order.
func (a DemographicAnalysis) Metrics() []NamedMetric {
	return []NamedMetric{
		{"population", a.Population},
		{"medianAge", a.MedianAge},
		{"medianIncome", a.MedianIncome},
		{"employmentRate", a.EmploymentRate},
		{"educationLevels.highSchool", a.EducationLevels.HighSchool},
		{"educationLevels.bachelors", a.EducationLevels.Bachelors},
		{"educationLevels.graduate", a.EducationLevels.Graduate},
	}
}

// EducationSum is the sum of the three education shares.
func (e EducationLevels) EducationSum() float64 {
	return e.HighSchool.Value + e.Bachelors.Value + e.Graduate.Value
}

// SchoolInfo describes one nearby school. Distance is in miles.
type SchoolInfo struct {
	Name                string     `json:"name"`
	Rating              float64    `json:"rating"`
	Type                SchoolType `json:"type"`
	Distance            float64    `json:"distance"`
	Enrollment          int        `json:"enrollment"`
	StudentTeacherRatio float64    `json:"studentTeacherRatio"`
}

// SchoolDistrict is the district summary with school names by level.
type SchoolDistrict struct {
	Name              string   `json:"name"`
	Rating            float64  `json:"rating"`
	ElementarySchools []string `json:"elementarySchools"`
	MiddleSchools     []string `json:"middleSchools"`
	HighSchools       []string `json:"highSchools"`
}
