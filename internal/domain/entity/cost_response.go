package entity

// CostResponse mirrors the GetCostAndUsage output. Every field may be nil;
// the parser applies the defaulting rules.
type CostResponse struct {
	ResultsByTime []ResultByTime `json:"ResultsByTime"`
}

// ResultByTime is a single time bucket of the response.
type ResultByTime struct {
	TimePeriod *DateInterval `json:"TimePeriod"`
	Groups     []CostGroup   `json:"Groups"`
	Estimated  bool          `json:"Estimated"`
}

// DateInterval holds the raw start and end dates of a bucket.
type DateInterval struct {
	Start *string `json:"Start"`
	End   *string `json:"End"`
}

// CostGroup is one group (service) inside a bucket.
type CostGroup struct {
	Keys    []string               `json:"Keys"`
	Metrics map[string]MetricValue `json:"Metrics"`
}

// MetricValue carries an amount and its unit (currency).
type MetricValue struct {
	Amount *string `json:"Amount"`
	Unit   *string `json:"Unit"`
}
