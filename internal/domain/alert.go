package domain

// MetricVolumeSurge is the metric name carried by volume regime alerts.
const MetricVolumeSurge = "Volume Surge"

// RegimeAlert flags a partner whose recent daily volume deviates
// significantly from its own historical baseline. At most one alert is
// emitted per partner per detection pass. Baseline, Current and ZScore are
// rounded to two decimals for presentation stability.
type RegimeAlert struct {
	PartnerID  string
	RiskScore  float64
	Metric     string
	Baseline   float64
	Current    float64
	ZScore     float64
	Hypothesis string
}
