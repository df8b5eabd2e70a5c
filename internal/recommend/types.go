package recommend

// SignalSource names one of the three scoring domains a playbook trigger
// can bind to.
type SignalSource string

const (
	SourceDRS SignalSource = "DRS"
	SourceRSS SignalSource = "RSS"
	SourceBQS SignalSource = "BQS"
)

// Trigger links a playbook to one normalized signal.
type Trigger struct {
	Source SignalSource `json:"source" yaml:"source"`
	Signal string       `json:"signal" yaml:"signal"`
	Weight float64      `json:"weight" yaml:"weight"`
}

// Playbook is a template recommendation program. Impact figures are
// normalized to a $1,000,000-EBITDA company and scaled per company at
// evaluation time.
type Playbook struct {
	Slug           string    `json:"slug" yaml:"slug"`
	Name           string    `json:"name" yaml:"name"`
	Category       string    `json:"category" yaml:"category"`
	Triggers       []Trigger `json:"triggers" yaml:"triggers"`
	ImpactBaseLow  float64   `json:"impactBaseLow" yaml:"impactBaseLow"`
	ImpactBaseHigh float64   `json:"impactBaseHigh" yaml:"impactBaseHigh"`
}

// DRSCategory is one category-level readiness score (0-1, higher is
// healthier), produced by the valuation engine.
type DRSCategory struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
}

// RiskDiscount is one named risk discount, a fraction of value at risk.
type RiskDiscount struct {
	Name        string  `json:"name"`
	Rate        float64 `json:"rate"`
	Explanation string  `json:"explanation,omitempty"`
}

// QualityAdjustment is one signed quality factor; only negative-impact
// entries feed the engine.
type QualityAdjustment struct {
	Factor   string  `json:"factor"`
	Name     string  `json:"name"`
	Impact   float64 `json:"impact"`
	Category string  `json:"category,omitempty"`
}

type CompanyProfile struct {
	AdjustedEBITDA float64 `json:"adjustedEbitda"`
	AnnualRevenue  float64 `json:"annualRevenue"`
}

// Inputs is everything the engine needs for one evaluation. All fields are
// caller-supplied; the engine does no I/O.
type Inputs struct {
	DRSCategories       []DRSCategory       `json:"drsCategories"`
	RiskDiscounts       []RiskDiscount      `json:"riskDiscounts"`
	QualityAdjustments  []QualityAdjustment `json:"qualityAdjustments"`
	CompanyProfile      CompanyProfile      `json:"companyProfile"`
	ActivePlaybookSlugs []string            `json:"activePlaybookSlugs"`
}

// SignalContribution records how one trigger contributed to a playbook's
// relevance, in trigger-declaration order.
type SignalContribution struct {
	Source       SignalSource `json:"source"`
	Signal       string       `json:"signal"`
	Weight       float64      `json:"weight"`
	RawStrength  float64      `json:"rawStrength"`
	Contribution float64      `json:"contribution"`
}

type Recommendation struct {
	Playbook            Playbook             `json:"playbook"`
	RelevanceScore      float64              `json:"relevanceScore"`
	EstimatedImpactLow  int64                `json:"estimatedImpactLow"`
	EstimatedImpactHigh int64                `json:"estimatedImpactHigh"`
	SignalBreakdown     []SignalContribution `json:"signalBreakdown"`
	IsRecommended       bool                 `json:"isRecommended"`
}

type ImpactRange struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Result is the full ranked output: every playbook in sorted order, the
// addressable impact summed over the recommended ones, and the dominant
// category.
type Result struct {
	Recommendations        []Recommendation `json:"recommendations"`
	TotalAddressableImpact ImpactRange      `json:"totalAddressableImpact"`
	TopCategory            string           `json:"topCategory"`
}
