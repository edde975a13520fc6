package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"ocev/adapters/excel"
	"ocev/domain/evidence"
)

// GeneratorConfig configures the synthetic evidence generator.
type GeneratorConfig struct {
	NSamples     int               `json:"n_samples"`
	EvidenceType evidence.TestType `json:"evidence_type"`
	Seed         int64             `json:"seed"`
}

// DefaultGeneratorConfig returns sensible defaults for synthetic evidence.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		NSamples:     100,
		EvidenceType: evidence.TestTTest,
		Seed:         42,
	}
}

// Dataset is one fabricated trial: the raw tabular data plus the evidence
// records derived from it.
type Dataset struct {
	Table   *excel.TableData  `json:"-"`
	Records []evidence.Record `json:"records"`
}

// Generator fabricates clinical-trial-shaped datasets per test type with
// a seedable RNG so fixtures are reproducible.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator for the given config.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.NSamples <= 0 {
		config.NSamples = 100
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate fabricates a dataset for the configured evidence type.
func (g *Generator) Generate() (*Dataset, error) {
	switch g.config.EvidenceType {
	case evidence.TestTTest:
		return g.generateTTest()
	case evidence.TestChiSquare:
		return g.generateChiSquare()
	case evidence.TestLogisticRegression:
		return g.generateLogistic()
	case evidence.TestKaplanMeier:
		return g.generateSurvival()
	default:
		return nil, fmt.Errorf("unsupported evidence type: %s", g.config.EvidenceType)
	}
}

// generateTTest fabricates two normal groups (treatment mean 75, control
// mean 65, sd 15) and derives the record through the same path uploaded
// tables take.
func (g *Generator) generateTTest() (*Dataset, error) {
	n := g.config.NSamples
	perGroup := n / 2
	if perGroup < 2 {
		return nil, fmt.Errorf("need at least 4 samples for a two-group design, got %d", n)
	}

	table := &excel.TableData{Headers: []string{"patient_id", "group", "outcome"}}
	for i := 0; i < perGroup; i++ {
		v := g.rng.NormFloat64()*15 + 75
		table.Rows = append(table.Rows, []string{strconv.Itoa(i + 1), "treatment", formatFloat(v)})
	}
	for i := 0; i < perGroup; i++ {
		v := g.rng.NormFloat64()*15 + 65
		table.Rows = append(table.Rows, []string{strconv.Itoa(perGroup + i + 1), "control", formatFloat(v)})
	}

	records, err := excel.DeriveRecords(table, evidence.TestTTest)
	if err != nil {
		return nil, err
	}
	return &Dataset{Table: table, Records: records}, nil
}

// generateChiSquare fabricates a two-arm trial with binary improvement
// (60% under treatment, 40% under control) and computes the chi-square
// statistic from the resulting contingency table.
func (g *Generator) generateChiSquare() (*Dataset, error) {
	n := g.config.NSamples
	table := &excel.TableData{Headers: []string{"patient_id", "group", "outcome"}}

	// counts[group][improved]
	var counts [2][2]int
	for i := 0; i < n; i++ {
		group, pImproved := "treatment", 0.6
		gi := 0
		if i >= n/2 {
			group, pImproved = "control", 0.4
			gi = 1
		}
		improved := "No"
		oi := 1
		if g.rng.Float64() < pImproved {
			improved = "Yes"
			oi = 0
		}
		counts[gi][oi]++
		table.Rows = append(table.Rows, []string{strconv.Itoa(i + 1), group, improved})
	}

	chi2, pValue := chiSquareIndependence(counts)
	rec := evidence.Record{
		ID:         uuid.NewString(),
		Status:     "draft",
		TestType:   evidence.TestChiSquare,
		Statistics: []evidence.Statistic{{Type: "chi-square", Value: chi2}},
		PValue:     &pValue,
		SampleSize: &n,
		Variables: []evidence.Variable{
			{Name: "group", Value: "treatment_vs_control"},
			{Name: "outcome", Value: "improvement"},
		},
		License:     "CC-BY-4.0",
		Version:     "1.0.0",
		Identifiers: []evidence.Identifier{{System: "https://doi.org", Value: syntheticDOI()}},
	}
	return &Dataset{Table: table, Records: []evidence.Record{rec}}, nil
}

// generateLogistic fabricates a logistic model
// logit(p) = -2 + 0.05*age + 1.2*treatment.
func (g *Generator) generateLogistic() (*Dataset, error) {
	n := g.config.NSamples
	table := &excel.TableData{Headers: []string{"patient_id", "age", "treatment", "outcome"}}

	for i := 0; i < n; i++ {
		age := g.rng.NormFloat64()*10 + 60
		treatment := 0
		if g.rng.Float64() < 0.5 {
			treatment = 1
		}
		logOdds := -2 + 0.05*age + 1.2*float64(treatment)
		p := 1 / (1 + math.Exp(-logOdds))
		outcome := 0
		if g.rng.Float64() < p {
			outcome = 1
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1), formatFloat(age), strconv.Itoa(treatment), strconv.Itoa(outcome),
		})
	}

	outcomeFlag := true
	coeffs := []float64{0.05, 1.2}
	rec := evidence.Record{
		ID:           uuid.NewString(),
		Status:       "draft",
		TestType:     evidence.TestLogisticRegression,
		Outcome:      &outcomeFlag,
		Coefficients: coeffs,
		OddsRatios:   []float64{math.Exp(coeffs[0]), math.Exp(coeffs[1])},
		Variables: []evidence.Variable{
			{Name: "age"},
			{Name: "treatment"},
		},
		SampleSize:  &n,
		License:     "CC-BY-4.0",
		Version:     "1.0.0",
		Identifiers: []evidence.Identifier{{System: "https://doi.org", Value: syntheticDOI()}},
	}
	return &Dataset{Table: table, Records: []evidence.Record{rec}}, nil
}

// generateSurvival fabricates exponential time-to-event data (mean 12
// months) with 70% event probability.
func (g *Generator) generateSurvival() (*Dataset, error) {
	n := g.config.NSamples
	table := &excel.TableData{Headers: []string{"patient_id", "group", "time_to_event", "event_status"}}

	times := make([]float64, 0, n)
	events := make([]bool, 0, n)
	for i := 0; i < n; i++ {
		t := g.rng.ExpFloat64() * 12
		event := g.rng.Float64() < 0.7
		group := "control"
		if g.rng.Float64() < 0.5 {
			group = "treatment"
		}
		times = append(times, t)
		events = append(events, event)
		eventFlag := "0"
		if event {
			eventFlag = "1"
		}
		table.Rows = append(table.Rows, []string{strconv.Itoa(i + 1), group, formatFloat(t), eventFlag})
	}

	rec := evidence.Record{
		ID:          uuid.NewString(),
		Status:      "draft",
		TestType:    evidence.TestKaplanMeier,
		TimeToEvent: times,
		EventStatus: events,
		Variables: []evidence.Variable{
			{Name: "treatment"},
			{Name: "control"},
		},
		SampleSize:  &n,
		License:     "CC-BY-4.0",
		Version:     "1.0.0",
		Identifiers: []evidence.Identifier{{System: "https://doi.org", Value: syntheticDOI()}},
	}
	return &Dataset{Table: table, Records: []evidence.Record{rec}}, nil
}

// chiSquareIndependence computes the chi-square statistic and p-value for
// a 2x2 contingency table.
func chiSquareIndependence(counts [2][2]int) (float64, float64) {
	var rowTotals [2]int
	var colTotals [2]int
	total := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			rowTotals[i] += counts[i][j]
			colTotals[j] += counts[i][j]
			total += counts[i][j]
		}
	}
	if total == 0 {
		return 0, 1
	}

	chi2 := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected := float64(rowTotals[i]*colTotals[j]) / float64(total)
			if expected > 0 {
				observed := float64(counts[i][j])
				chi2 += (observed - expected) * (observed - expected) / expected
			}
		}
	}

	dist := distuv.ChiSquared{K: 1} // (2-1)*(2-1) degrees of freedom
	return chi2, dist.Survival(chi2)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func syntheticDOI() string {
	return "https://doi.org/10.1234/syn." + uuid.NewString()
}
