package schema

import (
	"fmt"
	"math"
	"sort"
)

// Threshold is the per-metric scoring triple. Good and Bad bound a linear
// interpolation interval; their order encodes the preferred direction.
type Threshold struct {
	Good   float64 `json:"good" mapstructure:"good"`
	Bad    float64 `json:"bad" mapstructure:"bad"`
	Weight float64 `json:"weight" mapstructure:"weight"`
}

// LowerIsBetter reports whether smaller values score higher.
func (t Threshold) LowerIsBetter() bool {
	return t.Good < t.Bad
}

// Validate checks that all numbers are finite and the weight is non-negative.
func (t Threshold) Validate() error {
	for _, v := range []float64{t.Good, t.Bad, t.Weight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("threshold values must be finite (good=%v, bad=%v, weight=%v)", t.Good, t.Bad, t.Weight)
		}
	}
	if t.Weight < 0 {
		return fmt.Errorf("weight must be >= 0 (received %v)", t.Weight)
	}
	return nil
}

// LanguageRubric maps metric keys to their thresholds for one language.
type LanguageRubric map[MetricKey]Threshold

// Defines reports whether the rubric has an entry for key.
func (lr LanguageRubric) Defines(key MetricKey) bool {
	_, ok := lr[key]
	return ok
}

// Keys returns the defined keys in AllMetricKeys order.
func (lr LanguageRubric) Keys() []MetricKey {
	keys := make([]MetricKey, 0, len(lr))
	for _, k := range AllMetricKeys {
		if lr.Defines(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// TotalWeight sums the weights of all entries.
func (lr LanguageRubric) TotalWeight() float64 {
	var total float64
	for _, t := range lr {
		total += t.Weight
	}
	return total
}

func (lr LanguageRubric) clone() LanguageRubric {
	out := make(LanguageRubric, len(lr))
	for k, v := range lr {
		out[k] = v
	}
	return out
}

// Rubric is the immutable scoring table for every supported language.
// Build it with NewRubric or DefaultRubric.
type Rubric struct {
	languages map[Language]LanguageRubric
}

// NewRubric validates table and returns a Rubric holding a deep copy of it.
func NewRubric(table map[Language]LanguageRubric) (*Rubric, error) {
	r := &Rubric{languages: make(map[Language]LanguageRubric, len(table))}
	for lang, lr := range table {
		if lang == Unknown {
			return nil, fmt.Errorf("rubric language key cannot be empty")
		}
		for key, t := range lr {
			if _, err := ParseMetricKey(string(key)); err != nil {
				return nil, fmt.Errorf("rubric %s: %w", lang, err)
			}
			if err := t.Validate(); err != nil {
				return nil, fmt.Errorf("rubric %s.%s: %w", lang, key, err)
			}
		}
		r.languages[lang] = lr.clone()
	}
	return r, nil
}

// For returns a copy of the rubric for lang.
func (r *Rubric) For(lang Language) (LanguageRubric, bool) {
	if r == nil {
		return nil, false
	}
	lr, ok := r.languages[lang]
	if !ok {
		return nil, false
	}
	return lr.clone(), true
}

// Has reports whether lang has a rubric.
func (r *Rubric) Has(lang Language) bool {
	if r == nil {
		return false
	}
	_, ok := r.languages[lang]
	return ok
}

// Languages returns the languages with a rubric, sorted.
func (r *Rubric) Languages() []Language {
	if r == nil {
		return nil
	}
	langs := make([]Language, 0, len(r.languages))
	for lang := range r.languages {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// WithOverrides returns a new Rubric where each entry of overrides replaces
// the matching metric entry. Languages absent from r are added.
func (r *Rubric) WithOverrides(overrides map[Language]LanguageRubric) (*Rubric, error) {
	table := make(map[Language]LanguageRubric, len(r.languages)+len(overrides))
	for lang, lr := range r.languages {
		table[lang] = lr.clone()
	}
	for lang, lr := range overrides {
		merged, ok := table[lang]
		if !ok {
			merged = make(LanguageRubric, len(lr))
		}
		for k, t := range lr {
			merged[k] = t
		}
		table[lang] = merged
	}
	return NewRubric(table)
}

// DefaultRubric returns the built-in rubric.
func DefaultRubric() *Rubric {
	r, err := NewRubric(defaultRubricTable())
	if err != nil {
		panic(fmt.Sprintf("invalid built-in rubric: %v", err))
	}
	return r
}

// defaultRubricTable holds the built-in thresholds. Python routes density
// through logical LOC; the other languages use cloc code lines.
func defaultRubricTable() map[Language]LanguageRubric {
	scripting := func(deps Threshold) LanguageRubric {
		return LanguageRubric{
			CyclomaticComplexityMax: {Good: 2, Bad: 15, Weight: 30},
			CyclomaticComplexityAvg: {Good: 2, Bad: 10, Weight: 15},
			FunctionNLOCMax:         {Good: 20, Bad: 80, Weight: 10},
			ComplexityDensityCLOC:   {Good: 0.05, Bad: 0.5, Weight: 15},
			DependencyCount:         deps,
			LOCCode:                 {Good: 50, Bad: 600, Weight: 5},
			LOCTotal:                {Good: 100, Bad: 1000, Weight: 0},
		}
	}
	compiled := func(fnLen float64) LanguageRubric {
		return LanguageRubric{
			CyclomaticComplexityMax: {Good: 3, Bad: 20, Weight: 30},
			CyclomaticComplexityAvg: {Good: 2, Bad: 12, Weight: 15},
			FunctionNLOCMax:         {Good: fnLen, Bad: fnLen * 5, Weight: 10},
			ComplexityDensityCLOC:   {Good: 0.05, Bad: 0.5, Weight: 15},
			LOCCode:                 {Good: 80, Bad: 800, Weight: 5},
		}
	}

	cFamily := compiled(30)
	cFamily[DependencyCount] = Threshold{Good: 5, Bad: 25, Weight: 10}

	return map[Language]LanguageRubric{
		Python: {
			CyclomaticComplexityMax: {Good: 2, Bad: 15, Weight: 30},
			CyclomaticComplexityAvg: {Good: 2, Bad: 10, Weight: 15},
			FunctionNLOCMax:         {Good: 20, Bad: 100, Weight: 10},
			ComplexityDensity:       {Good: 0.05, Bad: 0.5, Weight: 15},
			DependencyCount:         {Good: 3, Bad: 15, Weight: 10},
			LOCCode:                 {Good: 50, Bad: 500, Weight: 5},
			LLOC:                    {Good: 40, Bad: 400, Weight: 0},
		},
		JavaScript: scripting(Threshold{Good: 3, Bad: 20, Weight: 10}),
		TypeScript: scripting(Threshold{Good: 3, Bad: 20, Weight: 10}),
		Java:       compiled(30),
		Go:         compiled(40),
		C:          cFamily,
		CPP:        cFamily,
	}
}
