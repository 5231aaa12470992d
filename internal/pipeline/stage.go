package pipeline

// FailurePolicy decides what a stage failure does to the run.
type FailurePolicy string

const (
	// FailAbort stops the run; the stage is load-bearing.
	FailAbort FailurePolicy = "abort"
	// FailContinue logs the failure and moves on; downstream stages fall
	// back to whatever artifacts already exist.
	FailContinue FailurePolicy = "continue"
	// FailWarn records a warning on an otherwise successful run. The
	// edition is already live by the time a warn stage runs.
	FailWarn FailurePolicy = "warn"
)

// Stage is one step of the publishing pipeline, backed by an external
// program. Command elements may reference declared artifacts as {{name}},
// plus {{hours}} and {{deploy_url}}.
type Stage struct {
	Name          string        `yaml:"name"`
	Command       []string      `yaml:"command"`
	Inputs        []string      `yaml:"inputs,omitempty"`
	Outputs       []string      `yaml:"outputs,omitempty"`
	OnFailure     FailurePolicy `yaml:"on_failure"`
	SkipWhenEmpty []string      `yaml:"skip_when_empty,omitempty"`
	// TimeoutSeconds overrides the global stage ceiling when > 0.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// DefaultStages is the built-in edition pipeline:
// fetch -> fetch-ap -> merge -> generate -> invalidate.
func DefaultStages() []Stage {
	return []Stage{
		{
			Name:      "fetch",
			Command:   []string{"python3", "scraper.py", "-o", "{{articles.json}}", "--hours", "{{hours}}"},
			Outputs:   []string{"articles.json"},
			OnFailure: FailAbort,
		},
		{
			Name:      "fetch-ap",
			Command:   []string{"python3", "parse_ap_emails.py", "-o", "{{ap_articles.json}}", "--hours", "{{hours}}"},
			Outputs:   []string{"ap_articles.json"},
			OnFailure: FailContinue,
		},
		{
			Name:          "merge",
			Command:       []string{"python3", "merge_articles.py", "{{articles.json}}", "{{ap_articles.json}}", "-o", "{{articles.json}}"},
			Inputs:        []string{"articles.json", "ap_articles.json"},
			Outputs:       []string{"articles.json"},
			OnFailure:     FailContinue,
			SkipWhenEmpty: []string{"ap_articles.json"},
		},
		{
			Name:      "generate",
			Command:   []string{"python3", "generate.py", "-i", "{{articles.json}}", "-o", "{{index.html}}", "--deploy", "{{deploy_url}}"},
			Inputs:    []string{"articles.json"},
			Outputs:   []string{"index.html"},
			OnFailure: FailAbort,
		},
		{
			Name:      "invalidate",
			Command:   []string{"python3", "purge_cache.py"},
			OnFailure: FailWarn,
		},
	}
}
