package models

// Generation payloads are the JSON shapes exchanged with the AI provider.
// They are validated as a whole before anything is persisted; a payload that
// fails validation rejects the entire generation, never a partial commit.

// SeriesPlan is one recurring content series proposed by strategy generation
type SeriesPlan struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Goal        string            `json:"goal" validate:"required"`
	Cadence     string            `json:"cadence" validate:"required"`
	Platforms   []Platform        `json:"platforms" validate:"required,min=1,dive,platform"`
	Tone        string            `json:"tone" validate:"required"`
	Examples    map[string]string `json:"examples"`
}

// StrategyPlan is the full strategy generation result
type StrategyPlan struct {
	Platforms      []Platform        `json:"platforms" validate:"required,min=1,dive,platform"`
	ContentPillars []string          `json:"content_pillars" validate:"required,min=3"`
	KPIs           []string          `json:"kpis" validate:"required,min=1"`
	Series         []SeriesPlan      `json:"series" validate:"required,min=1,dive"`
	MonthlyThemes  map[string]string `json:"monthly_themes" validate:"required,min=1"`
}

// PostPlan is one generated post inside a monthly calendar
type PostPlan struct {
	Hook          string     `json:"hook" validate:"required"`
	BodyCopy      string     `json:"body_copy" validate:"required"`
	CTA           string     `json:"cta" validate:"required"`
	Justification string     `json:"justification" validate:"required"`
	VisualConcept string     `json:"visual_concept" validate:"required"`
	Platforms     []Platform `json:"platform" validate:"required,min=1,dive,platform"`
	PostType      PostType   `json:"post_type" validate:"required,posttype"`
	Hashtags      []string   `json:"hashtags" validate:"required,min=1"`
	SeriesName    string     `json:"series_name"`
	Week          int        `json:"week" validate:"required,min=1,max=5"`
	Wildcard      bool       `json:"wildcard"`
}

// CalendarPlan is the full content generation result for one month
type CalendarPlan struct {
	Posts []PostPlan `json:"posts" validate:"required,min=1,dive"`
}

// HookAlternatives is the hook refinement result
type HookAlternatives struct {
	Alternatives []string `json:"alternatives" validate:"required,min=1"`
}

// ImagePrompt is the image prompt generation result
type ImagePrompt struct {
	Prompt string `json:"prompt" validate:"required"`
}
