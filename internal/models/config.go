package models

// HeaderField is kept for the admin UI; the header columns themselves are fixed.
type HeaderField struct {
	Title        string `json:"title" yaml:"title"`
	MondayColumn string `json:"monday_column" yaml:"monday_column"`
}

type FormConfig struct {
	BoardA         FlexibleID    `json:"board_a" yaml:"board_a"`
	BoardB         FlexibleID    `json:"board_b" yaml:"board_b"`
	LinkColumn     string        `json:"link_column" yaml:"link_column"`
	QuestionsTitle string        `json:"questions_title,omitempty" yaml:"questions_title,omitempty"`
	HeaderFields   []HeaderField `json:"header_fields,omitempty" yaml:"header_fields,omitempty"`
	Questions      []Question    `json:"questions" yaml:"questions"`
}

// Config is the forms configuration document keyed by form type.
type Config map[FormType]FormConfig

// DefaultConfig returns an empty entry for every known form type.
func DefaultConfig() Config {
	cfg := make(Config, len(FormTypes))
	for _, t := range FormTypes {
		cfg[t] = FormConfig{Questions: []Question{}}
	}
	return cfg
}
