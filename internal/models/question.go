package models

import (
	"encoding/json"
	"strings"
)

type QuestionType string

const (
	QuestionTypeYesNo        QuestionType = "yesno"
	QuestionTypeRating       QuestionType = "rating"
	QuestionTypeText         QuestionType = "text"
	QuestionTypeLongText     QuestionType = "longtext"
	QuestionTypeDropdown     QuestionType = "dropdown"
	QuestionTypeMondayColumn QuestionType = "monday_column"
	QuestionTypeDivider      QuestionType = "divider"
)

// Condition hides a question until another question holds a given answer.
type Condition struct {
	DependsOn string `json:"depends_on" yaml:"depends_on"`
	ShowIf    string `json:"show_if" yaml:"show_if"`
}

// Question is one entry of a form. Column identifiers live in three
// namespaces: SourceColumn on board A, DestinationColumn and
// QuestionDestinationColumn on board B.
type Question struct {
	ID                        string       `json:"id" yaml:"id"`
	Type                      QuestionType `json:"type" yaml:"type"`
	Text                      string       `json:"text,omitempty" yaml:"text,omitempty"`
	Title                     string       `json:"title,omitempty" yaml:"title,omitempty"`
	Required                  bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Source                    string       `json:"source,omitempty" yaml:"source,omitempty"`
	DropdownOptions           string       `json:"dropdown_options,omitempty" yaml:"dropdown_options,omitempty"`
	Conditional               *Condition   `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	SourceColumn              string       `json:"source_column,omitempty" yaml:"source_column,omitempty"`
	DestinationColumn         string       `json:"destination_column,omitempty" yaml:"destination_column,omitempty"`
	QuestionDestinationColumn string       `json:"question_destination_column,omitempty" yaml:"question_destination_column,omitempty"`

	// ColumnValue is filled at mapping time for monday_column questions.
	ColumnValue string `json:"column_value,omitempty" yaml:"-"`
}

// MarshalJSON always emits column_value for monday_column questions, empty
// or not; other types omit it.
func (q Question) MarshalJSON() ([]byte, error) {
	type plain Question
	if !q.IsRemoteSourced() {
		return json.Marshal(plain(q))
	}
	return json.Marshal(struct {
		plain
		ColumnValue string `json:"column_value"`
	}{plain(q), q.ColumnValue})
}

func (q Question) IsDivider() bool {
	return q.Type == QuestionTypeDivider
}

func (q Question) IsRemoteSourced() bool {
	return q.Type == QuestionTypeMondayColumn
}

// Choices splits DropdownOptions on ";" and drops blank entries.
func (q Question) Choices() []string {
	var choices []string
	for _, opt := range strings.Split(q.DropdownOptions, ";") {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			choices = append(choices, opt)
		}
	}
	return choices
}
