package models

import (
	"encoding/json"
	"time"
)

type FormType string

const (
	FormTypeGuias        FormType = "guias"
	FormTypeClientes     FormType = "clientes"
	FormTypeFornecedores FormType = "fornecedores"
)

var FormTypes = []FormType{FormTypeGuias, FormTypeClientes, FormTypeFornecedores}

func (t FormType) Valid() bool {
	for _, known := range FormTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Header labels shown on top of every form.
const (
	HeaderTrip        = "Viagem"
	HeaderDestination = "Destino"
	HeaderDate        = "Data"
	HeaderClient      = "Cliente"
)

type Form struct {
	ID          string            `json:"id"`
	Type        FormType          `json:"type"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	Questions   []Question        `json:"questions"`
	HeaderData  map[string]string `json:"header_data"`
	WebhookData json.RawMessage   `json:"webhook_data"`
	CreatedAt   time.Time         `json:"created_at"`
}

type FormSummary struct {
	ID         string            `json:"id"`
	Type       FormType          `json:"type"`
	CreatedAt  time.Time         `json:"created_at"`
	HeaderData map[string]string `json:"header_data"`
}

func (f *Form) Summary() FormSummary {
	return FormSummary{
		ID:         f.ID,
		Type:       f.Type,
		CreatedAt:  f.CreatedAt,
		HeaderData: f.HeaderData,
	}
}
