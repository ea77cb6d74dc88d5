package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWRT/monday-forms/internal/models"
)

const sampleJSON = `{
  "guias": {
    "board_a": 1234567890,
    "board_b": "987",
    "link_column": "link_col",
    "questions": [
      {"id": "q1", "type": "monday_column", "text": "", "source_column": "status", "question_destination_column": "text_q"},
      {"type": "divider", "title": "Hotel"},
      {"id": "q2", "type": "yesno", "text": "Gostou?", "destination_column": "col_x", "required": true}
    ]
  }
}`

func TestLoadFromJSONFile(t *testing.T) {
	t.Setenv(InlineConfigEnv, "")
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	cfg := NewFormsLoader(path, false, nil).Load()

	guias := cfg[models.FormTypeGuias]
	assert.Equal(t, models.FlexibleID("1234567890"), guias.BoardA)
	assert.Equal(t, models.FlexibleID("987"), guias.BoardB)
	assert.Equal(t, "link_col", guias.LinkColumn)
	require.Len(t, guias.Questions, 3)
	assert.Equal(t, "status", guias.Questions[0].SourceColumn)
	assert.Equal(t, "text_q", guias.Questions[0].QuestionDestinationColumn)
	assert.True(t, strings.HasPrefix(guias.Questions[1].ID, "divider_"), guias.Questions[1].ID)
	assert.Len(t, guias.Questions[1].ID, len("divider_")+idLength)
	assert.True(t, guias.Questions[2].Required)
}

func TestLoadFromYAMLFile(t *testing.T) {
	t.Setenv(InlineConfigEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
clientes:
  board_a: 111
  board_b: "222"
  link_column: link
  questions:
    - id: q1
      type: monday_column
      source_column: status
    - type: rating
      text: Nota
      destination_column: col_nota
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg := NewFormsLoader(path, false, nil).Load()

	clientes := cfg[models.FormTypeClientes]
	assert.Equal(t, models.FlexibleID("111"), clientes.BoardA)
	assert.Equal(t, models.FlexibleID("222"), clientes.BoardB)
	require.Len(t, clientes.Questions, 2)
	assert.Equal(t, models.QuestionTypeMondayColumn, clientes.Questions[0].Type)
	assert.Equal(t, "col_nota", clientes.Questions[1].DestinationColumn)
	assert.True(t, strings.HasPrefix(clientes.Questions[1].ID, "question_"))
}

func TestLoadFallsBackToInlineEnv(t *testing.T) {
	t.Setenv(InlineConfigEnv, `{"fornecedores":{"board_a":"1","questions":[{"id":"q","type":"text"}]}}`)

	cfg := NewFormsLoader(filepath.Join(t.TempDir(), "missing.json"), false, nil).Load()

	assert.Equal(t, models.FlexibleID("1"), cfg[models.FormTypeFornecedores].BoardA)
}

func TestLoadInvalidFileFallsBackToDefaults(t *testing.T) {
	t.Setenv(InlineConfigEnv, "")
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg := NewFormsLoader(path, false, nil).Load()

	for _, formType := range models.FormTypes {
		entry, ok := cfg[formType]
		require.True(t, ok, formType)
		assert.Empty(t, entry.Questions)
	}
}

func TestLoadReadsFreshOnEveryCall(t *testing.T) {
	t.Setenv(InlineConfigEnv, "")
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"guias":{"link_column":"a"}}`), 0o644))
	loader := NewFormsLoader(path, false, nil)
	assert.Equal(t, "a", loader.Load()[models.FormTypeGuias].LinkColumn)

	require.NoError(t, os.WriteFile(path, []byte(`{"guias":{"link_column":"b"}}`), 0o644))
	assert.Equal(t, "b", loader.Load()[models.FormTypeGuias].LinkColumn)
}

func TestSaveWritesFile(t *testing.T) {
	t.Setenv(InlineConfigEnv, "")
	path := filepath.Join(t.TempDir(), "setup", "config.json")
	loader := NewFormsLoader(path, false, nil)

	persisted, err := loader.Save(models.Config{
		models.FormTypeGuias: {BoardA: "1", Questions: []models.Question{{Type: models.QuestionTypeText, Text: "Olá & <bem-vindo>"}}},
	})
	require.NoError(t, err)
	assert.True(t, persisted)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Olá & <bem-vindo>")
	assert.Contains(t, string(data), "\n  \"guias\"")

	cfg := loader.Load()
	assert.True(t, strings.HasPrefix(cfg[models.FormTypeGuias].Questions[0].ID, "question_"))
}

func TestSaveYAMLRoundTrip(t *testing.T) {
	t.Setenv(InlineConfigEnv, "")
	path := filepath.Join(t.TempDir(), "config.yml")
	loader := NewFormsLoader(path, false, nil)

	_, err := loader.Save(models.Config{
		models.FormTypeClientes: {BoardA: "42", BoardB: "43", Questions: []models.Question{
			{ID: "q1", Type: models.QuestionTypeYesNo, Conditional: &models.Condition{DependsOn: "q0", ShowIf: "yes"}},
		}},
	})
	require.NoError(t, err)

	cfg := loader.Load()
	clientes := cfg[models.FormTypeClientes]
	assert.Equal(t, models.FlexibleID("42"), clientes.BoardA)
	require.NotNil(t, clientes.Questions[0].Conditional)
	assert.Equal(t, "q0", clientes.Questions[0].Conditional.DependsOn)
}

func TestSaveReadOnlyKeepsConfigInMemory(t *testing.T) {
	t.Setenv(InlineConfigEnv, "")
	path := filepath.Join(t.TempDir(), "config.json")
	loader := NewFormsLoader(path, true, nil)

	persisted, err := loader.Save(models.Config{models.FormTypeGuias: {LinkColumn: "mem"}})
	require.NoError(t, err)
	assert.False(t, persisted)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, "mem", loader.Load()[models.FormTypeGuias].LinkColumn)
}
