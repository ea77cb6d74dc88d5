package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	nanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/TWRT/monday-forms/internal/models"
)

// InlineConfigEnv holds a JSON forms configuration for deployments without a
// writable filesystem.
const InlineConfigEnv = "FORMS_CONFIG"

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 10
)

// FormsLoader reads the forms configuration on every call so edits apply to
// the next request. Sources, first usable wins: the config file, a document
// saved while read-only, the FORMS_CONFIG variable, empty defaults.
type FormsLoader struct {
	path     string
	readOnly bool
	logger   *zap.Logger

	mu       sync.RWMutex
	override models.Config
}

func NewFormsLoader(path string, readOnly bool, logger *zap.Logger) *FormsLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormsLoader{
		path:     path,
		readOnly: readOnly,
		logger:   logger.Named("config"),
	}
}

func (l *FormsLoader) Load() models.Config {
	if cfg, ok := l.loadFile(); ok {
		return cfg
	}

	l.mu.RLock()
	override := l.override
	l.mu.RUnlock()
	if override != nil {
		return cloneConfig(override)
	}

	if inline := os.Getenv(InlineConfigEnv); inline != "" {
		cfg, err := decodeConfig([]byte(inline), false)
		if err == nil {
			assignQuestionIDs(cfg)
			return cfg
		}
		l.logger.Warn("ignoring invalid "+InlineConfigEnv, zap.Error(err))
	}

	return models.DefaultConfig()
}

func (l *FormsLoader) loadFile() (models.Config, bool) {
	if l.path == "" {
		return nil, false
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("read forms config", zap.String("path", l.path), zap.Error(err))
		}
		return nil, false
	}
	cfg, err := decodeConfig(data, isYAML(l.path))
	if err != nil {
		l.logger.Warn("parse forms config", zap.String("path", l.path), zap.Error(err))
		return nil, false
	}
	assignQuestionIDs(cfg)
	return cfg, true
}

// Save replaces the configuration. On a read-only deployment the document is
// only kept in memory and persisted is false.
func (l *FormsLoader) Save(cfg models.Config) (persisted bool, err error) {
	if cfg == nil {
		cfg = models.Config{}
	}
	assignQuestionIDs(cfg)

	if l.readOnly || l.path == "" {
		l.mu.Lock()
		l.override = cloneConfig(cfg)
		l.mu.Unlock()
		l.logger.Info("read-only deployment, configuration kept in memory; set " + InlineConfigEnv + " to persist it")
		return false, nil
	}

	data, err := encodeConfig(cfg, isYAML(l.path))
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return false, fmt.Errorf("write forms config: %w", err)
	}
	l.logger.Info("forms configuration saved", zap.String("path", l.path))
	return true, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decodeConfig(data []byte, asYAML bool) (models.Config, error) {
	cfg := models.Config{}
	if asYAML {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return cfg, nil
}

func encodeConfig(cfg models.Config, asYAML bool) ([]byte, error) {
	if asYAML {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// assignQuestionIDs gives every question without an id a generated one.
func assignQuestionIDs(cfg models.Config) {
	for formType, formCfg := range cfg {
		changed := false
		for i, q := range formCfg.Questions {
			if strings.TrimSpace(q.ID) != "" {
				continue
			}
			prefix := "question_"
			if q.IsDivider() {
				prefix = "divider_"
			}
			formCfg.Questions[i].ID = newID(prefix, i)
			changed = true
		}
		if changed {
			cfg[formType] = formCfg
		}
	}
}

func newID(prefix string, index int) string {
	id, err := nanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return fmt.Sprintf("%s%d", prefix, index)
	}
	return prefix + id
}

func cloneConfig(cfg models.Config) models.Config {
	out := make(models.Config, len(cfg))
	for formType, formCfg := range cfg {
		questions := make([]models.Question, len(formCfg.Questions))
		copy(questions, formCfg.Questions)
		formCfg.Questions = questions
		out[formType] = formCfg
	}
	return out
}
