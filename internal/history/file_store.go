package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codyseavey/cardwatch/internal/models"
)

// FileStore keeps the ledger in a single JSON file of the form
// {"cards": {"<productId>": {...}}}. A missing file loads as an empty
// ledger. Legacy "<id>-<cardType>" keys are migrated to plain ids on load.
type FileStore struct {
	path string
}

type historyFile struct {
	Cards models.History `json:"cards"`
}

// NewFileStore creates a file-backed ledger store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (models.History, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if file.Cards == nil {
		file.Cards = models.History{}
	}
	file.Cards.NormalizeKeys()
	return file.Cards, nil
}

func (s *FileStore) Save(h models.History) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.Marshal(historyFile{Cards: h})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
