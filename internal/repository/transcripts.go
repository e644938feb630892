package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"interviewer/pkg/schema"

	"gopkg.in/yaml.v3"
)

const transcriptExt = ".yaml"

// ErrTranscriptNotFound is returned by Load for an unknown transcript.
var ErrTranscriptNotFound = errors.New("transcript not found")

// TranscriptStore handles file I/O for exported interview transcripts.
type TranscriptStore struct {
	baseDir string
}

// NewTranscriptStore creates a store rooted at baseDir. The directory is
// created on the first save.
func NewTranscriptStore(baseDir string) *TranscriptStore {
	return &TranscriptStore{baseDir: baseDir}
}

// Dir returns the store's directory.
func (s *TranscriptStore) Dir() string {
	return s.baseDir
}

// Path returns the file path for the transcript with the given ID.
func (s *TranscriptStore) Path(id string) string {
	return filepath.Join(s.baseDir, id+transcriptExt)
}

// Save writes the transcript to {dir}/{id}.yaml atomically and returns the path.
// An existing transcript with the same ID is replaced.
func (s *TranscriptStore) Save(t *schema.Transcript) (string, error) {
	if err := validateID(t.ID); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}

	path := s.Path(t.ID)
	if err := WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("save transcript %s: %w", t.ID, err)
	}

	return path, nil
}

// Load reads a transcript by ID, or by file path when ref ends in .yaml.
func (s *TranscriptStore) Load(ref string) (*schema.Transcript, error) {
	path := ref
	if !strings.HasSuffix(ref, transcriptExt) {
		if err := validateID(ref); err != nil {
			return nil, err
		}
		path = s.Path(ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTranscriptNotFound, ref)
		}
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var t schema.Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", ref, err)
	}

	return &t, nil
}

// List returns the IDs of stored transcripts in lexical order.
// A missing directory yields an empty list.
func (s *TranscriptStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read transcript directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		// In-flight temp files start with a dot
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, transcriptExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, transcriptExt))
	}

	sort.Strings(ids)
	return ids, nil
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("transcript ID is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid transcript ID: %q", id)
	}
	return nil
}
