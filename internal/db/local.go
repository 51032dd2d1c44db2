package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RichardoC/careerbot/internal/models"
)

// LocalStore keeps every chat in a single JSON file:
//
//	{"chats": {"<user_id>": [{"id": ..., "message": ..., "reply": ..., "timestamp": ...}]}}
//
// Each Save rewrites the whole file, so saves are serialized.
type LocalStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

type localDocument struct {
	Chats map[string][]models.ChatRecord `json:"chats"`
}

func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path, now: time.Now}
}

func (s *LocalStore) Save(_ context.Context, scope string, rec models.ChatRecord) (models.ChatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadUnlocked()
	records := doc.Chats[scope]
	rec.ID = s.nextID(records)
	doc.Chats[scope] = append(records, rec)

	if err := s.saveUnlocked(doc); err != nil {
		return models.ChatRecord{}, fmt.Errorf("write local store %s: %w", s.path, err)
	}
	return rec, nil
}

func (s *LocalStore) List(_ context.Context, scope string) ([]models.ChatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.loadUnlocked().Chats[scope]
	if records == nil {
		return []models.ChatRecord{}, nil
	}
	return records, nil
}

func (s *LocalStore) Close() error { return nil }

// nextID returns local-<ms>, bumping the millisecond value past ids already
// used in records.
func (s *LocalStore) nextID(records []models.ChatRecord) string {
	used := make(map[string]struct{}, len(records))
	for _, r := range records {
		used[r.ID] = struct{}{}
	}
	ms := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("local-%d", ms)
		if _, taken := used[id]; !taken {
			return id
		}
		ms++
	}
}

// loadUnlocked treats a missing, empty or malformed file as an empty store.
func (s *LocalStore) loadUnlocked() localDocument {
	doc := localDocument{}
	data, err := os.ReadFile(s.path)
	if err == nil {
		if err := json.Unmarshal(data, &doc); err != nil {
			doc = localDocument{}
		}
	}
	if doc.Chats == nil {
		doc.Chats = make(map[string][]models.ChatRecord)
	}
	return doc
}

func (s *LocalStore) saveUnlocked(doc localDocument) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	return nil
}
