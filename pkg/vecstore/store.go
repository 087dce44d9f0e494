// Package vecstore persists extracted knowledge with embeddings in BadgerDB
// and serves similarity queries over it.
package vecstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quangdv/declutter/pkg/ai"
)

// Embedder turns text into a vector. The Gemini client satisfies this; tests
// substitute a deterministic local implementation.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Config holds store initialization parameters.
type Config struct {
	// Dir is the BadgerDB directory, ignored when InMemory is set.
	Dir string
	// InMemory enables in-memory mode (useful for testing).
	InMemory bool
	// CacheSize bounds the embedding LRU cache (0 = default 4096 entries).
	CacheSize int
	// Threshold is the minimum cosine similarity a query hit must reach
	// (0 = default 0.3).
	Threshold float64
	// MaxResults caps query hits (0 = default 5).
	MaxResults int
}

// DocType distinguishes the two record families.
const (
	TypeNote  = "note"
	TypeEvent = "calendar_event"
)

// Meta is the attribution carried alongside each indexed document.
type Meta struct {
	Type       string   `json:"type"`
	Topic      string   `json:"topic,omitempty"`
	SourceFile string   `json:"source_file"`
	Date       string   `json:"date,omitempty"`
	Time       string   `json:"time,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	IsImage    bool     `json:"is_image,omitempty"`
}

// Document is one indexed record.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Meta    Meta   `json:"meta"`
}

type record struct {
	Document
	Embedding []byte `json:"embedding"` // little-endian float32 blob
}

const docPrefix = byte(0x01)

// Store is a badger-backed vector store with an in-memory embedding cache.
type Store struct {
	db         *badger.DB
	embedder   Embedder
	cache      *expirable.LRU[string, []float32]
	threshold  float64
	maxResults int
}

// Open opens (or creates) the store.
func Open(cfg Config, embedder Embedder) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("vecstore: embedder must not be nil")
	}
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("vecstore: Dir must be set when InMemory is false")
	}

	opts := badger.DefaultOptions(cfg.Dir).WithInMemory(cfg.InMemory).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = 0.3
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &Store{
		db:         db,
		embedder:   embedder,
		cache:      expirable.NewLRU[string, []float32](cacheSize, nil, 0),
		threshold:  threshold,
		maxResults: maxResults,
	}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Add embeds and persists one document. The embedding is L2-normalized at
// write time so queries reduce to dot products.
func (s *Store) Add(ctx context.Context, content string, meta Meta) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("vecstore: empty content")
	}

	emb, err := s.embedding(ctx, content)
	if err != nil {
		return "", err
	}

	rec := record{
		Document:  Document{ID: uuid.NewString(), Content: content, Meta: meta},
		Embedding: vectorToBlob(l2Normalize(emb)),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(rec.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("store record: %w", err)
	}
	return rec.ID, nil
}

// IndexResult clears the store and indexes every note and event of a
// classification result. Notes from image sources are flagged so the query
// surfaces can point back at the image file.
func (s *Store) IndexResult(ctx context.Context, result *ai.Result) (int, error) {
	if err := s.Clear(); err != nil {
		return 0, err
	}

	indexed := 0
	for _, note := range result.Notes {
		if strings.TrimSpace(note.Content) == "" {
			continue
		}
		meta := Meta{
			Type:       TypeNote,
			Topic:      note.Topic,
			SourceFile: note.SourceFile,
			Tags:       note.Tags,
			IsImage:    isImagePath(note.SourceFile),
		}
		if _, err := s.Add(ctx, note.Content, meta); err != nil {
			return indexed, fmt.Errorf("index note: %w", err)
		}
		indexed++
	}

	for _, ev := range result.Events {
		content := strings.TrimSpace(ev.Title + ". " + ev.Description)
		content = strings.TrimSuffix(content, ".")
		if content == "" {
			continue
		}
		meta := Meta{
			Type:       TypeEvent,
			SourceFile: ev.SourceFile,
			Date:       ev.Date,
			Time:       ev.Time,
		}
		if _, err := s.Add(ctx, content, meta); err != nil {
			return indexed, fmt.Errorf("index event: %w", err)
		}
		indexed++
	}

	slog.Info("vector store indexed", "documents", indexed)
	return indexed, nil
}

// Clear drops every document. The embedding cache survives so re-indexing
// identical content does not call the embedding API again.
func (s *Store) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte{docPrefix}})
		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		// The iterator must be closed before the transaction is written to.
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of stored documents.
func (s *Store) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.IteratorOptions{Prefix: []byte{docPrefix}}
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Summary reports document counts by type and topic.
func (s *Store) Summary() (map[string]int, map[string]int, error) {
	byType := map[string]int{}
	byTopic := map[string]int{}
	err := s.forEach(func(rec record) error {
		byType[rec.Meta.Type]++
		if rec.Meta.Topic != "" {
			byTopic[rec.Meta.Topic]++
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return byType, byTopic, nil
}

// Topics lists the distinct topics present in the store.
func (s *Store) Topics() ([]string, error) {
	_, byTopic, err := s.Summary()
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics, nil
}

func (s *Store) forEach(fn func(record) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte{docPrefix}, PrefetchValues: true})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec record
				if err := json.Unmarshal(val, &rec); err != nil {
					return fmt.Errorf("decode record: %w", err)
				}
				return fn(rec)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// embedding returns the vector for content, hitting the LRU cache on repeat
// content (notably during rebuild runs).
func (s *Store) embedding(ctx context.Context, content string) ([]float32, error) {
	key := contentHash(content)
	if emb, ok := s.cache.Get(key); ok {
		return emb, nil
	}
	emb, err := s.embedder.EmbedText(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	s.cache.Add(key, emb)
	return emb, nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func docKey(id string) []byte {
	return append([]byte{docPrefix}, id...)
}

func isImagePath(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
