package paper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/opencampus/examportal/internal/storage"
)

// ErrNotFound means no paper document exists for the exam. This is a
// valid state for a new exam, not an infrastructure failure.
var ErrNotFound = errors.New("paper not found")

// NameResolver looks up an exam's current display name, which the
// store needs because document keys embed it. Wrap with NameCache to
// avoid a relational read per blob operation.
type NameResolver interface {
	ExamName(ctx context.Context, examID int64) (string, error)
}

// Store keeps one paper document per exam in a blob backend.
// Reads are always fresh: Get goes to the backend every time, so
// concurrent admin sessions never observe a stale question set.
type Store struct {
	blobs storage.BlobStore
	names NameResolver
	now   func() time.Time
	newID func() string
}

func NewStore(blobs storage.BlobStore, names NameResolver) *Store {
	return &Store{
		blobs: blobs,
		names: names,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Store) Get(ctx context.Context, examID int64) (Paper, error) {
	name, err := s.names.ExamName(ctx, examID)
	if err != nil {
		return Paper{}, fmt.Errorf("resolve exam name: %w", err)
	}
	return s.getKey(objectKey(examID, name))
}

func (s *Store) getKey(key string) (Paper, error) {
	rc, err := s.blobs.Get(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Paper{}, ErrNotFound
		}
		return Paper{}, fmt.Errorf("blob get %s: %w", key, err)
	}
	defer rc.Close()
	var p Paper
	if err := json.NewDecoder(rc).Decode(&p); err != nil {
		return Paper{}, fmt.Errorf("decode paper %s: %w", key, err)
	}
	return p, nil
}

// Save replaces the exam's paper with the draft in full. The caller
// supplies the complete question list; totals and the version counter
// are recomputed here, never taken from the draft. A missing document
// is created lazily on first save.
func (s *Store) Save(ctx context.Context, examID int64, draft Draft) (Paper, error) {
	if err := validateDraft(draft); err != nil {
		return Paper{}, err
	}
	name, err := s.names.ExamName(ctx, examID)
	if err != nil {
		return Paper{}, fmt.Errorf("resolve exam name: %w", err)
	}
	key := objectKey(examID, name)

	now := s.now()
	prev, err := s.getKey(key)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		prev = Paper{ID: s.newID(), ExamID: examID, CreatedAt: now}
	default:
		return Paper{}, err
	}

	p := Paper{
		ID:           prev.ID,
		ExamID:       examID,
		Title:        draft.Title,
		Instructions: draft.Instructions,
		Questions:    s.stampQuestions(draft.Questions, prev.Questions, now),
		CreatedAt:    prev.CreatedAt,
		UpdatedAt:    now,
		Metadata: Metadata{
			ExamName:    name,
			LastUpdated: now,
			Version:     prev.Metadata.Version + 1,
		},
	}
	sort.SliceStable(p.Questions, func(i, j int) bool {
		return p.Questions[i].OrderIndex < p.Questions[j].OrderIndex
	})
	for _, q := range p.Questions {
		p.TotalMarks += q.Marks
	}
	p.TotalQuestions = len(p.Questions)

	buf, err := json.Marshal(p)
	if err != nil {
		return Paper{}, fmt.Errorf("encode paper: %w", err)
	}
	if _, err := s.blobs.Put(key, bytes.NewReader(buf)); err != nil {
		return Paper{}, fmt.Errorf("blob put %s: %w", key, err)
	}
	return p, nil
}

// stampQuestions assigns IDs and timestamps. Questions whose ID matches
// one in the previous document keep their CreatedAt; new ones get fresh
// IDs.
func (s *Store) stampQuestions(qs, prev []Question, now time.Time) []Question {
	created := make(map[string]time.Time, len(prev))
	for _, q := range prev {
		created[q.ID] = q.CreatedAt
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			q.ID = s.newID()
		}
		if at, ok := created[q.ID]; ok {
			q.CreatedAt = at
		} else {
			q.CreatedAt = now
		}
		q.UpdatedAt = now
		out[i] = q
	}
	return out
}

// RenameKey moves the document written under the exam's previous
// display name to the key derived from its current name. Returns false
// when no document exists under the old key, which is a success: the
// exam simply has no paper yet, or the move already happened.
func (s *Store) RenameKey(ctx context.Context, examID int64, oldName string) (bool, error) {
	name, err := s.names.ExamName(ctx, examID)
	if err != nil {
		return false, fmt.Errorf("resolve exam name: %w", err)
	}
	oldKey := objectKey(examID, oldName)
	newKey := objectKey(examID, name)
	if oldKey == newKey {
		return false, nil
	}

	rc, err := s.blobs.Get(oldKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("blob get %s: %w", oldKey, err)
	}
	var p Paper
	err = json.NewDecoder(rc).Decode(&p)
	rc.Close()
	if err != nil {
		return false, fmt.Errorf("decode paper %s: %w", oldKey, err)
	}

	p.Metadata.ExamName = name
	p.Metadata.LastUpdated = s.now()
	buf, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("encode paper: %w", err)
	}
	if _, err := s.blobs.Put(newKey, bytes.NewReader(buf)); err != nil {
		return false, fmt.Errorf("blob put %s: %w", newKey, err)
	}
	if err := s.blobs.Delete(oldKey); err != nil {
		return false, fmt.Errorf("blob delete %s: %w", oldKey, err)
	}
	return true, nil
}

// Delete removes the exam's paper document. A missing document is a
// success.
func (s *Store) Delete(ctx context.Context, examID int64) error {
	name, err := s.names.ExamName(ctx, examID)
	if err != nil {
		return fmt.Errorf("resolve exam name: %w", err)
	}
	if err := s.blobs.Delete(objectKey(examID, name)); err != nil {
		return fmt.Errorf("blob delete: %w", err)
	}
	return nil
}
