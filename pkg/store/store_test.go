package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/chartcore/pkg/errors"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	doc := &Document{Format: "json", Option: []byte(`{"series": []}`)}
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("Save did not assign an id")
	}
	created := doc.CreatedAt

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Option) != `{"series": []}` || got.Format != "json" {
		t.Errorf("Get = %+v", got)
	}
	got.Option[0] = 'X'
	if again, _ := s.Get(ctx, doc.ID); again.Option[0] != '{' {
		t.Error("Get returned shared storage")
	}

	update := &Document{ID: doc.ID, Format: "json", Option: []byte(`{}`), Layout: []byte(`{"series": []}`)}
	if err := s.Save(ctx, update); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	if !update.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v after update, want %v", update.CreatedAt, created)
	}
	if !update.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt = %v, want after %v", update.UpdatedAt, created)
	}

	second := &Document{ID: "chart-2", Format: "toml"}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}
	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "chart-2" || list[1].ID != doc.ID {
		t.Errorf("List order = %v, want chart-2 first", ids(list))
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d documents", len(list))
	}

	if err := s.Delete(ctx, "chart-2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "chart-2"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete err = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "chart-2"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Delete err = %v, want NOT_FOUND", err)
	}
}

func TestSaveRejectsBadID(t *testing.T) {
	s := NewMemoryStore()
	err := s.Save(context.Background(), &Document{ID: "../etc"})
	if !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("Save err = %v, want INVALID_ID", err)
	}
}

func ids(docs []*Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
