package database

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &WorkingDocument{}, &HistorySnapshot{}, &CustomTemplate{}, &Asset{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDocumentStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore(newTestDB(t))

	if _, err := store.Save(ctx, 1, []byte(`{"sections":[]}`)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := store.Save(ctx, 1, []byte(`{"sections":[{"id":"section-0","content":"# A"}]}`)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	doc, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(doc.Content) != `{"sections":[{"id":"section-0","content":"# A"}]}` {
		t.Errorf("content = %s", doc.Content)
	}

	var count int64
	store.db.Model(&WorkingDocument{}).Where("user_id = ?", 1).Count(&count)
	if count != 1 {
		t.Errorf("expected single working document, got %d", count)
	}
}

func TestDocumentStoreGetMissing(t *testing.T) {
	store := NewDocumentStore(newTestDB(t))
	if _, err := store.Get(context.Background(), 42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected record not found, got %v", err)
	}
}

func seedHistory(t *testing.T, store *HistoryStore, userID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		snap := &HistorySnapshot{
			UserID:  userID,
			Name:    "snap-" + strconv.Itoa(i),
			Content: []byte(`{}`),
		}
		if err := store.Append(context.Background(), snap, false); err != nil {
			t.Fatalf("seed snapshot %d: %v", i, err)
		}
	}
}

func TestHistoryAppendAtCapRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(newTestDB(t))
	seedHistory(t, store, 1, HistoryLimit)

	snap := &HistorySnapshot{UserID: 1, Name: "overflow", Content: []byte(`{}`)}
	if err := store.Append(ctx, snap, false); !errors.Is(err, ErrHistoryFull) {
		t.Fatalf("expected ErrHistoryFull, got %v", err)
	}

	// 被拒绝的保存不能改变快照列表。
	count, err := store.Count(ctx, 1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != HistoryLimit {
		t.Errorf("count after rejected save = %d, want %d", count, HistoryLimit)
	}
}

func TestHistoryAppendWithConfirmEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(newTestDB(t))
	seedHistory(t, store, 1, HistoryLimit)

	snap := &HistorySnapshot{UserID: 1, Name: "newest", Content: []byte(`{}`)}
	if err := store.Append(ctx, snap, true); err != nil {
		t.Fatalf("append with confirm: %v", err)
	}

	count, _ := store.Count(ctx, 1)
	if count != HistoryLimit {
		t.Errorf("count after confirmed save = %d, want %d", count, HistoryLimit)
	}

	items, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, item := range items {
		if item.Name == "snap-0" {
			t.Error("oldest snapshot snap-0 should have been evicted")
		}
	}
	if items[0].Name != "newest" {
		t.Errorf("newest first, got %q", items[0].Name)
	}
}

func TestHistoryIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(newTestDB(t))
	seedHistory(t, store, 1, HistoryLimit)

	// 另一个用户不受第一个用户的上限影响。
	snap := &HistorySnapshot{UserID: 2, Name: "other", Content: []byte(`{}`)}
	if err := store.Append(ctx, snap, false); err != nil {
		t.Fatalf("append for user 2: %v", err)
	}
}

func TestHistoryRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(newTestDB(t))
	seedHistory(t, store, 1, 3)

	items, _ := store.List(ctx, 1)
	if err := store.Remove(ctx, 1, items[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, 2, items[1].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("cross user remove should fail, got %v", err)
	}

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	count, _ := store.Count(ctx, 1)
	if count != 0 {
		t.Errorf("count after clear = %d", count)
	}
}

func TestTemplateStoreOwnership(t *testing.T) {
	ctx := context.Background()
	store := NewTemplateStore(newTestDB(t))

	tpl := &CustomTemplate{UserID: 1, Name: "Mine", HeadingColor: "#123456"}
	if err := store.Create(ctx, tpl); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.Get(ctx, 2, tpl.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("cross user get should fail, got %v", err)
	}
	got, err := store.Get(ctx, 1, tpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HeadingColor != "#123456" {
		t.Errorf("heading color = %q", got.HeadingColor)
	}

	if err := store.Delete(ctx, 1, tpl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, 1, tpl.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("double delete should report not found, got %v", err)
	}
}
