package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"vibrantResume/internal/database"
	"vibrantResume/internal/resume"
)

func paramID(id uint) gin.Param {
	return gin.Param{Key: "id", Value: strconv.FormatUint(uint64(id), 10)}
}

func newHistoryTestHandler(t *testing.T) (*HistoryHandler, *database.HistoryStore, *database.DocumentStore) {
	t.Helper()
	db := newHandlerDB(t)
	history := database.NewHistoryStore(db)
	documents := database.NewDocumentStore(db)
	return NewHistoryHandler(history, documents), history, documents
}

func saveSnapshot(t *testing.T, h *HistoryHandler, confirmEvict bool) int {
	t.Helper()
	c, w := jsonContext(t, http.MethodPost, "/v1/history", saveSnapshotRequest{
		Document:     sampleDocument(),
		ConfirmEvict: confirmEvict,
	})
	h.SaveSnapshot(c)
	return w.Code
}

func TestSaveSnapshotUsesFirstHeadingAsName(t *testing.T) {
	h, history, _ := newHistoryTestHandler(t)

	if code := saveSnapshot(t, h, false); code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", code)
	}

	snapshots, err := history.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].Name != "Jane Doe" {
		t.Fatalf("unexpected snapshots: %+v", snapshots)
	}
}

func TestSaveSnapshotAtCapRequiresConfirmation(t *testing.T) {
	h, history, _ := newHistoryTestHandler(t)

	for i := 0; i < 20; i++ {
		if code := saveSnapshot(t, h, false); code != http.StatusCreated {
			t.Fatalf("save %d: expected 201 got %d", i, code)
		}
	}

	c, w := jsonContext(t, http.MethodPost, "/v1/history", saveSnapshotRequest{Document: sampleDocument()})
	h.SaveSnapshot(c)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "history_full" || resp.Code != 4001 {
		t.Fatalf("unexpected conflict payload: %+v", resp)
	}

	count, err := history.Count(context.Background(), 1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 20 {
		t.Fatalf("rejected save must leave the log unchanged, count=%d", count)
	}
}

func TestSaveSnapshotWithConfirmEvictsOldest(t *testing.T) {
	h, history, _ := newHistoryTestHandler(t)

	for i := 0; i < 20; i++ {
		if code := saveSnapshot(t, h, false); code != http.StatusCreated {
			t.Fatalf("save %d: expected 201 got %d", i, code)
		}
	}
	snapshots, err := history.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	oldestID := snapshots[len(snapshots)-1].ID

	if code := saveSnapshot(t, h, true); code != http.StatusCreated {
		t.Fatalf("confirmed save: expected 201 got %d", code)
	}

	snapshots, err = history.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list after evict: %v", err)
	}
	if len(snapshots) != 20 {
		t.Fatalf("expected exactly 20 snapshots, got %d", len(snapshots))
	}
	for _, s := range snapshots {
		if s.ID == oldestID {
			t.Fatal("oldest snapshot should have been evicted")
		}
	}
}

func TestRestoreSnapshotCopiesIntoWorkingDocument(t *testing.T) {
	h, history, documents := newHistoryTestHandler(t)

	if code := saveSnapshot(t, h, false); code != http.StatusCreated {
		t.Fatalf("save: expected 201 got %d", code)
	}
	snapshots, err := history.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	id := snapshots[0].ID

	c, w := jsonContext(t, http.MethodPost, "/v1/history/"+strconv.FormatUint(uint64(id), 10)+"/restore", nil)
	c.Params = append(c.Params, paramID(id))
	h.RestoreSnapshot(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	record, err := documents.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get working document: %v", err)
	}
	var doc resume.Document
	if err := json.Unmarshal(record.Content, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("restore lost sections: %+v", doc)
	}

	// 快照本身保持不变
	if _, err := history.Get(context.Background(), 1, id); err != nil {
		t.Fatalf("snapshot must survive restore: %v", err)
	}
}

func TestRemoveAndClearSnapshots(t *testing.T) {
	h, history, _ := newHistoryTestHandler(t)

	for i := 0; i < 3; i++ {
		if code := saveSnapshot(t, h, false); code != http.StatusCreated {
			t.Fatalf("save %d: expected 201 got %d", i, code)
		}
	}
	snapshots, _ := history.List(context.Background(), 1)

	c, w := jsonContext(t, http.MethodDelete, "/v1/history/x", nil)
	c.Params = append(c.Params, paramID(snapshots[0].ID))
	h.RemoveSnapshot(c)
	c.Writer.WriteHeaderNow()
	if w.Code != http.StatusNoContent {
		t.Fatalf("remove: expected 204 got %d", w.Code)
	}

	c, w = jsonContext(t, http.MethodDelete, "/v1/history", nil)
	h.ClearSnapshots(c)
	c.Writer.WriteHeaderNow()
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear: expected 204 got %d", w.Code)
	}

	count, err := history.Count(context.Background(), 1)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty history, count=%d", count)
	}
}
