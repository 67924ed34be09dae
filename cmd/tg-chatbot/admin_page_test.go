package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type memoryGroupStore struct {
	ids map[int64]bool
}

func newMemoryGroupStore(ids ...int64) *memoryGroupStore {
	s := &memoryGroupStore{ids: map[int64]bool{}}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s *memoryGroupStore) Allowed() (map[int64]bool, error) { return s.ids, nil }

func (s *memoryGroupStore) Add(ctx context.Context, chatID int64) error {
	s.ids[chatID] = true
	return nil
}

func (s *memoryGroupStore) Remove(ctx context.Context, chatID int64) error {
	delete(s.ids, chatID)
	return nil
}

func (s *memoryGroupStore) Clear(ctx context.Context) error {
	s.ids = map[int64]bool{}
	return nil
}

func postForm(t *testing.T, handler http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/groups", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestAdminPageListsGroups(t *testing.T) {
	handler := newAdminHandler(newMemoryGroupStore(-1001, -1002), discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/groups", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "-1001") || !strings.Contains(body, "-1002") {
		t.Fatalf("body missing group ids: %s", body)
	}
}

func TestAdminPageAdd(t *testing.T) {
	store := newMemoryGroupStore()
	handler := newAdminHandler(store, discardLogger())

	w := postForm(t, handler, url.Values{"action": {"add"}, "chat_id": {"-3003"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !store.ids[-3003] {
		t.Fatalf("ids = %v", store.ids)
	}
}

func TestAdminPageRemove(t *testing.T) {
	store := newMemoryGroupStore(-1001, -1002)
	handler := newAdminHandler(store, discardLogger())

	postForm(t, handler, url.Values{"action": {"remove"}, "chat_id": {"-1001"}})
	if store.ids[-1001] || !store.ids[-1002] {
		t.Fatalf("ids = %v", store.ids)
	}
}

func TestAdminPageClear(t *testing.T) {
	store := newMemoryGroupStore(-1001, -1002)
	handler := newAdminHandler(store, discardLogger())

	postForm(t, handler, url.Values{"action": {"clear"}})
	if len(store.ids) != 0 {
		t.Fatalf("ids = %v", store.ids)
	}
}

func TestAdminPageInvalidChatID(t *testing.T) {
	store := newMemoryGroupStore()
	handler := newAdminHandler(store, discardLogger())

	w := postForm(t, handler, url.Values{"action": {"add"}, "chat_id": {"abc"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(store.ids) != 0 {
		t.Fatalf("ids = %v", store.ids)
	}
	if !strings.Contains(w.Body.String(), "Invalid chat ID.") {
		t.Fatalf("body = %s", w.Body.String())
	}
}
