// services/service_test.go
package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"equiptrack/models"
	"equiptrack/store"
)

// fixedClock pins Now so late/on-time outcomes are deterministic.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// seqIDs yields item_1, item_2, ... per prefix.
type seqIDs struct {
	mu sync.Mutex
	n  map[string]int
}

func (g *seqIDs) New(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.n == nil {
		g.n = make(map[string]int)
	}
	g.n[prefix]++
	return fmt.Sprintf("%s_%d", prefix, g.n[prefix])
}

// recorderNotifier captures notifications; fan-out is asynchronous, so
// assertions go through Wait.
type recorderNotifier struct {
	mu    sync.Mutex
	calls []recordedPush
}

type recordedPush struct {
	Recipients []string
	Title      string
	Body       string
	Data       map[string]string
}

func (r *recorderNotifier) Notify(_ context.Context, recipientIDs []string, title, body string, data map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedPush{Recipients: recipientIDs, Title: title, Body: body, Data: data})
}

func (r *recorderNotifier) Wait(n int, timeout time.Duration) []recordedPush {
	deadline := time.Now().Add(timeout)
	for {
		r.mu.Lock()
		if len(r.calls) >= n || time.Now().After(deadline) {
			out := make([]recordedPush, len(r.calls))
			copy(out, r.calls)
			r.mu.Unlock()
			return out
		}
		r.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
}

type testEnv struct {
	svc      *Service
	store    *store.MemoryStore
	clock    *fixedClock
	notifier *recorderNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	notifier := &recorderNotifier{}
	svc := New(st, notifier, zap.NewNop(), clock, &seqIDs{})
	return &testEnv{svc: svc, store: st, clock: clock, notifier: notifier}
}

func (e *testEnv) seed(t *testing.T, collection string, list any) {
	t.Helper()
	if err := e.store.WriteAll(context.Background(), collection, list); err != nil {
		t.Fatalf("seed %s: %v", collection, err)
	}
}

func boolPtr(b bool) *bool { return &b }

func superAdmin() models.AuthUser {
	return models.AuthUser{ID: "user_sa", Name: "Root", Contact: "10000", Role: models.RoleSuperAdmin}
}

func deptAdmin(dept string) models.AuthUser {
	return models.AuthUser{ID: "user_adm", Name: "Admin", Contact: "10001", Role: models.RoleAdmin, DepartmentID: dept}
}

func regularUser(dept string) models.AuthUser {
	return models.AuthUser{ID: "user_reg", Name: "Riley", Contact: "10002", Role: models.RoleRegularUser, DepartmentID: dept}
}
