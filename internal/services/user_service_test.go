package services

import (
	"context"
	"errors"
	"testing"
)

func strptr(s string) *string { return &s }

func TestRegister_ThenGet(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	svc := &UserService{DB: db}

	if _, err := svc.Register(ctx, 42, strptr("Alice"), strptr("alice42")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := svc.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != 42 || got.Name == nil || *got.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestRegister_DuplicateID(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	svc := &UserService{DB: db}

	if _, err := svc.Register(ctx, 1, nil, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, 1, strptr("again"), nil); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	// The original row must be untouched.
	got, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != nil {
		t.Fatalf("duplicate register must not overwrite, got %+v", got)
	}
}

func TestGet_Missing(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db}

	if _, err := svc.Get(context.Background(), 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	svc := &UserService{DB: db}

	ok, err := svc.Exists(ctx, 1)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatalf("unregistered id reported as existing")
	}

	if _, err := svc.Register(ctx, 1, nil, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ok, err = svc.Exists(ctx, 1)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatalf("registered id reported as absent")
	}
}

func TestUpdate_SuccessAndMissing(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	svc := &UserService{DB: db}

	if _, err := svc.Register(ctx, 1, strptr("old"), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Update(ctx, 1, strptr("new"), strptr("handle")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name == nil || *got.Name != "new" || got.UserName == nil || *got.UserName != "handle" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := svc.Update(ctx, 999, strptr("x"), nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	svc := &UserService{DB: db}

	for id := int64(1); id <= 3; id++ {
		if _, err := svc.Register(ctx, id, nil, nil); err != nil {
			t.Fatalf("Register %d: %v", id, err)
		}
	}
	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for id := int64(1); id <= 3; id++ {
		if _, ok := users[id]; !ok {
			t.Fatalf("user %d missing from listing", id)
		}
	}
}
