package repo

import (
	"context"
	"errors"
	"testing"
)

func strptr(s string) *string { return &s }

func TestCreateUser_PersistsProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, 42, strptr("Alice"), strptr("alice42"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.UserID != 42 {
		t.Fatalf("unexpected id: %d", u.UserID)
	}

	got, err := GetUser(ctx, db, 42)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name == nil || *got.Name != "Alice" || got.UserName == nil || *got.UserName != "alice42" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateUser_NullProfileFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, 7, nil, nil); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	got, err := GetUser(ctx, db, 7)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != nil || got.UserName != nil {
		t.Fatalf("expected NULL profile fields, got %+v", got)
	}
}

func TestCreateUser_DuplicateID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, 1)
	if _, err := CreateUser(ctx, db, 1, strptr("again"), nil); err == nil {
		t.Fatalf("expected unique-constraint error on duplicate id")
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := GetUser(context.Background(), db, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser_SuccessAndNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, 1)
	if err := UpdateUser(ctx, db, 1, strptr("Bob"), strptr("bob")); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, err := GetUser(ctx, db, 1)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name == nil || *got.Name != "Bob" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := UpdateUser(ctx, db, 999, strptr("x"), nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestUpdateUser_CanClearFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, 1, strptr("Alice"), strptr("alice")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := UpdateUser(ctx, db, 1, nil, nil); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, err := GetUser(ctx, db, 1)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != nil || got.UserName != nil {
		t.Fatalf("expected cleared fields, got %+v", got)
	}
}

func TestListUsers_EmptyAndPopulated(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users, err := ListUsers(ctx, db)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty map, got %v", users)
	}

	if _, err := CreateUser(ctx, db, 1, strptr("A"), nil); err != nil {
		t.Fatalf("seed 1: %v", err)
	}
	if _, err := CreateUser(ctx, db, 2, nil, strptr("b")); err != nil {
		t.Fatalf("seed 2: %v", err)
	}

	users, err = ListUsers(ctx, db)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if p := users[1]; p.Name == nil || *p.Name != "A" || p.UserName != nil {
		t.Fatalf("unexpected profile for 1: %+v", p)
	}
	if p := users[2]; p.Name != nil || p.UserName == nil || *p.UserName != "b" {
		t.Fatalf("unexpected profile for 2: %+v", p)
	}
}
