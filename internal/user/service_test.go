package user

import (
	"errors"
	"strings"
	"testing"
)

func TestRegisterHashesPassword(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)

	created, err := svc.Register(User{Username: "alice", Password: "pw1", PhoneNumber: "555", Gender: "f"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if created.Password == "pw1" {
		t.Fatal("stored password equals plaintext")
	}
	if !strings.HasPrefix(created.Password, "$2") {
		t.Fatalf("stored password is not a bcrypt hash: %q", created.Password)
	}
	if created.ModifiedBy != nil {
		t.Fatalf("signup must not set modified_by: %+v", created)
	}

	// same plaintext hashes differently on a second account (salted)
	other, err := svc.Register(User{Username: "bob", Password: "pw1", PhoneNumber: "556", Gender: "m"})
	if err != nil {
		t.Fatalf("second register failed: %v", err)
	}
	if other.Password == created.Password {
		t.Fatal("two hashes of the same plaintext are identical")
	}
}

func TestAuthenticate(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)

	if _, err := svc.Register(User{Username: "alice", Password: "pw1", PhoneNumber: "555", Gender: "f"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Authenticate("alice", "pw1"); err != nil {
		t.Fatalf("expected authenticate to succeed: %v", err)
	}

	if _, err := svc.Authenticate("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	if _, err := svc.Authenticate("nobody", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown username, got %v", err)
	}

	// a malformed stored hash verifies false instead of succeeding
	repo2 := NewInMemoryRepository([]User{{ID: 1, Username: "broken", Password: "not-a-hash"}})
	svc2 := NewService(repo2)
	if _, err := svc2.Authenticate("broken", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for malformed hash, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)

	if _, err := svc.Register(User{Username: "alice", Password: "pw1", PhoneNumber: "555", Gender: "f"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Register(User{Username: "alice", Password: "pw2", PhoneNumber: "556", Gender: "m"}); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}

	stored, err := repo.GetByUsername("alice")
	if err != nil {
		t.Fatalf("first user lost: %v", err)
	}
	if stored.PhoneNumber != "555" {
		t.Fatalf("losing register altered first user: %+v", stored)
	}
}

func TestCreateStampsModifier(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)

	created, err := svc.Create(User{Username: "bob", Password: "pw2", PhoneNumber: "222", Gender: "m"}, "admin")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ModifiedBy == nil || *created.ModifiedBy != "admin" {
		t.Fatalf("modified_by not stamped: %+v", created)
	}
	if created.ModifiedOn.IsZero() {
		t.Fatalf("modified_on not set: %+v", created)
	}
}

func TestUpdateStampsModifierAndOverwrites(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)

	created, err := svc.Register(User{Username: "alice", Password: "pw1", PhoneNumber: "555", Gender: "f"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.Update(created.ID, User{Username: "carol", PhoneNumber: "777", Gender: "f"}, "admin")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "carol" || updated.PhoneNumber != "777" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.ModifiedBy == nil || *updated.ModifiedBy != "admin" {
		t.Fatalf("modified_by not refreshed: %+v", updated)
	}

	if _, err := svc.Update(9999, User{Username: "ghost", PhoneNumber: "0", Gender: "x"}, "admin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
