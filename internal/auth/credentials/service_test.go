package credentials

import (
	"context"
	"errors"
	"testing"

	"ghibli-service/internal/auth"
	"ghibli-service/internal/docstore"
)

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemoryStore())

	sess, err := svc.SignUp(ctx, "Totoro@Forest.jp", "camphor-tree")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if sess.UID == "" {
		t.Fatal("SignUp returned empty UID")
	}
	if sess.Email != "totoro@forest.jp" {
		t.Errorf("email not normalized: %q", sess.Email)
	}

	// Password is stored hashed, never in the clear.
	doc, err := svc.store.Get(ctx, credentialPath("totoro@forest.jp"))
	if err != nil {
		t.Fatalf("credential doc missing: %v", err)
	}
	if hash, _ := doc.Fields["password_hash"].(string); hash == "camphor-tree" || hash == "" {
		t.Error("password stored in the clear or missing")
	}

	again, err := svc.SignIn(ctx, "totoro@forest.jp", "camphor-tree")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if again.UID != sess.UID {
		t.Errorf("SignIn UID = %q, want %q", again.UID, sess.UID)
	}
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemoryStore())

	if _, err := svc.SignUp(ctx, "not-an-email", "long-enough"); !errors.Is(err, auth.ErrMalformedEmail) {
		t.Errorf("malformed email: err = %v, want ErrMalformedEmail", err)
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "short"); !errors.Is(err, auth.ErrWeakCredential) {
		t.Errorf("weak password: err = %v, want ErrWeakCredential", err)
	}

	if _, err := svc.SignUp(ctx, "a@b.com", "long-enough"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := svc.SignUp(ctx, "A@B.com", "long-enough"); !errors.Is(err, auth.ErrEmailAlreadyRegistered) {
		t.Errorf("duplicate email: err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestSignInHidesAccountExistence(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemoryStore())

	if _, err := svc.SignUp(ctx, "a@b.com", "correct-horse"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	// Unknown account and wrong password are indistinguishable.
	_, unknownErr := svc.SignIn(ctx, "nobody@b.com", "whatever-12")
	_, wrongErr := svc.SignIn(ctx, "a@b.com", "wrong-password")

	if !errors.Is(unknownErr, auth.ErrInvalidCredential) {
		t.Errorf("unknown account: err = %v, want ErrInvalidCredential", unknownErr)
	}
	if !errors.Is(wrongErr, auth.ErrInvalidCredential) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredential", wrongErr)
	}
}

func TestSubscribeDeliversCurrentThenChanges(t *testing.T) {
	ctx := context.Background()
	svc := NewService(docstore.NewMemoryStore())

	var seen []*auth.Session
	unsubscribe := svc.Subscribe(func(s *auth.Session) {
		seen = append(seen, s)
	})

	// Current (absent) state delivered on subscribe.
	if len(seen) != 1 || seen[0] != nil {
		t.Fatalf("initial delivery = %v, want one absent session", seen)
	}

	sess, err := svc.SignUp(ctx, "a@b.com", "long-enough")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if len(seen) != 2 || seen[1] == nil || seen[1].UID != sess.UID {
		t.Fatalf("sign-up not delivered: %v", seen)
	}

	if err := svc.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(seen) != 3 || seen[2] != nil {
		t.Fatalf("sign-out not delivered: %v", seen)
	}

	// Failed sign-in leaves the session unchanged and is not delivered.
	if _, err := svc.SignIn(ctx, "a@b.com", "wrong-password"); err == nil {
		t.Fatal("expected sign-in failure")
	}
	if len(seen) != 3 {
		t.Fatalf("failed sign-in delivered a notification: %v", seen)
	}

	unsubscribe()
	if _, err := svc.SignIn(ctx, "a@b.com", "long-enough"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if len(seen) != 3 {
		t.Error("notification delivered after unsubscribe")
	}
}

func TestAdoptNotifiesSubscribers(t *testing.T) {
	svc := NewService(docstore.NewMemoryStore())

	var seen []*auth.Session
	defer svc.Subscribe(func(s *auth.Session) { seen = append(seen, s) })()

	svc.Adopt(&auth.Session{UID: "oauth-user", Email: "g@example.com"})

	if len(seen) != 2 || seen[1] == nil || seen[1].UID != "oauth-user" {
		t.Fatalf("adopt not delivered: %v", seen)
	}
}
