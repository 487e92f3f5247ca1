package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ajrudell/engagekit/internal/browser/browsertest"
)

type staticCreds struct {
	calls int
}

func (s *staticCreds) Credentials() (Credentials, error) {
	s.calls++
	return Credentials{Email: "me@example.com", Password: "hunter2"}, nil
}

func TestSignIn_AlreadyLoggedIn(t *testing.T) {
	drv := browsertest.New()
	drv.Visible[loggedInMarker] = true

	creds := &staticCreds{}
	c := New(drv, creds, nil)

	if err := c.SignIn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if creds.calls != 0 {
		t.Fatal("credentials must not be prompted when already signed in")
	}
	if len(drv.Navigations) != 1 {
		t.Fatalf("expected one navigation, got %v", drv.Navigations)
	}
}

func TestSignIn_SubmitsFormAndConfirms(t *testing.T) {
	drv := browsertest.New()
	drv.Visible[emailField] = true

	email := &browsertest.Element{}
	password := &browsertest.Element{}
	submit := &browsertest.Element{}
	submit.OnClick = func() {
		// The marker only appears once the login round-trip completes.
		drv.Visible[loggedInMarker] = true
	}
	drv.Doc[emailField] = []*browsertest.Element{email}
	drv.Doc[passwordField] = []*browsertest.Element{password}
	drv.Doc[signInButton] = []*browsertest.Element{submit}

	c := New(drv, &staticCreds{}, nil)
	if err := c.SignIn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(email.Typed) != 1 || email.Typed[0] != "me@example.com" {
		t.Fatalf("email field typed %v", email.Typed)
	}
	if len(password.Typed) != 1 || password.Typed[0] != "hunter2" {
		t.Fatalf("password field typed %v", password.Typed)
	}
	if submit.Clicks != 1 {
		t.Fatalf("expected one submit click, got %d", submit.Clicks)
	}
	if !c.Authenticated() {
		t.Fatal("expected authenticated session")
	}
}

func TestSignIn_FailsWhenMarkerNeverAppears(t *testing.T) {
	drv := browsertest.New()
	drv.Visible[emailField] = true
	drv.Doc[emailField] = []*browsertest.Element{{}}
	drv.Doc[passwordField] = []*browsertest.Element{{}}
	drv.Doc[signInButton] = []*browsertest.Element{{}}

	c := New(drv, &staticCreds{}, nil)
	err := c.SignIn(context.Background())
	if !errors.Is(err, ErrSignInFailed) {
		t.Fatalf("expected ErrSignInFailed, got %v", err)
	}
	if c.Authenticated() {
		t.Fatal("session must not be authenticated after failed sign-in")
	}
}

func TestSignIn_CancelledDuringPolling(t *testing.T) {
	drv := browsertest.New() // neither marker nor form ever appears

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(drv, &staticCreds{}, nil)
	if err := c.SignIn(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
