// Package session owns the authenticated browser session lifecycle: launch,
// sign-in and teardown. Every other component may act only while a session
// is authenticated.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"golang.org/x/term"

	"github.com/ajrudell/engagekit/internal/browser"
)

// Platform entry points and sign-in selectors.
const (
	homeURL = "https://www.linkedin.com/"

	// loggedInMarker is an element only rendered for signed-in users.
	loggedInMarker = `a[href*="linkedin.com/events"]`
	emailField     = `#session_key`
	passwordField  = `#session_password`
	signInButton   = `button.btn-primary`
)

const (
	probeTimeout    = 2 * time.Second
	confirmTimeout  = 3 * time.Second
	confirmAttempts = 10
)

// ErrSignInFailed is returned when the logged-in marker never appears after
// submitting credentials. There is no automatic retry of credential entry: a
// failed sign-in terminates the workflow for this invocation.
var ErrSignInFailed = errors.New("sign in failed")

// Credentials are entered interactively and never persisted.
type Credentials struct {
	Email    string
	Password string
}

// CredentialSource supplies credentials when the login form is detected.
type CredentialSource interface {
	Credentials() (Credentials, error)
}

// CookieSession is the optional cookie capture/injection capability of the
// real browser driver. Fakes may omit it.
type CookieSession interface {
	Cookies(ctx context.Context) ([]*network.Cookie, error)
	InjectCookies(ctx context.Context, cookies []*network.Cookie) error
}

// Controller drives the sign-in state machine over an already-started
// browser session. The owning caller is responsible for pairing the browser
// Start with exactly one Stop, including on error paths.
type Controller struct {
	drv     browser.Driver
	creds   CredentialSource
	cookies *CookieStore

	authenticated bool
}

// New creates a sign-in controller. cookieStore may be nil to disable
// session persistence across runs.
func New(drv browser.Driver, creds CredentialSource, cookieStore *CookieStore) *Controller {
	return &Controller{drv: drv, creds: creds, cookies: cookieStore}
}

// Authenticated reports whether SignIn has completed successfully.
func (c *Controller) Authenticated() bool {
	return c.authenticated
}

// SignIn navigates to the platform home and authenticates:
//
//	CHECK_LOGGED_IN -> AUTHENTICATED        (marker already present)
//	CHECK_LOGGED_IN -> LOGIN_FORM           (form detected)
//	LOGIN_FORM      -> AUTHENTICATED/FAILED (bounded confirmation attempts)
func (c *Controller) SignIn(ctx context.Context) error {
	if restored, err := c.restoreSession(ctx); err != nil {
		log.Printf("Stored session not restored: %v", err)
	} else if restored {
		return nil
	}

	if err := c.drv.Navigate(ctx, homeURL); err != nil {
		return fmt.Errorf("failed to open platform home: %w", err)
	}

	// CHECK_LOGGED_IN: poll for either the logged-in marker or the login
	// form. Bounded only by caller cancellation, matching the interactive
	// nature of this step.
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.drv.WaitVisible(ctx, loggedInMarker, probeTimeout) {
			log.Println("Already signed in")
			c.finishSignIn(ctx)
			return nil
		}
		if c.drv.WaitVisible(ctx, emailField, probeTimeout) {
			break // LOGIN_FORM
		}
	}

	creds, err := c.creds.Credentials()
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	if err := c.submitLogin(ctx, creds); err != nil {
		return err
	}

	for i := 0; i < confirmAttempts; i++ {
		if c.drv.WaitVisible(ctx, loggedInMarker, confirmTimeout) {
			log.Println("Sign in successful")
			c.finishSignIn(ctx)
			return nil
		}
	}

	return ErrSignInFailed
}

func (c *Controller) submitLogin(ctx context.Context, creds Credentials) error {
	fields := []struct {
		query string
		value string
	}{
		{emailField, creds.Email},
		{passwordField, creds.Password},
	}
	for _, f := range fields {
		handles, err := c.drv.FindAll(ctx, f.query)
		if err != nil || len(handles) == 0 {
			return fmt.Errorf("login field %q not found", f.query)
		}
		if err := c.drv.Type(ctx, handles[0], f.value); err != nil {
			return fmt.Errorf("failed to fill login field %q: %w", f.query, err)
		}
	}

	buttons, err := c.drv.FindAll(ctx, signInButton)
	if err != nil || len(buttons) == 0 {
		return fmt.Errorf("sign-in button not found")
	}
	if err := c.drv.Click(ctx, buttons[0]); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}
	return nil
}

// restoreSession injects stored cookies and checks the logged-in marker.
func (c *Controller) restoreSession(ctx context.Context) (bool, error) {
	cs, ok := c.drv.(CookieSession)
	if !ok || c.cookies == nil || !c.cookies.IsValid() {
		return false, nil
	}

	cookies, err := c.cookies.PlatformCookies()
	if err != nil {
		return false, err
	}
	if err := cs.InjectCookies(ctx, cookies); err != nil {
		return false, err
	}
	if err := c.drv.Navigate(ctx, homeURL); err != nil {
		return false, err
	}
	if !c.drv.WaitVisible(ctx, loggedInMarker, confirmTimeout) {
		return false, nil
	}

	log.Println("Restored session from stored cookies")
	c.authenticated = true
	return true, nil
}

// finishSignIn marks the session authenticated and persists its cookies.
func (c *Controller) finishSignIn(ctx context.Context) {
	c.authenticated = true

	cs, ok := c.drv.(CookieSession)
	if !ok || c.cookies == nil {
		return
	}
	cookies, err := cs.Cookies(ctx)
	if err != nil {
		log.Printf("Failed to capture session cookies: %v", err)
		return
	}
	if err := c.cookies.Save(cookies); err != nil {
		log.Printf("Failed to save session cookies: %v", err)
	}
}

// TerminalCredentials prompts on stdin. The password is read without echo.
type TerminalCredentials struct{}

func (TerminalCredentials) Credentials() (Credentials, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter your Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return Credentials{}, err
	}

	fmt.Print("Enter your Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(string(password)),
	}, nil
}
