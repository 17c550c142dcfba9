// Package session owns the browser automation handle: it launches
// Chrome, authenticates against LinkedIn, and exposes the navigation
// primitives the harvester paginates with. One Session is exclusively
// owned by one scrape; the browser process is torn down on every exit
// path.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/google/uuid"
	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

const (
	loginURL = "https://www.linkedin.com/login"

	loginTimeout  = 30 * time.Second
	navTimeout    = 30 * time.Second
	scrollSettle  = 2 * time.Second
	postsWaitTime = 15 * time.Second
)

// postContainerSelector unions the observed post layouts; keep in sync
// with the harvester's parser variants.
const postContainerSelector = ".feed-shared-update-v2, .occludable-update, .profile-creator-shared-feed-update__container"

// Session is a scoped, caller-owned handle on one authenticated browser.
// Never a process-wide singleton: concurrent scrapes each open their own.
type Session struct {
	id       string
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	logger   *slog.Logger
	debug    bool

	mu     sync.Mutex
	closed bool
}

// ID is the short identifier used in log lines and debug artifacts.
func (s *Session) ID() string { return s.id }

// Open launches a browser honoring the config, logs in with the given
// credentials, and returns the authenticated session. On any failure the
// browser process is terminated before returning.
func Open(ctx context.Context, cfg domain.ScrapeConfig, creds domain.Credentials, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		id:     uuid.NewString()[:8],
		logger: logger,
		debug:  cfg.Debug,
	}

	if err := s.launch(cfg.Headless); err != nil {
		return nil, err
	}
	if err := s.login(ctx, creds); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) launch(headless bool) error {
	l := launcher.New().
		Headless(headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-notifications").
		Set("window-size", "1920,1080")

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("session: launch browser: %w", err)
	}
	s.launcher = l

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return fmt.Errorf("session: connect browser: %w", err)
	}
	s.browser = b

	page, err := stealth.Page(b)
	if err != nil {
		s.Close()
		return fmt.Errorf("session: create stealth page: %w", err)
	}
	s.page = page

	s.logger.Info("browser launched", "session", s.id, "headless", headless)
	return nil
}

// login submits the credential form and waits for either the landing
// navigation bar or a recognizable failure signal.
func (s *Session) login(ctx context.Context, creds domain.Credentials) error {
	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(loginURL); err != nil {
		return &AuthError{Kind: Timeout, Err: fmt.Errorf("navigate login: %w", err)}
	}
	if err := s.page.Context(navCtx).WaitLoad(); err != nil {
		return &AuthError{Kind: Timeout, Err: fmt.Errorf("login page load: %w", err)}
	}
	s.screenshot("login_page")

	if err := s.fill(navCtx, "#username", creds.Email); err != nil {
		return &AuthError{Kind: Timeout, Err: err}
	}
	if err := s.fill(navCtx, "#password", creds.Password); err != nil {
		return &AuthError{Kind: Timeout, Err: err}
	}

	submit, err := s.page.Context(navCtx).Element(`button[type="submit"]`)
	if err != nil {
		return &AuthError{Kind: Timeout, Err: fmt.Errorf("submit button: %w", err)}
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &AuthError{Kind: Timeout, Err: fmt.Errorf("submit click: %w", err)}
	}

	// The nav bar is the landing-page signal; anything else within the
	// window gets classified from the page state.
	waitCtx, cancelWait := context.WithTimeout(ctx, loginTimeout)
	defer cancelWait()

	if _, err := s.page.Context(waitCtx).Element("#global-nav"); err != nil {
		s.screenshot("login_failure")
		return s.classifyLoginFailure(ctx)
	}

	s.screenshot("after_login")
	s.logger.Info("logged in", "session", s.id)
	return nil
}

func (s *Session) fill(ctx context.Context, selector, value string) error {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %s: %w", selector, err)
	}
	// Select any prefilled value so Input replaces instead of appending.
	_ = el.SelectAllText()
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

// classifyLoginFailure inspects the stuck page to tell bad credentials
// from a security challenge from a plain timeout.
func (s *Session) classifyLoginFailure(ctx context.Context) error {
	inspectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pageURL, html string
	if info, err := s.page.Context(inspectCtx).Info(); err == nil {
		pageURL = info.URL
	}
	if h, err := s.page.Context(inspectCtx).HTML(); err == nil {
		html = strings.ToLower(h)
	}

	switch {
	case strings.Contains(pageURL, "/checkpoint") ||
		strings.Contains(html, "security verification") ||
		strings.Contains(html, "challenge"):
		return &AuthError{Kind: ChallengeRequired}
	case strings.Contains(html, "error-for-password") ||
		strings.Contains(html, "error-for-username") ||
		(strings.Contains(pageURL, "/login") && strings.Contains(html, "alert")):
		return &AuthError{Kind: InvalidCredentials}
	default:
		return &AuthError{Kind: Timeout}
	}
}

// Close releases the page, browser, and launched Chrome process. Safe
// to call any number of times and on any exit path.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
	s.logger.Info("browser closed", "session", s.id)
}

// OpenActivity navigates to the profile's recent-activity surface and
// waits for the first post container to render.
func (s *Session) OpenActivity(ctx context.Context, profileID string) error {
	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	url := ActivityURL(profileID)
	if err := s.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("session: navigate activity: %w", err)
	}
	if err := s.page.Context(navCtx).WaitLoad(); err != nil {
		s.logger.Warn("activity page load timed out", "session", s.id, "url", url)
	}
	s.screenshot("activity_page")

	waitCtx, cancelWait := context.WithTimeout(ctx, postsWaitTime)
	defer cancelWait()
	if _, err := s.page.Context(waitCtx).Element(postContainerSelector); err != nil {
		return fmt.Errorf("session: no posts rendered on %s: %w", url, err)
	}
	return nil
}

// ActivityURL resolves a profile identifier (slug or full profile URL)
// to its recent-activity page.
func ActivityURL(profileID string) string {
	url := profileID
	if !strings.HasPrefix(url, "http") {
		url = "https://www.linkedin.com/in/" + strings.Trim(url, "/")
	}
	if strings.Contains(url, "/recent-activity/") {
		return url
	}
	return strings.TrimRight(url, "/") + "/recent-activity/all/"
}

// ExpandSeeMore clicks every visible "see more" toggle so the full post
// text is in the DOM before extraction.
func (s *Session) ExpandSeeMore(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(expandSeeMoreJS)
	if err != nil {
		return fmt.Errorf("session: expand see-more: %w", err)
	}
	return nil
}

// RenderedNodes returns the outer HTML of every currently rendered post
// container.
func (s *Session) RenderedNodes(ctx context.Context) ([]string, error) {
	res, err := s.page.Context(ctx).Eval(renderedNodesJS, postContainerSelector)
	if err != nil {
		return nil, fmt.Errorf("session: collect rendered nodes: %w", err)
	}
	var nodes []string
	for _, v := range res.Value.Arr() {
		nodes = append(nodes, v.Str())
	}
	return nodes, nil
}

// Scroll performs one pagination step and waits for the feed to settle.
func (s *Session) Scroll(ctx context.Context) error {
	if _, err := s.page.Context(ctx).Eval(`() => window.scrollBy(0, window.innerHeight)`); err != nil {
		return fmt.Errorf("session: scroll: %w", err)
	}
	return sleep(ctx, scrollSettle)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// screenshot saves a debug capture under debug/ when debug mode is on.
func (s *Session) screenshot(stage string) {
	if !s.debug || s.page == nil {
		return
	}
	data, err := s.page.Screenshot(false, nil)
	if err != nil {
		s.logger.Debug("screenshot failed", "session", s.id, "stage", stage, "err", err)
		return
	}
	if err := os.MkdirAll("debug", 0o755); err != nil {
		return
	}
	path := filepath.Join("debug", fmt.Sprintf("%s_%s.png", s.id, stage))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Debug("screenshot write failed", "session", s.id, "path", path, "err", err)
	}
}

const expandSeeMoreJS = `() => {
	let clicked = 0;
	const selectors = [
		'.inline-show-more-text__button',
		'.feed-shared-inline-show-more-text__see-more',
		'.feed-shared-text-view__see-more',
		'span.lt-line-clamp__more',
	];
	for (const sel of selectors) {
		for (const el of document.querySelectorAll(sel)) {
			if (el.offsetWidth > 0 && el.offsetHeight > 0) {
				try { el.click(); clicked++; } catch (e) {}
			}
		}
	}
	return clicked;
}`

const renderedNodesJS = `(selector) => {
	const out = [];
	for (const el of document.querySelectorAll(selector)) {
		out.push(el.outerHTML);
	}
	return out;
}`
