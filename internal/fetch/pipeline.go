// Package fetch downloads resolved context files and persists them under
// the artifact-category/profile directory layout.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/jakoblorz/go-remote-context/internal/filesystem"
	"github.com/jakoblorz/go-remote-context/internal/github"
	"github.com/jakoblorz/go-remote-context/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultWorkers        = 4
	defaultRetries        = 3
	defaultBackoffBase    = 500 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second
)

// Outcome is the per-file result of a fetch run.
type Outcome struct {
	File models.ResolvedFile

	// WrittenPath is the absolute destination path on success.
	WrittenPath string

	// Description is extracted from the fetched file's frontmatter when
	// present. Best effort, informational only.
	Description string

	// Err is the terminal failure for this file, nil on success.
	Err error
}

// Succeeded reports whether the file was written.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Result aggregates a fetch run. Partial failure is reported here, never
// raised: one file's failure does not abort the batch.
type Result struct {
	// RunID identifies this fetch run in logs and reports.
	RunID string

	Succeeded int
	Failed    int

	// Abandoned counts files never started because the overall deadline
	// expired. Completed work is preserved.
	Abandoned int

	Outcomes []Outcome
}

// Failures returns the outcomes that ended in a terminal error.
func (r *Result) Failures() []Outcome {
	var failures []Outcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failures = append(failures, o)
		}
	}
	return failures
}

// Pipeline fetches resolved files with bounded concurrency, bounded
// retries with exponential backoff, and a shared rate-limit gate.
type Pipeline struct {
	fs      filesystem.FileSystem
	client  *http.Client
	token   string
	workers int
	retries int
	backoff time.Duration
	timeout time.Duration

	// pausedUntil is the shared rate-limit gate: no new request is
	// dispatched before this instant.
	mu          sync.Mutex
	pausedUntil time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds the number of concurrent fetches.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithRetries bounds the retry attempts per file after the first try.
func WithRetries(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.retries = n
		}
	}
}

// WithBackoffBase sets the base delay for exponential backoff.
func WithBackoffBase(d time.Duration) Option {
	return func(p *Pipeline) {
		p.backoff = d
	}
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		p.client = client
	}
}

// WithToken sets the bearer credential sent to github.com hosts.
func WithToken(token string) Option {
	return func(p *Pipeline) {
		p.token = token
	}
}

// NewPipeline creates a Pipeline writing through the given filesystem.
func NewPipeline(fs filesystem.FileSystem, options ...Option) *Pipeline {
	p := &Pipeline{
		fs:      fs,
		client:  &http.Client{},
		workers: defaultWorkers,
		retries: defaultRetries,
		backoff: defaultBackoffBase,
		timeout: defaultRequestTimeout,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Fetch downloads every resolved file and writes it under root. Re-running
// with identical resolved input and unchanged remote content yields
// byte-identical destination files. The context carries the overall
// deadline: when it expires, unstarted files are abandoned and completed
// work is preserved.
func (p *Pipeline) Fetch(ctx context.Context, root string, files []models.ResolvedFile) *Result {
	result := &Result{
		RunID:    newRunID(),
		Outcomes: make([]Outcome, len(files)),
	}
	if len(files) == 0 {
		return result
	}

	// Destination parents are created up front so the directory layout
	// exists even when every download fails.
	dirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Join(root, filepath.Dir(filepath.FromSlash(file.Destination)))
		if !dirs[dir] {
			dirs[dir] = true
			_ = p.fs.MkdirAll(dir, 0755)
		}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result.Outcomes[i] = p.fetchOne(ctx, root, files[i])
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			// Deadline hit: abandon everything not yet started.
			for j := i; j < len(files); j++ {
				result.Outcomes[j] = Outcome{
					File: files[j],
					Err:  fmt.Errorf("abandoned: %w", ctx.Err()),
				}
			}
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for _, o := range result.Outcomes {
		switch {
		case o.Succeeded():
			result.Succeeded++
		case strings.HasPrefix(errText(o.Err), "abandoned"):
			result.Abandoned++
			result.Failed++
		default:
			result.Failed++
		}
	}

	return result
}

// fetchOne retrieves a single file with bounded retries and writes it to
// its destination, fully overwriting prior content.
func (p *Pipeline) fetchOne(ctx context.Context, root string, file models.ResolvedFile) Outcome {
	outcome := Outcome{File: file}

	var content []byte
	var err error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			delay := p.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				outcome.Err = fmt.Errorf("abandoned: %w", ctx.Err())
				return outcome
			case <-time.After(delay):
			}
		}

		p.waitForRateLimit(ctx)

		var retryable bool
		content, retryable, err = p.download(ctx, file.URL)
		if err == nil {
			break
		}
		if !retryable {
			outcome.Err = err
			return outcome
		}
	}
	if err != nil {
		outcome.Err = fmt.Errorf("retries exhausted: %w", err)
		return outcome
	}

	outcome.Description = extractDescription(content)

	dest := filepath.Join(root, filepath.FromSlash(file.Destination))
	if err := p.fs.WriteFile(dest, content, 0644); err != nil {
		outcome.Err = fmt.Errorf("failed to write %s: %w", dest, err)
		return outcome
	}

	outcome.WrittenPath = dest
	return outcome
}

// download performs one HTTP attempt. The second return value reports
// whether the failure is transient and worth retrying.
func (p *Pipeline) download(ctx context.Context, url string) ([]byte, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	if p.token != "" && strings.Contains(req.URL.Host, "github") {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Overall deadline, not a per-request timeout.
			return nil, false, fmt.Errorf("abandoned: %w", ctx.Err())
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, err
		}
		return data, false, nil

	case resp.StatusCode == http.StatusTooManyRequests || isRateLimited(resp):
		p.pauseFor(retryAfter(resp))
		return nil, true, fmt.Errorf("rate limited fetching %s", url)

	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error %s fetching %s", resp.Status, url)

	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		if p.token == "" {
			return nil, false, fmt.Errorf("%s: %w", url, github.ErrCredentialRequired)
		}
		return nil, false, fmt.Errorf("access denied (%s) fetching %s", resp.Status, url)

	case resp.StatusCode == http.StatusNotFound && p.token == "" && strings.Contains(req.URL.Host, "github"):
		// GitHub answers 404 for private content queried anonymously.
		return nil, false, fmt.Errorf("%s not found without credentials (may be private): %w",
			url, github.ErrCredentialRequired)

	default:
		return nil, false, fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}
}

// waitForRateLimit blocks until the shared rate-limit gate opens.
func (p *Pipeline) waitForRateLimit(ctx context.Context) {
	p.mu.Lock()
	until := p.pausedUntil
	p.mu.Unlock()

	wait := time.Until(until)
	if wait <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

// pauseFor closes the gate for all workers: rate limiting pauses new
// dispatch instead of failing files immediately.
func (p *Pipeline) pauseFor(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	until := time.Now().Add(d)
	if until.After(p.pausedUntil) {
		p.pausedUntil = until
	}
}

func isRateLimited(resp *http.Response) bool {
	return resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get("X-Ratelimit-Remaining") == "0"
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Second
}

// extractDescription pulls the description field from the fetched file's
// YAML frontmatter, if any. Instruction and prompt files commonly carry
// one; failures are ignored.
func extractDescription(content []byte) string {
	var matter struct {
		Description string `yaml:"description"`
	}
	if _, err := frontmatter.Parse(bytes.NewReader(content), &matter); err != nil {
		return ""
	}
	return strings.TrimSpace(matter.Description)
}

func newRunID() string {
	id, err := gonanoid.New(8)
	if err != nil {
		return "unknown"
	}
	return id
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsCredentialRequired reports whether an outcome failed for lack of a
// credential, so callers can prompt for a token.
func IsCredentialRequired(err error) bool {
	return errors.Is(err, github.ErrCredentialRequired)
}
