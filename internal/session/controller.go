package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"folioterm/internal/backend"
	"folioterm/internal/command"
	"folioterm/internal/maze"
	"folioterm/internal/portfolio"
)

// Job is deferred network or disk work. Its result is fed back through
// Dispatch on the caller's goroutine.
type Job func(ctx context.Context) Event

// Options wires a Controller to its collaborators. Only Snapshot is
// required; missing collaborators turn the matching side effects into
// no-ops or failures.
type Options struct {
	Snapshot   portfolio.Snapshot
	Client     backend.Client
	Host       Host
	Downloader Downloader
	Recorder   Recorder
	Rand       *rand.Rand
	Now        func() time.Time
	MazeWidth  int
	MazeHeight int
	MazeOpts   []maze.Option
}

// Controller owns one session's State and turns reducer requests into
// calls on its collaborators. It is not safe for concurrent use; drive it
// from a single event loop.
type Controller struct {
	state State
	env   Env
	opts  Options
}

func New(state State, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		seed := uint64(opts.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if opts.MazeWidth == 0 {
		opts.MazeWidth = maze.DefaultWidth
	}
	if opts.MazeHeight == 0 {
		opts.MazeHeight = maze.DefaultHeight
	}
	return &Controller{state: state, env: Env{Snapshot: opts.Snapshot}, opts: opts}
}

// State returns the current session state.
func (c *Controller) State() State { return c.state }

// Env returns the reducer environment.
func (c *Controller) Env() Env { return c.env }

// Dispatch applies ev and performs the synchronous side effects it causes.
// Returned jobs must be run and their events dispatched back.
func (c *Controller) Dispatch(ev Event) []Job {
	switch e := ev.(type) {
	case Submit:
		if e.At.IsZero() {
			ev = Submit{At: c.opts.Now()}
		}
	case Execute:
		if e.At.IsZero() {
			e.At = c.opts.Now()
			ev = e
		}
	case MazeMove:
		if e.At.IsZero() {
			e.At = c.opts.Now()
			ev = e
		}
	}
	next, reqs := c.state.Apply(ev, c.env)
	c.state = next

	var jobs []Job
	for _, r := range reqs {
		jobs = append(jobs, c.perform(r)...)
	}
	return jobs
}

func (c *Controller) perform(r Request) []Job {
	switch r.Kind {
	case RequestScrollTo:
		if c.opts.Host != nil {
			c.opts.Host.ScrollTo(r.Section)
		}
	case RequestSetFragment:
		if c.opts.Host != nil {
			c.opts.Host.SetFragment(r.Fragment)
		}
	case RequestClose:
		if c.opts.Host != nil {
			c.opts.Host.Close()
		}
	case RequestNavigateAdmin:
		if c.opts.Host != nil {
			c.opts.Host.NavigateAdmin(r.Session)
		}
	case RequestRecord:
		if c.opts.Recorder != nil {
			c.opts.Recorder.Info(r.Event, r.Fields)
		}
	case RequestStartMaze:
		st := maze.New(c.opts.Rand, c.opts.MazeWidth, c.opts.MazeHeight, c.opts.Now(), c.opts.MazeOpts...)
		return c.Dispatch(MazeReady{State: st})
	case RequestSubmit:
		return []Job{c.submitJob(r.Prompt, r.Values)}
	case RequestDownload:
		return []Job{c.downloadJob(r)}
	}
	return nil
}

func (c *Controller) submitJob(kind command.PromptKind, v map[string]string) Job {
	client := c.opts.Client
	rec := c.opts.Recorder
	return func(ctx context.Context) Event {
		done := SubmissionDone{Kind: kind}
		if client == nil {
			done.Err = fmt.Errorf("%s: no backend configured", kind)
			return done
		}
		switch kind {
		case command.PromptMessage:
			done.Err = client.SendMessage(ctx, backend.Message{
				Name:    v["name"],
				Email:   v["email"],
				Subject: v["subject"],
				Body:    v["message"],
			})
		case command.PromptTestimonial:
			done.Err = client.SubmitTestimonial(ctx, backend.Testimonial{
				AuthorName:    v["author_name"],
				AuthorTitle:   v["author_title"],
				AuthorCompany: v["author_company"],
				ContentEN:     v["content_en"],
				ContentFR:     v["content_fr"],
			})
		case command.PromptLogin:
			done.Session, done.Err = client.Authenticate(ctx, backend.Credentials{
				Email:    v["email"],
				Password: v["password"],
			})
		default:
			done.Err = fmt.Errorf("unknown prompt %q", kind)
		}
		if done.Err != nil && rec != nil {
			rec.Error("submission failed", map[string]any{"kind": string(kind), "error": done.Err.Error()})
		}
		return done
	}
}

func (c *Controller) downloadJob(r Request) Job {
	resume, ok := c.env.Snapshot.Resume(r.Lang)
	dl := c.opts.Downloader
	return func(ctx context.Context) Event {
		done := DownloadDone{Lang: r.Lang}
		switch {
		case !ok:
			done.Err = fmt.Errorf("no %s resume", r.Lang)
		case dl == nil:
			done.Err = fmt.Errorf("downloads are disabled")
		default:
			done.Path, done.Size, done.Err = dl.Download(ctx, resume)
		}
		return done
	}
}

// Run executes jobs inline, feeding each result back, until none remain.
// Useful for scripted sessions and tests; interactive shells schedule jobs
// on their own loop instead.
func (c *Controller) Run(ctx context.Context, jobs []Job) {
	for len(jobs) > 0 {
		job := jobs[0]
		jobs = append(jobs[1:], c.Dispatch(job(ctx))...)
	}
}

// Feed dispatches each event in order and runs every resulting job inline.
func (c *Controller) Feed(ctx context.Context, events ...Event) {
	for _, ev := range events {
		c.Run(ctx, c.Dispatch(ev))
	}
}
