package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"folioterm/internal/backend"
	"folioterm/internal/command"
	"folioterm/internal/i18n"
	"folioterm/internal/maze"
	"folioterm/internal/portfolio"
)

type fakeHost struct {
	scrolled  []command.Section
	fragments []string
	closed    int
	admin     *backend.Session
}

func (h *fakeHost) ScrollTo(s command.Section)         { h.scrolled = append(h.scrolled, s) }
func (h *fakeHost) SetFragment(f string)               { h.fragments = append(h.fragments, f) }
func (h *fakeHost) Close()                             { h.closed++ }
func (h *fakeHost) NavigateAdmin(sess backend.Session) { h.admin = &sess }

type fakeClient struct {
	messages     []backend.Message
	testimonials []backend.Testimonial
	loginErr     error
	sendErr      error
}

func (c *fakeClient) SendMessage(_ context.Context, m backend.Message) error {
	c.messages = append(c.messages, m)
	return c.sendErr
}

func (c *fakeClient) SubmitTestimonial(_ context.Context, t backend.Testimonial) error {
	c.testimonials = append(c.testimonials, t)
	return nil
}

func (c *fakeClient) Authenticate(_ context.Context, creds backend.Credentials) (backend.Session, error) {
	if c.loginErr != nil {
		return backend.Session{}, c.loginErr
	}
	return backend.Session{Token: "tok", Email: creds.Email}, nil
}

func (c *fakeClient) Snapshot(context.Context) (portfolio.Snapshot, error) {
	return portfolio.Snapshot{}, nil
}

func (c *fakeClient) AdminSummary(context.Context, backend.Session) (backend.AdminSummary, error) {
	return backend.AdminSummary{}, nil
}

type fakeDownloader struct{ got []portfolio.Resume }

func (d *fakeDownloader) Download(_ context.Context, r portfolio.Resume) (string, int64, error) {
	d.got = append(d.got, r)
	return "/tmp/" + r.FileName, 1234, nil
}

type fakeRecorder struct{ events []string }

func (r *fakeRecorder) Info(msg string, _ map[string]any)  { r.events = append(r.events, msg) }
func (r *fakeRecorder) Error(msg string, _ map[string]any) { r.events = append(r.events, "error:"+msg) }

func snapshot() portfolio.Snapshot {
	return portfolio.Snapshot{
		Profile: portfolio.Profile{Name: "Ada"},
		SkillCategories: []portfolio.SkillCategory{
			{Key: "languages", Name: portfolio.En("Languages"), Skills: []portfolio.Skill{{Name: "Go"}}},
			{Key: "tools", Name: portfolio.En("Tools"), Skills: []portfolio.Skill{{Name: "Git"}}},
		},
		Resumes: []portfolio.Resume{{Lang: i18n.EN, URL: "https://example.com/cv.pdf", FileName: "cv.pdf"}},
	}
}

func ready() State {
	s := NewState(i18n.EN)
	s.Booting = false
	return s
}

func env() Env { return Env{Snapshot: snapshot()} }

// enter types text and presses Enter, ignoring requests.
func enter(s State, text string) State {
	s, _ = s.Apply(InputChanged{Text: text}, env())
	s, _ = s.Apply(Submit{}, env())
	return s
}

func lastLine(s State) command.Line {
	if len(s.Lines) == 0 {
		return command.Line{}
	}
	return s.Lines[len(s.Lines)-1]
}

type harness struct {
	ctrl   *Controller
	host   *fakeHost
	client *fakeClient
	dl     *fakeDownloader
	rec    *fakeRecorder
}

func newHarness() *harness {
	h := &harness{host: &fakeHost{}, client: &fakeClient{}, dl: &fakeDownloader{}, rec: &fakeRecorder{}}
	h.ctrl = New(ready(), Options{
		Snapshot:   snapshot(),
		Client:     h.client,
		Host:       h.host,
		Downloader: h.dl,
		Recorder:   h.rec,
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Now:        func() time.Time { return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC) },
		MazeWidth:  9,
		MazeHeight: 9,
	})
	return h
}

func (h *harness) enter(text string) {
	h.ctrl.Feed(context.Background(), InputChanged{Text: text}, Submit{})
}

func TestPromptFieldGating(t *testing.T) {
	s := enter(ready(), "msg")
	if s.Prompt == nil || s.Prompt.Kind != command.PromptMessage || s.Prompt.Step != 0 {
		t.Fatalf("expected message prompt at step 0, got %+v", s.Prompt)
	}

	s = enter(s, "   ")
	if s.Prompt.Step != 0 || lastLine(s).Tone != command.ToneError {
		t.Fatalf("expected required error without advancing, step=%d line=%+v", s.Prompt.Step, lastLine(s))
	}

	s = enter(s, "Ada")
	if s.Prompt.Step != 1 {
		t.Fatalf("expected step 1, got %d", s.Prompt.Step)
	}
	s = enter(s, "not-an-email")
	if s.Prompt.Step != 1 || lastLine(s).Text != "Please enter a valid email address." {
		t.Fatalf("expected email validation error, got %+v", lastLine(s))
	}
	s = enter(s, "ada@example.com")
	if s.Prompt.Step != 2 {
		t.Fatalf("expected step 2, got %d", s.Prompt.Step)
	}

	s = enter(s, "")
	if s.Prompt.Step != 3 {
		t.Fatalf("expected optional field to advance, got step %d", s.Prompt.Step)
	}
	if v, ok := s.Prompt.Values["subject"]; !ok || v != "" {
		t.Fatalf("expected empty subject recorded, got %q ok=%v", v, ok)
	}

	s, _ = s.Apply(InputChanged{Text: "Hello there"}, env())
	s, reqs := s.Apply(Submit{}, env())
	if s.Prompt != nil || !s.Submitting {
		t.Fatalf("expected prompt finished and submitting")
	}
	if len(reqs) != 1 || reqs[0].Kind != RequestSubmit || reqs[0].Values["message"] != "Hello there" || reqs[0].Values["name"] != "Ada" {
		t.Fatalf("unexpected submit request %+v", reqs)
	}

	if again, _ := s.Apply(InputChanged{Text: "ls"}, env()); again.Input == "ls" {
		t.Fatalf("expected input ignored while submitting")
	}
}

func TestPromptDoesNotMutatePreviousState(t *testing.T) {
	s1 := enter(ready(), "testimonial")
	s2 := enter(s1, "Grace")
	if _, ok := s1.Prompt.Values["author_name"]; ok {
		t.Fatalf("previous prompt values mutated")
	}
	if s1.Prompt.Step != 0 || s2.Prompt.Step != 1 {
		t.Fatalf("unexpected steps %d %d", s1.Prompt.Step, s2.Prompt.Step)
	}
	if len(s1.Lines) >= len(s2.Lines) {
		t.Fatalf("expected scrollback to grow")
	}
}

func TestPromptCancel(t *testing.T) {
	s := enter(enter(ready(), "msg"), "cancel")
	if s.Prompt != nil {
		t.Fatalf("expected prompt cancelled")
	}
	s = enter(s, "ls")
	if s.Cwd != command.Root || len(s.History) != 2 {
		t.Fatalf("expected normal dispatch after cancel, history=%v", s.History)
	}
}

func TestMessageSubmission(t *testing.T) {
	h := newHarness()
	for _, in := range []string{"msg", "Ada", "ada@example.com", "", "Hi!"} {
		h.enter(in)
	}
	if len(h.client.messages) != 1 {
		t.Fatalf("expected one message sent, got %d", len(h.client.messages))
	}
	m := h.client.messages[0]
	if m.Name != "Ada" || m.Email != "ada@example.com" || m.Subject != "" || m.Body != "Hi!" {
		t.Fatalf("unexpected message %+v", m)
	}
	st := h.ctrl.State()
	if st.Submitting || lastLine(st).Tone != command.ToneSuccess {
		t.Fatalf("expected success and input re-enabled, got %+v", lastLine(st))
	}

	h.client.sendErr = errors.New("boom")
	for _, in := range []string{"msg", "Ada", "ada@example.com", "", "Again"} {
		h.enter(in)
	}
	st = h.ctrl.State()
	if st.Submitting || st.Closed || lastLine(st).Tone != command.ToneError {
		t.Fatalf("expected contained failure, got %+v", lastLine(st))
	}
}

func TestLoginFlow(t *testing.T) {
	h := newHarness()
	h.client.loginErr = backend.ErrInvalidCredentials
	for _, in := range []string{"login", "admin@example.com", "hunter2"} {
		h.enter(in)
	}
	st := h.ctrl.State()
	joined := ""
	for _, l := range st.Lines {
		joined += l.Text + "\n"
		if strings.Contains(l.Text, "hunter2") {
			t.Fatalf("password echoed in clear: %q", l.Text)
		}
	}
	if !strings.Contains(joined, "*******") {
		t.Fatalf("expected masked echo:\n%s", joined)
	}
	if lastLine(st).Text != "Invalid email or password." || st.Closed || h.host.admin != nil {
		t.Fatalf("expected invalid credentials without navigation, got %+v", lastLine(st))
	}

	h.client.loginErr = nil
	for _, in := range []string{"login", "admin@example.com", "hunter2"} {
		h.enter(in)
	}
	if !h.ctrl.State().Closed || h.host.closed != 1 || h.host.admin == nil || h.host.admin.Token != "tok" {
		t.Fatalf("expected close then admin navigation, host=%+v", h.host)
	}
}

func TestHistoryNavigation(t *testing.T) {
	s := enter(enter(ready(), "ls"), "help")
	steps := []struct {
		ev   Event
		want string
	}{
		{HistoryUp{}, "help"},
		{HistoryUp{}, "ls"},
		{HistoryUp{}, ""},
		{HistoryUp{}, ""},
		{HistoryDown{}, "ls"},
		{HistoryDown{}, "help"},
		{HistoryDown{}, ""},
		{HistoryDown{}, ""},
	}
	for i, st := range steps {
		s, _ = s.Apply(st.ev, env())
		if s.Input != st.want {
			t.Fatalf("step %d: expected %q, got %q", i, st.want, s.Input)
		}
	}
}

func TestSuggestionNavigation(t *testing.T) {
	s, _ := ready().Apply(InputChanged{Text: "c"}, env())
	if len(s.Suggestions) != 3 || s.ActiveSuggestion != 0 {
		t.Fatalf("expected three suggestions, got %+v", s.Suggestions)
	}
	for _, want := range []int{1, 2, 2} {
		s, _ = s.Apply(HistoryDown{}, env())
		if s.ActiveSuggestion != want {
			t.Fatalf("expected active %d, got %d", want, s.ActiveSuggestion)
		}
	}
	s, _ = s.Apply(HistoryUp{}, env())
	if s.ActiveSuggestion != 1 {
		t.Fatalf("expected clamp then move up, got %d", s.ActiveSuggestion)
	}

	before := len(s.Lines)
	s, reqs := s.Apply(Submit{}, env())
	if s.Input != "cat " || len(s.Lines) != before || len(reqs) != 0 {
		t.Fatalf("expected suggestion applied without executing, input=%q", s.Input)
	}

	s, _ = s.Apply(InputChanged{Text: "c"}, env())
	s, _ = s.Apply(HoverSuggestion{Index: 2}, env())
	s, _ = s.Apply(ApplySuggestion{}, env())
	if s.Input != "clear" {
		t.Fatalf("expected hovered suggestion applied, got %q", s.Input)
	}
}

func TestExecuteRunsLineAsWritten(t *testing.T) {
	s, _ := ready().Apply(InputChanged{Text: "c"}, env())
	s, reqs := s.Apply(Execute{Text: "cd competences"}, env())
	if s.Cwd != command.Skills || lastLine(s).Text != "Entered skills/" {
		t.Fatalf("expected localized cd to run, cwd=%q line=%+v", s.Cwd, lastLine(s))
	}
	if s.Input != "" || len(s.Suggestions) != 0 || len(reqs) == 0 {
		t.Fatalf("expected input consumed and requests emitted, input=%q reqs=%d", s.Input, len(reqs))
	}

	before := len(s.Lines)
	s, _ = s.Apply(Execute{Text: "cat go"}, env())
	if got := s.Lines[before].Text; !strings.HasSuffix(got, "$ cat go") {
		t.Fatalf("expected echo, got %q", got)
	}
	if len(s.Lines) <= before+1 {
		t.Fatalf("expected category detail after the echo")
	}

	s, _ = s.Apply(Execute{Text: "msg"}, env())
	s, _ = s.Apply(Execute{Text: "Ada"}, env())
	if s.Prompt == nil || s.Prompt.Step != 1 {
		t.Fatalf("expected prompt answered by execute, got %+v", s.Prompt)
	}
}

func TestTypedAliasSubmitsWithoutRewrite(t *testing.T) {
	h := newHarness()
	h.enter("cd competences")
	if st := h.ctrl.State(); st.Cwd != command.Skills {
		t.Fatalf("expected cd competences to run on first enter, got cwd %q input %q", st.Cwd, st.Input)
	}
	h.enter("cat go")
	st := h.ctrl.State()
	if st.Input != "" || !strings.HasSuffix(st.History[len(st.History)-1], "cat go") {
		t.Fatalf("expected cat go executed, input=%q history=%v", st.Input, st.History)
	}
}

func TestNavigationScenarioThroughController(t *testing.T) {
	h := newHarness()
	h.enter("cd skills")
	st := h.ctrl.State()
	if st.Cwd != command.Skills || lastLine(st).Text != "Entered skills/" {
		t.Fatalf("unexpected state cwd=%q line=%+v", st.Cwd, lastLine(st))
	}
	if len(h.host.scrolled) != 1 || h.host.scrolled[0] != command.Skills || h.host.fragments[0] != "#skills" {
		t.Fatalf("expected scroll and fragment, host=%+v", h.host)
	}

	before := len(st.Lines)
	h.enter("ls")
	if got := len(h.ctrl.State().Lines) - before; got != 1+2 {
		t.Fatalf("expected echo plus two briefs, got %d", got)
	}

	h.enter("cd ..")
	st = h.ctrl.State()
	if st.Cwd != command.Root || lastLine(st).Text != "Moved to ~/portfolio" {
		t.Fatalf("expected root, got %q %+v", st.Cwd, lastLine(st))
	}
	if h.host.fragments[len(h.host.fragments)-1] != "" {
		t.Fatalf("expected fragment cleared, got %v", h.host.fragments)
	}
	if len(h.rec.events) == 0 || h.rec.events[0] != "command" {
		t.Fatalf("expected command events recorded, got %v", h.rec.events)
	}
}

func TestDownloadResume(t *testing.T) {
	h := newHarness()
	h.enter("download-resume en")
	if len(h.dl.got) != 1 || h.dl.got[0].FileName != "cv.pdf" {
		t.Fatalf("expected download of english resume, got %+v", h.dl.got)
	}
	st := h.ctrl.State()
	if st.Submitting || !strings.Contains(lastLine(st).Text, "/tmp/cv.pdf") || !strings.Contains(lastLine(st).Text, "1.2 kB") {
		t.Fatalf("unexpected completion line %+v", lastLine(st))
	}

	h.enter("download-resume")
	if h.ctrl.State().Input != "download-resume " || len(h.ctrl.State().Suggestions) != 2 {
		t.Fatalf("expected prefilled input with language suggestions, got %q", h.ctrl.State().Input)
	}
}

func TestMazeLifecycle(t *testing.T) {
	h := newHarness()
	h.enter("labyrinth start")
	st := h.ctrl.State()
	if st.Maze == nil || st.Maze.Width != 9 {
		t.Fatalf("expected maze started")
	}

	h.ctrl.Feed(context.Background(), MazeMove{Dir: maze.Up, At: time.Now()})
	if st = h.ctrl.State(); st.Maze.Player != maze.Entrance || lastLine(st).Tone != command.ToneMuted {
		t.Fatalf("expected wall bump at border, got %+v", lastLine(st))
	}

	h.ctrl.Feed(context.Background(), Escape{})
	if st = h.ctrl.State(); st.Maze != nil || st.Closed {
		t.Fatalf("expected escape to leave the maze only")
	}
	h.ctrl.Feed(context.Background(), Escape{})
	if !h.ctrl.State().Closed || h.host.closed != 1 {
		t.Fatalf("expected second escape to close")
	}
}

func TestMazeWinClearsBoard(t *testing.T) {
	s := ready()
	walls := [][]bool{
		{true, true, true, true},
		{true, false, false, true},
		{true, true, true, true},
	}
	s.Maze = &maze.State{
		Width: 4, Height: 3, Walls: walls,
		Discovered: [][]bool{make([]bool, 4), make([]bool, 4), make([]bool, 4)},
		Player:     maze.Point{X: 1, Y: 1}, Exit: maze.Point{X: 2, Y: 1},
		StartedAt: time.Unix(0, 0),
	}
	s, reqs := s.Apply(MazeMove{Dir: maze.Right, At: time.Unix(3, 0)}, env())
	if s.Maze != nil || lastLine(s).Tone != command.ToneSuccess {
		t.Fatalf("expected win to discard maze, got %+v", lastLine(s))
	}
	if len(reqs) != 1 || reqs[0].Event != "maze_won" {
		t.Fatalf("expected win recorded, got %+v", reqs)
	}
}

func TestInputGatedWhileBooting(t *testing.T) {
	s := NewState(i18n.FR)
	s, _ = s.Apply(InputChanged{Text: "ls"}, env())
	if s.Input != "" {
		t.Fatalf("expected input ignored while booting")
	}
	s, _ = s.Apply(BootLine{Text: "hello"}, env())
	s, _ = s.Apply(BootDone{}, env())
	s, _ = s.Apply(InputChanged{Text: "ls"}, env())
	if s.Input != "ls" || len(s.Lines) != 1 {
		t.Fatalf("expected input accepted after boot, got %q", s.Input)
	}
}

func TestLateResultsDiscardedAfterClose(t *testing.T) {
	s := ready()
	s.Closed = true
	s.Submitting = true
	s, reqs := s.Apply(SubmissionDone{Kind: command.PromptMessage}, env())
	if len(s.Lines) != 0 || len(reqs) != 0 || s.Submitting {
		t.Fatalf("expected late result dropped")
	}
	s, _ = s.Apply(BootLine{Text: "late"}, env())
	if len(s.Lines) != 0 {
		t.Fatalf("expected late boot line dropped")
	}
}

func TestClearWipesScrollback(t *testing.T) {
	s := enter(enter(ready(), "help"), "clear")
	if len(s.Lines) != 0 {
		t.Fatalf("expected empty scrollback, got %d lines", len(s.Lines))
	}
	if len(s.History) != 2 {
		t.Fatalf("expected history kept, got %v", s.History)
	}
}

func TestRunBoot(t *testing.T) {
	lines := BootLines(i18n.EN, snapshot())
	var got []Event
	if err := RunBoot(context.Background(), lines, 0, func(ev Event) { got = append(got, ev) }); err != nil {
		t.Fatalf("boot: %v", err)
	}
	if len(got) != len(lines)+1 {
		t.Fatalf("expected %d events, got %d", len(lines)+1, len(got))
	}
	if _, ok := got[len(got)-1].(BootDone); !ok {
		t.Fatalf("expected BootDone last")
	}
	if !strings.Contains(got[3].(BootLine).Text, "Ada") {
		t.Fatalf("expected greeting with profile name, got %q", got[3].(BootLine).Text)
	}
}

func TestRunBootCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var got []Event
	err := RunBoot(ctx, []string{"a", "b", "c"}, 20*time.Millisecond, func(ev Event) {
		got = append(got, ev)
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected no lines after cancel, got %d events", len(got))
	}
}

func TestValidEmail(t *testing.T) {
	for in, want := range map[string]bool{"a@b.co": true, "nope": false, "a@": false, "first.last@example.org": true} {
		if got := ValidEmail(in); got != want {
			t.Fatalf("ValidEmail(%q) = %v want %v", in, got, want)
		}
	}
}
