package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"folioterm/internal/backend"
	"folioterm/internal/command"
	"folioterm/internal/format"
	"folioterm/internal/i18n"
	"folioterm/internal/maze"
	"folioterm/internal/session"
	"folioterm/internal/term"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type eventMsg struct{ ev session.Event }
type bootFinishedMsg struct{ err error }
type animateMsg time.Time
type adminLoadedMsg struct {
	summary backend.AdminSummary
	err     error
}

const maxSuggestions = 6

type shellKeyMap struct {
	Enter   key.Binding
	Apply   key.Binding
	History key.Binding
	Scroll  key.Binding
	Escape  key.Binding
}

func (k shellKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Apply, k.History, k.Scroll, k.Escape}
}

func (k shellKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type mazeKeyMap struct {
	Move  key.Binding
	Leave key.Binding
}

func (k mazeKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Move, k.Leave} }
func (k mazeKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// Root is the Bubble Tea model for one terminal session. It renders the
// session state and turns keys, pastes and mouse hovers into session
// events. It also acts as the session's Host.
type Root struct {
	theme         Theme
	lang          i18n.Lang
	ctrl          Controller
	admin         AdminSource
	logger        *clog.Logger
	mouse         bool
	reducedMotion bool
	bootDelay     time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	input     textinput.Model
	scroll    viewport.Model
	adminView viewport.Model
	spin      spinner.Model
	help      help.Model
	keys      shellKeyMap
	mazeKeys  mazeKeyMap
	markdown  *glamour.TermRenderer

	spring     harmonica.Spring
	overlayPos float64
	overlayVel float64

	fragment string
	focus    command.Section
	closing  bool
	pending  []tea.Cmd

	scrollW       int
	scrollH       int
	renderedLines int

	suggestionTop   int
	suggestionStart int
	suggestionRows  int

	adminSession backend.Session
	adminSummary *backend.AdminSummary
	adminErr     error

	afterBoot []session.Event
}

type Options struct {
	Lang  i18n.Lang
	Theme string
	// ReducedMotion skips the boot delay and the slide-in.
	ReducedMotion bool
	// Mouse enables pointer hover and click on suggestions.
	Mouse     bool
	Debug     bool
	BootDelay time.Duration
	Admin     AdminSource
	Logger    *clog.Logger
	// AfterBoot is replayed once the boot sequence finishes.
	AfterBoot []session.Event
}

func New(opts Options) *Root {
	logger := opts.Logger
	if logger == nil {
		logger = clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "folioterm-ui", Level: clog.WarnLevel})
		if opts.Debug {
			logger.SetLevel(clog.DebugLevel)
		}
	}
	lang := opts.Lang
	if !lang.Valid() {
		lang = i18n.BaseLang
	}
	theme := ThemeForVariant(opts.Theme)

	mdStyle := "dark"
	if opts.Theme == "paper" {
		mdStyle = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(mdStyle),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "err", err)
		renderer = nil
	}

	in := textinput.New()
	in.Prompt = ""
	in.EchoCharacter = '*'
	in.CharLimit = term.MaxPaste

	h := help.New()
	h.Styles = help.DefaultDarkStyles()

	delay := opts.BootDelay
	if delay == 0 {
		delay = session.DefaultBootDelay
	}
	if opts.ReducedMotion {
		delay = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Root{
		theme:         theme,
		lang:          lang,
		admin:         opts.Admin,
		logger:        logger,
		mouse:         opts.Mouse,
		reducedMotion: opts.ReducedMotion,
		bootDelay:     delay,
		ctx:           ctx,
		cancel:        cancel,
		screen:        ScreenTerminal,
		layout:        LayoutStacked,
		cols:          80,
		rows:          24,
		input:         in,
		scroll:        viewport.New(),
		adminView:     viewport.New(),
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Accent),
		),
		help:      h,
		markdown:  renderer,
		spring:    harmonica.NewSpring(harmonica.FPS(60), 7.0, 0.85),
		afterBoot: opts.AfterBoot,
	}
	if opts.ReducedMotion {
		r.overlayPos = 1
	}
	r.keys = shellKeyMap{
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", i18n.T(lang, "ui.key.enter"))),
		Apply:   key.NewBinding(key.WithKeys("tab", "alt+enter"), key.WithHelp("tab", i18n.T(lang, "ui.key.apply"))),
		History: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", i18n.T(lang, "ui.key.history"))),
		Scroll:  key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", i18n.T(lang, "ui.key.scroll"))),
		Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", i18n.T(lang, "ui.key.escape"))),
	}
	r.mazeKeys = mazeKeyMap{
		Move:  key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→/wasd", i18n.T(lang, "ui.key.move"))),
		Leave: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", i18n.T(lang, "ui.key.leave"))),
	}
	return r
}

// SetController attaches the session. Call it before Run.
func (r *Root) SetController(c Controller) {
	r.ctrl = c
	if c != nil {
		r.syncFromState()
	}
}

func (r *Root) Init() tea.Cmd {
	cmds := []tea.Cmd{r.input.Focus(), spinnerTickCmd(r.spin), r.bootCmd()}
	if r.shouldAnimate() {
		cmds = append(cmds, animateTickCmd())
	}
	return tea.Batch(cmds...)
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		return r, nil
	case eventMsg:
		return r, r.dispatch(msg.ev)
	case bootFinishedMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			r.logger.Warn("boot sequence interrupted", "err", msg.err)
		}
		return r, r.replayAfterBoot()
	case animateMsg:
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, 1)
		if r.shouldAnimate() {
			return r, animateTickCmd()
		}
		r.overlayPos, r.overlayVel = 1, 0
		return r, nil
	case spinner.TickMsg:
		r.spin, cmd = r.spin.Update(msg)
		return r, cmd
	case adminLoadedMsg:
		r.applyAdminSummary(msg)
		return r, nil
	case tea.PasteMsg:
		return r, r.handlePaste(msg.Content)
	case tea.MouseMotionMsg:
		return r, r.handleHover(msg.Mouse())
	case tea.MouseClickMsg:
		return r, r.handleClick(msg.Mouse())
	case tea.MouseWheelMsg:
		r.handleWheel(msg.Mouse())
		return r, nil
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			view = tea.NewView(r.theme.Error.Render("UI recovered from a rendering panic. Check logs."))
		}
	}()

	if r.cols < 1 {
		r.cols = 80
	}
	if r.rows < 1 {
		r.rows = 24
	}

	var body string
	switch {
	case r.layout == LayoutTooSmall:
		msg := i18n.T(r.lang, "ui.too_small", r.cols, r.rows, MinCols, MinRows)
		body = lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, r.theme.Error.Render(trimForWidth(msg, r.cols)))
	case r.screen == ScreenAdmin:
		body = r.renderAdmin()
	case r.ctrl == nil:
		body = ""
	default:
		body = r.renderTerminal()
	}

	v := tea.NewView(body)
	v.AltScreen = true
	if r.mouse {
		v.MouseMode = tea.MouseModeAllMotion
	}
	return v
}

// Run blocks until the program exits. Cancelling ctx quits it.
func (r *Root) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	p := tea.NewProgram(r, tea.WithContext(ctx))
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()
	r.cancel()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// ScrollTo records the section in focus; the header highlights it.
func (r *Root) ScrollTo(s command.Section) { r.focus = s }

func (r *Root) SetFragment(fragment string) { r.fragment = fragment }

func (r *Root) Close() { r.closing = true }

// NavigateAdmin swaps the terminal for the admin dashboard.
func (r *Root) NavigateAdmin(sess backend.Session) {
	r.screen = ScreenAdmin
	r.adminSession = sess
	r.adminSummary = nil
	r.adminErr = nil
	r.pending = append(r.pending, r.loadAdminCmd())
}

// Inject queues events from another goroutine. It is a no-op unless the
// program is running.
func (r *Root) Inject(evs ...session.Event) {
	for _, ev := range evs {
		r.send(ev)
	}
}

func (r *Root) replayAfterBoot() tea.Cmd {
	evs := r.afterBoot
	r.afterBoot = nil
	cmds := make([]tea.Cmd, 0, len(evs))
	for _, ev := range evs {
		cmds = append(cmds, r.dispatch(ev))
	}
	return tea.Batch(cmds...)
}

func (r *Root) send(ev session.Event) {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if running && p != nil {
		p.Send(eventMsg{ev: ev})
	}
}

func (r *Root) bootCmd() tea.Cmd {
	if r.ctrl == nil {
		return nil
	}
	lines := session.BootLines(r.ctrl.State().Lang, r.ctrl.Env().Snapshot)
	ctx, delay := r.ctx, r.bootDelay
	return func() tea.Msg {
		return bootFinishedMsg{err: session.RunBoot(ctx, lines, delay, r.send)}
	}
}

// dispatch feeds ev to the session and turns its jobs into commands whose
// results come back as eventMsg.
func (r *Root) dispatch(ev session.Event) tea.Cmd {
	if r.ctrl == nil {
		return nil
	}
	jobs := r.ctrl.Dispatch(ev)
	cmds := make([]tea.Cmd, 0, len(jobs)+len(r.pending)+1)
	for _, job := range jobs {
		cmds = append(cmds, r.jobCmd(job))
	}
	cmds = append(cmds, r.pending...)
	r.pending = nil
	r.syncFromState()

	if r.closing && r.screen != ScreenAdmin {
		r.cancel()
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

func (r *Root) jobCmd(job session.Job) tea.Cmd {
	ctx := r.ctx
	return func() tea.Msg {
		return eventMsg{ev: job(ctx)}
	}
}

func (r *Root) syncFromState() {
	st := r.ctrl.State()
	if r.input.Value() != st.Input {
		r.input.SetValue(st.Input)
		r.input.CursorEnd()
	}
	if st.Prompt != nil && st.Prompt.Current().Masked {
		r.input.EchoMode = textinput.EchoPassword
	} else {
		r.input.EchoMode = textinput.EchoNormal
	}
	if len(st.Lines) != r.renderedLines {
		r.renderedLines = len(st.Lines)
		r.scroll.SetContent(r.renderLines(st.Lines, r.scrollW))
		r.scroll.GotoBottom()
	}
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if r.ctrl == nil {
		return r, nil
	}
	action := term.Classify(msg)
	if action == term.ActionInterrupt {
		r.closing = true
		r.cancel()
		return r, tea.Quit
	}
	if r.screen == ScreenAdmin {
		return r, r.handleAdminKey(msg, action)
	}

	st := r.ctrl.State()
	if st.Maze != nil && st.Prompt == nil && st.AcceptsInput() {
		if d, ok := term.MazeDirection(msg, r.input.Value() == ""); ok {
			return r, r.dispatch(session.MazeMove{Dir: d})
		}
	}

	switch action {
	case term.ActionSubmit:
		return r, r.dispatch(session.Submit{})
	case term.ActionApplySuggestion:
		return r, r.dispatch(session.ApplySuggestion{})
	case term.ActionUp:
		return r, r.dispatch(session.HistoryUp{})
	case term.ActionDown:
		return r, r.dispatch(session.HistoryDown{})
	case term.ActionEscape:
		return r, r.dispatch(session.Escape{})
	case term.ActionPageUp:
		r.scroll.PageUp()
		return r, nil
	case term.ActionPageDown:
		r.scroll.PageDown()
		return r, nil
	}

	if !st.AcceptsInput() {
		return r, nil
	}
	before := r.input.Value()
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	if after := r.input.Value(); after != before {
		return r, tea.Batch(cmd, r.dispatch(session.InputChanged{Text: after}))
	}
	return r, cmd
}

func (r *Root) handleAdminKey(msg tea.KeyPressMsg, action term.Action) tea.Cmd {
	switch {
	case action == term.ActionEscape || msg.String() == "q":
		r.closing = true
		r.cancel()
		return tea.Quit
	case msg.String() == "r":
		r.adminSummary = nil
		r.adminErr = nil
		return r.loadAdminCmd()
	case action == term.ActionPageUp || action == term.ActionUp:
		r.adminView.PageUp()
	case action == term.ActionPageDown || action == term.ActionDown:
		r.adminView.PageDown()
	}
	return nil
}

func (r *Root) handlePaste(content string) tea.Cmd {
	if r.ctrl == nil || r.screen != ScreenTerminal || !r.ctrl.State().AcceptsInput() {
		return nil
	}
	clean := term.SanitizePaste(content)
	if clean == "" {
		return nil
	}
	value := []rune(r.input.Value())
	pos := min(max(0, r.input.Position()), len(value))
	next := string(value[:pos]) + clean + string(value[pos:])
	r.input.SetValue(next)
	r.input.SetCursor(pos + utf8.RuneCountInString(clean))
	return r.dispatch(session.InputChanged{Text: r.input.Value()})
}

func (r *Root) suggestionAt(y int) int {
	i := y - r.suggestionTop
	if i < 0 || i >= r.suggestionRows {
		return session.NoHover
	}
	return r.suggestionStart + i
}

func (r *Root) handleHover(m tea.Mouse) tea.Cmd {
	if r.ctrl == nil || r.screen != ScreenTerminal {
		return nil
	}
	idx := r.suggestionAt(m.Y)
	if idx == r.ctrl.State().HoveredSuggestion {
		return nil
	}
	return r.dispatch(session.HoverSuggestion{Index: idx})
}

func (r *Root) handleClick(m tea.Mouse) tea.Cmd {
	if r.ctrl == nil || r.screen != ScreenTerminal || m.Button != tea.MouseLeft {
		return nil
	}
	idx := r.suggestionAt(m.Y)
	if idx == session.NoHover {
		return nil
	}
	hover := r.dispatch(session.HoverSuggestion{Index: idx})
	apply := r.dispatch(session.ApplySuggestion{})
	return tea.Batch(hover, apply)
}

func (r *Root) handleWheel(m tea.Mouse) {
	vp := &r.scroll
	if r.screen == ScreenAdmin {
		vp = &r.adminView
	}
	switch m.Button {
	case tea.MouseWheelUp:
		vp.ScrollUp(3)
	case tea.MouseWheelDown:
		vp.ScrollDown(3)
	}
}

func (r *Root) loadAdminCmd() tea.Cmd {
	src, sess, ctx := r.admin, r.adminSession, r.ctx
	return func() tea.Msg {
		if src == nil {
			return adminLoadedMsg{err: errors.New("no backend configured")}
		}
		sum, err := src.AdminSummary(ctx, sess)
		return adminLoadedMsg{summary: sum, err: err}
	}
}

func (r *Root) applyAdminSummary(msg adminLoadedMsg) {
	if msg.err != nil {
		r.adminErr = msg.err
		r.logger.Error("admin summary", "err", msg.err)
		return
	}
	sum := msg.summary
	r.adminSummary = &sum
	md := AdminMarkdown(r.lang, r.adminSession.Email, sum, time.Now())
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(md); err == nil {
			md = rendered
		}
	}
	r.adminView.SetContent(md)
	r.adminView.GotoTop()
}

func (r *Root) renderTerminal() string {
	st := r.ctrl.State()
	env := r.ctrl.Env()

	header := r.renderHeader(env)
	inputLine := r.renderInput(st, env)
	suggestions := r.renderSuggestions(st)
	footer := r.renderFooter(st)

	mainH := max(1, r.rows-3-len(suggestions))
	board := ""
	if st.Maze != nil {
		board = r.renderBoard(st.Maze)
	}
	scrollW, scrollH := r.cols, mainH
	if board != "" {
		if r.layout == LayoutWide {
			scrollW = r.cols - lipgloss.Width(board) - 1
		} else {
			scrollH = mainH - lipgloss.Height(board)
		}
	}
	r.setScrollSize(max(10, scrollW), max(1, scrollH))

	main := r.scroll.View()
	if board != "" {
		if r.layout == LayoutWide {
			main = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", board)
		} else {
			main = lipgloss.JoinVertical(lipgloss.Left, board, main)
		}
	}
	if slide := r.slideOffset(mainH); slide > 0 {
		main = strings.Repeat("\n", slide) + main
	}
	main = clipLines(main, mainH)

	r.suggestionTop = 1 + mainH + 1
	parts := make([]string, 0, 4+len(suggestions))
	parts = append(parts, header, main, inputLine)
	parts = append(parts, suggestions...)
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

func (r *Root) setScrollSize(w, h int) {
	if w != r.scrollW {
		r.scrollW = w
		r.scroll.SetWidth(w)
		r.scroll.SetContent(r.renderLines(r.ctrl.State().Lines, w))
		r.scroll.GotoBottom()
	}
	if h != r.scrollH {
		r.scrollH = h
		r.scroll.SetHeight(h)
		r.scroll.GotoBottom()
	}
}

func (r *Root) slideOffset(height int) int {
	if r.overlayPos >= 1 {
		return 0
	}
	return min(height, max(0, int(math.Round((1-r.overlayPos)*float64(height)))))
}

func (r *Root) renderHeader(env session.Env) string {
	left := i18n.T(r.lang, "ui.title", env.Snapshot.Profile.Name)
	right := env.Snapshot.Setting("site_title", "~/portfolio") + r.fragment
	if r.focus != command.Root && r.fragment != "" {
		right = r.focus.Title(r.lang) + "  " + right
	}
	gap := r.cols - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	text := left
	if gap > 0 {
		text = left + strings.Repeat(" ", gap) + right
	}
	return r.theme.Header.Width(r.cols).Render(trimForWidth(text, max(1, r.cols-2)))
}

func (r *Root) renderInput(st session.State, env session.Env) string {
	switch {
	case st.Submitting:
		return r.theme.Accent.Render(strings.TrimSpace(r.spin.View())) + " " + r.theme.Muted.Render(i18n.T(st.Lang, "ui.sending"))
	case st.Booting:
		return r.theme.Muted.Render(st.PromptLabel(env))
	}
	label := st.PromptLabel(env)
	if st.Prompt != nil {
		label = ">"
	}
	r.input.SetWidth(max(1, r.cols-lipgloss.Width(label)-2))
	return ansi.Truncate(r.theme.Prompt.Render(label)+" "+r.input.View(), r.cols, "")
}

func (r *Root) renderSuggestions(st session.State) []string {
	n := min(len(st.Suggestions), maxSuggestions)
	start := 0
	if st.ActiveSuggestion >= n {
		start = st.ActiveSuggestion - n + 1
	}
	r.suggestionStart = start
	r.suggestionRows = n

	out := make([]string, 0, n)
	for i := start; i < start+n; i++ {
		s := st.Suggestions[i]
		label := s.Label
		if label == "" {
			label = s.Value
		}
		text := format.Pad(label, 22) + s.Description
		style := r.theme.Suggestion
		switch i {
		case st.ActiveSuggestion:
			style = r.theme.SuggestionActive
		case st.HoveredSuggestion:
			style = r.theme.SuggestionHover
		}
		out = append(out, style.Render(trimForWidth(text, max(1, r.cols-2))))
	}
	return out
}

func (r *Root) renderFooter(st session.State) string {
	var keys string
	if st.Maze != nil {
		keys = r.help.View(r.mazeKeys)
	} else {
		keys = r.help.View(r.keys)
	}
	return r.theme.Footer.Width(r.cols).Render(ansi.Truncate(keys, max(1, r.cols-2), "…"))
}

func (r *Root) renderLines(lines []command.Line, width int) string {
	width = max(1, width)
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		style := r.theme.Tone(l.Tone)
		if l.Preserve {
			out = append(out, style.Render(ansi.Truncate(l.Text, width, "…")))
			continue
		}
		out = append(out, style.Width(width).Render(l.Text))
	}
	return strings.Join(out, "\n")
}

func (r *Root) renderBoard(m *maze.State) string {
	var b strings.Builder
	for i, row := range maze.Render(m) {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, g := range row {
			b.WriteString(r.glyphStyle(g).Render(string(g)))
		}
	}
	title := r.theme.PanelTitle.Render(i18n.T(r.lang, "ui.maze.title")) + "  " +
		r.theme.Muted.Render(i18n.T(r.lang, "ui.maze.steps", m.Steps))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.theme.PanelBorder.GetForeground()).
		Padding(0, 1)
	return lipgloss.JoinVertical(lipgloss.Left, title, box.Render(b.String()))
}

func (r *Root) glyphStyle(g rune) lipgloss.Style {
	switch g {
	case maze.GlyphPlayer:
		return r.theme.MazePlayer
	case maze.GlyphExit:
		return r.theme.MazeExit
	case maze.GlyphWall:
		return r.theme.MazeWall
	case maze.GlyphFog:
		return r.theme.MazeFog
	default:
		return r.theme.MazeFloor
	}
}

func (r *Root) renderAdmin() string {
	header := r.theme.Header.Width(r.cols).Render(trimForWidth(i18n.T(r.lang, "ui.admin.title"), max(1, r.cols-2)))
	footer := r.theme.Footer.Width(r.cols).Render(trimForWidth(i18n.T(r.lang, "ui.admin.keys"), max(1, r.cols-2)))
	h := max(1, r.rows-2)

	var body string
	switch {
	case r.adminErr != nil:
		body = r.theme.Error.Render(i18n.T(r.lang, "ui.admin.failed", r.adminErr.Error()))
	case r.adminSummary == nil:
		body = r.theme.Accent.Render(strings.TrimSpace(r.spin.View())) + " " + r.theme.Muted.Render(i18n.T(r.lang, "ui.admin.loading"))
	default:
		r.adminView.SetWidth(r.cols)
		r.adminView.SetHeight(h)
		body = r.adminView.View()
	}
	return header + "\n" + clipLines(body, h) + "\n" + footer
}

var mdEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;")

// AdminMarkdown renders the dashboard as markdown for glamour.
func AdminMarkdown(lang i18n.Lang, email string, sum backend.AdminSummary, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", i18n.T(lang, "ui.admin.title"))
	fmt.Fprintf(&b, "_%s_\n\n", mdEscaper.Replace(i18n.T(lang, "ui.admin.signed_in", email)))
	fmt.Fprintf(&b, "| %s | %s |\n|---:|---:|\n| %d | %d |\n\n",
		i18n.T(lang, "ui.admin.messages"), i18n.T(lang, "ui.admin.pending"), sum.MessageCount, sum.PendingCount)

	fmt.Fprintf(&b, "## %s\n\n", i18n.T(lang, "ui.admin.recent"))
	if len(sum.RecentMessages) == 0 {
		fmt.Fprintf(&b, "%s\n\n", i18n.T(lang, "ui.admin.none"))
	}
	for _, m := range sum.RecentMessages {
		fmt.Fprintf(&b, "- **%s** (%s), %s\n", mdEscaper.Replace(m.Message.Name), mdEscaper.Replace(m.Message.Email), format.Ago(m.CreatedAt, now, lang))
		if m.Message.Subject != "" {
			fmt.Fprintf(&b, "  *%s*\n", mdEscaper.Replace(m.Message.Subject))
		}
		fmt.Fprintf(&b, "  %s\n", mdEscaper.Replace(format.Truncate(oneLine(m.Message.Body), 160)))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", i18n.T(lang, "ui.admin.pending"))
	if len(sum.PendingTestimonials) == 0 {
		fmt.Fprintf(&b, "%s\n\n", i18n.T(lang, "ui.admin.none"))
	}
	for _, t := range sum.PendingTestimonials {
		who := t.Testimonial.AuthorName
		if extra := strings.TrimSpace(strings.Join(nonEmpty(t.Testimonial.AuthorTitle, t.Testimonial.AuthorCompany), ", ")); extra != "" {
			who += ", " + extra
		}
		fmt.Fprintf(&b, "- **%s**, %s\n", mdEscaper.Replace(who), format.Ago(t.CreatedAt, now, lang))
		content := t.Testimonial.ContentEN
		if lang == i18n.FR && strings.TrimSpace(t.Testimonial.ContentFR) != "" {
			content = t.Testimonial.ContentFR
		}
		fmt.Fprintf(&b, "  %s\n", mdEscaper.Replace(format.Truncate(oneLine(content), 160)))
	}
	return b.String()
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (r *Root) shouldAnimate() bool {
	if r.reducedMotion {
		return false
	}
	return r.overlayPos < 0.999 || math.Abs(r.overlayVel) > 0.001
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

// clipLines returns exactly n lines of s, padding with blanks.
func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(strings.ReplaceAll(s, "\n", " "), width, "…")
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui panic recovered",
		"where", where,
		"panic", fmt.Sprint(recovered),
		"message_type", msgType,
		"screen", r.screen,
		"cols", r.cols,
		"rows", r.rows,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
