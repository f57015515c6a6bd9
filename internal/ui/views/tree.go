package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/moodlist/internal/api"
	"github.com/dori/moodlist/internal/cache"
	"github.com/dori/moodlist/internal/emotion"
	"github.com/dori/moodlist/internal/model"
	"github.com/dori/moodlist/internal/notify"
	"github.com/dori/moodlist/internal/stopwatch"
	"github.com/dori/moodlist/internal/tree"
)

// AutosaveDelay is how long text editing must pause before it is saved
const AutosaveDelay = 800 * time.Millisecond

// Store is the part of the task store the tree view uses
type Store interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	UpdateTask(ctx context.Context, id model.TaskID, update model.TaskUpdate) error
	ToggleTask(ctx context.Context, id model.TaskID) (*model.Task, error)
	DeleteTask(ctx context.Context, id model.TaskID) error
	Generate(ctx context.Context, prompt string) error
}

// Deps are the collaborators of the tree view. Cache, Notifier and Logger
// may be nil.
type Deps struct {
	Context     context.Context
	Store       Store
	Stopwatches *stopwatch.Registry
	Cache       *cache.Cache
	Notifier    *notify.Notifier
	Logger      *slog.Logger
	Now         func() time.Time
}

// TreeMode represents the current input mode of the tree view
type TreeMode int

const (
	TreeModeNormal TreeMode = iota
	TreeModeEditText
	TreeModeEditEmotions
	TreeModeEditCompletion
	TreeModeEditEstimate
	TreeModeGenerate
	TreeModeConfirmDelete
)

// TreeView displays tasks grouped by date with their subtasks nested below
type TreeView struct {
	deps   Deps
	width  int
	height int

	tasks    []model.Task
	groups   []tree.Group
	rows     []tree.Row
	collapse tree.Collapse

	cursor       int
	scrollOffset int

	loading    bool
	generating bool
	spinner    spinner.Model

	// Set when the list came from the on-disk snapshot
	offline bool
	savedAt time.Time
	// Sign-in URL once the store reported an expired session
	expired string

	mode      TreeMode
	input     textinput.Model
	editingID model.TaskID
	editSeq   int
	savedText string
	deleteID  model.TaskID

	statusMsg string
}

// NewTreeView creates a new tree view
func NewTreeView(deps Deps) TreeView {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.CharLimit = 512

	s := spinner.New()
	s.Spinner = spinner.Dot

	collapse := tree.Collapse{}
	if deps.Cache != nil {
		if saved, err := deps.Cache.LoadCollapse(); err == nil {
			collapse = saved
		}
	}

	return TreeView{
		deps:     deps,
		collapse: collapse,
		input:    ti,
		spinner:  s,
		loading:  true,
	}
}

// Init loads the task list
func (v TreeView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.spinner.Tick)
}

// IsInputMode returns true when the view is capturing text input
func (v TreeView) IsInputMode() bool {
	return v.mode != TreeModeNormal
}

// Mode returns the current input mode
func (v TreeView) Mode() TreeMode {
	return v.mode
}

// Offline reports whether the shown tasks come from the local snapshot
func (v TreeView) Offline() bool {
	return v.offline
}

// Expired returns the sign-in URL after the session expired
func (v TreeView) Expired() string {
	return v.expired
}

// SetSize updates the view dimensions
func (v TreeView) SetSize(width, height int) TreeView {
	v.width = width
	v.height = height
	v.input.Width = width - 8
	return v
}

// Selected returns the task under the cursor
func (v TreeView) Selected() (*tree.Node, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil, false
	}
	row := v.rows[v.cursor]
	if row.Kind != tree.RowTask {
		return nil, false
	}
	return row.Node, true
}

// Update handles messages for the tree view
func (v TreeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		return v.handleLoaded(msg)

	case StopwatchTickMsg:
		// The display is read from the controller on render
		return v, nil

	case stopwatchDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, stopwatch.ErrBusy) {
				v.statusMsg = "Stopwatch is busy, try again in a moment"
				return v, nil
			}
			if errors.Is(msg.err, stopwatch.ErrRunning) {
				v.statusMsg = "Stopwatch is already running"
				return v, nil
			}
			return v.handleStoreError(msg.err)
		}
		switch msg.action {
		case model.StopwatchStart:
			v.statusMsg = "Stopwatch started"
			return v, nil
		case model.StopwatchStop:
			v.statusMsg = "Stopwatch stopped"
		case model.StopwatchReset:
			v.statusMsg = "Stopwatch reset"
		}
		return v, v.loadTasks

	case taskChangedMsg:
		if msg.err != nil {
			return v.handleStoreError(msg.err)
		}
		switch msg.action {
		case "delete":
			v.statusMsg = "Task deleted"
		case "toggle":
			v.statusMsg = ""
		default:
			v.statusMsg = "Saved"
		}
		return v, v.loadTasks

	case autosaveMsg:
		if v.mode != TreeModeEditText || msg.id != v.editingID || msg.seq != v.editSeq {
			return v, nil
		}
		text := strings.TrimSpace(v.input.Value())
		if text == "" || text == v.savedText {
			return v, nil
		}
		return v, v.saveText(msg.id, text)

	case textSavedMsg:
		if msg.err != nil {
			return v.handleStoreError(msg.err)
		}
		if v.mode == TreeModeEditText && msg.id == v.editingID {
			v.savedText = msg.text
		}
		v.setLocalText(msg.id, msg.text)
		v.statusMsg = "Saved"
		return v, nil

	case generatedMsg:
		v.generating = false
		if msg.err != nil {
			return v.handleStoreError(msg.err)
		}
		v.statusMsg = "Tasks generated"
		if v.deps.Notifier != nil {
			v.deps.Notifier.SendTasksGenerated(msg.prompt)
		}
		v.loading = true
		return v, tea.Batch(v.loadTasks, v.spinner.Tick)

	case spinner.TickMsg:
		if !v.loading && !v.generating {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		switch v.mode {
		case TreeModeEditText:
			return v.handleEditTextMode(msg)
		case TreeModeEditEmotions, TreeModeEditCompletion, TreeModeEditEstimate:
			return v.handleFieldMode(msg)
		case TreeModeGenerate:
			return v.handleGenerateMode(msg)
		case TreeModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.mode != TreeModeNormal && v.mode != TreeModeConfirmDelete {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v TreeView) handleLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	v.loading = false
	if msg.err != nil && !msg.offline {
		return v.handleStoreError(msg.err)
	}

	var selected model.TaskID
	if n, ok := v.Selected(); ok {
		selected = n.Task.ID
	}

	v.tasks = msg.tasks
	v.offline = msg.offline
	v.savedAt = msg.savedAt
	if msg.offline {
		v.deps.Logger.Warn("store unreachable, showing snapshot", "err", msg.err, "saved_at", msg.savedAt)
		v.statusMsg = fmt.Sprintf("Offline: showing tasks saved %s", msg.savedAt.Format("Jan 2 15:04"))
	} else {
		v.deps.Stopwatches.Sync(msg.tasks)
		v.deps.Logger.Debug("tasks loaded", "count", len(msg.tasks))
	}

	v.rebuild()
	v.cursor = v.rowOf(selected)
	v.ensureCursorVisible()
	return v, nil
}

// handleStoreError routes a failed request: redirects end the session,
// everything else is reported and leaves state as it was
func (v TreeView) handleStoreError(err error) (tea.Model, tea.Cmd) {
	if re, ok := api.IsRedirect(err); ok {
		v.expired = re.Location
		v.mode = TreeModeNormal
		v.input.Blur()
		v.deps.Logger.Info("session expired", "login", re.Location)
		if v.deps.Notifier != nil {
			v.deps.Notifier.SendSessionExpired(re.Location)
		}
		return v, func() tea.Msg {
			return SessionExpiredMsg{LoginURL: re.Location}
		}
	}
	v.deps.Logger.Error("store request failed", "err", err)
	return v, func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// rebuild recomputes the forest and visible rows from v.tasks
func (v *TreeView) rebuild() {
	idx := tree.NewIndex(v.tasks)
	if !v.offline {
		v.collapse.Prune(idx)
	}
	v.groups = tree.BuildFromIndex(idx)
	v.rows = tree.Flatten(v.groups, v.collapse)
	v.deps.Logger.Debug("rebuilt tree", "tasks", idx.Len(), "groups", len(v.groups), "rows", len(v.rows))
}

// rowOf finds the row of a task. When the task is gone the cursor stays
// put if it still sits on a task, otherwise it moves to the first task.
func (v TreeView) rowOf(id model.TaskID) int {
	if id != "" {
		for i, r := range v.rows {
			if r.Kind == tree.RowTask && r.Node.Task.ID == id {
				return i
			}
		}
	}
	if v.cursor < len(v.rows) && v.rows[v.cursor].Kind == tree.RowTask {
		return v.cursor
	}
	return v.firstTaskRow()
}

func (v TreeView) firstTaskRow() int {
	for i, r := range v.rows {
		if r.Kind == tree.RowTask {
			return i
		}
	}
	return 0
}

// setLocalText updates a task's text without a reload
func (v *TreeView) setLocalText(id model.TaskID, text string) {
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			v.tasks[i].Text = text
		}
	}
	v.rebuild()
}

// visibleRowCount returns how many rows fit in the viewport
func (v TreeView) visibleRowCount() int {
	available := v.height - 4
	if v.mode != TreeModeNormal {
		available -= 3
	}
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *TreeView) ensureCursorVisible() {
	visible := v.visibleRowCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	// Keep the date header of the first task in view
	if v.scrollOffset > 0 && v.scrollOffset == v.cursor && v.cursor < len(v.rows) && v.rows[v.cursor-1].Kind == tree.RowHeader {
		v.scrollOffset--
	}

	maxOffset := len(v.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.scrollOffset > maxOffset {
		v.scrollOffset = maxOffset
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// moveCursor moves over task rows, skipping date headers
func (v *TreeView) moveCursor(delta int) {
	i := v.cursor
	for step := 0; step < abs(delta); {
		next := i + sign(delta)
		if next < 0 || next >= len(v.rows) {
			break
		}
		i = next
		if v.rows[i].Kind == tree.RowTask {
			v.cursor = i
			step++
		}
	}
	v.ensureCursorVisible()
}

// handleNormalMode handles keypresses in normal mode
func (v TreeView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""

	switch msg.String() {
	// Navigation
	case "up", "k":
		v.moveCursor(-1)
		return v, nil
	case "down", "j":
		v.moveCursor(1)
		return v, nil
	case "g":
		v.cursor = v.firstTaskRow()
		v.scrollOffset = 0
		v.ensureCursorVisible()
		return v, nil
	case "G":
		v.moveCursor(len(v.rows))
		return v, nil
	case "pgup", "ctrl+u":
		v.moveCursor(-max(1, v.visibleRowCount()/2))
		return v, nil
	case "pgdown", "ctrl+d":
		v.moveCursor(max(1, v.visibleRowCount()/2))
		return v, nil

	case "R":
		v.expired = ""
		v.loading = true
		return v, tea.Batch(v.loadTasks, v.spinner.Tick)
	}

	// Nothing below talks to a store that asked for a new sign-in
	if v.expired != "" {
		v.statusMsg = "Session expired: sign in again, then press R"
		return v, nil
	}

	switch msg.String() {
	case "n":
		if v.offline {
			return v.offlineRefusal()
		}
		v.mode = TreeModeGenerate
		v.input.SetValue("")
		v.input.Placeholder = "What do you need to get done?"
		v.input.Focus()
		return v, textinput.Blink
	}

	node, ok := v.Selected()
	if !ok {
		return v, nil
	}
	task := *node.Task

	switch msg.String() {
	case "enter", " ":
		if node.HasChildren() {
			v.collapse.Toggle(node)
			v.rows = tree.Flatten(v.groups, v.collapse)
			v.ensureCursorVisible()
			return v, v.saveCollapse()
		}
		return v, nil
	}

	if v.offline {
		switch msg.String() {
		case "tab", "x", "s", "S", "r", "e", "m", "M", "t", "d":
			return v.offlineRefusal()
		}
		return v, nil
	}

	switch msg.String() {
	case "tab", "x":
		return v, v.toggle(task.ID)

	case "s", "S", "r":
		if !task.IsRoot() {
			v.statusMsg = "Only main tasks have a stopwatch"
			return v, nil
		}
		action := model.StopwatchStart
		switch msg.String() {
		case "S":
			action = model.StopwatchStop
		case "r":
			action = model.StopwatchReset
		}
		return v, v.stopwatch(task, action)

	case "e":
		v.mode = TreeModeEditText
		v.editingID = task.ID
		v.savedText = task.Text
		v.editSeq = 0
		v.input.Placeholder = "Task text"
		v.input.SetValue(task.Text)
		v.input.CursorEnd()
		v.input.Focus()
		return v, textinput.Blink

	case "m", "M", "t":
		if !task.IsRoot() {
			v.statusMsg = "Emotions and estimates belong to main tasks"
			return v, nil
		}
		v.editingID = task.ID
		switch msg.String() {
		case "m":
			v.mode = TreeModeEditEmotions
			v.input.Placeholder = "How do you feel about it? e.g. Anxious, Curious"
			v.input.SetValue(strings.Join(emotion.ParseList(task.CurrentEmotion), ", "))
		case "M":
			v.mode = TreeModeEditCompletion
			v.input.Placeholder = "How did finishing it feel?"
			v.input.SetValue(strings.Join(emotion.ParseList(task.CompletionEmotion), ", "))
		default:
			v.mode = TreeModeEditEstimate
			v.input.Placeholder = "e.g. 1h 30m"
			v.input.SetValue(task.TotalTimeEstimate)
		}
		v.input.CursorEnd()
		v.input.Focus()
		return v, textinput.Blink

	case "d":
		v.mode = TreeModeConfirmDelete
		v.deleteID = task.ID
		return v, nil
	}

	return v, nil
}

func (v TreeView) offlineRefusal() (tea.Model, tea.Cmd) {
	v.statusMsg = "Offline: press R to reconnect before making changes"
	return v, nil
}

// handleEditTextMode edits task text, saving after a pause in typing
func (v TreeView) handleEditTextMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(v.input.Value())
		id := v.editingID
		v.exitInput()
		if text == "" || text == v.savedText {
			return v, v.loadTasks
		}
		return v, v.update(id, model.TaskUpdate{Text: model.Ptr(text)})
	case "esc":
		v.exitInput()
		return v, v.loadTasks
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Value() == before {
		return v, cmd
	}

	v.editSeq++
	id, seq := v.editingID, v.editSeq
	debounce := tea.Tick(AutosaveDelay, func(time.Time) tea.Msg {
		return autosaveMsg{id: id, seq: seq}
	})
	return v, tea.Batch(cmd, debounce)
}

// handleFieldMode edits emotions or the estimate, saving on enter
func (v TreeView) handleFieldMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(v.input.Value())
		id, mode := v.editingID, v.mode
		v.exitInput()

		var update model.TaskUpdate
		switch mode {
		case TreeModeEditEmotions:
			labels := emotion.ParseList(value)
			update.CurrentEmotion = model.Ptr(emotion.FormatList(labels))
			v.warnUnknown(labels)
		case TreeModeEditCompletion:
			labels := emotion.ParseList(value)
			update.CompletionEmotion = model.Ptr(emotion.FormatList(labels))
			v.warnUnknown(labels)
		case TreeModeEditEstimate:
			update.TotalTimeEstimate = model.Ptr(value)
		}
		return v, v.update(id, update)
	case "esc":
		v.exitInput()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// warnUnknown logs labels the emotion wheel does not know; they are still saved
func (v TreeView) warnUnknown(labels []string) {
	for _, l := range labels {
		if _, ok := emotion.Default().Classify(l); !ok {
			v.deps.Logger.Debug("emotion not on the wheel", "label", l)
		}
	}
}

func (v TreeView) handleGenerateMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		prompt := strings.TrimSpace(v.input.Value())
		v.exitInput()
		if prompt == "" {
			return v, nil
		}
		v.generating = true
		v.statusMsg = "Generating tasks..."
		return v, tea.Batch(v.generate(prompt), v.spinner.Tick)
	case "esc":
		v.exitInput()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v TreeView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteID
		v.mode = TreeModeNormal
		v.deleteID = ""
		return v, v.delete(id)
	case "n", "N", "esc":
		v.mode = TreeModeNormal
		v.deleteID = ""
	}
	return v, nil
}

func (v *TreeView) exitInput() {
	v.mode = TreeModeNormal
	v.input.Blur()
	v.input.SetValue("")
	v.editingID = ""
	v.savedText = ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
