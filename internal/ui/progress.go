package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vietdv277/bucketscope/internal/inventory"
	"github.com/vietdv277/bucketscope/pkg/types"
)

const (
	tickInterval    = 120 * time.Millisecond
	progressVisible = 12 // Running and recently finished projects shown
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type projectState int

const (
	stateQueued projectState = iota
	stateRunning
	stateDone
	stateFailed
)

type projectProgress struct {
	id      string
	state   projectState
	buckets int
	records int
	err     error
}

// Messages fed to the progress model from pipeline goroutines
type (
	projectQueuedMsg   struct{ id string }
	projectStartedMsg  struct{ id string }
	recordWrittenMsg   struct{ id, bucket string }
	projectFinishedMsg struct {
		id     string
		result inventory.ProjectResult
		err    error
	}
	finalizingMsg struct{}
	doneMsg       struct{}
	tickMsg       time.Time
)

// ProgressModel is the bubbletea model rendering live collection progress
type ProgressModel struct {
	projects   map[string]*projectProgress
	order      []string
	lastBucket string
	records    int
	frame      int
	finalizing bool
	done       bool
}

// NewProgressModel creates an empty progress model
func NewProgressModel() ProgressModel {
	return ProgressModel{projects: make(map[string]*projectProgress)}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model
func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()

	case projectQueuedMsg:
		if _, ok := m.projects[msg.id]; !ok {
			m.projects[msg.id] = &projectProgress{id: msg.id}
			m.order = append(m.order, msg.id)
		}

	case projectStartedMsg:
		m.project(msg.id).state = stateRunning

	case recordWrittenMsg:
		m.project(msg.id).records++
		m.records++
		m.lastBucket = msg.bucket

	case projectFinishedMsg:
		p := m.project(msg.id)
		p.buckets = msg.result.Buckets
		p.records = msg.result.Records
		p.err = msg.err
		p.state = stateDone
		if msg.err != nil {
			p.state = stateFailed
		}

	case finalizingMsg:
		m.finalizing = true

	case doneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// project returns the progress entry for id, creating it when an event
// arrives before the queued event.
func (m *ProgressModel) project(id string) *projectProgress {
	p, ok := m.projects[id]
	if !ok {
		p = &projectProgress{id: id}
		m.projects[id] = p
		m.order = append(m.order, id)
	}
	return p
}

// counts returns queued, running, done and failed totals
func (m ProgressModel) counts() (queued, running, done, failed int) {
	for _, p := range m.projects {
		switch p.state {
		case stateQueued:
			queued++
		case stateRunning:
			running++
		case stateDone:
			done++
		case stateFailed:
			failed++
		}
	}
	return
}

// View implements tea.Model
func (m ProgressModel) View() string {
	var sb strings.Builder
	queued, running, done, failed := m.counts()
	total := len(m.projects)

	header := fmt.Sprintf("%s Collecting buckets  %d/%d projects",
		spinnerFrames[m.frame], done+failed, total)
	sb.WriteString(HeaderStyle.Render(header))
	sb.WriteString("\n")
	sb.WriteString(MutedStyle.Render(fmt.Sprintf("  %d queued, %d running, %d records written", queued, running, m.records)))
	sb.WriteString("\n\n")

	shown := 0
	for _, id := range m.order {
		p := m.projects[id]
		if p.state == stateQueued {
			continue
		}
		if shown == progressVisible {
			break
		}
		shown++
		sb.WriteString(m.renderProject(p))
		sb.WriteString("\n")
	}

	if m.lastBucket != "" {
		sb.WriteString("\n")
		sb.WriteString(HintStyle.Render("  last bucket: " + m.lastBucket))
		sb.WriteString("\n")
	}
	if m.finalizing {
		sb.WriteString(HintStyle.Render("  writing CSV and uploading report..."))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m ProgressModel) renderProject(p *projectProgress) string {
	name := padRight(p.id, 32)
	switch p.state {
	case stateRunning:
		return CollectedStyle.Render("  "+spinnerFrames[m.frame]+" ") + ProjectStyle.Render(name) +
			MutedStyle.Render(fmt.Sprintf(" %d records", p.records))
	case stateFailed:
		return FailedStyle.Render("  ✗ ") + ProjectStyle.Render(name) +
			FailedStyle.Render(" "+p.err.Error())
	default:
		return CollectedStyle.Render("  ● ") + ProjectStyle.Render(name) +
			MutedStyle.Render(fmt.Sprintf(" %d buckets, %d records", p.buckets, p.records))
	}
}

// Progress renders a ProgressModel and implements inventory.Observer by
// forwarding pipeline events into the bubbletea program.
type Progress struct {
	program *tea.Program
	wg      sync.WaitGroup
	err     error
}

// NewProgress creates a progress view writing to out
func NewProgress(out io.Writer) *Progress {
	return &Progress{
		program: tea.NewProgram(NewProgressModel(),
			tea.WithOutput(out),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
	}
}

// Start runs the view in the background
func (p *Progress) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_, p.err = p.program.Run()
	}()
}

// Stop renders the final frame and waits for the view to exit
func (p *Progress) Stop() error {
	p.program.Send(doneMsg{})
	p.wg.Wait()
	return p.err
}

// ProjectQueued implements inventory.Observer
func (p *Progress) ProjectQueued(projectID string) {
	p.program.Send(projectQueuedMsg{id: projectID})
}

// ProjectStarted implements inventory.Observer
func (p *Progress) ProjectStarted(projectID string) {
	p.program.Send(projectStartedMsg{id: projectID})
}

// RecordWritten implements inventory.Observer
func (p *Progress) RecordWritten(projectID string, rec *types.OutputRecord) {
	p.program.Send(recordWrittenMsg{id: projectID, bucket: rec.BucketName})
}

// ProjectFinished implements inventory.Observer
func (p *Progress) ProjectFinished(projectID string, result inventory.ProjectResult, err error) {
	p.program.Send(projectFinishedMsg{id: projectID, result: result, err: err})
}

// Finalizing implements inventory.Observer
func (p *Progress) Finalizing() {
	p.program.Send(finalizingMsg{})
}
