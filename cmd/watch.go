// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var (
	watchSigmap   uint8
	watchInterval int
	watchLine     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live detection dashboard",
	Long: `Continuously poll the camera and display detections in a terminal UI.

The dashboard shows the current color blocks (or line-tracking features
with --line), the framerate, frame statistics and an event log. Results
failing checksum validation or carrying implausible values are counted
and highlighted.

Keys:
  b      set brightness (enter to apply, esc to cancel)
  l      toggle the lamp
  q      quit

Supports both serial and WebSocket connections.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Uint8Var(&watchSigmap, "sigmap", 255, "Signature bitmap for block queries")
	watchCmd.Flags().IntVar(&watchInterval, "interval", 100, "Poll interval (milliseconds)")
	watchCmd.Flags().BoolVar(&watchLine, "line", false, "Show line-tracking features instead of blocks")
}

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// Focus states
const (
	watchFocusNone = iota
	watchFocusBrightness
)

type watchLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// pollResultMsg carries the outcome of one poll cycle from the poller
// goroutine into the TUI.
type pollResultMsg struct {
	err       error
	anomalies []pixy.Anomaly

	// Snapshot of the result, copied out of the receive buffer before the
	// next request can overwrite it.
	blocks   string
	features string
	fps      uint32
	hasFPS   bool
}

type watchTickMsg time.Time

// watchModel is the Bubble Tea model for the watch TUI
type watchModel struct {
	connInfo string

	stats         *pixy.Statistics
	lastResult    string
	lastUpdate    time.Time
	fps           uint32
	hasFPS        bool
	lampOn        bool
	eventLog      []watchLogEntry
	maxLogEntries int

	brightnessInput textinput.Model
	focusedField    int

	// commands are handed to the poller goroutine, which owns the driver.
	commands chan<- func(d *pixy.Driver) error

	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Poller
//////////////////////////////////////////////////////////////

// watchPoller drives the camera from a single goroutine: detection queries
// at the configured interval, a framerate query every two seconds, and
// queued one-shot commands in between. Keeping every request here honors
// the one-outstanding-request contract.
type watchPoller struct {
	s        *session
	p        *tea.Program
	commands chan func(d *pixy.Driver) error
	done     chan struct{}
}

func (w *watchPoller) run() {
	fpsTicker := time.NewTicker(2 * time.Second)
	defer fpsTicker.Stop()

	for {
		select {
		case <-w.done:
			return

		case op := <-w.commands:
			if err := w.s.poll(func() error { return op(w.s.drv) }); err != nil {
				w.p.Send(pollResultMsg{err: err})
			}

		case <-fpsTicker.C:
			var fps uint32
			err := w.s.poll(func() error {
				var e error
				fps, e = w.s.drv.GetFPS()
				return e
			})
			if err == nil {
				w.p.Send(pollResultMsg{fps: fps, hasFPS: true})
			}

		default:
			w.p.Send(w.pollDetections())
			time.Sleep(time.Duration(watchInterval) * time.Millisecond)
		}
	}
}

// pollDetections runs one block or feature query and snapshots the result.
func (w *watchPoller) pollDetections() pollResultMsg {
	if watchLine {
		var set *pixy.FeatureSet
		err := w.s.poll(func() error {
			var e error
			set, e = w.s.drv.GetMainFeatures(pixy.FeatureAll)
			return e
		})
		if err != nil {
			return pollResultMsg{err: err}
		}
		anomalies := pixy.ValidateFeatures(set)
		return pollResultMsg{features: pixy.FormatFeatures(set), anomalies: anomalies}
	}

	var blocks pixy.Blocks
	err := w.s.poll(func() error {
		var e error
		blocks, e = w.s.drv.GetBlocks(watchSigmap, 255)
		return e
	})
	if err != nil {
		return pollResultMsg{err: err}
	}
	anomalies := pixy.ValidateBlocks(blocks)
	return pollResultMsg{blocks: pixy.FormatBlocks(blocks), anomalies: anomalies}
}

//////////////////////////////////////////////////////////////
// Command
//////////////////////////////////////////////////////////////

func runWatch(cmd *cobra.Command, args []string) error {
	s, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	commands := make(chan func(d *pixy.Driver) error, 4)
	m := initialWatchModel(connInfo, commands)

	p := tea.NewProgram(m, tea.WithAltScreen())

	poller := &watchPoller{
		s:        s,
		p:        p,
		commands: commands,
		done:     make(chan struct{}),
	}
	go poller.run()

	_, err = p.Run()
	close(poller.done)
	if err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

func initialWatchModel(connInfo string, commands chan<- func(d *pixy.Driver) error) watchModel {
	ti := textinput.New()
	ti.Placeholder = "128"
	ti.CharLimit = 3
	ti.Width = 6

	return watchModel{
		connInfo:        connInfo,
		stats:           pixy.NewStatistics(),
		brightnessInput: ti,
		commands:        commands,
		maxLogEntries:   200,
		width:           80,
		height:          24,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		watchTickCmd(),
		tea.EnterAltScreen,
	)
}

func watchTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.focusedField == watchFocusBrightness {
			return m.updateBrightnessInput(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "b":
			m.focusedField = watchFocusBrightness
			m.brightnessInput.SetValue("")
			m.brightnessInput.Focus()
			return m, textinput.Blink

		case "l":
			m.lampOn = !m.lampOn
			on := byte(0)
			if m.lampOn {
				on = 1
			}
			m.queueCommand(func(d *pixy.Driver) error { return d.SetLamp(on, 0) })
			m.addLogEntry(fmt.Sprintf("Lamp %s", onOff(on)), false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case watchTickMsg:
		m.stats.CalculateRates()
		return m, watchTickCmd()

	case pollResultMsg:
		if msg.hasFPS {
			m.fps = msg.fps
			m.hasFPS = true
			return m, nil
		}

		m.stats.Update(msg.err, len(msg.anomalies))

		switch {
		case msg.err != nil:
			m.addLogEntry(msg.err.Error(), true)
		default:
			if msg.blocks != "" {
				m.lastResult = msg.blocks
			} else {
				m.lastResult = msg.features
			}
			m.lastUpdate = time.Now()
			for _, a := range msg.anomalies {
				m.addLogEntry(a.String(), true)
			}
		}
	}

	return m, nil
}

// updateBrightnessInput handles keys while the brightness field has focus.
func (m watchModel) updateBrightnessInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.brightnessInput.Value())
		m.focusedField = watchFocusNone
		m.brightnessInput.Blur()

		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			m.addLogEntry(fmt.Sprintf("Invalid brightness %q", value), true)
			return m, nil
		}
		brightness := byte(v)
		m.queueCommand(func(d *pixy.Driver) error { return d.SetBrightness(brightness) })
		m.addLogEntry(fmt.Sprintf("Brightness set to %d", brightness), false)
		return m, nil

	case "esc":
		m.focusedField = watchFocusNone
		m.brightnessInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.brightnessInput, cmd = m.brightnessInput.Update(msg)
	return m, cmd
}

// queueCommand hands a one-shot command to the poller without blocking the
// UI; a full queue drops the command and logs it.
func (m *watchModel) queueCommand(op func(d *pixy.Driver) error) {
	select {
	case m.commands <- op:
	default:
		m.addLogEntry("Command queue full, dropped", true)
	}
}

func (m *watchModel) addLogEntry(message string, isError bool) {
	entry := watchLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m watchModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("PIXYCTL - LIVE DETECTIONS"))
	s.WriteString("\n")
	mode := "Color blocks"
	if watchLine {
		mode = "Line features"
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | Press 'q' to quit",
		m.connInfo, mode)))
	s.WriteString("\n\n")

	// Statistics
	m.stats.CalculateRates()
	var validPercent float64
	if m.stats.TotalFrames > 0 {
		validPercent = float64(m.stats.ValidFrames) * 100.0 / float64(m.stats.TotalFrames)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Frames:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidFrames, validPercent)),
		labelStyle.Render("Poll Rate:"), valueStyle.Render(fmt.Sprintf("%.1f/s", m.stats.FrameRate)),
	))

	if m.stats.ChecksumErrors > 0 || m.stats.TypeErrors > 0 || m.stats.RemoteErrors > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			labelStyle.Render("Checksum:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.ChecksumErrors)),
			labelStyle.Render("Type:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.TypeErrors)),
			labelStyle.Render("Remote:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.RemoteErrors)),
		))
	}
	if m.stats.AnomalousValues > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render("Anomalous:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.AnomalousValues)),
		))
	}

	if m.hasFPS {
		statsContent.WriteString(fmt.Sprintf("%s %s",
			labelStyle.Render("Camera:"), valueStyle.Render(fmt.Sprintf("%d fps", m.fps)),
		))
		if m.fps < 20 {
			statsContent.WriteString(warningStyle.Render("  (low framerate, dim scene?)"))
		}
	}

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Latest detections
	s.WriteString(labelStyle.Render("Latest Detections:"))
	if !m.lastUpdate.IsZero() {
		s.WriteString(headerStyle.Render(fmt.Sprintf("  (%s)", m.lastUpdate.Format("15:04:05.000"))))
	}
	s.WriteString("\n")
	result := m.lastResult
	if result == "" {
		result = "  (waiting for results)\n"
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(strings.TrimRight(result, "\n")))
	s.WriteString("\n\n")

	// Brightness input
	if m.focusedField == watchFocusBrightness {
		s.WriteString(labelStyle.Render("Brightness (0-255): "))
		s.WriteString(m.brightnessInput.View())
		s.WriteString("\n\n")
	} else {
		s.WriteString(headerStyle.Render("Keys: 'b' brightness, 'l' lamp, 'q' quit"))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 18 // Reserve space for header, stats and detections
	if logHeight < 4 {
		logHeight = 4
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					valueStyle.Render("✓ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(strings.TrimRight(logContent.String(), "\n")))

	return s.String()
}
