package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"
	"github.com/tinytelemetry/abacus/internal/calc"
)

// CalculatorPageID identifies the calculator page.
const CalculatorPageID = "calculator"

// CalculatorOptions configures a CalculatorPage.
type CalculatorOptions struct {
	Evaluator  calc.Evaluator
	ErrorDelay time.Duration
	Tape       *Tape
	Logger     zerolog.Logger
	Zones      *zone.Manager
}

// CalculatorPage is the calculator screen: display, keypad and help footer.
type CalculatorPage struct {
	acc        *calc.Accumulator
	state      calc.State
	errorDelay time.Duration

	// errorGen identifies the newest scheduled error revert; older ones are
	// dropped when they fire.
	errorGen uint64

	tape   *Tape
	keys   KeyMap
	help   help.Model
	logger zerolog.Logger
	zones  *zone.Manager
	prefix string

	width  int
	height int
}

// errorExpiredMsg restores the snapshot taken when an error was raised.
type errorExpiredMsg struct {
	gen     uint64
	restore calc.State
}

func (errorExpiredMsg) targetPage() string { return CalculatorPageID }

// NewCalculatorPage creates the calculator page in its initial state.
func NewCalculatorPage(opts CalculatorOptions) *CalculatorPage {
	if opts.ErrorDelay <= 0 {
		opts.ErrorDelay = calc.DefaultErrorDelay
	}
	if opts.Tape == nil {
		opts.Tape = NewTape(0)
	}
	p := &CalculatorPage{
		acc:        calc.NewAccumulator(opts.Evaluator),
		state:      calc.Initial(),
		errorDelay: opts.ErrorDelay,
		tape:       opts.Tape,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		logger:     opts.Logger,
		zones:      opts.Zones,
	}
	if p.zones != nil {
		p.prefix = p.zones.NewPrefix()
	}
	return p
}

// ID implements Page.
func (p *CalculatorPage) ID() string { return CalculatorPageID }

// Init implements Page.
func (p *CalculatorPage) Init() tea.Cmd { return nil }

// State returns the current calculator state.
func (p *CalculatorPage) State() calc.State { return p.state }

// Update implements Page.
func (p *CalculatorPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width

	case tea.KeyMsg:
		return p.handleKeyPress(msg)

	case tea.MouseMsg:
		return p.handleMouseEvent(msg), nil

	case errorExpiredMsg:
		if msg.gen == p.errorGen && p.state.HasError() {
			p.state = msg.restore
		}
	}
	return nil, nil
}

func (p *CalculatorPage) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch {
	case key.Matches(msg, p.keys.ForceQuit), key.Matches(msg, p.keys.Quit):
		return tea.Quit, nil
	case key.Matches(msg, p.keys.Help):
		p.help.ShowAll = !p.help.ShowAll
		return nil, nil
	case key.Matches(msg, p.keys.NextPage):
		return nil, &PageNav{PageID: TapePageID}
	}

	in, ok := p.keys.Input(msg)
	if !ok {
		return nil, nil
	}
	return p.apply(in), nil
}

// handleMouseEvent presses the keypad button under a left click.
func (p *CalculatorPage) handleMouseEvent(msg tea.MouseMsg) tea.Cmd {
	if p.zones == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	for _, row := range keypad {
		for _, b := range row {
			z := p.zones.Get(p.zoneID(b))
			if z == nil || !z.InBounds(msg) {
				continue
			}
			in, ok := calc.ParseKey(b.key)
			if !ok {
				return nil
			}
			return p.apply(in)
		}
	}
	return nil
}

// apply runs one input through the accumulator and schedules the error
// revert when the transition raised one.
func (p *CalculatorPage) apply(in calc.Input) tea.Cmd {
	prev := p.state
	t := p.acc.Apply(prev, in)
	p.state = t.State

	if !prev.Evaluated() && p.state.Evaluated() {
		p.tape.Add(p.state.History)
		p.logger.Debug().Str("expression", p.state.History).Msg("evaluated")
	}

	if t.Revert == nil {
		return nil
	}

	p.errorGen++
	gen, restore := p.errorGen, *t.Revert
	p.logger.Info().
		Str("error", p.state.Err.String()).
		Str("history", p.state.History).
		Msg("calculator error")

	return tea.Tick(p.errorDelay, func(time.Time) tea.Msg {
		return errorExpiredMsg{gen: gen, restore: restore}
	})
}
