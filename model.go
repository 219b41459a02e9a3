package main

import (
	"strings"
	"sync"
	"time"

	"vault-wallet-tui/config"
	"vault-wallet-tui/coordinator"
	"vault-wallet-tui/metrics"
	"vault-wallet-tui/rpc"
	"vault-wallet-tui/styles"
	"vault-wallet-tui/views/vault"
	"vault-wallet-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	cfg        config.Config
	configPath string
	metrics    *metrics.Registry

	// node connection
	rpcURL        string
	ethClient     *rpc.Client
	rpcConnected  bool
	rpcConnecting bool
	rpcErr        string

	// wallet action coordinator, created once the node connection settles
	coord       *coordinator.Coordinator
	state       coordinator.State
	stateSignal chan struct{}
	walletErr   string

	// amount input and button focus
	amount textinput.Model
	focus  int

	// account access prompt
	approvals  *approvalBridge
	accessReq  *accessRequest
	accessForm *huh.Form

	// connected account wallet balance
	details        rpc.AccountDetails
	detailsFor     common.Address
	loadingDetails bool

	spin spinner.Model

	// clipboard feedback
	copiedMsg     string
	copiedMsgTime time.Time

	showQR bool

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *syncBuffer
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// syncBuffer is a log sink shared by the UI loop and action goroutines.
type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Reset()
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model from the loaded configuration
func newModel(cfg config.Config, configPath string, reg *metrics.Registry) model {
	// input for the deposit/withdraw amount
	in := textinput.New()
	in.Placeholder = "Enter amount in ETH"
	in.Prompt = "Amount: "
	in.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	in.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	in.CharLimit = 80
	in.Width = 32
	in.Focus()

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	rpcURL := ""
	if r, ok := cfg.ActiveRPC(); ok {
		rpcURL = r.URL
	}

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// The logger exists from the start so coordinator diagnostics are
	// captured even while the panel is hidden.
	buf := &syncBuffer{}
	logger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.DebugLevel,
	})
	logger.SetStyles(logStyles())

	return model{
		cfg:         cfg,
		configPath:  configPath,
		metrics:     reg,
		rpcURL:      rpcURL,
		stateSignal: make(chan struct{}, 1),
		amount:      in,
		focus:       vault.FocusAmount,
		approvals:   newApprovalBridge(),
		spin:        sp,
		logEnabled:  cfg.Logger,
		logger:      logger,
		logBuffer:   buf,
		logViewport: vp,
		logSpinner:  logSpin,
	}
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, textinput.Blink, waitForAccessRequest(m.approvals.requests)}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if m.rpcURL != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.rpcURL))
	} else {
		m.rpcErr = "no RPC endpoint configured"
		m.setupCoordinator(nil)
		cmds = append(cmds, waitForState(m.coord, m.stateSignal))
	}
	return tea.Batch(cmds...)
}

// setupCoordinator builds the coordinator over the keystore wallet. Without a
// node connection or keystore the coordinator runs with no provider, so every
// action reports that no wallet is available.
func (m *model) setupCoordinator(client *rpc.Client) {
	var provider coordinator.Provider
	if client != nil {
		ks, err := wallet.Open(m.cfg.KeystoreDir, client.Client, m.approvals.Approve)
		if err != nil {
			m.walletErr = err.Error()
			m.addLog("warning", "Wallet unavailable: "+err.Error())
		} else {
			provider = ks
			m.addLog("info", "Keystore opened: "+m.cfg.KeystoreDir)
		}
	} else {
		m.walletErr = wallet.ErrNoWallet.Error()
	}

	addr, _ := m.cfg.ContractAddress()
	opts := []coordinator.Option{coordinator.WithLogger(m.logger.WithPrefix("wallet"))}
	if m.metrics != nil {
		opts = append(opts, coordinator.WithObserver(m.metrics))
	}

	m.coord = coordinator.New(provider, coordinator.BindVault, coordinator.Config{
		ContractAddress: addr,
		ConfirmTimeout:  m.cfg.ConfirmTimeout(),
		PayableDeposit:  m.cfg.Contract.Payable,
	}, opts...)

	signal := m.stateSignal
	m.coord.Subscribe(func(coordinator.State) {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	m.state = m.coord.Snapshot()
}

func logStyles() *log.Styles {
	s := log.DefaultStyles()
	s.Timestamp = lipgloss.NewStyle().Foreground(styles.CMuted)
	s.Prefix = lipgloss.NewStyle().Bold(true).Foreground(styles.CAccent2)
	s.Message = lipgloss.NewStyle().Foreground(styles.CText)
	s.Key = lipgloss.NewStyle().Foreground(styles.CAccent)
	s.Value = lipgloss.NewStyle().Foreground(styles.CText)
	s.Levels[log.DebugLevel] = lipgloss.NewStyle().Foreground(styles.CMuted).SetString("DEBUG")
	s.Levels[log.InfoLevel] = lipgloss.NewStyle().Foreground(styles.CAccent2).SetString("INFO")
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().Foreground(styles.CWarn).SetString("WARN")
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR")
	return s
}
