// Package contract implements the hot potato custody game. A single
// scarce token circulates among participants; each custody period is
// bounded by a fixed deadline window measured in blocks, and the holder
// in custody when the window lapses is eliminated. The contract runs
// against any sdk.Host: validation happens before any write, and a failed
// operation leaves stored state untouched.
package contract

import "github.com/Cherrypick14/polkadot-hot-potato/sdk"

// Contract binds the game operations to a host. It holds no game state
// itself; every operation loads fresh state from the host store, so a
// Contract value is cheap and safe to recreate per call.
type Contract struct {
	host sdk.Host
}

func New(host sdk.Host) *Contract {
	return &Contract{host: host}
}

// ---------- Transition Results ----------

// StartResult reports a successful game start.
type StartResult struct {
	Holder sdk.Address
	Events []Event
}

// PassResult reports a successful custody transfer. Remaining is the
// number of blocks that were left on the deadline when the pass landed.
type PassResult struct {
	From      sdk.Address
	To        sdk.Address
	Remaining uint64
	Events    []Event
}

// CheckResult reports a deadline check. When Eliminated is true, Holder
// names the participant who was caught in custody.
type CheckResult struct {
	Eliminated bool
	Holder     *sdk.Address
	Events     []Event
}

// EndResult reports a manual termination. WasActive is false when the
// call was a defensive reset of an already idle game.
type EndResult struct {
	WasActive bool
	Events    []Event
}

// ---------- Entry: Init ----------

// Init writes the deployment config: the deadline window in blocks and
// the self-pass policy. It runs exactly once; the window must be
// strictly positive and is never mutated afterwards.
func (c *Contract) Init(deadlineBlocks uint64, allowSelfPass bool) error {
	if deadlineBlocks == 0 {
		return newError(CodeInvalidDeadline, "deadline window must be positive")
	}
	if _, err := loadConfig(c.host); err == nil {
		return newError(CodeAlreadyInitialized, "contract already initialized")
	} else if !IsCode(err, CodeNotInitialized) {
		return err
	}
	env, err := c.env()
	if err != nil {
		return err
	}
	return saveConfig(c.host, &Config{
		DeadlineBlocks: deadlineBlocks,
		AllowSelfPass:  allowSelfPass,
		DeployedAt:     env.BlockHeight,
	})
}

// ---------- Entry: Start ----------

// StartGame hands the potato to `to` and begins the deadline clock. Any
// participant may start when no game is running; the caller is recorded
// as the starter and stays the sole authority for EndGame until the next
// start overwrites it.
func (c *Contract) StartGame(to sdk.Address) (*StartResult, error) {
	if err := validRecipient(to); err != nil {
		return nil, err
	}
	if _, err := loadConfig(c.host); err != nil {
		return nil, err
	}
	g, env, err := c.loadForUpdate()
	if err != nil {
		return nil, err
	}
	if g.Active {
		return nil, newError(CodeAlreadyActive, "game already active")
	}

	starter := env.Sender
	g.Active = true
	g.Holder = &to
	g.Starter = &starter
	g.LastTransferAt = env.BlockHeight
	if err := saveGame(c.host, g); err != nil {
		return nil, err
	}

	ev := GameStartedEvent(starter, to, env.BlockHeight)
	emitEvent(c.host, ev)
	return &StartResult{Holder: to, Events: []Event{ev}}, nil
}

// ---------- Entry: Pass ----------

// PassPotato transfers custody to `to`. Only the current holder may pass,
// and only while the deadline window is still open: a pass arriving when
// elapsed >= window is rejected, because at that point the holder is
// already eliminable and should be taken out via CheckDeadline instead.
func (c *Contract) PassPotato(to sdk.Address) (*PassResult, error) {
	if err := validRecipient(to); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(c.host)
	if err != nil {
		return nil, err
	}
	g, env, err := c.loadForUpdate()
	if err != nil {
		return nil, err
	}
	if !g.Active {
		return nil, newError(CodeNotActive, "game not active")
	}
	from := env.Sender
	if *g.Holder != from {
		return nil, newError(CodeNotHolder, "not current holder")
	}
	elapsed := env.BlockHeight - g.LastTransferAt
	if elapsed >= cfg.DeadlineBlocks {
		return nil, newError(CodeDeadlinePassed, "deadline passed")
	}
	if to == from && !cfg.AllowSelfPass {
		return nil, newError(CodeSelfPassForbidden, "passing to yourself is disabled")
	}

	remaining := cfg.DeadlineBlocks - elapsed
	g.Holder = &to
	g.LastTransferAt = env.BlockHeight
	if err := saveGame(c.host, g); err != nil {
		return nil, err
	}

	ev := PotatoPassedEvent(from, to, env.BlockHeight)
	emitEvent(c.host, ev)
	return &PassResult{From: from, To: to, Remaining: remaining, Events: []Event{ev}}, nil
}

// ---------- Entry: Check Deadline ----------

// CheckDeadline is the permissionless enforcement call: anyone may invoke
// it, and if the current holder has held the potato for at least the
// deadline window they are eliminated and the game goes idle. Inside the
// window it is a no-op success. The starter survives elimination so the
// round remains inspectable.
func (c *Contract) CheckDeadline() (*CheckResult, error) {
	cfg, err := loadConfig(c.host)
	if err != nil {
		return nil, err
	}
	g, env, err := c.loadForUpdate()
	if err != nil {
		return nil, err
	}
	if !g.Active {
		return nil, newError(CodeNotActive, "game not active")
	}
	if env.BlockHeight-g.LastTransferAt < cfg.DeadlineBlocks {
		return &CheckResult{Eliminated: false}, nil
	}

	eliminated := *g.Holder
	g.Active = false
	g.Holder = nil
	if err := saveGame(c.host, g); err != nil {
		return nil, err
	}

	ev := PotatoBurnedEvent(eliminated, env.BlockHeight)
	emitEvent(c.host, ev)
	return &CheckResult{Eliminated: true, Holder: &eliminated, Events: []Event{ev}}, nil
}

// ---------- Entry: End ----------

// EndGame resets the game to the idle baseline. Only the recorded starter
// is authorized; the game does not have to be active, so a starter can
// defensively clear stale state. Starter and config survive the reset.
func (c *Contract) EndGame() (*EndResult, error) {
	if _, err := loadConfig(c.host); err != nil {
		return nil, err
	}
	g, env, err := c.loadForUpdate()
	if err != nil {
		return nil, err
	}
	if g.Starter == nil || *g.Starter != env.Sender {
		return nil, newError(CodeNotStarter, "only starter can end the game")
	}

	wasActive := g.Active
	g.Active = false
	g.Holder = nil
	if err := saveGame(c.host, g); err != nil {
		return nil, err
	}

	ev := GameEndedEvent(env.Sender, env.BlockHeight)
	emitEvent(c.host, ev)
	return &EndResult{WasActive: wasActive, Events: []Event{ev}}, nil
}

// ---------- Queries ----------

// Holder returns the current custodian, or nil when no game is running.
func (c *Contract) Holder() (*sdk.Address, error) {
	g, err := loadGame(c.host)
	if err != nil {
		return nil, err
	}
	return g.Holder, nil
}

// IsActive reports whether a game is in progress.
func (c *Contract) IsActive() (bool, error) {
	g, err := loadGame(c.host)
	if err != nil {
		return false, err
	}
	return g.Active, nil
}

// Starter returns the initiator of the current or most recent game.
func (c *Contract) Starter() (*sdk.Address, error) {
	g, err := loadGame(c.host)
	if err != nil {
		return nil, err
	}
	return g.Starter, nil
}

// LastTransferAt returns the block height of the most recent start or pass.
func (c *Contract) LastTransferAt() (uint64, error) {
	g, err := loadGame(c.host)
	if err != nil {
		return 0, err
	}
	return g.LastTransferAt, nil
}

// DeadlineBlocks returns the configured deadline window.
func (c *Contract) DeadlineBlocks() (uint64, error) {
	cfg, err := loadConfig(c.host)
	if err != nil {
		return 0, err
	}
	return cfg.DeadlineBlocks, nil
}

// Remaining returns the blocks left before the current holder becomes
// eliminable, saturating at zero. It is zero when no game is running.
func (c *Contract) Remaining() (uint64, error) {
	cfg, err := loadConfig(c.host)
	if err != nil {
		return 0, err
	}
	g, env, err := c.loadForUpdate()
	if err != nil {
		return 0, err
	}
	if !g.Active {
		return 0, nil
	}
	elapsed := env.BlockHeight - g.LastTransferAt
	if elapsed >= cfg.DeadlineBlocks {
		return 0, nil
	}
	return cfg.DeadlineBlocks - elapsed, nil
}

// Snapshot is the full queryable view of the contract, for hosts and
// frontends that want one read instead of five.
type Snapshot struct {
	Active         bool         `json:"active"`
	Holder         *sdk.Address `json:"holder"`
	Starter        *sdk.Address `json:"starter"`
	LastTransferAt uint64       `json:"lastTransferAt"`
	DeadlineBlocks uint64       `json:"deadlineBlocks"`
	AllowSelfPass  bool         `json:"allowSelfPass"`
	Remaining      uint64       `json:"remaining"`
	BlockHeight    uint64       `json:"blockHeight"`
	DeployedAt     uint64       `json:"deployedAt"`
}

// GetSnapshot assembles the full view at the current block height.
func (c *Contract) GetSnapshot() (*Snapshot, error) {
	cfg, err := loadConfig(c.host)
	if err != nil {
		return nil, err
	}
	g, env, err := c.loadForUpdate()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Active:         g.Active,
		Holder:         g.Holder,
		Starter:        g.Starter,
		LastTransferAt: g.LastTransferAt,
		DeadlineBlocks: cfg.DeadlineBlocks,
		AllowSelfPass:  cfg.AllowSelfPass,
		BlockHeight:    env.BlockHeight,
		DeployedAt:     cfg.DeployedAt,
	}
	if g.Active {
		elapsed := env.BlockHeight - g.LastTransferAt
		if elapsed < cfg.DeadlineBlocks {
			snap.Remaining = cfg.DeadlineBlocks - elapsed
		}
	}
	return snap, nil
}

// validRecipient rejects identities the state codec cannot hold, so a
// transfer can never write an encoding that fails to load back.
func validRecipient(to sdk.Address) error {
	if to == "" {
		return newError(CodeInvalidRecipient, "recipient must not be empty")
	}
	if len(to) > maxIdentityLen {
		return newError(CodeInvalidRecipient, "recipient exceeds identity length limit")
	}
	return nil
}

// ---------- Host Access ----------

func (c *Contract) env() (sdk.Env, error) {
	env, err := c.host.GetEnv()
	if err != nil {
		return sdk.Env{}, hostFault("env.get", err)
	}
	// the sender may be stored as starter; an identity the codec cannot
	// hold means the host's identity resolution is broken
	if len(env.Sender) > maxIdentityLen {
		return sdk.Env{}, hostFaultf("env.get", "sender identity exceeds %d bytes", maxIdentityLen)
	}
	return env, nil
}

// loadForUpdate loads game state and environment together and rejects a
// block counter that ran backwards: deadline arithmetic assumes the host
// clock is monotonic, so a regression is an infrastructure fault, never a
// domain outcome.
func (c *Contract) loadForUpdate() (*Game, sdk.Env, error) {
	g, err := loadGame(c.host)
	if err != nil {
		return nil, sdk.Env{}, err
	}
	env, err := c.env()
	if err != nil {
		return nil, sdk.Env{}, err
	}
	if env.BlockHeight < g.LastTransferAt {
		return nil, sdk.Env{}, hostFaultf("clock",
			"block counter ran backwards: %d < %d", env.BlockHeight, g.LastTransferAt)
	}
	return g, env, nil
}
