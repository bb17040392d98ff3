package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/protocol"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

const namedLogger = "scenario"

// DefaultDeployer deploys the contracts of every scenario.
var DefaultDeployer = ethcmn.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int
	Action string
	Detail string
	Err    error
}

func (r StepResult) Passed() bool {
	return r.Err == nil
}

// Report is the outcome of a scenario run. A run stops at the first
// failing step.
type Report struct {
	Name     string
	Steps    []StepResult
	Duration time.Duration
}

func (r *Report) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed() {
			return false
		}
	}
	return true
}

// Runner runs scenarios, each against freshly deployed contracts.
type Runner struct {
	log      *logging.Logger
	conf     config.Config
	onDeploy []func(*protocol.Services)
}

func NewRunner(log *logging.Logger, conf config.Config) *Runner {
	return &Runner{
		log:  log.Named(namedLogger),
		conf: conf,
	}
}

// OnDeploy registers functions called with every deployment made by a run,
// including the ones following a checkpoint step.
func (r *Runner) OnDeploy(fns ...func(*protocol.Services)) {
	r.onDeploy = append(r.onDeploy, fns...)
}

// ReloadConf changes the configuration of the next deployments.
func (r *Runner) ReloadConf(cfg config.Config) {
	r.conf = cfg
}

func (r *Runner) deploy(ctx context.Context, deployer ethcmn.Address) (*protocol.Services, error) {
	svcs, err := protocol.New(ctx, r.log, r.conf, deployer)
	if err != nil {
		return nil, err
	}
	for _, fn := range r.onDeploy {
		fn(svcs)
	}
	return svcs, nil
}

type run struct {
	ctx      context.Context
	svcs     *protocol.Services
	accounts map[string]ethcmn.Address
	// protected maps an account to the ids of its protected positions, in
	// declaration order.
	protected map[string][]uint64
	labels    map[string]uint64
}

// Run deploys the contracts, funds the accounts and runs every step. The
// error is only set when the scenario is invalid or the contracts cannot be
// deployed, step failures are in the report.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", sc.Name, err)
	}
	start := time.Now()
	svcs, err := r.deploy(ctx, DefaultDeployer)
	if err != nil {
		return nil, err
	}
	st := &run{
		ctx:       ctx,
		svcs:      svcs,
		accounts:  map[string]ethcmn.Address{},
		protected: map[string][]uint64{},
		labels:    map[string]uint64{},
	}
	for _, a := range sc.Accounts {
		addr := a.address()
		st.accounts[a.Name] = addr
		for _, p := range a.Protected {
			amt, err := parseAmount(p)
			if err != nil {
				return nil, fmt.Errorf("account %q: %w", a.Name, err)
			}
			st.protected[a.Name] = append(st.protected[a.Name], svcs.AddProtectedLiquidity(addr, amt))
		}
	}

	report := &Report{Name: sc.Name}
	for i := 0; i < len(sc.Steps); i++ {
		step := sc.Steps[i]
		detail, stepErr := r.runStep(st, step)

		var expect *Step
		if i+1 < len(sc.Steps) && sc.Steps[i+1].Action == ActionExpectError {
			expect = &sc.Steps[i+1]
		}
		res := StepResult{Index: i + 1, Action: step.Action, Detail: detail, Err: stepErr}
		if expect != nil {
			res.Err = checkExpectedError(expect.Error, stepErr)
			if res.Err == nil {
				res.Detail = fmt.Sprintf("%s failed as expected: %v", step.Action, stepErr)
			}
			i++
		}
		report.Steps = append(report.Steps, res)
		if !res.Passed() {
			r.log.Debug("scenario step failed",
				logging.String("scenario", sc.Name),
				logging.Int("step", res.Index),
				logging.Error(res.Err),
			)
			break
		}
	}
	report.Duration = time.Since(start)
	return report, nil
}

func checkExpectedError(expected string, got error) error {
	if got == nil {
		return fmt.Errorf("expected error %q, got none", expected)
	}
	if !strings.HasSuffix(got.Error(), expected) {
		return fmt.Errorf("expected error %q, got %q", expected, got.Error())
	}
	return nil
}

func (r *Runner) runStep(st *run, step Step) (string, error) {
	switch step.Action {
	case ActionLock:
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return "", err
		}
		id, err := st.svcs.Mining.LockPosition(st.ctx, amount, step.Days, st.accounts[step.Account])
		if err != nil {
			return "", err
		}
		st.label(step.As, id)
		return fmt.Sprintf("%s locked %s for %d days as position %d", step.Account, amount, step.Days, id), nil

	case ActionTransfer:
		ids := st.protected[step.Account]
		if step.Protected < 0 || step.Protected >= len(ids) {
			return "", fmt.Errorf("%s has no protected position %d", step.Account, step.Protected)
		}
		owner := step.Owner
		if owner == "" {
			owner = step.Account
		}
		if _, err := st.svcs.TransferPosition(st.ctx, st.accounts[step.Account], ids[step.Protected], step.Days, st.accounts[owner]); err != nil {
			return "", err
		}
		after := st.svcs.Mining.GetPositions(st.accounts[owner])
		id := after[len(after)-1]
		st.label(step.As, id)
		return fmt.Sprintf("%s transferred protected position %d to liquidity mining for %d days as position %d", step.Account, step.Protected, step.Days, id), nil

	case ActionDeposit:
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return "", err
		}
		if err := st.svcs.Fund(st.ctx, st.svcs.Deployer, amount); err != nil {
			return "", err
		}
		if err := st.svcs.Deposit(st.ctx, st.svcs.Deployer, amount); err != nil {
			return "", err
		}
		return fmt.Sprintf("deposited %s, pool holds %s", amount, st.svcs.Mining.RewardPoolBalance()), nil

	case ActionAdvance:
		if err := st.svcs.Time.IncreaseDays(st.ctx, uint(step.Days)); err != nil {
			return "", err
		}
		return fmt.Sprintf("advanced %d days to %s", step.Days, st.svcs.Time.GetTimeNow().Format(time.RFC3339)), nil

	case ActionUnlock:
		id, err := st.position(step.Position)
		if err != nil {
			return "", err
		}
		paid, err := st.svcs.Mining.UnlockPosition(st.ctx, id)
		if err != nil {
			return "", err
		}
		if step.Expect != "" {
			if err := expectAmount("payout", step.Expect, paid); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("position %d unlocked, paid %s", id, paid), nil

	case ActionCheckpoint:
		return r.restart(st)

	case ActionExpectBalance:
		bal := st.svcs.Token.BalanceOf(st.accounts[step.Account])
		if err := expectAmount(step.Account+" balance", step.Amount, bal); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s holds %s", step.Account, bal), nil

	case ActionExpectPositions:
		ids := st.svcs.Mining.GetPositions(st.accounts[step.Account])
		if len(ids) != step.Count {
			return "", fmt.Errorf("%s has %d positions, expected %d", step.Account, len(ids), step.Count)
		}
		return fmt.Sprintf("%s has %d positions", step.Account, len(ids)), nil

	case ActionExpectError:
		return "", ErrMisplacedExpect

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, step.Action)
	}
}

// restart snapshots the running contracts and carries on with a fresh
// deployment restored from that snapshot.
func (r *Runner) restart(st *run) (string, error) {
	snap, err := st.svcs.Snapshot()
	if err != nil {
		return "", err
	}
	now := st.svcs.Time.GetTimeNow()
	fresh, err := r.deploy(st.ctx, st.svcs.Deployer)
	if err != nil {
		return "", err
	}
	if err := fresh.Restore(st.ctx, snap); err != nil {
		return "", err
	}
	if err := fresh.Time.SetTimeNow(st.ctx, now); err != nil {
		return "", err
	}
	st.svcs = fresh
	return fmt.Sprintf("restarted from a %d bytes snapshot", len(snap)), nil
}

func (st *run) label(name string, id uint64) {
	if name != "" {
		st.labels[name] = id
	}
}

// position resolves a label, or a literal id.
func (st *run) position(ref string) (uint64, error) {
	if id, ok := st.labels[ref]; ok {
		return id, nil
	}
	var id uint64
	if _, err := fmt.Sscanf(ref, "%d", &id); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, ref)
	}
	return id, nil
}

func expectAmount(what, expected string, got *num.Uint) error {
	want, err := parseAmount(expected)
	if err != nil {
		return err
	}
	if !want.EQ(got) {
		return fmt.Errorf("%s is %s, expected %s", what, got, want)
	}
	return nil
}
