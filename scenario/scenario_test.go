package scenario_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRunner() *scenario.Runner {
	return scenario.NewRunner(logging.NewTestLogger(), config.NewDefaultConfig())
}

func TestExamples(t *testing.T) {
	examples, err := scenario.Examples()
	require.NoError(t, err)
	require.Len(t, examples, len(scenario.ExampleNames()))

	for name, sc := range examples {
		sc := sc
		t.Run(name, func(t *testing.T) {
			report, err := getRunner().Run(context.Background(), sc)
			require.NoError(t, err)
			for _, st := range report.Steps {
				assert.NoError(t, st.Err, "step %d (%s)", st.Index, st.Action)
			}
			assert.True(t, report.Passed())
			assert.Len(t, report.Steps, countResults(sc))
		})
	}
}

// countResults is the number of results of a passing run, expect-error
// steps are folded into the step they check.
func countResults(sc *scenario.Scenario) int {
	n := 0
	for _, st := range sc.Steps {
		if st.Action != scenario.ActionExpectError {
			n++
		}
	}
	return n
}

func TestFailingExpectationStopsTheRun(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name = "wrong payout"

[[accounts]]
name = "alice"

[[steps]]
action = "lock"
account = "alice"
amount = "100"
days = 100
as = "pos"

[[steps]]
action = "deposit"
amount = "10"

[[steps]]
action = "advance"
days = 100

[[steps]]
action = "unlock"
position = "pos"
expect = "11"

[[steps]]
action = "expect-positions"
account = "alice"
count = 0
`))
	require.NoError(t, err)

	report, err := getRunner().Run(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.Steps, 4)
	assert.EqualError(t, report.Steps[3].Err, "payout is 10, expected 11")
}

func TestExpectedErrorMissing(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name = "no error"

[[accounts]]
name = "alice"

[[steps]]
action = "lock"
account = "alice"
amount = "100"
days = 100

[[steps]]
action = "expect-error"
error = "unlocking time has not arrived yet"
`))
	require.NoError(t, err)

	report, err := getRunner().Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)
	assert.Error(t, report.Steps[0].Err)
	assert.False(t, report.Passed())
}

func TestZeroAmountLockIsRejected(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name = "zero"

[[accounts]]
name = "alice"

[[steps]]
action = "lock"
account = "alice"
amount = "0"
days = 100

[[steps]]
action = "expect-error"
error = "amount must be positive"
`))
	require.NoError(t, err)

	report, err := getRunner().Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, report.Passed())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{
			name: "unknown action",
			src: `
[[steps]]
action = "explode"`,
			err: scenario.ErrUnknownAction,
		},
		{
			name: "unknown account",
			src: `
[[steps]]
action = "lock"
account = "nobody"
amount = "1"`,
			err: scenario.ErrUnknownAccount,
		},
		{
			name: "invalid amount",
			src: `
[[accounts]]
name = "alice"

[[steps]]
action = "lock"
account = "alice"
amount = "a lot"`,
			err: scenario.ErrInvalidAmount,
		},
		{
			name: "leading expect-error",
			src: `
[[steps]]
action = "expect-error"
error = "anything"`,
			err: scenario.ErrMisplacedExpect,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(c.src))
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := scenario.Parse([]byte(`
[[steps]]
action = "advance"
dayz = 3
`))
	assert.Error(t, err)
}

func TestUnknownLabel(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
[[steps]]
action = "unlock"
position = "missing"
`))
	require.NoError(t, err)

	report, err := getRunner().Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)
	assert.ErrorIs(t, report.Steps[0].Err, scenario.ErrUnknownLabel)
}

func TestWriteExamplesKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "minimum_lock.toml")
	require.NoError(t, os.WriteFile(kept, []byte("# mine"), 0o644))

	require.NoError(t, scenario.WriteExamples(dir))

	buf, err := os.ReadFile(kept)
	require.NoError(t, err)
	assert.Equal(t, "# mine", string(buf))

	for _, name := range scenario.ExampleNames() {
		_, err := scenario.Load(filepath.Join(dir, name))
		if name == "minimum_lock.toml" {
			continue
		}
		assert.NoError(t, err, name)
	}
}

func TestRunRejectsInvalidScenario(t *testing.T) {
	sc := &scenario.Scenario{
		Name: "built by hand",
		Accounts: []scenario.Account{
			{Name: "alice", Protected: []string{"lots"}},
		},
	}

	report, err := getRunner().Run(context.Background(), sc)
	assert.ErrorIs(t, err, scenario.ErrInvalidAmount)
	assert.Nil(t, report)
}
