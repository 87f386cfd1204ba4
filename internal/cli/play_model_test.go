package cli

import (
	"testing"

	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/alexanderramin/housebudget/internal/teatest"
	"github.com/alexanderramin/housebudget/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPlayDriver builds the play model for one simulation, sizes it and
// drains the initial status load.
func newPlayDriver(t *testing.T, app *App, id string) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newPlayModel(app, id), teatest.WithSize(120, 60))
	d.DrainInit()
	return d
}

func playState(d *teatest.Driver) *playModel {
	return d.Model.(*playModel)
}

func TestPlay_LoadsStatus(t *testing.T) {
	app := testApp(t)
	rec := seedSimulation(t, app)
	d := newPlayDriver(t, app, rec.ID)

	m := playState(d)
	require.NotNil(t, m.status)
	assert.False(t, m.loading)

	view := d.View()
	assert.Contains(t, view, "cli build")
	assert.Contains(t, view, "k: acknowledge", "period 1 is protected")
	assert.NotContains(t, view, "s: solution")
}

func TestPlay_UnknownSimulationShowsError(t *testing.T) {
	app := testApp(t)
	d := newPlayDriver(t, app, "missing")

	assert.Contains(t, d.View(), "Error:")
}

func TestPlay_DayRunAndDecisions(t *testing.T) {
	app := testApp(t)
	rec := seedSimulation(t, app)
	d := newPlayDriver(t, app, rec.ID)

	d.PressKey('d')
	assert.Contains(t, d.View(), "day: the risk of period 1 needs a decision first")

	d.PressKey('k')
	d.PressKey('d')
	assert.Contains(t, d.View(), "day: day 1 paid")
	assert.Equal(t, 8400, playState(d).status.Reserve)

	d.PressKey('r')
	assert.Contains(t, d.View(), "to day 18")
	m := playState(d)
	require.NotNil(t, m.status.Current)
	assert.Equal(t, 2, m.status.Current.ID)

	if !m.status.Current.Protected {
		d.PressKey('s')
		require.NotNil(t, playState(d).status.Current.Selected)
		assert.Equal(t, domain.SolutionPay, *playState(d).status.Current.Selected)
	}
	assert.Zero(t, d.Skipped)
}

func TestPlay_CashPrompt(t *testing.T) {
	app := testApp(t)
	rec := seedSimulation(t, app, testutil.WithBudget(55000))
	d := newPlayDriver(t, app, rec.ID)

	d.PressKey('c')
	assert.Equal(t, promptCash, playState(d).prompt)
	assert.Contains(t, d.View(), "enter: submit")

	d.Type("12d")
	d.PressEsc()
	assert.Equal(t, promptNone, playState(d).prompt)
	assert.Zero(t, playState(d).status.Reserve, "typed keys go to the prompt, not to actions")

	d.PressKey('c')
	d.Submit("abc")
	assert.Contains(t, d.View(), `invalid amount "abc"`)

	d.PressKey('c')
	d.Submit("1200")
	assert.Equal(t, 1200, playState(d).status.Reserve)
	assert.Equal(t, 3800, playState(d).status.PlanningRemainder)
	assert.Zero(t, d.Skipped)
}

func TestPlay_DrawAndSelectPrompts(t *testing.T) {
	app := testApp(t)
	rec := seedSimulation(t, app)
	d := newPlayDriver(t, app, rec.ID)

	d.PressKey('w')
	d.Submit("walls 5000")
	assert.Contains(t, d.View(), "draw: done")
	assert.Equal(t, 5000, playState(d).status.Reserve)

	d.PressKey('w')
	d.Submit("walls")
	assert.Contains(t, d.View(), "expected a category and an amount")

	d.PressKey('o')
	d.Submit("floor tile")
	assert.Contains(t, d.View(), "select: floor now tile")
	assert.Equal(t, 92, playState(d).status.TotalDuration)
}

func TestPlay_Quit(t *testing.T) {
	app := testApp(t)
	rec := seedSimulation(t, app)
	d := newPlayDriver(t, app, rec.ID)

	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}

func TestDescribeAction(t *testing.T) {
	assert.Contains(t, describeAction("run", contract.Rejected("nope", nil)), "run: nope")

	res := &contract.ActionResult{
		Applied: true,
		Records: []domain.DayRecord{{Day: 4, IsIdle: true}},
	}
	assert.Contains(t, describeAction("day", res), "day 4 idle")

	res.Records = append(res.Records, domain.DayRecord{Day: 5})
	assert.Contains(t, describeAction("run", res), "2 days to day 5, 1 idle")

	done := &contract.ActionResult{Applied: true, Status: &contract.SimulationStatusView{Status: domain.SimulationCompleted}}
	assert.Contains(t, describeAction("run", done), "construction finished")
}
