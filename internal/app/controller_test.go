package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/history"
	"github.com/myjellybean/jellybean/internal/model"
	"github.com/myjellybean/jellybean/internal/provider"
)

func scamJSON(score int) string {
	return fmt.Sprintf(`{
  "category": "scam_fraud", "risk_score": %d, "confidence": 0.9,
  "top_signals": ["Gift card"], "why_it_matters": "Untraceable.",
  "do_this_now": ["Call mom"], "safer_reply": "Calling you now.",
  "report_summary": {"what_happened": "x", "why_risky": [], "next_steps": [], "evidence_checklist": []},
  "limitations": "Text only."
}`, score)
}

func newController(t *testing.T) (*Controller, *history.Store) {
	t.Helper()
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), nil)
	store.Load()
	return NewController(store, nil), store
}

func momForm(save bool) Form {
	return Form{
		Message:       "Hey it's mom, I lost my phone, send me $200 via gift card",
		Signals:       model.ContextSignals{AskedForMoney: true},
		SaveToHistory: save,
	}
}

func TestInitialState(t *testing.T) {
	c, _ := newController(t)
	assert.Equal(t, ViewHome, c.View())
	assert.Nil(t, c.Current())
	assert.Nil(t, c.State().Current)
}

func TestScenarioAHighRiskScam(t *testing.T) {
	c, store := newController(t)
	client := analysis.NewClient(provider.NewFake(scamJSON(92)), "key", nil)

	result, err := c.Analyze(context.Background(), client, momForm(true))
	require.NoError(t, err)

	assert.Equal(t, ViewResults, c.View())
	assert.Equal(t, model.CategoryScamFraud, result.Category)
	assert.True(t, c.Current().HighRisk())
	assert.Equal(t, 1, store.Len())
}

func TestScenarioBEmptyMessage(t *testing.T) {
	c, _ := newController(t)
	_, err := c.Submit(Form{Message: "   ", Platform: "SMS"})
	assert.ErrorIs(t, err, analysis.ErrEmptyMessage)
	assert.Equal(t, ViewHome, c.View())
	assert.Equal(t, "SMS", c.Form().Platform, "form kept")
	assert.NotEmpty(t, c.State().Error)
}

func TestScenarioCMissingCredential(t *testing.T) {
	c, store := newController(t)
	fake := provider.NewFake(scamJSON(92))
	client := analysis.NewClient(fake, "", nil)

	_, err := c.Analyze(context.Background(), client, momForm(true))
	var ce *analysis.ConfigurationError
	require.True(t, errors.As(err, &ce))

	assert.Equal(t, 0, fake.Calls())
	assert.Equal(t, ViewHome, c.View())
	assert.Equal(t, 0, store.Len(), "nothing saved on failure")
	assert.Nil(t, c.Current())
	assert.Equal(t, momForm(true), c.Form())
	assert.Equal(t, ce.Message, c.State().Error)
}

func TestScenarioDElevenOptedInAnalyses(t *testing.T) {
	c, store := newController(t)
	for i := 0; i <= 10; i++ {
		client := analysis.NewClient(provider.NewFake(scamJSON(i)), "key", nil)
		_, err := c.Analyze(context.Background(), client, momForm(true))
		require.NoError(t, err)
		require.NoError(t, c.Navigate(ViewHome))
	}

	entries := store.Entries()
	require.Len(t, entries, history.MaxEntries)
	assert.Equal(t, 10, entries[0].RiskScore)
	assert.Equal(t, 1, entries[len(entries)-1].RiskScore)
}

func TestScenarioECorruptHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o600))

	store := history.NewStore(path, nil)
	store.Load()
	c := NewController(store, nil)

	assert.Empty(t, store.Entries())
	assert.Equal(t, ViewHome, c.View())
	assert.Empty(t, c.State().Error)

	client := analysis.NewClient(provider.NewFake(scamJSON(50)), "key", nil)
	_, err := c.Analyze(context.Background(), client, momForm(true))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestFailureKeepsPreviousResult(t *testing.T) {
	c, _ := newController(t)
	ok := analysis.NewClient(provider.NewFake(scamJSON(40)), "key", nil)
	_, err := c.Analyze(context.Background(), ok, momForm(false))
	require.NoError(t, err)
	require.NoError(t, c.Navigate(ViewHome))

	bad := analysis.NewClient(provider.NewFake("garbage"), "key", nil)
	_, err = c.Analyze(context.Background(), bad, momForm(false))
	require.Error(t, err)

	assert.Equal(t, ViewHome, c.View())
	assert.Equal(t, 40, c.Current().RiskScore)
	assert.Equal(t, analysis.GenericFailure, c.State().Error)
}

func TestNotSavedWhenOptedOut(t *testing.T) {
	c, store := newController(t)
	client := analysis.NewClient(provider.NewFake(scamJSON(10)), "key", nil)
	_, err := c.Analyze(context.Background(), client, momForm(false))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.NotNil(t, c.Current())
}

func TestBusyWhileAnalyzing(t *testing.T) {
	c, _ := newController(t)
	_, err := c.Submit(momForm(false))
	require.NoError(t, err)
	require.Equal(t, ViewAnalyzing, c.View())

	_, err = c.Submit(momForm(false))
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.Navigate(ViewHome), ErrBusy)
	assert.ErrorIs(t, c.Navigate(ViewEducation), ErrBusy)
	assert.Equal(t, ViewAnalyzing, c.View())
}

func TestSaveFlagCapturedAtSubmit(t *testing.T) {
	c, store := newController(t)
	_, err := c.Submit(momForm(true))
	require.NoError(t, err)
	c.SetForm(momForm(false))

	r, err := model.DecodeResult([]byte(scamJSON(75)))
	require.NoError(t, err)
	require.NoError(t, c.Succeed(*r))
	assert.Equal(t, 1, store.Len())
}

func TestTransitions(t *testing.T) {
	c, _ := newController(t)

	assert.ErrorIs(t, c.RequestReport(), ErrIllegalTransition)
	assert.ErrorIs(t, c.Back(), ErrIllegalTransition)
	assert.ErrorIs(t, c.Succeed(model.AnalysisResult{}), ErrIllegalTransition)
	assert.ErrorIs(t, c.Fail(errors.New("x")), ErrIllegalTransition)

	// no current result: results and report redirect home
	require.NoError(t, c.Navigate(ViewEducation))
	require.NoError(t, c.Navigate(ViewResults))
	assert.Equal(t, ViewHome, c.View())
	require.NoError(t, c.Navigate(ViewReport))
	assert.Equal(t, ViewHome, c.View())

	client := analysis.NewClient(provider.NewFake(scamJSON(60)), "key", nil)
	_, err := c.Analyze(context.Background(), client, momForm(false))
	require.NoError(t, err)

	require.NoError(t, c.RequestReport())
	assert.Equal(t, ViewReport, c.View())
	assert.NotNil(t, c.State().Current)
	require.NoError(t, c.Back())
	assert.Equal(t, ViewResults, c.View())

	require.NoError(t, c.Navigate(ViewEducation))
	assert.Equal(t, ViewEducation, c.View())
	assert.ErrorIs(t, c.Navigate(ViewReport), ErrIllegalTransition)
	assert.ErrorIs(t, c.Navigate(ViewResults), ErrIllegalTransition)
	assert.Equal(t, ViewEducation, c.View())

	require.NoError(t, c.Navigate(ViewHome))
	assert.ErrorIs(t, c.Navigate(ViewResults), ErrIllegalTransition)
	assert.ErrorIs(t, c.Navigate(ViewAnalyzing), ErrIllegalTransition)
	assert.Equal(t, ViewHome, c.View())
}

func TestCurrentResultIsPerSession(t *testing.T) {
	first, store := newController(t)
	client := analysis.NewClient(provider.NewFake(scamJSON(90)), "key", nil)
	_, err := first.Analyze(context.Background(), client, momForm(true))
	require.NoError(t, err)

	second := NewController(store, nil)
	assert.Nil(t, second.Current())

	require.NoError(t, second.Navigate(ViewEducation))
	require.NoError(t, second.Navigate(ViewResults))
	assert.Equal(t, ViewHome, second.View())
	assert.Nil(t, second.State().Current)
	require.NoError(t, second.Navigate(ViewReport))
	assert.Equal(t, ViewHome, second.View())

	// a later analysis in another session does not replace what first shows
	other := analysis.NewClient(provider.NewFake(scamJSON(15)), "key", nil)
	_, err = second.Analyze(context.Background(), other, momForm(true))
	require.NoError(t, err)
	assert.Equal(t, 90, first.State().Current.RiskScore)
	assert.Equal(t, 15, second.State().Current.RiskScore)
	assert.Equal(t, 2, store.Len(), "history stays shared")
}

func TestViewNames(t *testing.T) {
	for v, name := range viewNames {
		got, err := ParseView(name)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, name, v.String())
	}
	_, err := ParseView("settings")
	assert.Error(t, err)
	assert.Equal(t, "View(42)", View(42).String())
}
