// Package app holds the application state and the transitions between views.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/myjellybean/jellybean/internal/analysis"
	"github.com/myjellybean/jellybean/internal/history"
	"github.com/myjellybean/jellybean/internal/logger"
	"github.com/myjellybean/jellybean/internal/model"
)

var (
	// ErrBusy is returned for any action attempted while analyzing.
	ErrBusy = errors.New("an analysis is already in progress")
	// ErrIllegalTransition is returned when the action does not apply to
	// the current view.
	ErrIllegalTransition = errors.New("action not available here")
)

// Form is the user's input on the home view.
type Form struct {
	Message       string               `json:"message"`
	Platform      string               `json:"platform"`
	Relationship  string               `json:"relationship"`
	Signals       model.ContextSignals `json:"context"`
	SaveToHistory bool                 `json:"save_to_history"`
}

// Analyzer performs one analysis call.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
}

// State is a read-only snapshot of the controller.
type State struct {
	View    View                  `json:"view"`
	Form    Form                  `json:"form"`
	Current *model.AnalysisResult `json:"current,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Controller owns the view state machine for one session. The current
// result belongs to the session; only the history log is shared.
type Controller struct {
	results *history.ResultStore
	log     *logger.Logger

	view View
	form Form
	err  error

	// captured at submit so toggling during analysis has no effect
	saveOnSuccess bool
}

// NewController starts at the home view.
func NewController(store *history.Store, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{results: history.NewResultStore(store), log: log.WithComponent("app"), view: ViewHome}
}

// View returns the current view.
func (c *Controller) View() View { return c.view }

// Form returns the last submitted or edited form.
func (c *Controller) Form() Form { return c.form }

// SetForm records edits made on the home view.
func (c *Controller) SetForm(f Form) { c.form = f }

// Err returns the error from the last failed action, if any.
func (c *Controller) Err() error { return c.err }

// ClearErr dismisses the failure notice.
func (c *Controller) ClearErr() { c.err = nil }

// Current returns a copy of this session's current result, or nil before
// its first successful analysis.
func (c *Controller) Current() *model.AnalysisResult { return c.results.Current() }

// State returns a snapshot for rendering or serialization.
func (c *Controller) State() State {
	s := State{View: c.view, Form: c.form}
	if c.view == ViewResults || c.view == ViewReport {
		s.Current = c.Current()
	}
	if c.err != nil {
		s.Error = analysis.UserMessage(c.err)
	}
	return s
}

// Submit validates form and enters analyzing. On an empty message the view
// stays at home and the form is kept.
func (c *Controller) Submit(form Form) (model.AnalysisRequest, error) {
	if c.view == ViewAnalyzing {
		return model.AnalysisRequest{}, ErrBusy
	}
	if c.view != ViewHome {
		return model.AnalysisRequest{}, fmt.Errorf("submit from %s: %w", c.view, ErrIllegalTransition)
	}

	c.form = form
	req, err := analysis.BuildRequest(form.Message, form.Platform, form.Relationship, form.Signals)
	if err != nil {
		c.err = err
		return model.AnalysisRequest{}, err
	}

	c.err = nil
	c.saveOnSuccess = form.SaveToHistory
	c.view = ViewAnalyzing
	return req, nil
}

// Succeed records r as current, appends it to history when the submitted
// form opted in, and shows results. A history write failure is logged and
// does not block the transition.
func (c *Controller) Succeed(r model.AnalysisResult) error {
	if c.view != ViewAnalyzing {
		return fmt.Errorf("success in %s: %w", c.view, ErrIllegalTransition)
	}

	c.results.SetCurrent(r)
	if c.saveOnSuccess {
		if err := c.results.AppendHistory(r); err != nil {
			c.log.Warn().Err(err).Msg("result shown but not saved to history")
		}
	}
	c.saveOnSuccess = false
	c.view = ViewResults
	return nil
}

// Fail returns to home with the form intact and records err.
func (c *Controller) Fail(err error) error {
	if c.view != ViewAnalyzing {
		return fmt.Errorf("failure in %s: %w", c.view, ErrIllegalTransition)
	}
	c.err = err
	c.saveOnSuccess = false
	c.view = ViewHome
	return nil
}

// RequestReport moves from results to report.
func (c *Controller) RequestReport() error {
	if c.view != ViewResults {
		return fmt.Errorf("report from %s: %w", c.view, ErrIllegalTransition)
	}
	c.view = ViewReport
	return nil
}

// Back moves from report to results.
func (c *Controller) Back() error {
	if c.view != ViewReport {
		return fmt.Errorf("back from %s: %w", c.view, ErrIllegalTransition)
	}
	c.view = ViewResults
	return nil
}

// Navigate jumps to target. Results and report need a current result from
// this session; without one the controller lands on home instead. Results is
// reachable only from report, report only from results.
func (c *Controller) Navigate(target View) error {
	if c.view == ViewAnalyzing {
		return ErrBusy
	}

	switch target {
	case ViewHome, ViewEducation:
		c.view = target
	case ViewResults:
		if c.results.Current() == nil {
			c.view = ViewHome
			return nil
		}
		if c.view != ViewResults && c.view != ViewReport {
			return fmt.Errorf("navigate to results from %s: %w", c.view, ErrIllegalTransition)
		}
		c.view = ViewResults
	case ViewReport:
		if c.results.Current() == nil {
			c.view = ViewHome
			return nil
		}
		if c.view != ViewResults && c.view != ViewReport {
			return fmt.Errorf("navigate to report from %s: %w", c.view, ErrIllegalTransition)
		}
		c.view = ViewReport
	default:
		return fmt.Errorf("navigate to %s: %w", target, ErrIllegalTransition)
	}
	return nil
}

// Analyze runs Submit, the analyzer call and Succeed or Fail in one step.
func (c *Controller) Analyze(ctx context.Context, a Analyzer, form Form) (*model.AnalysisResult, error) {
	req, err := c.Submit(form)
	if err != nil {
		return nil, err
	}

	result, err := a.Analyze(ctx, req)
	if err != nil {
		_ = c.Fail(err)
		return nil, err
	}
	if err := c.Succeed(*result); err != nil {
		return nil, err
	}
	return result, nil
}
