package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myjellybean/jellybean/internal/model"
)

func result(score int) model.AnalysisResult {
	return model.AnalysisResult{
		Category:     model.CategoryUncertain,
		RiskScore:    score,
		Confidence:   0.5,
		TopSignals:   []string{fmt.Sprintf("signal %d", score)},
		WhyItMatters: "why",
		DoThisNow:    []string{"verify"},
		SaferReply:   "reply",
		ReportSummary: model.ReportSummary{
			WhatHappened:      "something",
			WhyRisky:          []string{},
			NextSteps:         []string{"block"},
			EvidenceChecklist: []string{},
		},
		Limitations: "limited",
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "history.json"), nil)
	s.Load()
	assert.Empty(t, s.Entries())
}

func TestAppendCapsAndOrders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.json")
	s := NewStore(path, nil)
	s.Load()

	for i := 1; i <= 11; i++ {
		require.NoError(t, s.Append(result(i)))
		assert.LessOrEqual(t, s.Len(), MaxEntries)
		assert.Equal(t, i, s.Entries()[0].RiskScore, "most recent first")
	}

	entries := s.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, 11, entries[0].RiskScore)
	assert.Equal(t, 2, entries[MaxEntries-1].RiskScore, "oldest evicted")

	reloaded := NewStore(path, nil)
	reloaded.Load()
	assert.Equal(t, entries, reloaded.Entries())
}

func TestLoadCorruptBlob(t *testing.T) {
	tests := map[string]string{
		"not json":      "{{{",
		"wrong shape":   `{"entries": []}`,
		"invalid entry": `[{"category": "scam_fraud", "risk_score": 500}]`,
	}
	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history.json")
			require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

			s := NewStore(path, nil)
			s.Load()
			assert.Empty(t, s.Entries())

			_, err := s.read()
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestLoadDiscardsWholeBlobOnOneBadEntry(t *testing.T) {
	good, err := json.Marshal(result(10))
	require.NoError(t, err)
	blob := fmt.Sprintf(`[%s, {"category": "safe"}]`, good)

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o600))

	s := NewStore(path, nil)
	s.Load()
	assert.Empty(t, s.Entries())
}

func TestClearPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s := NewStore(path, nil)
	require.NoError(t, s.Append(result(40)))
	require.NoError(t, s.Clear())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestResultStoreCurrentIsPerSession(t *testing.T) {
	log := NewStore("", nil)
	a, b := NewResultStore(log), NewResultStore(log)
	assert.Nil(t, a.Current())

	a.SetCurrent(result(80))
	assert.Equal(t, 80, a.Current().RiskScore)
	assert.Nil(t, b.Current(), "sessions do not share a current result")
	assert.Empty(t, log.Entries(), "current is independent of history")

	a.SetCurrent(result(20))
	assert.Equal(t, 20, a.Current().RiskScore)

	require.NoError(t, b.AppendHistory(result(5)))
	assert.Equal(t, 1, a.Log().Len())
}

func TestMemoryOnlyStore(t *testing.T) {
	s := NewStore("", nil)
	s.Load()
	require.NoError(t, s.Append(result(1)))
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Path())
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	s := NewStore(filepath.Join(blocker, "history.json"), nil)
	err := s.Append(result(5))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "history.json"), nil)
	require.NoError(t, s.Append(result(1)))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "history.json", files[0].Name())
}
