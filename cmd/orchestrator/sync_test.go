package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/reconcile"
)

func TestParseDateRange_EmptyStringsYieldZeroTimes(t *testing.T) {
	since, until, err := parseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, since.IsZero())
	assert.True(t, until.IsZero())
}

func TestParseDateRange_ParsesYYYYMMDD(t *testing.T) {
	since, until, err := parseDateRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), until)
}

func TestParseDateRange_RejectsMalformedDate(t *testing.T) {
	_, _, err := parseDateRange("not-a-date", "")
	assert.Error(t, err)
}

func TestPrintResult_NoProposalsDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		printResult(reconcile.Result{Mode: reconcile.DryRun})
	})
}
