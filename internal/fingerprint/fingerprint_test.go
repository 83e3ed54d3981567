package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aledsdavies/lox/internal/fingerprint"
)

func TestOfIsDeterministic(t *testing.T) {
	a := fingerprint.Of([]byte("print 1;"))
	b := fingerprint.Of([]byte("print 1;"))
	assert.Equal(t, a, b)
}

func TestOfDiffersForDifferentContent(t *testing.T) {
	a := fingerprint.Of([]byte("print 1;"))
	b := fingerprint.Of([]byte("print 2;"))
	assert.NotEqual(t, a, b)
}

func TestChangedReportsFalseWhenContentIsIdentical(t *testing.T) {
	first := fingerprint.Of([]byte("print 1;"))
	changed, next := fingerprint.Changed(first, []byte("print 1;"))
	assert.False(t, changed)
	assert.Equal(t, first, next)
}

func TestChangedReportsTrueOnFirstObservation(t *testing.T) {
	changed, _ := fingerprint.Changed("", []byte("print 1;"))
	assert.True(t, changed)
}
