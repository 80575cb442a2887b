package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDSLSingleProperty(t *testing.T) {
	source := `
property numSucceededLoopHeads {
    exit: sum
    merge: max
    contribution: sum
}
`
	policies, err := ParseDSL("policy.txt", source)
	assert.NoError(t, err)
	assert.NotNil(t, policies.ExitSummary["numSucceededLoopHeads"])
	assert.NotNil(t, policies.ExitMerge["numSucceededLoopHeads"])
	assert.NotNil(t, policies.Contribution["numSucceededLoopHeads"])
}

func TestParseDSLMultiplePropertiesAndComments(t *testing.T) {
	source := `
// loop counters
property loopHeads {
    exit: sum
    merge: max
    contribution: sum
}

property firstError {
    exit: first
    merge: min
    contribution: last
}
`
	policies, err := ParseDSL("policy.txt", source)
	assert.NoError(t, err)
	assert.Len(t, policies.ExitSummary, 2)
	assert.Equal(t, 5, policies.ExitSummary["firstError"](nil, 5))
}

func TestParseDSLUnknownOperatorFails(t *testing.T) {
	source := `
property x {
    exit: bogus
    merge: max
    contribution: sum
}
`
	_, err := ParseDSL("policy.txt", source)
	assert.Error(t, err, "an unrecognized operator name must fail rather than silently default")
	assert.Contains(t, err.Error(), "bogus")
}

func TestParseDSLMalformedSyntaxFails(t *testing.T) {
	_, err := ParseDSL("policy.txt", "property x { exit: sum")
	assert.Error(t, err)
}
