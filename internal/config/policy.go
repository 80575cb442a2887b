package config

import (
	"fmt"
	"os"

	"neckminer/internal/policy"
)

// LoadPolicyFile reads and parses a policy DSL document from disk
// (internal/policy's ParseDSL), producing the three named policies a
// program's properties are merged under.
func LoadPolicyFile(path string) (policy.Policies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return policy.Policies{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return policy.ParseDSL(path, string(data))
}

// DefaultPolicies builds the three default policies spec.md §3 names
// (sum for exit-path summary and basic-block contribution, max for
// exit-path merge) over a known set of property names. Used when no
// policy DSL file is supplied.
func DefaultPolicies(propertyNames ...string) policy.Policies {
	return policy.Policies{
		ExitSummary:  policy.SameDefault(policy.Sum, propertyNames...),
		ExitMerge:    policy.SameDefault(policy.Max, propertyNames...),
		Contribution: policy.SameDefault(policy.Sum, propertyNames...),
	}
}
