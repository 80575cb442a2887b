// Package config loads the two on-disk, declarative inputs the engine
// needs: a YAML program description (function table, participation set,
// and optional embedded scenario expectations) and the policy DSL of
// internal/policy. Neither the teacher nor any single pack repo parses
// data shaped like this, so the YAML side follows the pack's general
// habit (github.com/tliron/commonlog's own dependency graph, and the
// go-edu minis) of reaching for gopkg.in/yaml.v3 for record-shaped
// configuration rather than hand-rolling a parser.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"neckminer/internal/ir"
	"neckminer/internal/scenario"
)

// scenarioEntry is one YAML-level visit expectation, matching
// scenario.VisitExpectation but with omitempty semantics for fixtures
// that only care about part of the expectation.
type scenarioEntry struct {
	Summary map[string]int `yaml:"summary,omitempty"`
	Path    []string       `yaml:"path,omitempty"`
}

// document is the on-disk shape of a program description: the function
// table of spec.md §6, the participation set, the start function, and
// optional per-block scenario expectations (spec.md §8).
type document struct {
	Start         string                     `yaml:"start"`
	Participation []string                   `yaml:"participation"`
	Functions     ir.Program                 `yaml:"functions"`
	Scenario      map[string][]scenarioEntry `yaml:"scenario,omitempty"`
}

// Loaded bundles everything parsed out of a program description file.
type Loaded struct {
	Program       ir.Program
	Participation ir.ParticipationSet
	StartFunc     string
	Scenario      *scenario.Scenario
}

// LoadProgramFile reads and parses a YAML program description from
// disk, validating the structural invariants of ir.Program.Validate
// before returning.
func LoadProgramFile(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return LoadProgram(path, data)
}

// LoadProgram parses a YAML program description already read into
// memory. filename is used only for error messages.
func LoadProgram(filename string, data []byte) (Loaded, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Loaded{}, fmt.Errorf("config: parsing %s: %w", filename, err)
	}

	if doc.Start == "" {
		return Loaded{}, fmt.Errorf("config: %s: missing top-level \"start\" function name", filename)
	}
	if err := doc.Functions.Validate(); err != nil {
		// Returned as-is, not re-wrapped: Validate already returns a
		// *neckerr.EngineError (E1202 MalformedProgram), and wrapping
		// it in fmt.Errorf would hide that dynamic type from
		// cmd/neck-miner's coded-error reporter.
		return Loaded{}, err
	}

	participation := make(ir.ParticipationSet, len(doc.Participation))
	for _, name := range doc.Participation {
		participation[name] = true
	}

	sc := &scenario.Scenario{Expectations: map[string][]scenario.VisitExpectation{}}
	for key, entries := range doc.Scenario {
		exps := make([]scenario.VisitExpectation, len(entries))
		for i, e := range entries {
			exps[i] = scenario.VisitExpectation{Path: e.Path, Summary: e.Summary}
		}
		sc.Expectations[key] = exps
	}

	return Loaded{
		Program:       doc.Functions,
		Participation: participation,
		StartFunc:     doc.Start,
		Scenario:      sc,
	}, nil
}
