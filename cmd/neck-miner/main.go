// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"neckminer/internal/config"
	"neckminer/internal/ir"
	"neckminer/internal/neckerr"
	"neckminer/internal/pathsum"
	"neckminer/internal/policy"
	"neckminer/internal/scenario"
	"neckminer/internal/search"
)

func main() {
	verbose := flag.Bool("v", false, "trace explorer/driver state transitions")
	step := flag.Bool("step", false, "single-step through the search, one Enter per visit")
	policyPath := flag.String("policy", "", "policy DSL file (defaults to sum/max/sum over every property the program uses)")
	verify := flag.Bool("verify", false, "replay embedded scenario expectations and report pass/fail")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: neck-miner [-v] [-step] [-verify] [-policy file] <program.yaml>")
		os.Exit(1)
	}

	path := flag.Arg(0)

	loaded, err := config.LoadProgramFile(path)
	if err != nil {
		color.Red("failed to load program: %s", err)
		os.Exit(1)
	}

	policies, err := resolvePolicies(*policyPath, loaded.Program)
	if err != nil {
		color.Red("failed to load policy: %s", err)
		os.Exit(1)
	}

	logger := newLogger(*verbose)

	engine, err := search.NewEngine(loaded.Program, loaded.Participation, policies, loaded.StartFunc, logger)
	if err != nil {
		reportEngineError(err)
		os.Exit(1)
	}

	switch {
	case *step:
		if err := runStepper(os.Stdin, engine, loaded.Program, policies); err != nil {
			reportEngineError(err)
			os.Exit(1)
		}
	case *verify:
		if err := scenario.Replay(loaded.Program, engine, policies, loaded.Scenario); err != nil {
			color.Red("verify: FAIL: %s", err)
			os.Exit(1)
		}
		color.Green("✅ verify: all embedded expectations held for %s", path)
	default:
		if err := runBatch(engine, loaded.Program, policies); err != nil {
			reportEngineError(err)
			os.Exit(1)
		}
		color.Green("✅ search complete for %s", path)
	}
}

// resolvePolicies loads the policy DSL file if given, else builds the
// sum/max/sum defaults over every property name the program's blocks
// actually use.
func resolvePolicies(policyPath string, prog ir.Program) (policy.Policies, error) {
	if policyPath != "" {
		return config.LoadPolicyFile(policyPath)
	}
	return config.DefaultPolicies(propertyNames(prog)...), nil
}

func propertyNames(prog ir.Program) []string {
	seen := map[string]bool{}
	var names []string
	for _, fn := range prog {
		for _, b := range fn.Bbs {
			for prop := range b.Props {
				if !seen[prop] {
					seen[prop] = true
					names = append(names, prop)
				}
			}
		}
	}
	return names
}

// runBatch drives the engine to completion, printing each visit.
func runBatch(engine *search.Engine, prog ir.Program, policies policy.Policies) error {
	visitor := func(funcName, block string, chokep, forbidden bool, path pathsum.CompletePath) bool {
		printVisit(prog, funcName, block, chokep, forbidden, path, policies)
		return true
	}
	_, _, err := engine.VisitAll(visitor)
	return err
}

func printVisit(prog ir.Program, funcName, block string, chokep, forbidden bool, path pathsum.CompletePath, policies policy.Policies) {
	label := fmt.Sprintf("%s@%s", funcName, block)
	if chokep && !forbidden {
		color.Cyan("neck-candidate %s", label)
	} else if chokep {
		color.Yellow("chokep(forbidden) %s", label)
	} else {
		fmt.Printf("visit %s\n", label)
	}

	summary, err := pathsum.SummarizeCompletePath(prog, path, policies)
	if err != nil {
		color.Red("  summary error: %s", err)
		return
	}
	fmt.Printf("  summary: %v\n", summary)
}

func reportEngineError(err error) {
	if ee, ok := err.(*neckerr.EngineError); ok {
		fmt.Print(neckerr.NewReporter().Format(ee))
		return
	}
	color.Red("error: %s", err)
}
