// SPDX-License-Identifier: Apache-2.0
package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"neckminer/internal/ir"
	"neckminer/internal/pathsum"
	"neckminer/internal/policy"
	"neckminer/internal/search"
)

// runStepper is the interactive counterpart of runBatch: one VisitNext
// per line of input, grounded on repl/repl.go's bufio.Scanner read-eval-
// print loop shape but advancing the search engine instead of parsing a
// line of source. Blank input and "n"/"next" both step once; "q"/"quit"
// stops early.
func runStepper(in io.Reader, engine *search.Engine, prog ir.Program, policies policy.Policies) error {
	scanner := bufio.NewScanner(in)
	color.Cyan("neck-miner interactive stepper — Enter to step, q to quit")

	for !engine.Finished() {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		switch scanner.Text() {
		case "q", "quit":
			return nil
		}

		var printed bool
		visitor := func(funcName, block string, chokep, forbidden bool, path pathsum.CompletePath) bool {
			printed = true
			printVisit(prog, funcName, block, chokep, forbidden, path, policies)
			return true
		}

		_, visitorCalled, _, err := engine.VisitNext(visitor)
		if err != nil {
			return err
		}
		if !visitorCalled || !printed {
			color.Yellow("(no visit — search already finished)")
		}
	}

	color.Green("search complete")
	return nil
}
