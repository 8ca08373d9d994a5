/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/output"
	"github.com/joshuahansel/sem-go/problem"
)

var (
	deckFile   string
	printDeck  bool
	profileRun bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a two-fluid flow problem from a YAML input deck",
	Long: `
Reads the input deck, builds the run context and advances the solution to
end_time with implicit Euler steps, writing solution output as configured
in the deck's Output block.

sem-go run -i faucet.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileRun {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		data, err := os.ReadFile(deckFile)
		if err != nil {
			return err
		}
		params := &InputParameters.Parameters{}
		if err := params.Parse(data); err != nil {
			return fmt.Errorf("unable to parse input deck %s: %w", deckFile, err)
		}
		if printDeck {
			params.Print()
		}
		return runProblem(params)
	},
}

func runProblem(params *InputParameters.Parameters) error {
	p, err := problem.Build(params)
	if err != nil {
		return err
	}

	var csvWriter *output.CSVWriter
	if params.Output.SaveSolution || params.Output.PlotSolution {
		csvWriter = output.NewCSVWriter(params.Output.SolutionFile)
		p.Executioner.AddObserver(csvWriter.Observe)
	}

	if err := p.Executioner.Run(); err != nil {
		return err
	}
	logrus.Infof("run complete: %d steps to t = %g", p.Executioner.StepIndex(), p.Executioner.CurrentTime())

	if params.Output.SaveSolution {
		if err := csvWriter.Write(); err != nil {
			return fmt.Errorf("unable to write solution file: %w", err)
		}
		logrus.Infof("solution written to %s", params.Output.SolutionFile)
	}
	if params.Output.PlotSolution {
		snap, err := p.Assembler.Snapshot(p.Executioner.Solution(),
			p.Executioner.CurrentTime(), p.Executioner.StepIndex())
		if err != nil {
			return err
		}
		plotFile := params.Output.PlotFile
		if plotFile == "" {
			plotFile = "solution.png"
		}
		if err := output.SavePlot(snap, plotFile); err != nil {
			return fmt.Errorf("unable to write plot file: %w", err)
		}
		logrus.Infof("plot written to %s", plotFile)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&deckFile, "input", "i", "input.yaml", "YAML input deck")
	runCmd.Flags().BoolVar(&printDeck, "print", false, "echo the parsed input deck before running")
	runCmd.Flags().BoolVar(&profileRun, "profile", false, "write a CPU profile to the working directory")
}
