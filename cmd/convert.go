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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/exo2geo/InputParameters"
	"github.com/notargets/exo2geo/exodus"
	"github.com/notargets/exo2geo/geofest"
	"github.com/notargets/exo2geo/readfiles"
)

type Conversion struct {
	Source     string // Exodus II file, or its text dump when FromDump is set
	FromDump   bool
	ParamsFile string // YAML traction/buoyancy values, prompt when empty
	OutDir     string // Defaults to the directory holding Source
	Policy     InputParameters.Policy
	Verbose    bool
	Dumper     readfiles.Dumper
}

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert mesh.exo",
	Short: "Convert an Exodus II mesh into GeoFEST input files",
	Long: `
Runs ncdump on the Exodus II file, reads the listing and writes the GeoFEST
input files next to it (or into --outDir). Traction and buoyancy values come
from a parameters file, or are asked for when none is given:

########################################
Title: "Slab"
Traction: [0, 0, -1.e6]
Buoyancy: # One entry per side-set after the first
  - Direction: [0, 0, -1]
    Density: 9800.
########################################

exo2geo convert mesh.exo`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		c := &Conversion{
			Source:     args[0],
			FromDump:   viper.GetBool("dump"),
			ParamsFile: viper.GetString("params"),
			OutDir:     viper.GetString("outDir"),
			Verbose:    viper.GetBool("verbose"),
			Dumper: readfiles.NCDump{
				Binary:   viper.GetString("ncdump"),
				KeepDump: viper.GetBool("keepDump"),
			},
		}
		if c.Policy, err = InputParameters.NewPolicy(viper.GetString("onBadInput")); err != nil {
			return
		}
		if viper.GetBool("profile") {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		logger := newLogger(cmd.ErrOrStderr(), c.Verbose)
		return RunConvert(cmd.Context(), c, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("params", "P", "", "YAML file with Traction and Buoyancy values, prompts when empty")
	ConvertCmd.Flags().StringP("outDir", "o", "", "directory for the GeoFEST files (default is the mesh directory)")
	ConvertCmd.Flags().BoolP("dump", "D", false, "input is an ncdump text listing instead of an .exo file")
	ConvertCmd.Flags().String("ncdump", readfiles.DefaultNCDump, "ncdump executable")
	ConvertCmd.Flags().Bool("keepDump", false, "keep the ncdump listing next to the mesh as <name>.txt")
	ConvertCmd.Flags().String("onBadInput", "fail", "malformed prompt input: fail = abort, retry = ask again")
	ConvertCmd.Flags().BoolP("verbose", "v", false, "debug logging")
	ConvertCmd.Flags().Bool("profile", false, "write a CPU profile to the working directory")
	if err := viper.BindPFlags(ConvertCmd.Flags()); err != nil {
		panic(err)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// RunConvert reads the mesh, gathers the physical values and writes every
// GeoFEST file. Nothing is written until the whole listing has been read.
func RunConvert(ctx context.Context, c *Conversion, stdin io.Reader, stdout io.Writer,
	logger *slog.Logger) (err error) {
	var (
		dump io.ReadCloser
		ip   *InputParameters.GeoFESTParameters
	)
	if c.FromDump {
		if dump, err = readfiles.OpenDump(c.Source); err != nil {
			return
		}
	} else {
		if err = readfiles.CheckExodusPath(c.Source); err != nil {
			return
		}
		dumper := c.Dumper
		if dumper == nil {
			dumper = readfiles.NCDump{}
		}
		logger.Info("Dumping Exodus file", slog.String("file", c.Source))
		if dump, err = dumper.Dump(ctx, c.Source); err != nil {
			return
		}
	}
	defer dump.Close()

	if c.ParamsFile != "" {
		if ip, err = readParameters(c.ParamsFile); err != nil {
			return
		}
	}

	mesh, err := exodus.NewScanner(dump, exodus.WithLogger(logger)).Scan()
	if err != nil {
		return fmt.Errorf("%s: %w", c.Source, err)
	}

	if ip == nil {
		prompter := InputParameters.NewPrompter(stdin, stdout, c.Policy, logger)
		if ip, err = prompter.Collect(len(mesh.Buoyancy)); err != nil {
			return
		}
	}
	if err = ip.Validate(len(mesh.Buoyancy)); err != nil {
		return
	}
	if c.Verbose {
		ip.Print()
	}

	outDir := c.OutDir
	if outDir == "" {
		outDir = filepath.Dir(c.Source)
	}
	return geofest.NewEmitter(outDir, logger).WriteAll(mesh, ip.Loads())
}

func readParameters(path string) (ip *InputParameters.GeoFESTParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("unable to read parameters: %w", err)
	}
	ip = &InputParameters.GeoFESTParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("unable to parse parameters %s: %w", path, err)
	}
	return
}
