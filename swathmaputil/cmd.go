/*
Copyright © 2025 the SwathMap authors.
This file is part of SwathMap.

SwathMap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SwathMap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SwathMap.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package swathmaputil holds the SwathMap command-line interface.
package swathmaputil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/swathmap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives status messages. Swap it out for a test logger or a
// structured sink as needed.
var Log logrus.FieldLogger = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to SwathMap.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "filelist",
			usage: `
              filelist specifies a text file holding input file paths,
              one per line. Blank lines are skipped. Files given as
              command-line arguments are processed first.`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "out",
			usage: `
              out specifies the directory output files are written to.`,
			shorthand:  "o",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), dumpCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "cutoff",
			usage: `
              cutoff specifies the percentile at which the map color
              scale tops out, suppressing outlier pixels.`,
			defaultVal: 99.5,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "width",
			usage: `
              width specifies the output image width in inches.`,
			defaultVal: 7.0,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "lat",
			usage: `
              lat specifies the latitude to look up, in degrees north.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{atCmd.Flags()},
		},
		{
			name: "lon",
			usage: `
              lon specifies the longitude to look up, in degrees east.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{atCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SWATHMAP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(mapCmd)
	Root.AddCommand(statsCmd)
	Root.AddCommand(listCmd)
	Root.AddCommand(dumpCmd)
	Root.AddCommand(atCmd)
	Root.AddCommand(exportCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("swathmap: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "swathmap",
	Short: "A viewer for OMI NO2 and SO2 satellite swaths.",
	Long: `SwathMap reads OMI level-2 NO2 and SO2 swaths from HDF-EOS5 files
and renders heatmaps, prints statistics, lists datasets, and exports
data. Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the
format 'SWATHMAP_var' where 'var' is the name of the variable to be
set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("SwathMap v%s\n", swathmap.Version)
	},
}
