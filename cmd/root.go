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
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/packagewjx/workload-profiler/internal/sizing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "WORKLOAD_PROFILER"

// Global Flags
const (
	MemoryMultiplierFlag = "memory-multiplier"
	SizeCatalogFlag      = "size-catalog"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "workload-profiler",
	Short: "Turn cloud VM traces into workload profiles for a placement simulator",
	Long: `workload-profiler reads VM deployment records and CPU/memory usage samples,
reconciles their columns, resolves VM sizes, joins samples to deployment windows and
writes one JSON array of workload profiles.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.workload-profiler.yaml)")
	rootCmd.PersistentFlags().Float64(MemoryMultiplierFlag, sizing.DefaultMemoryMultiplier,
		"GiB of memory per vCPU assumed for sizes missing from the table")
	rootCmd.PersistentFlags().String(SizeCatalogFlag, "",
		"JSON or YAML file with extra VM sizes, overriding the built-in table")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".workload-profiler" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".workload-profiler")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Println("Cannot read config file:", err)
		os.Exit(1)
	}
}
