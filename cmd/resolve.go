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

	"github.com/packagewjx/workload-profiler/internal/sizing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveCmd represents the resolve-size command
var resolveCmd = &cobra.Command{
	Use:   "resolve-size ID...",
	Short: "Print the vCPU count and memory of VM size identifiers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := sizing.NewResolver(viper.GetFloat64(MemoryMultiplierFlag))
		if catalog := viper.GetString(SizeCatalogFlag); catalog != "" {
			entries, err := sizing.LoadCatalog(catalog)
			if err != nil {
				return err
			}
			resolver.Merge(entries)
		}

		out := cmd.OutOrStdout()
		for _, id := range args {
			spec, err := resolver.Resolve(id)
			if err != nil {
				fmt.Fprintf(out, "%s\t%v\n", id, err)
				continue
			}
			fmt.Fprintf(out, "%s\t%d vCPU\t%g GiB\t%s\n", id, spec.VCPUs, spec.MemoryGiB, spec.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
