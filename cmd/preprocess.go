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
	"os"
	"os/signal"
	"syscall"

	"github.com/packagewjx/workload-profiler/internal/classify"
	"github.com/packagewjx/workload-profiler/internal/pipeline"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	InputDirFlag          = "input-dir"
	OutputFlag            = "output"
	LimitFlag             = "limit"
	LayoutFlag            = "layout"
	DeploymentFileFlag    = "deployment-file"
	UsagePatternFlag      = "usage-pattern"
	HeaderRowFlag         = "header-row"
	DeploymentColumnsFlag = "deployment-columns"
	UsageColumnsFlag      = "usage-columns"
	TimeFormatFlag        = "time-format"
	EpochFlag             = "epoch"
	ClassesFlag           = "classes"
	KMeansRoundFlag       = "kmeans-round"
	StoreDriverFlag       = "store-driver"
	StoreDSNFlag          = "store-dsn"
	MetricsFileFlag       = "metrics-file"
)

// preprocessCmd represents the preprocess command
var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Convert the traces under the input directory into workload profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := configFromViper()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		result, err := pipeline.Run(ctx, config, os.Stdout)
		if err != nil {
			return err
		}
		return result.Summary.Print(os.Stdout)
	},
}

func configFromViper() *pipeline.Config {
	return &pipeline.Config{
		InputDir:          viper.GetString(InputDirFlag),
		Output:            viper.GetString(OutputFlag),
		Limit:             viper.GetInt(LimitFlag),
		Layout:            core.Layout(viper.GetString(LayoutFlag)),
		DeploymentFiles:   viper.GetStringSlice(DeploymentFileFlag),
		UsagePatterns:     viper.GetStringSlice(UsagePatternFlag),
		HeaderRow:         viper.GetInt(HeaderRowFlag),
		DeploymentColumns: viper.GetStringSlice(DeploymentColumnsFlag),
		UsageColumns:      viper.GetStringSlice(UsageColumnsFlag),
		TimeFormat:        core.TimeFormat(viper.GetString(TimeFormatFlag)),
		Epoch:             viper.GetString(EpochFlag),
		MemoryMultiplier:  viper.GetFloat64(MemoryMultiplierFlag),
		SizeCatalog:       viper.GetString(SizeCatalogFlag),
		Classes:           viper.GetInt(ClassesFlag),
		KMeansRound:       viper.GetInt(KMeansRoundFlag),
		StoreDriver:       viper.GetString(StoreDriverFlag),
		StoreDSN:          viper.GetString(StoreDSNFlag),
		MetricsFile:       viper.GetString(MetricsFileFlag),
	}
}

func init() {
	rootCmd.AddCommand(preprocessCmd)

	flags := preprocessCmd.Flags()
	flags.StringP(InputDirFlag, "i", pipeline.DefaultInputDir, "root directory of the trace files")
	flags.StringP(OutputFlag, "o", pipeline.DefaultOutput, "output JSON file")
	flags.IntP(LimitFlag, "n", 0, "read at most this many deployment rows and usage rows, 0 for all")
	flags.String(LayoutFlag, string(core.LayoutSplit),
		"input layout: split (deployment table and usage shards) or vmtable (single table)")
	flags.StringSlice(DeploymentFileFlag, nil, "candidate names of the deployment table")
	flags.StringSlice(UsagePatternFlag, nil, "glob patterns of the usage shards")
	flags.Int(HeaderRowFlag, 0, "index of the header line")
	flags.StringSlice(DeploymentColumnsFlag, nil, "column labels of a deployment table without header")
	flags.StringSlice(UsageColumnsFlag, nil, "column labels of usage shards without header")
	flags.String(TimeFormatFlag, string(core.TimeFormatISO), "output time format: iso or raw")
	flags.String(EpochFlag, pipeline.DefaultEpoch, "origin of relative timestamps")
	flags.Int(ClassesFlag, 0, "label profiles with this many k-means++ workload classes, 0 to disable")
	flags.Int(KMeansRoundFlag, classify.KMeansDefaultRound, "rounds of the k-means algorithm")
	flags.String(StoreDriverFlag, "", "also save the profiles to a database: mysql or postgres")
	flags.String(StoreDSNFlag, "", "data source name of the database")
	flags.String(MetricsFileFlag, "", "write run metrics to this node-exporter textfile")
	_ = viper.BindPFlags(flags)
}
