// Copyright © 2026 Arka Labs

// Package cmd implements the hcm command line, a thin collaborator over
// the core engines.
package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arkalabs/hcm/pkg/core"
	"github.com/arkalabs/hcm/pkg/dlog"
	"github.com/arkalabs/hcm/pkg/storage/localfs"
)

var params = struct {
	root     string
	logLevel string
}{}

var rootCmd = &cobra.Command{
	Use:   "hcm",
	Short: "hcm manages a file-tree record store",
	Long: `hcm persists structured records as immutable, content-addressed versions
in a hierarchical file tree: mission state, contracts, enterprise
documents, project profiles, packs and binary artifacts, plus a
classification-driven scoped search over the tree.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&params.root, "root", "", "storage root directory")
	rootCmd.PersistentFlags().StringVar(&params.logLevel, "log", dlog.LevelInfo, "log level (debug, info, none)")
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("log", rootCmd.PersistentFlags().Lookup("log"))
}

func initConfig() {
	viper.SetDefault("root", ".hcm")
	viper.SetDefault("log", dlog.LevelInfo)
	if cfg := os.Getenv("HCM_CONFIG"); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.hcm")
		viper.AddConfigPath("/etc/hcm")
		viper.SetConfigName("hcm")
	}
	viper.SetEnvPrefix("HCM")
	viper.AutomaticEnv()
	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}

// newCore builds the engine bundle from the resolved configuration.
func newCore() *core.Core {
	log := dlog.MustNew(viper.GetString("log"))
	store := localfs.New(viper.GetString("root"), localfs.WithLogger(log))
	return core.New(store, core.WithLogger(log))
}

// printJSON renders a result on stdout.
func printJSON(v interface{}) error {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
