package main

import (
	"fmt"
	"os"

	"github.com/drakos74/free-learn/infra/config"
	"github.com/drakos74/free-learn/internal/analysis"
	"github.com/drakos74/free-learn/internal/metrics"
	"github.com/drakos74/free-learn/internal/pipeline"
	"github.com/drakos74/free-learn/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	if err := root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func root() *cobra.Command {
	var (
		debug     bool
		configDir string
	)
	cmd := &cobra.Command{
		Use:           "free-learn",
		Short:         "Analyses tabular datasets with clustering and classification methods",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")
	cmd.PersistentFlags().StringVar(&configDir, "config", config.Dir, "directory of the json config files")
	cmd.AddCommand(analyze(&configDir), serve(&configDir))
	return cmd
}

func loadAnalysis(dir string) (analysis.Config, error) {
	cfg := analysis.DefaultConfig()
	if err := config.LoadFrom(dir, analysis.ConfigKey, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func analyze(configDir *string) *cobra.Command {
	var (
		method     string
		evaluation string
		class      string
	)
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Runs the analysis method on a csv or arff file and prints the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAnalysis(*configDir)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open input: %w", err)
			}
			defer f.Close()
			text := pipeline.New(cfg).Analyze(pipeline.Request{
				Name:           args[0],
				Data:           f,
				Method:         method,
				Evaluation:     evaluation,
				ClassAttribute: class,
			})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", string(analysis.Classification),
		"one of clustering, classification, kmeans, neuralnetwork, randomforest")
	cmd.Flags().StringVarP(&evaluation, "evaluation", "e", "", "'cross-validation' or empty for the training set")
	cmd.Flags().StringVarP(&class, "class", "c", "", "the class attribute, the last attribute if empty")
	return cmd
}

func serve(configDir *string) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the analysis over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAnalysis(*configDir)
			if err != nil {
				return err
			}
			srvCfg := server.DefaultConfig()
			config.MustLoadFrom(*configDir, server.ConfigKey, &srvCfg)
			if cmd.Flags().Changed("port") {
				srvCfg.Port = port
			}
			p := pipeline.New(cfg)
			srv := server.NewServer("free-learn", srvCfg.Port).
				AllowOrigin(srvCfg.Origin).
				Add(server.Live(),
					server.Upload(p, srvCfg.MaxUpload),
					server.File(p, srvCfg.MaxUpload, srvCfg.SpoolDir)).
				Handle("/metrics", metrics.Handler())
			if zerolog.GlobalLevel() <= zerolog.DebugLevel {
				srv.Debug()
			}
			log.Info().Int("port", srvCfg.Port).Str("origin", srvCfg.Origin).Msg("serving analysis")
			return srv.Run()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on, overrides the config")
	return cmd
}
