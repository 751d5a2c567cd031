package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/visionary/internal/batch"
	"github.com/lehigh-university-libraries/visionary/internal/config"
	"github.com/lehigh-university-libraries/visionary/internal/gemini"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var (
		promptsPath string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate images for every prompt in a YAML or Parquet file",
		Long: `Runs each prompt in order, one request at a time, then writes every image
and a manifest.yaml (newest first) to the output directory. Prompts that fail
are listed in the manifest instead of stopping the run.

YAML files hold a list of {prompt, aspect_ratio}; Parquet files need a
"prompt" column and an optional "aspect_ratio" column.`,
		Example: `  visionary batch --prompts prompts.yaml --output ./out
  visionary batch --prompts prompts.parquet --output ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := batch.LoadPrompts(promptsPath)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			generator, err := gemini.New(cfg.Provider, cfg.ImageModel)
			if err != nil {
				return err
			}

			ctrl := studio.New(generator, studio.WithThumbnailer(nil))
			failures, runErr := batch.Run(cmd.Context(), ctrl, prompts)

			manifest, err := batch.Export(outputDir, ctrl.Records(), failures)
			if err != nil {
				return err
			}
			slog.Info("Batch finished", "generated", len(ctrl.Records()), "failed", len(failures), "manifest", manifest)
			if runErr != nil {
				return runErr
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d prompts failed", len(failures), len(prompts))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&promptsPath, "prompts", "", "Prompt file (.yaml, .yml or .parquet)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "out", "Directory to write images and manifest to")
	_ = cmd.MarkFlagRequired("prompts")

	return cmd
}
