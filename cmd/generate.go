package cmd

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/visionary/internal/batch"
	"github.com/lehigh-university-libraries/visionary/internal/config"
	"github.com/lehigh-university-libraries/visionary/internal/gemini"
	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		aspectRatio string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate one image from a prompt",
		Example: `  visionary generate "a lighthouse on a cliff at dusk" --aspect-ratio 16:9 --output ./out`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ratio, err := models.ParseAspectRatio(aspectRatio)
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
			img, err := ctrl.Generate(cmd.Context(), strings.Join(args, " "), ratio)
			if err != nil {
				return fmt.Errorf("failed to generate image: %w", err)
			}

			path, err := batch.WriteImage(outputDir, img)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&aspectRatio, "aspect-ratio", "a", string(models.DefaultAspectRatio), "Aspect ratio ("+ratioList()+")")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to write the image to")

	return cmd
}

func ratioList() string {
	ratios := models.AspectRatios()
	names := make([]string, len(ratios))
	for i, r := range ratios {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}
