package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shouni/etsy-booster-kit/internal/controller"
	"github.com/shouni/etsy-booster-kit/internal/terminal"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
	"github.com/shouni/etsy-booster-kit/pkg/imgutil"
)

func newListingCmd(app *App) *cobra.Command {
	var design, description, outDir string
	cmd := &cobra.Command{
		Use:   "listing",
		Short: "Generate an SEO listing and a lifestyle mockup from a design image",
		Example: `  etsybooster listing --design art.png
  etsybooster listing --design art.png --context "Retro 70s vibe" --out ./out`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := readImage(design)
			if err != nil {
				return err
			}
			broker := app.broker()
			gw, err := app.gateway(broker)
			if err != nil {
				return err
			}
			g, err := controller.NewListingGenerator(gw, broker)
			if err != nil {
				return err
			}
			if err := g.SelectDesign(ref); err != nil {
				return err
			}
			g.SetDescription(description)
			if err := g.Generate(cmd.Context()); err != nil {
				return err
			}

			snap := g.Snapshot()
			terminal.RenderListing(app.Out, snap)
			if snap.State == controller.StateError {
				return errFailed
			}
			if !snap.Mockup.IsZero() {
				path, err := writeImage(filepath.Join(outDir, "mockup"), snap.Mockup)
				if err != nil {
					return err
				}
				terminal.RenderSaved(app.Out, "Lifestyle mockup", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&design, "design", "", "design image file (required)")
	cmd.Flags().StringVar(&description, "context", "", "style or vibe of the design")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to save the lifestyle mockup to")
	_ = cmd.MarkFlagRequired("design")
	return cmd
}

func newMockupCmd(app *App) *cobra.Command {
	var prompt, aspectRatio, resolution, out string
	cmd := &cobra.Command{
		Use:   "mockup",
		Short: "Generate a standalone product mockup from a prompt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			broker := app.broker()
			gw, err := app.gateway(broker)
			if err != nil {
				return err
			}
			m, err := controller.NewMockupStudio(gw, broker)
			if err != nil {
				return err
			}
			settings := controller.MockupSettings{AspectRatio: &aspectRatio, Resolution: &resolution}
			if prompt != "" {
				settings.Prompt = &prompt
			}
			if err := m.Apply(settings); err != nil {
				return err
			}
			if err := m.Generate(cmd.Context()); err != nil {
				return err
			}
			return app.saveResult(m.Snapshot(), m.Snapshot().GenerateState, "Mockup", out)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "product description (default \""+controller.DefaultMockupPrompt+"\")")
	cmd.Flags().StringVar(&aspectRatio, "aspect-ratio", string(domain.AspectRatioSquare), "1:1, 3:4, 4:3, 16:9 or 9:16")
	cmd.Flags().StringVar(&resolution, "resolution", string(domain.Resolution1K), "1K, 2K or 4K")
	cmd.Flags().StringVar(&out, "out", "mockup", "output file (extension is added from the image type)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var image, instruction, out string
	cmd := &cobra.Command{
		Use:     "edit",
		Short:   "Edit an image with a natural language instruction",
		Example: `  etsybooster edit --image mockup.png --instruction "Add a retro filter"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := readImage(image)
			if err != nil {
				return err
			}
			broker := app.broker()
			gw, err := app.gateway(broker)
			if err != nil {
				return err
			}
			m, err := controller.NewMockupStudio(gw, broker)
			if err != nil {
				return err
			}
			if err := m.LoadImage(ref); err != nil {
				return err
			}
			if err := m.Apply(controller.MockupSettings{EditPrompt: &instruction}); err != nil {
				return err
			}
			if err := m.Edit(cmd.Context()); err != nil {
				return err
			}
			snap := m.Snapshot()
			if snap.EditState == controller.StateError {
				terminal.RenderAlert(app.Out, snap.Alert)
				return errFailed
			}
			if snap.Result == ref {
				fmt.Fprintln(app.Out, terminal.WarningStyle.Render("No edited image was returned."))
				return nil
			}
			return app.saveResult(snap, snap.EditState, "Edited image", out)
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "image file to edit (required)")
	cmd.Flags().StringVar(&instruction, "instruction", "", "edit instruction (required)")
	cmd.Flags().StringVar(&out, "out", "edited", "output file (extension is added from the image type)")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("instruction")
	return cmd
}

func (a *App) saveResult(snap controller.MockupSnapshot, state controller.State, what, out string) error {
	if state == controller.StateError {
		terminal.RenderAlert(a.Out, snap.Alert)
		return errFailed
	}
	if snap.Result.IsZero() {
		fmt.Fprintln(a.Out, terminal.WarningStyle.Render("No image was returned."))
		return nil
	}
	path, err := writeImage(out, snap.Result)
	if err != nil {
		return err
	}
	terminal.RenderSaved(a.Out, what, path)
	return nil
}

// readImage は画像ファイルを data URI として読み込みます。
func readImage(path string) (domain.ImageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("画像の読み込みに失敗しました: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", path, imgutil.ErrEmptyImage)
	}
	return imgutil.EncodeDataURI(data, imgutil.DetectMIMEType(data)), nil
}

// writeImage は data URI をデコードし、MIME タイプに合った拡張子で保存します。
func writeImage(base string, ref domain.ImageRef) (string, error) {
	data, mimeType, err := imgutil.DecodeDataURI(ref)
	if err != nil {
		return "", err
	}
	path := base
	if filepath.Ext(path) == "" {
		path += imgutil.Extension(mimeType)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました: %w", err)
	}
	return path, nil
}
