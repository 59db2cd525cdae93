package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"adstudio/internal/domain"
	"adstudio/internal/domain/adfile"
	"adstudio/internal/prompt"
	"adstudio/internal/workflow"
)

const returnPath = "/create"

// terminalNavigator reports where the workflow would send the user.
type terminalNavigator struct {
	out       io.Writer
	loginPath string
	shown     *domain.JobHandle
}

func (n *terminalNavigator) ShowVideo(h domain.JobHandle) {
	n.shown = &h
	fmt.Fprintf(n.out, "Your video is being generated! Video ID: %s\n", h.VideoID)
	fmt.Fprintf(n.out, "Watch it with: adgen preview %s\n", h.VideoID)
}

func (n *terminalNavigator) RequireLogin(loginPath string) {
	n.loginPath = loginPath
}

func newGenerateCmd() *cobra.Command {
	var (
		from        string
		spec        adfile.Spec
		interactive bool
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create an ad video from a product image and a script",
		Example: `  adgen generate --image shoe.png --name "Nike Air Max" --script "Show comfort" --duration 16
  adgen generate --from ad.yaml
  adgen generate -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := adfile.Spec{}
			if from != "" {
				loaded, err := adfile.Load(from)
				if err != nil {
					return err
				}
				merged = *loaded
			}
			overrideSpec(cmd, &merged, spec)
			merged.Normalize()
			in, err := merged.Inputs()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, prompt.Synthesize(in))
				return nil
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			nav := &terminalNavigator{out: out}
			m := workflow.New(e.submitter(), nav, workflow.Options{
				ReturnPath: returnPath,
				ResetDelay: e.cfg.WorkflowResetDelay,
				Logger:     &e.logger,
			})
			if err := load(m, in); err != nil {
				return err
			}

			if interactive {
				w := newWizard(m, nav, cmd.InOrStdin(), out)
				return w.run(cmd.Context())
			}

			if step, _ := m.Next(cmd.Context()); step != workflow.Customization {
				return errors.New("a product image, product name and script are required (use --image, --name and --script, or --from)")
			}
			fmt.Fprintln(out, "Generating your video. This can take a few minutes...")
			if _, err := m.Next(cmd.Context()); err != nil {
				return explain(err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "YAML file describing the ad")
	f.StringVar(&spec.Image, "image", "", "product image file")
	f.StringVar(&spec.ProductName, "name", "", "product name")
	f.StringVar(&spec.Script, "script", "", "ad script")
	f.StringVar(&spec.MusicVibe, "vibe", "", "music vibe (energetic, calm, dramatic, modern, luxury, fun)")
	f.StringVar(&spec.CustomPrompt, "prompt", "", "additional details for the video")
	f.IntVar(&spec.Duration, "duration", 0, "length in seconds (8, 16 or 24)")
	f.BoolVarP(&interactive, "interactive", "i", false, "walk through the steps interactively")
	f.BoolVar(&dryRun, "dry-run", false, "print the generated prompt without submitting")
	return cmd
}

// overrideSpec applies explicitly set flags on top of a loaded file.
func overrideSpec(cmd *cobra.Command, dst *adfile.Spec, flags adfile.Spec) {
	set := cmd.Flags().Changed
	if set("image") {
		dst.Image = flags.Image
	}
	if set("name") {
		dst.ProductName = flags.ProductName
	}
	if set("script") {
		dst.Script = flags.Script
	}
	if set("vibe") {
		dst.MusicVibe = flags.MusicVibe
	}
	if set("prompt") {
		dst.CustomPrompt = flags.CustomPrompt
	}
	if set("duration") {
		dst.Duration = flags.Duration
	}
}

func load(m *workflow.Machine, in domain.GenerationInputs) error {
	return errors.Join(
		m.SetProductImage(in.ProductImage),
		m.SetProductName(in.ProductName),
		m.SetScript(in.Script),
		m.SetMusicVibe(in.MusicVibe),
		m.SetCustomPrompt(in.CustomPrompt),
		m.SetDuration(in.Duration),
	)
}
