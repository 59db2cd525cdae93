package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"adstudio/internal/domain"
	"adstudio/internal/domain/adfile"
	"adstudio/internal/prompt"
	"adstudio/internal/workflow"
)

var errCancelled = errors.New("cancelled")

// wizard walks the creation dialog on a terminal.
type wizard struct {
	m   *workflow.Machine
	nav *terminalNavigator
	in  *bufio.Reader
	out io.Writer
}

func newWizard(m *workflow.Machine, nav *terminalNavigator, in io.Reader, out io.Writer) *wizard {
	return &wizard{m: m, nav: nav, in: bufio.NewReader(in), out: out}
}

func (w *wizard) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch w.m.Step() {
		case workflow.Details:
			err = w.details(ctx)
		case workflow.Customization:
			var done bool
			done, err = w.customize(ctx)
			if done || err != nil {
				if errors.Is(err, errCancelled) {
					if cerr := w.m.Close(); cerr != nil {
						return cerr
					}
					fmt.Fprintln(w.out, "Cancelled.")
					return nil
				}
				return err
			}
		case workflow.Generating:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ask prints label with its default and returns the answer, or def when the
// answer is blank.
func (w *wizard) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(w.out, "%s: ", label)
	}
	line, err := w.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", io.ErrUnexpectedEOF
	}
	if line = strings.TrimSpace(line); line != "" {
		return line, nil
	}
	return def, nil
}

func (w *wizard) details(ctx context.Context) error {
	fmt.Fprintln(w.out, "\nStep 1 of 2: Product details")
	cur := w.m.Inputs()

	imgDef := ""
	if cur.ProductImage != nil {
		imgDef = cur.ProductImage.Name
	}
	path, err := w.ask("Product image", imgDef)
	if err != nil {
		return err
	}
	if path != "" && path != imgDef {
		img, err := adfile.ReadImage(path)
		if err != nil {
			fmt.Fprintf(w.out, "Could not read image: %v\n", err)
		} else if err := w.m.SetProductImage(img); err != nil {
			return err
		}
	}

	name, err := w.ask("Product name", cur.ProductName)
	if err != nil {
		return err
	}
	script, err := w.ask("Ad script", cur.Script)
	if err != nil {
		return err
	}
	if err := errors.Join(w.m.SetProductName(name), w.m.SetScript(script)); err != nil {
		return err
	}

	if !w.m.CanProceed() {
		fmt.Fprintln(w.out, "Add a product image, a product name and a script to continue.")
		return nil
	}
	_, err = w.m.Next(ctx)
	return err
}

func (w *wizard) customize(ctx context.Context) (bool, error) {
	fmt.Fprintln(w.out, "\nStep 2 of 2: Customize")
	cur := w.m.Inputs()

	vibes := domain.MusicVibes()
	fmt.Fprintln(w.out, "  0) None")
	for i, v := range vibes {
		fmt.Fprintf(w.out, "  %d) %s\n", i+1, v.Label())
	}
	vibeDef := string(cur.MusicVibe)
	if vibeDef == "" {
		vibeDef = "none"
	}
	raw, err := w.ask("Music vibe", vibeDef)
	if err != nil {
		return false, err
	}
	if vibe, ok := pickVibe(raw, vibes); ok {
		if err := w.m.SetMusicVibe(vibe); err != nil {
			return false, err
		}
	} else {
		fmt.Fprintf(w.out, "Unknown music vibe %q, keeping %s\n", raw, vibeDef)
	}

	custom, err := w.ask("Additional details", cur.CustomPrompt)
	if err != nil {
		return false, err
	}
	if err := w.m.SetCustomPrompt(custom); err != nil {
		return false, err
	}

	rawDur, err := w.ask("Duration (8s, 16s, 24s)", cur.Duration.String())
	if err != nil {
		return false, err
	}
	if d, err := domain.ParseDuration(rawDur); err != nil {
		fmt.Fprintf(w.out, "%s, keeping %s\n", domain.UserMessage(err), cur.Duration)
	} else if err := w.m.SetDuration(d); err != nil {
		return false, err
	}

	fmt.Fprintf(w.out, "\nPrompt:\n%s\n\n", prompt.Synthesize(w.m.Inputs()))
	choice, err := w.ask("Generate video? (y)es, (b)ack, (q)uit", "y")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(choice) {
	case "b", "back":
		_, err := w.m.Back()
		return false, err
	case "q", "quit":
		return true, errCancelled
	case "y", "yes":
	default:
		return false, nil
	}

	fmt.Fprintln(w.out, "Generating your video. This can take a few minutes...")
	if _, err := w.m.Next(ctx); err != nil {
		if w.nav.loginPath != "" {
			return true, explain(err)
		}
		fmt.Fprintf(w.out, "Error: %s\n", domain.UserMessage(err))
		return false, nil
	}
	return true, nil
}

func pickVibe(raw string, vibes []domain.MusicVibe) (domain.MusicVibe, bool) {
	if strings.EqualFold(raw, "none") {
		return domain.VibeNone, true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n == 0 {
			return domain.VibeNone, true
		}
		if n > 0 && n <= len(vibes) {
			return vibes[n-1], true
		}
		return "", false
	}
	v, err := domain.ParseMusicVibe(raw)
	if err != nil {
		return "", false
	}
	return v, true
}
