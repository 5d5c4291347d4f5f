package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"labeler/internal/annotation"
	"labeler/internal/config"
	"labeler/internal/items"
	"labeler/internal/labels"
	"labeler/internal/logging"
	"labeler/internal/render"
	"labeler/internal/services"
	"labeler/internal/store"
	"labeler/internal/tui"
)

type annotateOptions struct {
	labels      []string
	rangeSpec   string
	output      string
	shuffle     bool
	seed        int64
	noSkip      bool
	resume      bool
	skipLabeled bool
	threshold   int
	plain       bool
}

func newAnnotateCommand(ctx *commandContext) *cobra.Command {
	var opts annotateOptions

	cmd := &cobra.Command{
		Use:   "annotate <source>",
		Short: "Label a directory of images or a file of texts",
		Long: `Label every item of <source> and write the results to the output document.

<source> may be a directory (images, walked recursively), a .json file holding
an array of strings, or a text file with one item per line.

Labels are a fixed list (--labels), a numeric range (--range min:max[:step])
or free text when neither is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, ctx, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.labels, "labels", nil, "Comma-separated label options")
	flags.StringVar(&opts.rangeSpec, "range", "", "Numeric label range as min:max[:step]")
	flags.StringVarP(&opts.output, "output", "o", "", "Annotation document path (defaults to annotate.output)")
	flags.BoolVar(&opts.shuffle, "shuffle", false, "Present items in random order")
	flags.Int64Var(&opts.seed, "seed", 0, "Seed for --shuffle (0 picks a random order)")
	flags.BoolVar(&opts.noSkip, "no-skip", false, "Hide the skip control")
	flags.BoolVar(&opts.resume, "resume", false, "Keep labels from an existing output document")
	flags.BoolVar(&opts.skipLabeled, "skip-labeled", false, "Leave out items already labeled in the output document (implies --resume)")
	flags.IntVar(&opts.threshold, "dropdown-threshold", 0, "Largest option count shown as buttons")
	flags.BoolVar(&opts.plain, "plain", false, "Use line-oriented prompts instead of the full-screen interface")
	cmd.MarkFlagsMutuallyExclusive("labels", "range")

	return cmd
}

func runAnnotate(cmd *cobra.Command, ctx *commandContext, source string, opts annotateOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	labelCfg, err := labelConfig(opts)
	if err != nil {
		return err
	}
	applyAnnotateDefaults(cmd, cfg, &opts)

	output := cfg.Annotate.Output
	if strings.TrimSpace(opts.output) != "" {
		if output, err = config.ExpandPath(opts.output); err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	interactive := !opts.plain && isTerminal(in) && isTerminal(out)

	baseLogger, err := ctx.logger(interactive)
	if err != nil {
		return err
	}
	sessionID := uuid.NewString()
	runCtx := services.WithSessionID(cmd.Context(), sessionID)
	logger := logging.WithContext(services.WithComponent(runCtx, "annotate"), baseLogger)

	src, err := items.Load(source, cfg.IsImageFile)
	if err != nil {
		return err
	}

	st, err := store.Open(output, baseLogger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Warn("release annotation lock failed", logging.Error(closeErr))
		}
	}()

	list := src.Items
	var prior []annotation.Annotation
	if opts.resume || opts.skipLabeled {
		doc, loadErr := store.Load(output)
		switch {
		case loadErr == nil:
			prior = doc.Annotations()
			if opts.skipLabeled {
				list = items.WithoutLabeled(list, func(key string) bool {
					_, ok := doc.Get(key)
					return ok
				})
			}
		case errors.Is(loadErr, services.ErrSourceNotFound):
			logger.Info("no existing annotations to resume", logging.String("annotation_path", output))
		default:
			return loadErr
		}
	} else if _, statErr := os.Stat(output); statErr == nil {
		logging.WarnWithContext(logger, "existing annotation document will be replaced", "annotation_overwrite",
			logging.String("annotation_path", output),
			logging.Alert("overwrite"),
			logging.String(logging.FieldImpact, "labels already in the document are lost on the first submission"),
			logging.String(logging.FieldErrorHint, "pass --resume to keep them"),
		)
	}

	renderer := render.New(src, cfg.Annotate.MaxTextWidth)
	sessionOpts := []annotation.Option{
		annotation.WithIncludeSkip(!opts.noSkip),
		annotation.WithChoiceThreshold(opts.threshold),
		annotation.WithRenderer(renderer.Render),
		annotation.WithPersister(st),
		annotation.WithLogger(baseLogger),
		annotation.WithPrior(prior),
		annotation.WithSessionID(sessionID),
	}
	if opts.shuffle {
		var rng *rand.Rand
		if opts.seed != 0 {
			rng = rand.New(rand.NewPCG(uint64(opts.seed), uint64(opts.seed)))
		}
		sessionOpts = append(sessionOpts, annotation.WithShuffle(rng))
	}
	session := annotation.New(list, labelCfg, sessionOpts...)

	logger.Info("annotation session starting",
		logging.String("source", source),
		logging.String("item_kind", src.Kind.String()),
		logging.Int("item_count", len(list)),
		logging.Int("prior_annotations", len(prior)),
		logging.String("annotation_path", output),
		logging.Bool("interactive", interactive),
	)

	completed, err := runSession(runCtx, session, renderer, in, out, interactive)
	if err != nil {
		return err
	}

	saved := store.Collapse(session.Annotations()).Len()
	logger.Info("annotation session finished",
		logging.Bool("completed", completed),
		logging.Int("annotation_count", saved),
	)
	if !completed {
		fmt.Fprintf(out, "Stopped early; %d annotations saved to %s\n", saved, output)
		return nil
	}
	fmt.Fprintf(out, "Saved %d annotations to %s\n", saved, output)
	return nil
}

func runSession(ctx context.Context, session *annotation.Session, renderer *render.Renderer, in io.Reader, out io.Writer, interactive bool) (bool, error) {
	if !interactive {
		res, err := tui.RunLines(ctx, session, renderer, in, out)
		return res.Completed, err
	}
	if err := tui.Start(session); err != nil {
		return false, err
	}
	model := tui.NewModel(session, renderer)
	if err := tui.Run(ctx, model, in, out); err != nil {
		return false, err
	}
	return session.Done(), nil
}

func labelConfig(opts annotateOptions) (labels.Config, error) {
	switch {
	case len(opts.labels) > 0:
		return labels.Enumerated(opts.labels...)
	case strings.TrimSpace(opts.rangeSpec) != "":
		rng, err := labels.ParseRange(opts.rangeSpec)
		if err != nil {
			return labels.Config{}, err
		}
		return labels.Ranged(rng)
	default:
		return labels.Freeform(), nil
	}
}

// applyAnnotateDefaults fills flags the user left unset from cfg.
func applyAnnotateDefaults(cmd *cobra.Command, cfg *config.Config, opts *annotateOptions) {
	flags := cmd.Flags()
	if !flags.Changed("shuffle") {
		opts.shuffle = cfg.Annotate.Shuffle
	}
	if !flags.Changed("no-skip") {
		opts.noSkip = !cfg.Annotate.IncludeSkip
	}
	if !flags.Changed("dropdown-threshold") {
		opts.threshold = cfg.Annotate.DropdownThreshold
	}
}
