package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"labeler/internal/config"
	"labeler/internal/organizer"
	"labeler/internal/services"
	"labeler/internal/store"
	"labeler/internal/textutil"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var copyFiles, failFast, verify bool

	cmd := &cobra.Command{
		Use:   "organize <annotation-file> <source-dir> <dest-dir>",
		Short: "Move or copy labeled images into per-label directories",
		Long: `Place every image named in <annotation-file> under <dest-dir>/<label>/.

Files are moved unless --copy is given or organize.copy is set. Missing files
are reported and the rest are still processed unless --fail-fast is given.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			runCtx := services.WithSessionID(cmd.Context(), uuid.NewString())

			docPath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve annotation path: %w", err)
			}
			doc, err := store.Load(docPath)
			if err != nil {
				return err
			}

			opts := organizer.Options{
				SourceDir:       args[1],
				DestDir:         args[2],
				Mode:            organizer.ModeMove,
				ContinueOnError: cfg.Organize.ContinueOnError,
				VerifyCopies:    cfg.Organize.VerifyCopies,
				CheckFreeSpace:  cfg.Organize.CheckFreeSpace,
			}
			if copyFiles || (!cmd.Flags().Changed("copy") && cfg.Organize.Copy) {
				opts.Mode = organizer.ModeCopy
			}
			if cmd.Flags().Changed("fail-fast") {
				opts.ContinueOnError = !failFast
			}
			if cmd.Flags().Changed("verify") {
				opts.VerifyCopies = verify
			}

			errOut := cmd.ErrOrStderr()
			if isTerminal(errOut) {
				opts.Progress = func(p organizer.Progress) {
					fmt.Fprintf(errOut, "\r\x1b[K[%d/%d] %s", p.Done, p.Total, p.Name)
				}
			}

			report, orgErr := organizer.New(logger).Organize(runCtx, doc, opts)
			if opts.Progress != nil && len(report.Results) > 0 {
				fmt.Fprintln(errOut)
			}
			printOrganizeReport(cmd, report)
			if failed := len(report.Failures()); failed > 0 {
				return fmt.Errorf("%d of %d files could not be organized", failed, len(report.Results))
			}
			return orgErr
		},
	}

	cmd.Flags().BoolVar(&copyFiles, "copy", false, "Copy files instead of moving them")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first file that cannot be placed")
	cmd.Flags().BoolVar(&verify, "verify", false, "Compare checksums after copying")
	return cmd
}

func printOrganizeReport(cmd *cobra.Command, report organizer.Report) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	// Labels that sanitize to the same directory share one row.
	type dirCount struct {
		dir    string
		labels []string
		files  int
		bytes  int64
	}
	var order []string
	counts := map[string]*dirCount{}
	for _, res := range report.Results {
		if res.Err != nil {
			continue
		}
		label := res.Label.String()
		dir := textutil.LabelDirName(label)
		entry, ok := counts[dir]
		if !ok {
			entry = &dirCount{dir: dir}
			counts[dir] = entry
			order = append(order, dir)
		}
		if !slices.Contains(entry.labels, label) {
			entry.labels = append(entry.labels, label)
		}
		entry.files++
		entry.bytes += res.Bytes
	}

	if len(order) > 0 {
		rows := make([][]string, 0, len(order))
		for _, dir := range order {
			entry := counts[dir]
			rows = append(rows, []string{
				entry.dir,
				strings.Join(entry.labels, ", "),
				fmt.Sprintf("%d", entry.files),
				humanize.IBytes(uint64(entry.bytes)),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Directory", "Labels", "Files", "Size"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
	}

	for _, res := range report.Failures() {
		fmt.Fprintln(out, renderStatusLine(res.Name, statusError, res.Err.Error(), colorize))
	}

	kind := statusOK
	if len(report.Failures()) > 0 {
		kind = statusWarn
	}
	summary := fmt.Sprintf("%d of %d files, %s (%s)",
		report.Succeeded(), len(report.Results), humanize.IBytes(uint64(report.Bytes())), report.Mode)
	fmt.Fprintln(out, renderStatusLine("Organized", kind, summary, colorize))
}
