package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/csheth/mythchaser/internal/claimtext"
	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/history"
	"github.com/csheth/mythchaser/internal/logging"
	"github.com/csheth/mythchaser/internal/session"
	"github.com/csheth/mythchaser/internal/staging"
	"github.com/csheth/mythchaser/internal/verdict"
)

const checkWrapWidth = 78

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check one claim and print the verdict",
		ArgsUsage: "<claim text>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "attach an image or audio file (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the result as JSON",
			},
		},
		Action: runCheck,
	}
}

type checkOutput struct {
	Kind        string `json:"kind"`
	Verdict     string `json:"verdict,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Message     string `json:"message,omitempty"`
	Answer      string `json:"answer"`
}

func runCheck(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer func() { _ = closeLog() }()

	claim := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(claim) == "" && c.String("claim-file") != "" {
		claim, err = claimtext.Load(c.String("claim-file"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("claim file: %v", err), 1)
		}
	}

	files, err := stageFiles(c.StringSlice("file"), c.App.ErrWriter)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	result, err := client.Submit(c.Context, claim, files)
	if err != nil {
		logger.Warn("check failed", zap.Error(err))
		var validation *classify.ValidationError
		if errors.As(err, &validation) {
			return cli.Exit(validation.Message, 1)
		}
		return cli.Exit(fmt.Sprintf("%s (%v)", session.FailureAlert, err), 1)
	}

	if cfg.HistoryFile != "" {
		if err := history.Save(cfg.HistoryFile, []history.Entry{history.NewEntry(claim, files, result)}); err != nil {
			logger.Warn("history export failed", zap.Error(err))
			fmt.Fprintf(c.App.ErrWriter, "warning: could not write history: %v\n", err)
		}
	}

	if c.Bool("json") {
		if err := writeJSON(c.App.Writer, result); err != nil {
			return err
		}
	} else {
		writeText(c.App.Writer, result)
	}
	if result.Kind == classify.KindError {
		return cli.Exit("", 1)
	}
	return nil
}

// stageFiles applies the same filter and merge rules as the interactive screen.
func stageFiles(paths []string, stderr io.Writer) (staging.Collection, error) {
	raw, skipped := staging.StatAll(paths)
	if len(skipped) > 0 {
		return nil, cli.Exit(fmt.Sprintf("attachment: %v", skipped[0]), 1)
	}
	accepted := staging.Filter(raw)
	if rejected := len(raw) - len(accepted); rejected > 0 {
		fmt.Fprintf(stderr, "skipping %d file(s): only images and audio can be attached\n", rejected)
	}
	return staging.Merge(nil, accepted), nil
}

func writeJSON(w io.Writer, result classify.Result) error {
	out := checkOutput{
		Kind:        result.Kind.String(),
		Verdict:     result.Verdict,
		Explanation: result.Explanation,
		Message:     result.Message,
		Answer:      result.Answer(),
	}
	if out.Verdict != "" {
		out.Verdict = verdict.Label(out.Verdict)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, result classify.Result) {
	if result.Kind != classify.KindSuccess || strings.TrimSpace(result.Verdict) == "" {
		body := result.Answer()
		if result.Kind == classify.KindSuccess {
			body = result.Explanation
		}
		fmt.Fprintln(w, "Response:")
		fmt.Fprintln(w, wordwrap.String(body, checkWrapWidth))
		return
	}
	fmt.Fprintln(w, verdict.Label(result.Verdict))
	if explanation := strings.TrimSpace(result.Explanation); explanation != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wordwrap.String(explanation, checkWrapWidth))
	}
	steps := verdict.Guidance(result.Verdict)
	if len(steps) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "What to do next:")
	for _, step := range steps {
		fmt.Fprintf(w, "  - %s: %s\n", step.Title, step.Description)
	}
}
