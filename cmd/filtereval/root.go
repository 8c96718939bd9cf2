package main

import (
	"bufio"
	"bytes"
	"fmt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/seiama/filter"
	"github.com/spf13/cobra"
	"io"
)

type options struct {
	rulesPath string
	rule      string
	abstain   string
	cache     bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "filtereval",
		Short:         "Evaluate filter rules against JSON-lines documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "YAML rule file")
	cmd.Flags().StringVar(&opts.rule, "rule", "", "rule to evaluate (defaults to the only rule in the file)")
	cmd.Flags().StringVar(&opts.abstain, "abstain", "deny", "boolean outcome of an abstention: allow or deny")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "cache decisions by document key")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every decision to stderr")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func run(in io.Reader, out, errOut io.Writer, opts options) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: errOut, NoColor: true}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
	if opts.verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	onAbstain, err := filter.ParseResponse(opts.abstain)
	if err != nil || onAbstain == filter.Abstain {
		return errors.Errorf("--abstain must be allow or deny, got %q", opts.abstain)
	}

	rules, err := filter.LoadRulesFile(opts.rulesPath)
	if err != nil {
		return err
	}

	name, err := pickRule(rules, opts.rule)
	if err != nil {
		return err
	}

	f, err := rules.Get(name)
	if err != nil {
		return err
	}

	f = filter.Logged(name, f, logger)

	var cached *filter.CachedFilter
	if opts.cache {
		if cached, err = filter.Cached(f, filter.ByKey, nil); err != nil {
			return err
		}
		f = cached
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	abstainAs := func() bool { return onAbstain == filter.Allow }

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		doc, err := filter.ParseDocument(raw)
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}

		r := filter.Evaluate(f, doc)
		if _, err := fmt.Fprintf(w, "%s\t%s\t%t\n", doc.Key(), r, r.ToBool(abstainAs)); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "could not read documents")
	}

	if cached != nil {
		logger.Info().
			Uint64("hits", cached.Hits()).
			Uint64("misses", cached.Misses()).
			Msg("decision cache")
	}

	return nil
}

func pickRule(rules *filter.Rules, name string) (string, error) {
	if name != "" {
		return name, nil
	}

	names := rules.Names()
	if len(names) != 1 {
		return "", errors.Errorf("--rule is required when the file defines %d rules", len(names))
	}

	return names[0], nil
}
