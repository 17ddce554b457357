package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/YaLTeR/circular-queue/circular"
	"github.com/YaLTeR/circular-queue/cmd/config"
	"github.com/YaLTeR/circular-queue/colors"
	"github.com/YaLTeR/circular-queue/pipeline"
	"github.com/YaLTeR/circular-queue/snapshot"
	"github.com/YaLTeR/circular-queue/steps"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Execute() {
	var rootCmd = createRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type tailParams struct {
	registry      *config.Registry
	configFile    string
	capacity      func() int
	order         func() string
	first         func() int
	include       func() []string
	exclude       func() []string
	includeRegexp func() []string
	excludeRegexp func() []string
	kqlFilter     func() string
	jqFilter      func() string
	metadata      func() string
	context       func() int
	state         func() string
	mergeBy       func() []string
	highlights    func() []string
	showErrors    func() bool
	verbose       func() bool
}

func createRootCmd() *cobra.Command {
	var params tailParams
	rootCmd := &cobra.Command{
		Use:   "ringtail [flags] file-name...",
		Short: "ringtail keeps a bounded history of the last records of a log stream",
		Long: `ringtail reads a log file (or stdin when the file name is -), filters its lines and
prints the last --capacity of them. With --state the history is kept in a file,
so consecutive runs append to the same bounded history. Several files are read
one after another, or interleaved by a JSON property with --merge-by.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := params.registry.Load(params.configFile); err != nil {
				return err
			}

			logger := newLogger(params.verbose(), cmd.ErrOrStderr())
			defer logger.Sync()

			return runTail(cmd, logger, &params, args)
		},
	}

	fs := rootCmd.Flags()
	r := config.NewRegistry(koanf.New("."), fs)
	params.registry = r

	fs.StringVar(&params.configFile, "config", "", "YAML file with default parameters and highlight rules")
	params.capacity = r.IntP("capacity", "n", 10, "number of records kept in the history")
	params.order = r.String("order", "oldest", "print order of the history: oldest or newest first")
	params.first = r.Int("first", 0, "only take the first N matched records into the history")
	params.include = r.StringsP("include", "i", nil, "keep only records containing any of the substrings (case insensitive)")
	params.exclude = r.StringsP("exclude", "e", nil, "drop records containing any of the substrings (case insensitive)")
	params.includeRegexp = r.Strings("include-regexp", nil, "keep only records matching any of the regular expressions")
	params.excludeRegexp = r.Strings("exclude-regexp", nil, "drop records matching any of the regular expressions")
	params.kqlFilter = r.StringP("filter-kql", "f", "", "filter JSON records in the Kibana Query Language format. Example: 'level:(error OR warn)'")
	params.jqFilter = r.String("jq", "", "jq expression applied to JSON records")
	params.metadata = r.StringP("metadata", "m", "", "add record metadata to JSON records. Example: 'rnum file:source'")
	params.context = r.Int("context", 0, "also keep N records before and after each matched one")
	params.state = r.String("state", "", "file the history is loaded from and saved to (.json, .yaml or .yml)")
	params.mergeBy = r.Strings("merge-by", nil, "interleave the input files ordered by the first present JSON property. Example: 'ts,@timestamp'")
	params.highlights = r.StringsP("highlight", "l", nil, "highlight substrings in output")
	params.showErrors = r.Bool("show-errors", false, "show processing errors")
	params.verbose = r.BoolP("verbose", "v", false, "log diagnostics to stderr")

	rootCmd.AddCommand(createInspectCmd())
	return rootCmd
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zap.DebugLevel,
	))
}

func runTail(cmd *cobra.Command, logger *zap.Logger, params *tailParams, fileNames []string) error {
	order, err := steps.ParseOrder(params.order())
	if err != nil {
		return err
	}

	capacity := params.capacity()
	if capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", capacity)
	}

	queue, err := loadHistory(logger, params.state(), capacity)
	if err != nil {
		return err
	}
	history := steps.NewHistory(queue, order)

	inputs := make([]pipeline.Seq[string], 0, len(fileNames))
	for _, fileName := range fileNames {
		if fileName == "-" {
			inputs = append(inputs, steps.ReadLines(cmd.InOrStdin(), "stdin"))
			continue
		}
		closeFile, r, err := steps.OpenFile(fileName)
		if err != nil {
			return err
		}
		defer closeFile()
		inputs = append(inputs, steps.ReadLines(r, fileName))
	}

	var input pipeline.Seq[string]
	if mergeBy := params.mergeBy(); len(mergeBy) > 0 {
		input = steps.Merge(mergeBy, inputs)
	} else {
		input = steps.Concat(inputs)
	}

	process, err := buildPipeline(params, history)
	if err != nil {
		return err
	}

	highlightCfg, err := params.registry.Highlights()
	if err != nil {
		return err
	}
	highlighter, err := colors.NewHighlighter(
		highlightCfg,
		slices.Concat(params.include(), params.highlights()),
		colors.DefaultColorBuilder)
	if err != nil {
		return err
	}

	err = steps.WriteLines(
		cmd.OutOrStdout(),
		params.showErrors(),
		highlighter.Highlight,
		process(input))
	if err != nil {
		return err
	}

	logger.Info("history updated",
		zap.Strings("files", fileNames),
		zap.Int("pushed", history.Pushed),
		zap.Int("evicted", history.Evicted),
		zap.Int("retained", queue.Len()),
		zap.Int("capacity", queue.Cap()))

	return saveHistory(logger, params.state(), queue)
}

func buildPipeline(params *tailParams, history *steps.History) (pipeline.Step[string, string], error) {
	opts := pipeline.Options{
		KeepRemoved: params.context() > 0,
	}

	includeRegexp, err := steps.IncludeRegexp(opts, params.includeRegexp())
	if err != nil {
		return nil, err
	}
	excludeRegexp, err := steps.ExcludeRegexp(opts, params.excludeRegexp())
	if err != nil {
		return nil, err
	}
	addMeta, err := steps.AddMeta(opts, params.metadata())
	if err != nil {
		return nil, err
	}
	filterByKQL, err := steps.FilterByKQL(opts, params.kqlFilter())
	if err != nil {
		return nil, err
	}
	filterByJq, err := steps.FilterByJq(opts, params.jqFilter())
	if err != nil {
		return nil, err
	}

	return pipeline.Chain(
		steps.Include(opts, params.include()),
		steps.Exclude(opts, params.exclude()),
		includeRegexp,
		excludeRegexp,
		addMeta,
		filterByKQL,
		filterByJq,
		steps.Context(opts, params.context(), params.context()),
		steps.First(opts, params.first()),
		history.Step(opts),
	), nil
}

func loadHistory(logger *zap.Logger, path string, capacity int) (*circular.Queue[steps.Entry], error) {
	if len(path) == 0 {
		return circular.WithCapacity[steps.Entry](capacity), nil
	}

	queue, replayed, err := snapshot.Load[steps.Entry](path, capacity)
	if err != nil {
		var capErr *circular.CapacityError
		if errors.As(err, &capErr) {
			logger.Error("state file is corrupted",
				zap.String("state", path),
				zap.Int("values", capErr.Count),
				zap.Int("capacity", capErr.Capacity))
		}
		return nil, fmt.Errorf("loading history: %w", err)
	}

	if replayed {
		logger.Warn("history capacity changed, stored records replayed",
			zap.String("state", path),
			zap.Int("capacity", capacity),
			zap.Int("retained", queue.Len()))
	}
	logger.Debug("history loaded", zap.String("state", path), zap.Int("records", queue.Len()))
	return queue, nil
}

func saveHistory(logger *zap.Logger, path string, queue *circular.Queue[steps.Entry]) error {
	if len(path) == 0 {
		return nil
	}

	if err := snapshot.Save(path, queue); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	logger.Debug("history saved", zap.String("state", path), zap.Int("records", queue.Len()))
	return nil
}
