package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"

	"tokenbench/internal/config"
	"tokenbench/internal/metrics"
	"tokenbench/internal/runner"
	"tokenbench/internal/spec"
	"tokenbench/internal/tasks"
	"tokenbench/internal/ui/live"
)

// Seams for tests.
var (
	runBenchmark = runner.Run
	newRunID     = runner.NewRunID
	startLiveUI  = func(stdout io.Writer, opts live.Options) liveController {
		return live.Start(stdout, opts)
	}
)

// liveController is the slice of live.Controller the run command needs.
type liveController interface {
	runner.Observer
	Close()
	Wait()
}

// runRun builds the handler for the run command.
func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: auto-detect)")
		modelsFlag := flags.String("models", "", "Comma-separated model ids or 'all' (default: defaults.model)")
		tasksFlag := flags.String("tasks", "all", "Comma-separated task ids or 'all'")
		modesFlag := flags.String("modes", "all", "Comma-separated mode ids or 'all'")
		reposFlag := flags.String("repos", "all", "Filter tasks by repo (comma-separated or 'all')")
		repsFlag := flags.Int("reps", 0, "Repetitions per cell (default: defaults.reps)")
		budgetFlag := flags.Float64("budget", 0, "Per-run budget in USD (default: defaults.budget_usd)")
		timeoutFlag := flags.Int("timeout", 0, "Per-run timeout in seconds (default: defaults.timeout_seconds)")
		outputFlag := flags.String("output", "", "Results log path (default: results/benchmark_<run-id>.jsonl)")
		uiFlag := flags.String("ui", "auto", "UI mode: auto|live|plain")
		verboseFlag := flags.Bool("verbose", false, "Print per-run progress instead of the live UI")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %v\n", flags.Args())
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		// API keys for the agent CLI commonly live in a local .env.
		_ = godotenv.Load()

		cfg, root, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		selection, err := selectRuns(cfg, *modelsFlag, *tasksFlag, *modesFlag, *reposFlag)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}

		reps := *repsFlag
		if reps <= 0 {
			reps = cfg.Defaults.Reps
		}
		budget := *budgetFlag
		if budget <= 0 {
			budget = cfg.Defaults.BudgetUSD
		}
		timeoutSeconds := *timeoutFlag
		if timeoutSeconds <= 0 {
			timeoutSeconds = cfg.Defaults.TimeoutSeconds
		}

		runID, err := newRunID()
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}
		outputPath := *outputFlag
		if outputPath == "" {
			modelIDs := make([]string, 0, len(selection.models))
			for _, model := range selection.models {
				modelIDs = append(modelIDs, model.ID)
			}
			outputPath = runner.DefaultOutputPath(config.ResultsDir(root, cfg.Harness.ResultsDir), runID, modelIDs)
		}

		decision, err := resolveUIMode(*uiFlag, *verboseFlag, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		deps := runner.Dependencies{
			RunID: func() (string, error) { return runID, nil },
		}
		var controller liveController
		if decision.useLive {
			controller = startLiveUI(stdout, live.Options{})
			deps.Observer = controller
		} else {
			deps.Progress = stdout
		}

		path, err := runBenchmark(context.Background(), runner.Params{
			Tasks:        selection.tasks,
			Modes:        selection.modes,
			Models:       selection.models,
			Reps:         reps,
			BudgetUSD:    budget,
			Timeout:      time.Duration(timeoutSeconds) * time.Second,
			SystemPrompt: cfg.Harness.SystemPrompt,
			ReposDir:     config.ReposDir(root, cfg.Harness.FixturesDir),
			SyntheticDir: config.SyntheticRepoDir(root, cfg.Harness.FixturesDir),
			OutputPath:   outputPath,
			Deps:         deps,
		})
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}
		if decision.useLive {
			fmt.Fprintf(stdout, "Results saved to: %s\n", path)
		}
		return ExitOK
	}
}

// runSelection holds the resolved benchmark grid.
type runSelection struct {
	tasks  []tasks.Task
	modes  []spec.ModeConfig
	models []spec.ModelConfig
}

// selectRuns resolves the command line filters against the config.
func selectRuns(cfg spec.Config, modelsValue, tasksValue, modesValue, reposValue string) (runSelection, error) {
	if modelsValue == "" {
		modelsValue = cfg.Defaults.Model
	}
	if modelsValue == "" {
		modelsValue = "all"
	}

	modelIDs := make([]string, 0, len(cfg.Models))
	for _, model := range cfg.Models {
		modelIDs = append(modelIDs, model.ID)
	}
	modeIDs := make([]string, 0, len(cfg.Modes))
	for _, mode := range cfg.Modes {
		modeIDs = append(modeIDs, mode.ID)
	}
	allTasks := tasks.FromConfig(cfg)
	taskIDs := make([]string, 0, len(allTasks))
	for _, task := range allTasks {
		taskIDs = append(taskIDs, task.ID)
	}
	repoNames := []string{metrics.RepoSynthetic}
	for _, repo := range cfg.Repos {
		repoNames = append(repoNames, repo.Name)
	}

	selectedModels, err := runner.ParseList(modelsValue, modelIDs, "models")
	if err != nil {
		return runSelection{}, err
	}
	selectedModes, err := runner.ParseList(modesValue, modeIDs, "modes")
	if err != nil {
		return runSelection{}, err
	}
	selectedTasks, err := runner.ParseList(tasksValue, taskIDs, "tasks")
	if err != nil {
		return runSelection{}, err
	}
	selectedRepos, err := runner.ParseList(reposValue, repoNames, "repos")
	if err != nil {
		return runSelection{}, err
	}

	repoSet := toSet(selectedRepos)
	taskSet := toSet(selectedTasks)
	selection := runSelection{}
	for _, task := range allTasks {
		if !taskSet[task.ID] {
			continue
		}
		label := task.Repo
		if label == "" {
			label = metrics.RepoSynthetic
		}
		if !repoSet[label] {
			continue
		}
		selection.tasks = append(selection.tasks, task)
	}
	modeSet := toSet(selectedModes)
	for _, mode := range cfg.Modes {
		if modeSet[mode.ID] {
			selection.modes = append(selection.modes, mode)
		}
	}
	modelSet := toSet(selectedModels)
	for _, model := range cfg.Models {
		if modelSet[model.ID] {
			selection.models = append(selection.models, model)
		}
	}
	if len(selection.tasks) == 0 {
		return runSelection{}, fmt.Errorf("no tasks match the given filters")
	}
	return selection, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}
