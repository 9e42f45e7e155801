package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/robolab-io/sotg/internal/config"
	"github.com/robolab-io/sotg/internal/control"
	"github.com/robolab-io/sotg/internal/graph"
	"github.com/robolab-io/sotg/internal/metrics"
	"github.com/robolab-io/sotg/internal/robot"
	"github.com/robolab-io/sotg/internal/storage"
	"github.com/robolab-io/sotg/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	robotName  string
	kxmlPath   string
	dt         float64
	duration   float64
	offsJoint  int
	offsAmount float64
	comGains   []float64
	opGains    []float64
	exportPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sotg",
		Short: "stack-of-tasks humanoid robot orchestration",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "runs", "run data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the task controller and record the trajectory",
		RunE:  runTracking,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&exportPath, "export", "", "also export the full run as JSON (\"-\" for stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view of task errors",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "show the task set of a configured robot",
		RunE:  showTasks,
	}
	addRunFlags(tasksCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded task errors",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid-search task gains and report the best pair",
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&comGains, "com-gains", []float64{0.5, 1.0, 2.0}, "CoM gains to try")
	sweepCmd.Flags().Float64SliceVar(&opGains, "op-gains", []float64{0.1, 0.2, 0.5}, "op-point gains to try")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list run presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, p := range names {
				fmt.Println(p)
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, tasksCmd, sweepCmd, listCmd, plotCmd, exportCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&robotName, "robot", "robot", "robot name")
	cmd.Flags().StringVar(&kxmlPath, "model", "", "kxml model descriptor path")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&offsJoint, "offset-joint", 0, "joint to perturb before the run")
	cmd.Flags().Float64Var(&offsAmount, "offset", 0, "perturbation amount (radians)")
}

// resolveConfig merges preset, config file and flags, in increasing
// precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)",
				preset, strings.Join(config.ListPresets(), ", "))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("robot") {
		cfg.Robot = robotName
	}
	if cmd.Flags().Changed("model") {
		cfg.Loader = config.LoaderConfig{Kind: "kxml", Path: kxmlPath}
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("offset-joint") {
		cfg.Offset.Joint = offsJoint
	}
	if cmd.Flags().Changed("offset") {
		cfg.Offset.Amount = offsAmount
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildRobot(cfg *config.Config) (*robot.Robot, error) {
	l, err := cfg.NewLoader()
	if err != nil {
		return nil, err
	}

	r, err := robot.NewHumanoid(cfg.Robot, l)
	if err != nil {
		return nil, err
	}

	if err := r.ComTask().SetControlGain(cfg.Gains.Com); err != nil {
		return nil, err
	}
	for _, op := range robot.OperationalPoints {
		t, ok := r.Task(op)
		if !ok {
			continue
		}
		if err := t.SetControlGain(cfg.Gains.OpPoint); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func offsetVector(cfg *config.Config, dim int) (graph.Vector, error) {
	if cfg.Offset.Amount == 0 {
		return nil, nil
	}
	idx := cfg.Offset.Joint
	if idx < 0 || idx >= dim {
		return nil, fmt.Errorf("offset joint %d out of range for dimension %d", idx, dim)
	}
	v := graph.Zero(dim)
	v[idx] = cfg.Offset.Amount
	return v, nil
}

func runTracking(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	r, err := buildRobot(cfg)
	if err != nil {
		return err
	}

	offset, err := offsetVector(cfg, r.Dimension())
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s tracking...\n", cfg.Robot)
	start := time.Now()

	result, err := control.Run(context.Background(), r, control.Config{
		Dt:     cfg.Dt,
		Steps:  cfg.Steps(),
		Offset: offset,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	summary := summarize(result)
	runID, err := st.Save(cfg.Robot, cfg.Dt, summary, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nmetrics:")
	for _, kv := range sortedMetrics(summary) {
		fmt.Printf("  %s: %.6f\n", kv.name, kv.value)
	}

	if exportPath != "" {
		return storage.ExportJSON(exportPath, cfg.Robot, cfg.Dt, summary, result)
	}
	return nil
}

// summarize reduces a run to scalar metrics over the per-step task error
// norms and controls.
func summarize(result *control.Result) map[string]float64 {
	tracking := metrics.NewTrackingError()
	effort := metrics.NewControlEffort()
	settling := metrics.NewSettling(1e-3)

	names := make([]string, 0, len(result.Errors))
	for name := range result.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	for i := range result.Times {
		e := make(graph.Vector, 0, len(names))
		for _, name := range names {
			e = append(e, result.Errors[name][i])
		}
		var u graph.Vector
		if i < len(result.Controls) {
			u = result.Controls[i]
		}
		tracking.Observe(e, u, result.Times[i])
		effort.Observe(e, u, result.Times[i])
		settling.Observe(e, u, result.Times[i])
	}

	return map[string]float64{
		tracking.Name(): tracking.Value(),
		effort.Name():   effort.Value(),
		settling.Name(): settling.Value(),
	}
}

type metricKV struct {
	name  string
	value float64
}

func sortedMetrics(m map[string]float64) []metricKV {
	out := make([]metricKV, 0, len(m))
	for name, value := range m {
		out = append(out, metricKV{name, value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	build := func() (*robot.Robot, error) {
		r, err := buildRobot(cfg)
		if err != nil {
			return nil, err
		}
		offset, err := offsetVector(cfg, r.Dimension())
		if err != nil {
			return nil, err
		}
		if offset != nil {
			if err := r.Device().Set(r.Device().State().Value().Add(offset)); err != nil {
				return nil, err
			}
		}
		return r, nil
	}

	runCfg := control.Config{Dt: cfg.Dt, Steps: cfg.Steps()}
	points, best, err := control.Sweep(context.Background(), build, runCfg, comGains, opGains, control.FinalError)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COM\tOP\tFINAL ERROR")
	for _, p := range points {
		fmt.Fprintf(w, "%.2f\t%.2f\t%.6e\n", p.ComGain, p.OpPointGain, p.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: com=%.2f op=%.2f (%.6e)\n", best.ComGain, best.OpPointGain, best.Score)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	r, err := buildRobot(cfg)
	if err != nil {
		return err
	}

	offset, err := offsetVector(cfg, r.Dimension())
	if err != nil {
		return err
	}
	if offset != nil {
		if err := r.Device().Set(r.Device().State().Value().Add(offset)); err != nil {
			return err
		}
	}

	return viz.Run(r, cfg.Dt)
}

func showTasks(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	r, err := buildRobot(cfg)
	if err != nil {
		return err
	}

	names := make([]string, 0)
	tasks := r.Tasks()
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tGAIN\tFEATURES")
	for _, name := range names {
		t := tasks[name]
		fmt.Fprintf(w, "%s\t%.2f\t%s\n", name, t.ControlGain(), strings.Join(t.FeatureNames(), ", "))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROBOT\tTIME\tDURATION\tDT\tTASKS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Robot,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Tasks),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	errors, times, err := st.LoadErrors(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("robot: %s\n", meta.Robot)
	fmt.Printf("samples: %d\n\n", len(times))

	for _, name := range meta.Tasks {
		data := errors[name]
		if len(data) == 0 {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" error norm"),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
