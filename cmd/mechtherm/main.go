package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/polymerlab/mechtherm/internal/batch"
	"github.com/polymerlab/mechtherm/internal/config"
	"github.com/polymerlab/mechtherm/internal/ingest"
	"github.com/polymerlab/mechtherm/internal/report"
	"github.com/polymerlab/mechtherm/internal/stats"
	"github.com/polymerlab/mechtherm/internal/storage"
	"github.com/polymerlab/mechtherm/internal/technique"
	"github.com/polymerlab/mechtherm/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	sampleName string
	noSave     bool
	noColor    bool
	smoothing  int
	// Tensile specimen geometry
	gaugeLength  float64
	crossSection float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mechtherm",
		Short: "materials characterization analysis engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the results browser when no command given
			return tui.Browse(storage.New(dataDir))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mechtherm", "data directory")

	tensileCmd := &cobra.Command{
		Use:   "tensile [file|dir ...]",
		Short: "analyze tensile stress-strain exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd, "tensile", args)
		},
	}
	tensileCmd.Flags().Float64Var(&gaugeLength, "gauge", 30.0, "gauge length (mm)")
	tensileCmd.Flags().Float64Var(&crossSection, "area", 3.0, "cross-sectional area (mm^2)")

	tgaCmd := &cobra.Command{
		Use:   "tga [file|dir ...]",
		Short: "analyze thermogravimetric exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd, "tga", args)
		},
	}

	dscCmd := &cobra.Command{
		Use:   "dsc [file|dir ...]",
		Short: "analyze DSC heating segments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd, "dsc", args)
		},
	}

	dmaCmd := &cobra.Command{
		Use:   "dma [file|dir ...]",
		Short: "analyze DMA temperature sweeps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd, "dma", args)
		},
	}

	for _, cmd := range []*cobra.Command{tensileCmd, tgaCmd, dscCmd, dmaCmd} {
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
		cmd.Flags().StringVar(&sampleName, "sample", "", "sample name override (default: derived from file names)")
		cmd.Flags().IntVar(&smoothing, "smoothing", 0, "moving-average window (odd, 0 = off)")
		cmd.Flags().BoolVar(&noSave, "no-save", false, "print results without saving a run")
		cmd.Flags().BoolVar(&noColor, "no-color", false, "plain output")
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id]",
		Short: "replicate summary table for a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  summarizeRun,
	}
	summaryCmd.Flags().BoolVar(&noColor, "no-color", false, "plain output")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [parameter]",
		Short: "plot one parameter across trials",
		Args:  cobra.ExactArgs(2),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run summaries as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [technique]",
		Short: "list available presets for a technique",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for technique: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "interactive results browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Browse(storage.New(dataDir))
		},
	}

	rootCmd.AddCommand(tensileCmd, tgaCmd, dscCmd, dmaCmd, listCmd, summaryCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd, browseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, techniqueName string) (config.Analysis, string, error) {
	cfg := config.DefaultAnalysis()
	label := ""

	if preset != "" {
		p, ok := config.GetPreset(techniqueName, preset)
		if !ok {
			return cfg, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(techniqueName))
		}
		cfg = p
		label = preset
	}

	// Config file overrides preset
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		label = filepath.Base(configFile)
	}

	// CLI flags override both
	if cmd.Flags().Changed("smoothing") {
		cfg.SmoothingWindow = smoothing
	}
	return cfg, label, nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := ingest.ScanFolder(arg, ".csv", ".txt")
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		} else {
			files = append(files, arg)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found in %v", args)
	}
	return files, nil
}

func readTrial(techniqueName, path string) (technique.Trial, error) {
	f, err := os.Open(path)
	if err != nil {
		return technique.Trial{}, err
	}
	defer f.Close()

	sample := sampleName
	if sample == "" {
		sample = ingest.SampleName(path)
	}
	trial := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch techniqueName {
	case "tensile":
		return ingest.ReadInstron(f, sample, trial, ingest.Specimen{
			GaugeLengthMM:  gaugeLength,
			CrossSectionMM: crossSection,
		})
	case "tga":
		return ingest.ReadTGA(f, sample, trial)
	case "dsc":
		return ingest.ReadDSC(f, sample, trial)
	case "dma":
		return ingest.ReadDMA(f, sample, trial)
	}
	return technique.Trial{}, fmt.Errorf("unknown technique: %s", techniqueName)
}

func analyze(cmd *cobra.Command, techniqueName string, args []string) error {
	cfg, cfgLabel, err := loadConfig(cmd, techniqueName)
	if err != nil {
		return err
	}

	tech, err := technique.New(techniqueName)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	var trials []technique.Trial
	for _, path := range files {
		trial, err := readTrial(techniqueName, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		trials = append(trials, trial)
	}
	if len(trials) == 0 {
		return fmt.Errorf("no readable trials among %d files", len(files))
	}

	result := batch.Run(context.Background(), tech, cfg, trials)

	for _, fail := range result.Failed() {
		fmt.Fprintf(os.Stderr, "failed %s/%s: %v\n", fail.Sample, fail.Trial, fail.Err)
	}

	summaries := result.Summaries()
	if len(summaries) == 0 {
		return fmt.Errorf("every trial failed")
	}
	if err := report.SummaryTable(os.Stdout, summaries, !noColor); err != nil {
		return err
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	var records []*technique.Record
	for _, out := range result.Outcomes {
		if out.Record != nil {
			records = append(records, out.Record)
		}
	}
	runID, err := st.Save(techniqueName, cfgLabel, records)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
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
	fmt.Fprintln(w, "ID\tTECHNIQUE\tTIME\tTRIALS\tSAMPLES\tCONFIG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Technique,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Trials,
			strings.Join(run.Samples, ","),
			run.Config,
		)
	}
	return w.Flush()
}

func loadRunRecords(runID string) ([]*technique.Record, error) {
	st := storage.New(dataDir)
	records, err := st.LoadRecords(runID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s has no records", runID)
	}
	return records, nil
}

func summarizeRun(cmd *cobra.Command, args []string) error {
	records, err := loadRunRecords(args[0])
	if err != nil {
		return err
	}

	groups := make(map[string][]*technique.Record)
	var names []string
	for _, rec := range records {
		if _, ok := groups[rec.Sample]; !ok {
			names = append(names, rec.Sample)
		}
		groups[rec.Sample] = append(groups[rec.Sample], rec)
	}

	var summaries []*stats.SummaryRecord
	for _, name := range names {
		summaries = append(summaries, stats.SummarizeAll(groups[name]))
	}
	return report.SummaryTable(os.Stdout, summaries, !noColor)
}

func plotRun(cmd *cobra.Command, args []string) error {
	records, err := loadRunRecords(args[0])
	if err != nil {
		return err
	}
	param := args[1]

	var data []float64
	for _, rec := range records {
		if v, ok := rec.Get(param); ok && v.Valid {
			data = append(data, v.V)
		}
	}
	if len(data) < 2 {
		return fmt.Errorf("fewer than two valid %s values in run %s", param, args[0])
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s per trial", param)),
	)
	fmt.Println(graph)

	sum := stats.Summarize(records, param)
	fmt.Printf("\nmean %.4g  std %.3g  cv %.1f%%  n=%d\n", sum.Mean, sum.StdDev, sum.CV*100, sum.Count)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	records, err := loadRunRecords(args[0])
	if err != nil {
		return err
	}
	return report.WriteRecordsJSON(os.Stdout, records)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	records, err := loadRunRecords(args[0])
	if err != nil {
		return err
	}

	groups := make(map[string][]*technique.Record)
	for _, rec := range records {
		groups[rec.Sample] = append(groups[rec.Sample], rec)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var summaries []*stats.SummaryRecord
	for _, name := range names {
		summaries = append(summaries, stats.SummarizeAll(groups[name]))
	}
	return report.WriteSummariesCSV(os.Stdout, summaries)
}
