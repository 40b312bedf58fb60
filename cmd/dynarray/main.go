package main

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/pavanmanishd/dynarray"
	"github.com/pavanmanishd/dynarray/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configFile  string
	verbose     bool
	showMetrics bool
	stable      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dynarray",
		Short:        "exercise dynamic arrays against a bounded heap",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the configured workload and report heap usage",
		Args:  cobra.NoArgs,
		RunE:  runWorkload,
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	runCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print heap metrics in Prometheus text format")

	sortCmd := &cobra.Command{
		Use:   "sort [ints...]",
		Short: "sort integers with the array sorts",
		Args:  cobra.MinimumNArgs(1),
		RunE:  sortInts,
	}
	sortCmd.Flags().BoolVar(&stable, "stable", false, "use the stable insertion sort")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the default config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(config.DefaultConfig())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	rootCmd.AddCommand(runCmd, sortCmd, configCmd)
	return rootCmd
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

type record struct {
	id    int
	value int
}

func runWorkload(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	heap := dynarray.NewHeap(cfg.Heap.Name, cfg.Heap.Limit)
	heap.SetLogger(logger)

	var alloc dynarray.Allocator[*record]
	switch cfg.Heap.Kind {
	case config.KindArena:
		arena := dynarray.NewArena[*record](heap, cfg.Heap.ChunkSize)
		defer arena.Release()
		alloc = arena
	default:
		alloc = dynarray.NewHeapAllocator[*record](heap)
	}

	cleaned := 0
	var cleanup func(*record)
	if cfg.Workload.Cleanup {
		cleanup = func(*record) { cleaned++ }
	}

	arr, err := dynarray.New(alloc, cleanup,
		dynarray.WithCapacity(cfg.Array.Capacity),
		dynarray.WithIncrement(cfg.Array.Increment),
		dynarray.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer arr.Release()

	rng := rand.New(rand.NewPCG(uint64(cfg.Workload.Seed), 0))
	for i := 0; i < cfg.Workload.Elements; i++ {
		if err := arr.PushBack(&record{id: i, value: rng.IntN(cfg.Workload.Elements + 1)}); err != nil {
			return err
		}
	}
	pushedCap := arr.Cap()

	erased := 0
	if step := cfg.Workload.EraseStep; step > 0 {
		for i := arr.Len() - 1; i >= 0; i -= step {
			if err := arr.Erase(i); err != nil {
				return err
			}
			erased++
		}
	}

	byValue := func(x, y *record) int { return cmp.Compare(x.value, y.value) }
	if cfg.Workload.Sort == config.SortInsertion {
		arr.ISort(byValue)
	} else {
		arr.Sort(byValue)
	}
	sorted := arr.Len()

	if n := cfg.Workload.ResizeTo; n < arr.Len() {
		if err := arr.Resize(n); err != nil {
			return err
		}
	}

	m := heap.Metrics()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "allocator\t%s\n", cfg.Heap.Kind)
	fmt.Fprintf(w, "pushed\t%d\n", cfg.Workload.Elements)
	fmt.Fprintf(w, "capacity after push\t%d\n", pushedCap)
	fmt.Fprintf(w, "erased\t%d\n", erased)
	fmt.Fprintf(w, "sorted (%s)\t%d\n", cfg.Workload.Sort, sorted)
	fmt.Fprintf(w, "length\t%d\n", arr.Len())
	fmt.Fprintf(w, "capacity\t%d\n", arr.Cap())
	fmt.Fprintf(w, "cleanup calls\t%d\n", cleaned)
	fmt.Fprintf(w, "heap %s in use\t%d / %d bytes\n", m.Name, m.InUse, m.Limit)
	fmt.Fprintf(w, "heap peak\t%d bytes\n", m.Peak)
	fmt.Fprintf(w, "heap failures\t%d\n", m.Failures)
	if err := w.Flush(); err != nil {
		return err
	}

	if showMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(dynarray.NewHeapCollector(heap))
		mfs, err := reg.Gather()
		if err != nil {
			return err
		}
		for _, mf := range mfs {
			if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortInts(cmd *cobra.Command, args []string) error {
	arr, err := dynarray.New[int](nil, nil)
	if err != nil {
		return err
	}
	defer arr.Release()

	for _, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrapf(err, "invalid integer %q", s)
		}
		if err := arr.PushBack(v); err != nil {
			return err
		}
	}
	if stable {
		arr.ISort(cmp.Compare[int])
	} else {
		arr.Sort(cmp.Compare[int])
	}
	for i, v := range arr.All() {
		if i > 0 {
			fmt.Fprint(cmd.OutOrStdout(), " ")
		}
		fmt.Fprint(cmd.OutOrStdout(), v)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
