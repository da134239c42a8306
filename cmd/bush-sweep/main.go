package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sandgarden/internal/core"
	"sandgarden/internal/logging"
	"sandgarden/internal/scene"
	"sandgarden/internal/sims/sand"
)

func main() {
	steps := flag.Int("steps", 3000, "ticks to simulate per scenario")
	seeds := flag.Int("seeds", 4, "seeds per parameter set")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	simName := flag.String("sim", "sand", "registered simulation to sweep")
	sceneName := flag.String("scene", "garden", "builtin scene: "+strings.Join(scene.BuiltinNames(), ", "))
	top := flag.Int("top", 5, "results to print")
	opts := map[string]string{}
	flag.Func("set", "extra key=value world option, repeatable (e.g. w=200)", func(v string) error {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return fmt.Errorf("want key=value, got %q", v)
		}
		opts[key] = value
		return nil
	})
	flag.Parse()

	log, err := logging.New(logging.Defaults())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	factory, ok := core.Sims()[*simName]
	if !ok {
		log.Fatal("unknown sim", zap.String("sim", *simName), zap.Strings("available", core.SimNames()))
	}
	if _, ok := scene.Builtin(*sceneName); !ok {
		log.Fatal("unknown scene", zap.String("scene", *sceneName), zap.Strings("builtin", scene.BuiltinNames()))
	}
	opts["scene"] = *sceneName

	sets := paramGrid()
	log.Info("sweeping",
		zap.String("sim", *simName),
		zap.Int("sets", len(sets)),
		zap.Int("seeds", *seeds),
		zap.Int("workers", *workers),
		zap.Int("steps", *steps))

	start := time.Now()
	results, err := sweep(context.Background(), factory, opts, sets, *seeds, *steps, *workers)
	if err != nil {
		log.Fatal("sweep failed", zap.Error(err))
	}
	summaries := summarize(results)

	fmt.Printf("\nTop %d parameter sets by mean root count (elapsed %s):\n", *top, time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(summaries) && i < *top; i++ {
		s := summaries[i]
		fmt.Printf("%2d) roots=%.1f wood=%.1f leaves=%.1f mud=%.1f finished=%d/%d tick=%.0f %s\n",
			i+1, s.roots, s.wood, s.leaves, s.mud, s.finished, s.bushes, s.finishTick, formatParams(s.params))
	}
}

func paramGrid() []sand.BushParams {
	var sets []sand.BushParams
	for _, size := range []struct{ min, max int }{{50, 150}, {100, 500}, {300, 800}} {
		for _, stop := range []float64{0.02, 0.05, 0.1} {
			for _, buds := range []int{3, 5, 7} {
				for _, delay := range []int{1, 2} {
					sets = append(sets, sand.BushParams{
						RootSizeMin: size.min,
						RootSizeMax: size.max,
						StopChance:  stop,
						GrowthDelay: delay,
						MaxBuds:     buds,
					})
				}
			}
		}
	}
	return sets
}

type scenarioResult struct {
	params     sand.BushParams
	seed       int64
	bushes     int
	finished   int
	roots      int
	wood       int
	leaves     int
	mud        int
	finishTick uint64
}

func sweep(ctx context.Context, factory core.Factory, base map[string]string, sets []sand.BushParams, seeds, steps, workers int) ([]scenarioResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	var mu sync.Mutex
	var results []scenarioResult
	for _, params := range sets {
		for seed := int64(1); seed <= int64(seeds); seed++ {
			g.Go(func() error {
				res, err := runScenario(ctx, factory, base, params, seed, steps)
				if err != nil {
					return err
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// scenarioOptions layers the growth parameters over the base world options
// in the key=value form registered factories accept.
func scenarioOptions(base map[string]string, p sand.BushParams) map[string]string {
	opts := make(map[string]string, len(base)+5)
	for k, v := range base {
		opts[k] = v
	}
	opts["root_size_min"] = strconv.Itoa(p.RootSizeMin)
	opts["root_size_max"] = strconv.Itoa(p.RootSizeMax)
	opts["stop_chance"] = strconv.FormatFloat(p.StopChance, 'g', -1, 64)
	opts["growth_delay"] = strconv.Itoa(p.GrowthDelay)
	opts["max_buds"] = strconv.Itoa(p.MaxBuds)
	return opts
}

func runScenario(ctx context.Context, factory core.Factory, base map[string]string, params sand.BushParams, seed int64, steps int) (scenarioResult, error) {
	sim := factory(scenarioOptions(base, params))
	world, ok := sim.(*sand.World)
	if !ok {
		return scenarioResult{}, fmt.Errorf("sim %q grows no bushes", sim.Name())
	}
	world.Reset(seed)

	res := scenarioResult{params: params, seed: seed}
	for step := 0; step < steps; step++ {
		if step%256 == 0 && ctx.Err() != nil {
			return scenarioResult{}, ctx.Err()
		}
		world.Step()
		if done, planted := allFinished(world.Bushes()); planted && done {
			res.finishTick = world.Ticks()
			break
		}
	}

	for _, b := range world.Bushes() {
		res.bushes++
		if !b.Growing() {
			res.finished++
		}
		res.roots += b.RootCount()
		res.wood += b.WoodCount()
		res.leaves += b.LeafCount()
		res.mud += b.MudRoots()
	}
	if res.finishTick == 0 {
		res.finishTick = world.Ticks()
	}
	return res, nil
}

func allFinished(bushes []*sand.Bush) (done, planted bool) {
	for _, b := range bushes {
		if b.Growing() {
			return false, true
		}
	}
	return true, len(bushes) > 0
}

type summary struct {
	params     sand.BushParams
	runs       int
	bushes     int
	finished   int
	roots      float64
	wood       float64
	leaves     float64
	mud        float64
	finishTick float64
}

func formatParams(p sand.BushParams) string {
	return fmt.Sprintf("root=%d..%d stop=%.2f buds=%d delay=%d", p.RootSizeMin, p.RootSizeMax, p.StopChance, p.MaxBuds, p.GrowthDelay)
}

func summarize(results []scenarioResult) []summary {
	byParams := map[sand.BushParams]*summary{}
	var order []sand.BushParams
	for _, r := range results {
		s, ok := byParams[r.params]
		if !ok {
			s = &summary{params: r.params}
			byParams[r.params] = s
			order = append(order, r.params)
		}
		bushes := float64(max(r.bushes, 1))
		s.runs++
		s.bushes += r.bushes
		s.finished += r.finished
		s.roots += float64(r.roots) / bushes
		s.wood += float64(r.wood) / bushes
		s.leaves += float64(r.leaves) / bushes
		s.mud += float64(r.mud) / bushes
		s.finishTick += float64(r.finishTick)
	}

	out := make([]summary, 0, len(order))
	for _, p := range order {
		s := *byParams[p]
		n := float64(s.runs)
		s.roots /= n
		s.wood /= n
		s.leaves /= n
		s.mud /= n
		s.finishTick /= n
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].roots > out[j].roots })
	return out
}
