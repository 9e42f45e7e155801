package control

import (
	"context"
	"math"
	"sync"

	"github.com/robolab-io/sotg/internal/robot"
)

// RobotFactory builds a fresh initialized robot for one sweep candidate.
// Each candidate runs on its own robot so no signal graph is shared
// between goroutines.
type RobotFactory func() (*robot.Robot, error)

type SweepPoint struct {
	ComGain     float64
	OpPointGain float64
	Score       float64
	Err         error
}

// Sweep runs the tracking controller once per gain pair, in parallel, and
// returns every candidate plus the one with the lowest score. The score
// function reduces a run to a single value; final total error norm is the
// usual choice.
func Sweep(ctx context.Context, build RobotFactory, cfg Config, comGains, opGains []float64, score func(*Result) float64) ([]SweepPoint, SweepPoint, error) {
	points := make([]SweepPoint, 0, len(comGains)*len(opGains))
	for _, cg := range comGains {
		for _, og := range opGains {
			points = append(points, SweepPoint{ComGain: cg, OpPointGain: og})
		}
	}

	var wg sync.WaitGroup
	for i := range points {
		wg.Add(1)
		go func(p *SweepPoint) {
			defer wg.Done()

			r, err := build()
			if err != nil {
				p.Err = err
				return
			}
			if err := r.ComTask().SetControlGain(p.ComGain); err != nil {
				p.Err = err
				return
			}
			for _, op := range robot.OperationalPoints {
				t, ok := r.Task(op)
				if !ok {
					continue
				}
				if err := t.SetControlGain(p.OpPointGain); err != nil {
					p.Err = err
					return
				}
			}

			result, err := Run(ctx, r, cfg)
			if err != nil {
				p.Err = err
				return
			}
			p.Score = score(result)
		}(&points[i])
	}
	wg.Wait()

	best := SweepPoint{Score: math.Inf(1)}
	var firstErr error
	for _, p := range points {
		if p.Err != nil {
			if firstErr == nil {
				firstErr = p.Err
			}
			continue
		}
		if p.Score < best.Score {
			best = p
		}
	}
	if math.IsInf(best.Score, 1) {
		return points, best, firstErr
	}
	return points, best, nil
}

// FinalError scores a run by the total task error norm at its last step.
func FinalError(result *Result) float64 {
	if result.Steps == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, norms := range result.Errors {
		last := norms[len(norms)-1]
		sum += last * last
	}
	return math.Sqrt(sum)
}
