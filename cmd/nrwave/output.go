package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-nrwave/pipeline"
)

type extrapolationJSON struct {
	RunID    string      `json:"run_id,omitempty"`
	Radii    []float64   `json:"radii"`
	FitRadii []float64   `json:"fit_radii"`
	Start    float64     `json:"start"`
	End      float64     `json:"end"`
	Samples  int         `json:"samples"`
	Orders   []orderJSON `json:"orders"`
}

type orderJSON struct {
	Order int            `json:"order"`
	Modes []modePeakJSON `json:"modes"`
}

type modePeakJSON struct {
	Mode string  `json:"mode"`
	Peak float64 `json:"peak_amplitude"`
}

type convergenceJSON struct {
	RunID  string       `json:"run_id,omitempty"`
	Levels []int        `json:"levels"`
	Pairs  []pairJSON   `json:"pairs"`
	Order  orderEstJSON `json:"order"`
}

type pairJSON struct {
	Coarse int            `json:"coarse"`
	Fine   int            `json:"fine"`
	Error  string         `json:"error,omitempty"`
	Start  float64        `json:"start,omitempty"`
	End    float64        `json:"end,omitempty"`
	Shift  float64        `json:"shift,omitempty"`
	Modes  []modeDiffJSON `json:"modes,omitempty"`
}

type modeDiffJSON struct {
	Mode     string   `json:"mode"`
	MaxAbs   float64  `json:"max_abs"`
	MaxPhase float64  `json:"max_phase"`
	L2       float64  `json:"l2"`
	RelL2    *float64 `json:"rel_l2"`
}

type orderEstJSON struct {
	Defined bool               `json:"defined"`
	Reason  string             `json:"reason,omitempty"`
	Order   float64            `json:"order,omitempty"`
	PerMode map[string]float64 `json:"per_mode,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func peakAmplitude(h []float64) float64 {
	var p float64
	for _, v := range h {
		p = math.Max(p, v)
	}
	return p
}

func renderExtrapolation(w io.Writer, format string, res *pipeline.ExtrapolationResult, runID string) error {
	out := extrapolationJSON{
		RunID:    runID,
		Radii:    res.Radii,
		FitRadii: res.FitRadii,
		Start:    res.Grid[0],
		End:      res.Grid[len(res.Grid)-1],
		Samples:  len(res.Grid),
	}
	for _, n := range res.SortedOrders() {
		o := orderJSON{Order: n}
		for _, m := range res.Modes {
			amp, _ := res.Orders[n].Amplitude(m)
			o.Modes = append(o.Modes, modePeakJSON{Mode: m.String(), Peak: peakAmplitude(amp)})
		}
		out.Orders = append(out.Orders, o)
	}
	if format == "json" {
		return writeJSON(w, out)
	}

	if runID != "" {
		fmt.Fprintf(w, "run: %s\n", runID)
	}
	fmt.Fprintf(w, "radii: %v\n", out.Radii)
	fmt.Fprintf(w, "grid: %d samples over [%.6g, %.6g]\n", out.Samples, out.Start, out.End)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Order\tMode\tPeak |h|\n")
	for _, o := range out.Orders {
		for _, m := range o.Modes {
			fmt.Fprintf(tw, "%d\t%s\t%.6e\n", o.Order, m.Mode, m.Peak)
		}
	}
	return tw.Flush()
}

func renderConvergence(w io.Writer, format string, res *pipeline.ConvergenceResult, runID string) error {
	out := convergenceJSON{
		RunID:  runID,
		Levels: res.Levels,
		Order: orderEstJSON{
			Defined: res.Order.Defined,
			Reason:  res.Order.Reason,
			Order:   res.Order.Order,
		},
	}
	if res.OrderErr != nil {
		out.Order.Error = res.OrderErr.Error()
	}
	if len(res.Order.PerMode) > 0 {
		out.Order.PerMode = make(map[string]float64, len(res.Order.PerMode))
		for m, p := range res.Order.PerMode {
			out.Order.PerMode[m.String()] = p
		}
	}
	for _, p := range res.Pairs {
		pj := pairJSON{Coarse: p.Coarse, Fine: p.Fine}
		if p.Err != nil {
			pj.Error = p.Err.Error()
		} else {
			r := p.Report
			pj.Start, pj.End, pj.Shift = r.Window.Start, r.Window.End, r.Shift
			for _, m := range r.SortedModes() {
				d := r.Modes[m]
				pj.Modes = append(pj.Modes, modeDiffJSON{
					Mode: m.String(), MaxAbs: d.MaxAbs, MaxPhase: d.MaxPhase, L2: d.L2, RelL2: finite(d.RelL2),
				})
			}
		}
		out.Pairs = append(out.Pairs, pj)
	}
	if format == "json" {
		return writeJSON(w, out)
	}

	if runID != "" {
		fmt.Fprintf(w, "run: %s\n", runID)
	}
	fmt.Fprintf(w, "levels: %v\n", out.Levels)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Coarse\tFine\tMode\tMaxAbs\tMaxPhase\tL2\tRelL2\tStatus\n")
	for _, p := range out.Pairs {
		if p.Error != "" {
			fmt.Fprintf(tw, "%d\t%d\t-\t-\t-\t-\t-\terror: %s\n", p.Coarse, p.Fine, p.Error)
			continue
		}
		for _, m := range p.Modes {
			rel := "inf"
			if m.RelL2 != nil {
				rel = fmt.Sprintf("%.3e", *m.RelL2)
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%.3e\t%.3e\t%.3e\t%s\tok\n",
				p.Coarse, p.Fine, m.Mode, m.MaxAbs, m.MaxPhase, m.L2, rel)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	switch {
	case out.Order.Error != "":
		fmt.Fprintf(w, "order: failed (%s)\n", out.Order.Error)
	case out.Order.Defined:
		fmt.Fprintf(w, "order: %.3f\n", out.Order.Order)
	default:
		fmt.Fprintf(w, "order: undefined (%s)\n", out.Order.Reason)
	}
	return nil
}
