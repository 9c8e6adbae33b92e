package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/cwbudde/algo-nrwave/pipeline"
	"github.com/cwbudde/algo-nrwave/waveform"
)

// PairSummary is a stored convergence pair.
type PairSummary struct {
	Coarse, Fine int
	Err          string
	WindowStart  float64
	WindowEnd    float64
	Shift        float64
	Samples      int
	Modes        []ModeSummary
}

// ModeSummary holds the scalar comparison results of one mode.
type ModeSummary struct {
	Mode     waveform.Mode
	MaxAbs   float64
	MaxPhase float64
	L2       float64
	RelL2    float64
}

// OrderSummary is a stored sequence order estimate.
type OrderSummary struct {
	Defined bool
	Reason  string
	Order   float64
	Err     string
}

// SaveExtrapolation stores every order of res and returns the new run id.
func (s *Store) SaveExtrapolation(ctx context.Context, res *pipeline.ExtrapolationResult) (string, error) {
	summary := fmt.Sprintf("radii=%v orders=%v modes=%d samples=%d",
		res.Radii, res.SortedOrders(), len(res.Modes), len(res.Grid))

	var id string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if id, err = s.insertRun(ctx, tx, KindExtrapolation, summary); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO extrapolated_samples
			(run_id, ord, l, m, idx, t, re, im) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare: %w", err)
		}
		defer stmt.Close()

		for _, n := range res.SortedOrders() {
			series := res.Orders[n]
			for _, m := range series.Modes() {
				for i := range series.Len() {
					h := series.At(m, i)
					if _, err := stmt.ExecContext(ctx, id, n, m.L, m.M, i,
						series.TimeAt(i), real(h), imag(h)); err != nil {
						return fmt.Errorf("store: insert sample: %w", err)
					}
				}
			}
		}
		return nil
	})
	return id, err
}

// LoadExtrapolation reads back one order of a stored extrapolation run.
func (s *Store) LoadExtrapolation(ctx context.Context, id string, order int) (*waveform.Series, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT l, m, idx, t, re, im FROM extrapolated_samples
		WHERE run_id = ? AND ord = ? ORDER BY l, m, idx`, id, order)
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	defer rows.Close()

	var times []float64
	data := make(map[waveform.Mode][]complex128)
	for rows.Next() {
		var m waveform.Mode
		var idx int
		var t, re, im float64
		if err := rows.Scan(&m.L, &m.M, &idx, &t, &re, &im); err != nil {
			return nil, fmt.Errorf("store: load: %w", err)
		}
		if idx == len(times) {
			times = append(times, t)
		}
		data[m] = append(data[m], complex(re, im))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s order %d", ErrRunNotFound, id, order)
	}
	return waveform.New(times, data, waveform.InfinityTag())
}

// SaveConvergence stores every pair outcome and the sequence estimate of
// res and returns the new run id.
func (s *Store) SaveConvergence(ctx context.Context, res *pipeline.ConvergenceResult) (string, error) {
	summary := fmt.Sprintf("levels=%v pairs=%d failed=%d", res.Levels, len(res.Pairs), len(res.Failed()))

	var id string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if id, err = s.insertRun(ctx, tx, KindConvergence, summary); err != nil {
			return err
		}
		for _, p := range res.Pairs {
			if err := insertPair(ctx, tx, id, p); err != nil {
				return err
			}
		}

		var value sql.NullFloat64
		if res.Order.Defined && !math.IsNaN(res.Order.Order) {
			value = sql.NullFloat64{Float64: res.Order.Order, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO convergence_orders
			(run_id, defined, reason, value, error) VALUES (?, ?, ?, ?, ?)`,
			id, res.Order.Defined, res.Order.Reason, value, errText(res.OrderErr))
		if err != nil {
			return fmt.Errorf("store: insert order: %w", err)
		}
		return nil
	})
	return id, err
}

func insertPair(ctx context.Context, tx *sql.Tx, id string, p pipeline.PairOutcome) error {
	if p.Err != nil {
		_, err := tx.ExecContext(ctx, `INSERT INTO convergence_pairs
			(run_id, coarse, fine, error) VALUES (?, ?, ?, ?)`,
			id, p.Coarse, p.Fine, p.Err.Error())
		if err != nil {
			return fmt.Errorf("store: insert pair: %w", err)
		}
		return nil
	}

	r := p.Report
	_, err := tx.ExecContext(ctx, `INSERT INTO convergence_pairs
		(run_id, coarse, fine, window_start, window_end, shift, samples)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.Coarse, p.Fine, r.Window.Start, r.Window.End, r.Shift, len(r.Grid))
	if err != nil {
		return fmt.Errorf("store: insert pair: %w", err)
	}
	for _, m := range r.SortedModes() {
		d := r.Modes[m]
		_, err := tx.ExecContext(ctx, `INSERT INTO convergence_modes
			(run_id, coarse, fine, l, m, max_abs, max_phase, l2, rel_l2)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Coarse, p.Fine, m.L, m.M, d.MaxAbs, d.MaxPhase, d.L2, finiteOr(d.RelL2, -1))
		if err != nil {
			return fmt.Errorf("store: insert mode: %w", err)
		}
	}
	return nil
}

// Pairs returns the stored pairs of a convergence run.
func (s *Store) Pairs(ctx context.Context, id string) ([]PairSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT coarse, fine, error, window_start, window_end, shift, samples
		FROM convergence_pairs WHERE run_id = ? ORDER BY coarse, fine`, id)
	if err != nil {
		return nil, fmt.Errorf("store: pairs: %w", err)
	}
	var out []PairSummary
	for rows.Next() {
		var p PairSummary
		var errStr sql.NullString
		var ws, we, shift sql.NullFloat64
		var samples sql.NullInt64
		if err := rows.Scan(&p.Coarse, &p.Fine, &errStr, &ws, &we, &shift, &samples); err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: pairs: %w", err)
		}
		p.Err = errStr.String
		p.WindowStart, p.WindowEnd, p.Shift = ws.Float64, we.Float64, shift.Float64
		p.Samples = int(samples.Int64)
		out = append(out, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: pairs: %w", err)
	}

	for i := range out {
		if out[i].Modes, err = s.modes(ctx, id, out[i].Coarse, out[i].Fine); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) modes(ctx context.Context, id string, coarse, fine int) ([]ModeSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT l, m, max_abs, max_phase, l2, rel_l2
		FROM convergence_modes WHERE run_id = ? AND coarse = ? AND fine = ? ORDER BY l, m`,
		id, coarse, fine)
	if err != nil {
		return nil, fmt.Errorf("store: modes: %w", err)
	}
	defer rows.Close()

	var out []ModeSummary
	for rows.Next() {
		var ms ModeSummary
		if err := rows.Scan(&ms.Mode.L, &ms.Mode.M, &ms.MaxAbs, &ms.MaxPhase, &ms.L2, &ms.RelL2); err != nil {
			return nil, fmt.Errorf("store: modes: %w", err)
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}

// Order returns the stored sequence estimate of a convergence run.
func (s *Store) Order(ctx context.Context, id string) (OrderSummary, error) {
	var o OrderSummary
	var reason, errStr sql.NullString
	var value sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT defined, reason, value, error
		FROM convergence_orders WHERE run_id = ?`, id).Scan(&o.Defined, &reason, &value, &errStr)
	if err == sql.ErrNoRows {
		return o, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return o, fmt.Errorf("store: order: %w", err)
	}
	o.Reason, o.Order, o.Err = reason.String, value.Float64, errStr.String
	return o, nil
}

func errText(err error) sql.NullString {
	if err == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: err.Error(), Valid: true}
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
