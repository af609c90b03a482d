// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"math/rand"
	"time"

	"github.com/aristanetworks/glog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aristanetworks/lofty/hopmap"
	"github.com/aristanetworks/lofty/trimap"
)

var (
	opsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collbench_ops_total",
		Help: "Operations run, by workload and operation.",
	}, []string{"workload", "op"})
	workloadSeconds = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "collbench_workload_seconds",
		Help: "Wall-clock seconds the last run of each workload instance took.",
	}, []string{"workload"})
)

func init() {
	prometheus.MustRegister(opsTotal, workloadSeconds)
}

// runWorkload runs one instance of a workload definition to completion.
func runWorkload(w *WorkloadDef, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	start := time.Now()
	var err error
	switch w.Kind {
	case "hopmap":
		err = runHopmap(w, rng)
	case "trimap":
		err = runTrimap(w, rng)
	default:
		err = fmt.Errorf("unknown workload kind %q", w.Kind)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	workloadSeconds.WithLabelValues(w.Name).Set(elapsed.Seconds())
	glog.Infof("workload %s: %d ops in %s", w.Name, w.Ops, elapsed)
	return nil
}

func runHopmap(w *WorkloadDef, rng *rand.Rand) error {
	seed := maphash.MakeSeed()
	m := hopmap.New[uint64, uint64](0,
		func(k uint64) uint64 {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], k)
			return maphash.Bytes(seed, buf[:])
		},
		func(a, b uint64) bool { return a == b })
	sets, gets, deletes := 0, 0, 0
	present := make(map[uint64]uint64, w.Keys)
	for i := 0; i < w.Ops; i++ {
		k := uint64(rng.Intn(w.Keys))
		switch rng.Intn(4) {
		case 0, 1:
			m.Set(k, k*2)
			present[k] = k * 2
			sets++
		case 2:
			got, ok := m.Get(k)
			want, wantOK := present[k]
			if ok != wantOK || (ok && got != want) {
				return fmt.Errorf("workload %s: Get(%d) = (%d, %t), want (%d, %t)",
					w.Name, k, got, ok, want, wantOK)
			}
			gets++
		case 3:
			deleted := m.Delete(k)
			if _, wantOK := present[k]; deleted != wantOK {
				return fmt.Errorf("workload %s: Delete(%d) = %t, want %t",
					w.Name, k, deleted, wantOK)
			}
			delete(present, k)
			deletes++
		}
		if m.Len() != len(present) {
			return fmt.Errorf("workload %s: length %d, want %d", w.Name, m.Len(), len(present))
		}
	}
	opsTotal.WithLabelValues(w.Name, "set").Add(float64(sets))
	opsTotal.WithLabelValues(w.Name, "get").Add(float64(gets))
	opsTotal.WithLabelValues(w.Name, "delete").Add(float64(deletes))
	glog.V(1).Infof("workload %s: %d sets %d gets %d deletes, final size %d",
		w.Name, sets, gets, deletes, m.Len())
	return nil
}

func runTrimap(w *WorkloadDef, rng *rand.Rand) error {
	m := trimap.New[uint32, uint64]()
	adds, pops := 0, 0
	for i := 0; i < w.Ops; i++ {
		if rng.Intn(3) != 0 || m.Empty() {
			k := uint32(rng.Intn(w.Keys))
			m.Add(k, uint64(i))
			adds++
		} else {
			if _, _, ok := m.PopFront(); !ok {
				return fmt.Errorf("workload %s: PopFront on non-empty map failed", w.Name)
			}
			pops++
		}
	}
	// Drain in order, checking monotonicity.
	var last uint32
	first := true
	for !m.Empty() {
		k, _, ok := m.PopFront()
		if !ok {
			return fmt.Errorf("workload %s: drain stalled at size %d", w.Name, m.Len())
		}
		if !first && k < last {
			return fmt.Errorf("workload %s: keys popped out of order: %d after %d",
				w.Name, k, last)
		}
		last, first = k, false
		pops++
	}
	opsTotal.WithLabelValues(w.Name, "add").Add(float64(adds))
	opsTotal.WithLabelValues(w.Name, "pop").Add(float64(pops))
	glog.V(1).Infof("workload %s: %d adds %d pops", w.Name, adds, pops)
	return nil
}
