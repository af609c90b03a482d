// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"testing"

	"github.com/aristanetworks/lofty/test"
)

func TestParseConfig(t *testing.T) {
	cfg := []byte(`
seed: 7
workloads:
  - name: maps
    kind: hopmap
    ops: 1000
    keys: 64
    instances: 2
  - name: queues
    kind: trimap
    ops: 500
`)
	config, err := parseConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Seed: 7,
		Workloads: []*WorkloadDef{{
			Name:      "maps",
			Kind:      "hopmap",
			Ops:       1000,
			Keys:      64,
			Instances: 2,
		}, {
			Name:      "queues",
			Kind:      "trimap",
			Ops:       500,
			Keys:      1024,
			Instances: 1,
		}},
	}
	if diff := test.Diff(want, config); diff != "" {
		t.Errorf("config mismatch: %s", diff)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  string
	}{
		{"bad kind", "workloads:\n  - name: x\n    kind: btree\n    ops: 1\n"},
		{"no ops", "workloads:\n  - name: x\n    kind: hopmap\n"},
		{"bad yaml", "workloads: ["},
	}
	for _, tcase := range tests {
		if _, err := parseConfig([]byte(tcase.cfg)); err == nil {
			t.Errorf("%s: config accepted, but expected an error", tcase.name)
		}
	}
}

func TestRunWorkloads(t *testing.T) {
	for _, kind := range []string{"hopmap", "trimap"} {
		w := &WorkloadDef{Name: "test-" + kind, Kind: kind, Ops: 2000, Keys: 128, Instances: 1}
		if err := runWorkload(w, 3); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
}
