// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Config is the representation of collbench's YAML config file.
type Config struct {
	// Seed for the workload RNGs; 0 picks a fixed default.
	Seed int64

	// Workloads to run.
	Workloads []*WorkloadDef
}

// WorkloadDef is the representation of one workload definition in the
// config file.
type WorkloadDef struct {
	// Name labels the workload in logs and metrics.
	Name string

	// Kind selects the data structure: "hopmap" or "trimap".
	Kind string

	// Ops is the number of operations to run.
	Ops int

	// Keys is the size of the key universe.
	Keys int

	// Instances is the number of independent instances run concurrently;
	// each instance owns its map, since a single one must not be mutated
	// from more than one goroutine.
	Instances int
}

func parseConfig(cfg []byte) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(cfg, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	if config.Seed == 0 {
		config.Seed = 1
	}
	for _, w := range config.Workloads {
		switch w.Kind {
		case "hopmap", "trimap":
		default:
			return nil, fmt.Errorf("workload %q: unknown kind %q", w.Name, w.Kind)
		}
		if w.Ops <= 0 {
			return nil, fmt.Errorf("workload %q: ops must be positive", w.Name)
		}
		if w.Keys <= 0 {
			w.Keys = 1024
		}
		if w.Instances <= 0 {
			w.Instances = 1
		}
	}
	return config, nil
}
