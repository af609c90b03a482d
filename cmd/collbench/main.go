// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// The collbench command drives configurable workloads over the collection
// engines and exposes their counters as Prometheus metrics.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/aristanetworks/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFlag := flag.String("config", "", "Workload config file")
	listenAddr := flag.String("listenaddr", "", "Address on which to expose the metrics")
	url := flag.String("url", "/metrics", "URL where to expose the metrics")
	flag.Parse()

	if *configFlag == "" {
		glog.Fatal("You need to specify a config file using -config flag")
	}
	cfg, err := os.ReadFile(*configFlag)
	if err != nil {
		glog.Fatalf("Can't read config file %q: %v", *configFlag, err)
	}
	config, err := parseConfig(cfg)
	if err != nil {
		glog.Fatal(err)
	}

	if *listenAddr != "" {
		http.Handle(*url, promhttp.Handler())
		go func() {
			glog.Fatal(http.ListenAndServe(*listenAddr, nil))
		}()
		glog.Infof("metrics on %s%s", *listenAddr, *url)
	}

	var g errgroup.Group
	seed := config.Seed
	for _, w := range config.Workloads {
		for i := 0; i < w.Instances; i++ {
			w := w
			instanceSeed := seed
			seed++
			g.Go(func() error {
				return runWorkload(w, instanceSeed)
			})
		}
	}
	if err := g.Wait(); err != nil {
		glog.Fatal(err)
	}
	glog.Info("all workloads completed")
}
