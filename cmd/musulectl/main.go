package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/comitanigiacomo/musule-planner/internal/adapters/repository"
	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/services"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	repo, err := repository.Open(context.Background(), cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open plan store: %v\n", err)
		os.Exit(1)
	}

	plans := services.NewPlanService(repo)
	deps := cliDeps{
		plans:     plans,
		summaries: services.NewSummaryService(plans, cfg.Location()),
		loc:       cfg.Location(),
		now:       time.Now,
	}

	if err := newCLIApp(deps, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
