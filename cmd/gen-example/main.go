package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/macrograph/pkg/adapters/file"
	"github.com/aretw0/macrograph/pkg/dsl"
)

func main() {
	target := "examples/login/graph.yaml"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create dir: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating example graph in: %s\n", target)

	b := dsl.New("login")
	b.Observer("login-screen").
		Label("Login form appears").
		Region(100, 100, 300, 160, 50).
		Go("fill-credentials")
	b.Action("fill-credentials").
		Click(200, 120, "left").
		Type("operator").
		Key("tab").
		Type("hunter2").
		Go("submit")
	b.Action("submit").
		Key("enter").
		Wait(500 * time.Millisecond).
		Go("dashboard")
	b.Observer("dashboard").
		Label("Dashboard loaded").
		Region(0, 0, 640, 40, 200).
		Go("close")
	b.Action("close").
		Key("escape")

	if err := file.NewLoader(target).Save(context.Background(), b.Graph()); err != nil {
		fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Done.")
}
