//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "inventory-ledger"
	ConsumerName = "order-service"

	StateRefrigeratedFree = "racks r201 r202 free"
	StateRackOccupied     = "rack r201 occupied by another order"
	StateRackHeld         = "rack r201 held by order o-pact"
)

const (
	RenterID      = "u100"
	PactOrderID   = "o-pact"
	OtherOrderID  = "o-other"
	OtherRenterID = "u999"
	RackType      = "REFRIGERATED"
)

// RefrigeratedRacks are the free racks of RackType in the default catalogue.
var RefrigeratedRacks = []string{"r201", "r202"}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file path for the order service consuming the inventory ledger.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
