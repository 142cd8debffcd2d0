// Package names provides thematic name generation for batchq gateway
// instances, delivering human-readable identifiers that make multi-instance
// development setups and log streams easy to tell apart.
//
// This package generates memorable instance identifiers in Docker-style
// "adjective-noun" format, drawing from themed vocabularies chosen to fit
// the domain. An operator tailing two gateways would rather see
// "swift-conveyor" and "patient-courier" than a pair of hex strings.
//
// THEMATIC VOCABULARY SOURCES:
//   - General Descriptive: Docker-inspired adjectives for familiar naming patterns
//   - Flow/Throughput: Movement and pacing terms matching the batching domain
//   - Transit/Delivery: Nouns from logistics and message passing
//   - Tech/Computing: Technical terms aligned with the gateway's role
//
// NAME GENERATION STRATEGY:
// Uses secure random selection for unpredictable name patterns. Implements
// collision detection for bulk generation while keeping single requests
// cheap.
//
// Examples: "swift-conveyor", "patient-courier", "buffered-relay", "eager-dispatcher"

package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Adjectives from multiple themes for name generation
var adjectives = []string{
	// General/Docker-like adjectives
	"admiring", "amazing", "awesome", "bold", "brave",
	"busy", "charming", "clever", "cool", "confident",
	"dazzling", "determined", "dreamy", "eager", "ecstatic",
	"elegant", "eloquent", "festive", "friendly", "frosty",
	"gallant", "gifted", "goofy", "gracious", "happy",
	"hopeful", "inspiring", "intelligent", "jolly", "keen",
	"kind", "lucid", "magical", "modest", "nice",
	"nifty", "nostalgic", "optimistic", "peaceful", "practical",
	"quirky", "relaxed", "serene", "sleepy", "stoic",
	"sweet", "tender", "trusting", "upbeat", "vibrant",
	"vigilant", "wizardly", "wonderful", "youthful", "zealous",

	// Flow/Throughput adjectives
	"swift", "rapid", "steady", "patient", "punctual",
	"brisk", "fluent", "streaming", "surging", "cascading",
	"pulsing", "rhythmic", "throttled", "buffered", "coalesced",
	"bundled", "pipelined", "staged", "sequenced", "ordered",

	// Transit/Delivery adjectives
	"express", "overnight", "certified", "registered", "priority",
	"bonded", "chartered", "scheduled", "nonstop", "direct",
	"roundtrip", "outbound", "inbound", "transcontinental", "coastal",

	// Tech/Computing adjectives
	"digital", "quantum", "cyber", "atomic", "virtual",
	"synthetic", "algorithmic", "networked", "distributed", "parallel",
	"concurrent", "recursive", "binary", "scalable", "optimized",
	"compiled", "dynamic", "asynchronous", "idempotent", "stateless",
}

// Nouns from multiple themes for name generation
var nouns = []string{
	// Transit/Delivery nouns
	"conveyor", "courier", "carrier", "caravan", "convoy",
	"freighter", "ferry", "barge", "clipper", "schooner",
	"locomotive", "boxcar", "caboose", "wagon", "chariot",
	"postman", "herald", "messenger", "envoy", "runner",
	"porter", "mailbag", "parcel", "bundle", "satchel",
	"manifest", "waybill", "ledger", "docket", "invoice",

	// Flow/Plumbing nouns
	"pipeline", "conduit", "channel", "funnel", "sluice",
	"aqueduct", "reservoir", "basin", "current", "stream",
	"cascade", "rapids", "delta", "tributary", "estuary",
	"tide", "wave", "surge", "eddy", "whirlpool",

	// Tech/Computing nouns
	"buffer", "queue", "batch", "packet", "payload",
	"envelope", "socket", "daemon", "thread", "kernel",
	"registry", "cache", "parser", "compiler", "scheduler",
	"dispatcher", "relay", "router", "proxy", "gateway",
	"broker", "worker", "listener", "handler", "endpoint",
	"webhook", "cursor", "token", "segment", "shard",

	// Animals (the fast and the patient)
	"falcon", "swallow", "cheetah", "greyhound", "hare",
	"marlin", "swift", "osprey", "gazelle", "stallion",
	"tortoise", "snail", "sloth", "heron", "pelican",
	"albatross", "camel", "mule", "ox", "badger",
	"beaver", "magpie", "raven", "crane", "stork",
}

// Generate creates a random Docker-style name in "adjective-noun" format
// from the thematic word collections. Returns names suitable for immediate
// use as gateway instance identifiers.
//
// Returns names in the format: "adjective-noun" (e.g., "swift-conveyor", "buffered-relay")
func Generate() string {
	adjective := adjectives[randomIndex(len(adjectives))]
	noun := nouns[randomIndex(len(nouns))]
	return fmt.Sprintf("%s-%s", adjective, noun)
}

// randomIndex generates a random index within the specified range using
// crypto/rand for unpredictable selection, with a fallback index for
// reliable operation if the random source fails.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		// Fallback to a simple index if crypto/rand fails
		return 0
	}

	return int(n.Int64())
}

// GenerateMany creates multiple unique instance names with collision
// detection for bulk operations in testing scenarios. Tracks generated
// names to ensure uniqueness within the requested batch.
//
// Uses bounded retries (100 max) to handle vocabulary exhaustion gracefully
// while maintaining performance.
func GenerateMany(count int) []string {
	if count <= 0 {
		return []string{}
	}

	names := make([]string, count)
	used := make(map[string]bool)

	for i := 0; i < count; i++ {
		var name string
		attempts := 0

		// Try to generate a unique name, with a reasonable retry limit
		for {
			name = Generate()
			if !used[name] || attempts > 100 {
				break
			}
			attempts++
		}

		used[name] = true
		names[i] = name
	}

	return names
}
