// Command claim_stress fires concurrent release claims at Redis and checks
// that exactly one run wins each version.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/rl1809/packdemo/internal/adapter/storage"
)

func main() {
	var (
		redisAddr     string
		branch        string
		versions      int
		totalRequests int
	)

	cmd := &cobra.Command{
		Use:   "claim_stress",
		Short: "Race concurrent release claims against Redis",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			run(redisAddr, branch, versions, totalRequests)
		},
	}
	cmd.Flags().StringVar(&redisAddr, "redis", envOr("REDIS_ADDR", "localhost:6379"), "Redis address")
	cmd.Flags().StringVar(&branch, "branch", "stress", "Branch used in claim keys")
	cmd.Flags().IntVar(&versions, "versions", 5, "Distinct versions to claim")
	cmd.Flags().IntVar(&totalRequests, "requests", 50, "Concurrent claims per version")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(redisAddr, branch string, versions, totalRequests int) {
	ctx := context.Background()

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	ledger := storage.NewRedisAdapter(rdb)

	keys := make([]string, versions)
	for i := range keys {
		keys[i] = fmt.Sprintf("release:%s:1.%d.0", branch, i)
		// Clear previous test data
		if err := ledger.ReleaseClaim(ctx, keys[i]); err != nil {
			log.Fatalf("failed to clear claim %s: %v", keys[i], err)
		}
	}

	// Counters
	wins := make([]atomic.Int32, versions)
	var failCount atomic.Int32
	var errCount atomic.Int32

	// Spawn concurrent claims
	var wg sync.WaitGroup
	start := time.Now()

	for v := range keys {
		for i := 0; i < totalRequests; i++ {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()

				ok, err := ledger.ClaimRelease(ctx, keys[v])
				switch {
				case err != nil:
					errCount.Add(1)
				case ok:
					wins[v].Add(1)
				default:
					failCount.Add(1)
				}
			}(v)
		}
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	var success int32
	for v := range wins {
		success += wins[v].Load()
	}

	fmt.Println("========== CLAIM STRESS RESULTS ==========")
	fmt.Printf("Versions:         %d\n", versions)
	fmt.Printf("Total Claims:     %d\n", versions*totalRequests)
	fmt.Printf("Won:              %d\n", success)
	fmt.Printf("Duplicates:       %d\n", failCount.Load())
	fmt.Printf("Errors:           %d\n", errCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	passed := errCount.Load() == 0
	for v := range wins {
		if n := wins[v].Load(); n != 1 {
			fmt.Printf("FAIL: %s won %d times, expected 1\n", keys[v], n)
			passed = false
		}
	}

	// Cleanup
	for _, key := range keys {
		ledger.ReleaseClaim(ctx, key)
	}

	if !passed {
		os.Exit(1)
	}
	fmt.Printf("PASS: Exactly one claim per version, %d duplicates rejected\n", failCount.Load())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
