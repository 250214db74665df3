package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var maxClients int = 1000
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var healthClient healthpb.HealthClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

var failures atomic.Int64

var services = []string{"", "machines", "tools", "production_records", "cnc_time_logs"}

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	healthClient = healthpb.NewHealthClient(conn)

	fmt.Printf("gRPC client created\n")

	startTime := time.Now()
	wg := sync.WaitGroup{}
	for i := range maxClients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doActions(i)
		}()
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v clients: used time=%v seconds, throughput=%v action/second, failures=%v\n",
		maxClients, usedTime.Seconds(), float64(maxClients*4)/usedTime.Seconds(), failures.Load(),
	)
}

func intn(n int) int {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Intn(n)
}

func doActions(client int) {
	actions := []func() error{
		genGetAction("/api/data"),
		genGetAction("/api/stats"),
		genGetAction("/api/cnc-time-logs"),
		genHealthCheckAction(services[intn(len(services))]),
	}
	for i := len(actions) - 1; i > 0; i-- {
		j := intn(i + 1)
		actions[i], actions[j] = actions[j], actions[i]
	}

	for _, action := range actions {
		if err := action(); err != nil {
			failures.Add(1)
			fmt.Printf("\nclient %v error: %v\n", client, err)
		}
		time.Sleep(time.Duration(100+intn(1000)) * time.Millisecond)
	}
	fmt.Printf("\rexecuted actions for client %v", client)
}

func genGetAction(path string) func() error {
	return func() error {
		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://%s%s", httpHostPort, path), nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Request-ID", uuid.NewString())

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
		}
		return nil
	}
}

func genHealthCheckAction(service string) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// ResourceExhausted is expected once the per-peer limiter kicks in.
		_, err := healthClient.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		return err
	}
}
