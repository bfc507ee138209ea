// Package connecttest boots throwaway database servers for integration tests.
package connecttest

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ory/dockertest"
)

type DockerServiceConfig[T any] struct {
	Repository   string
	Tag          string
	InternalPort int
	Environment  map[string]string
	// Builder is retried until it succeeds or the pool gives up.
	Builder func(host string, port int) (T, error)
}

func (config DockerServiceConfig[T]) env() []string {
	env := make([]string, 0, len(config.Environment))
	for key, value := range config.Environment {
		env = append(env, key+"="+value)
	}

	return env
}

// GetDockerService starts a container, waits for Builder to connect to it and
// purges the container when the test ends. Skipped in -short mode.
func GetDockerService[T any](t *testing.T, config DockerServiceConfig[T]) T {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping docker backed test in short mode.")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("docker pool: %s", err)
	}
	pool.MaxWait = 2 * time.Minute

	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("docker ping: %s", err)
	}

	resource, err := pool.Run(config.Repository, config.Tag, config.env())
	if err != nil {
		t.Fatalf("start %s:%s: %s", config.Repository, config.Tag, err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("purge %s:%s: %s", config.Repository, config.Tag, err)
		}
	})

	host, port, err := serviceAddress(resource.GetHostPort(fmt.Sprintf("%d/tcp", config.InternalPort)))
	if err != nil {
		t.Fatalf("resolve service address: %s", err)
	}

	var service T
	if err := pool.Retry(func() error {
		built, err := config.Builder(host, port)
		if err != nil {
			return err
		}

		service = built
		return nil
	}); err != nil {
		t.Fatalf("connect to %s:%s: %s", config.Repository, config.Tag, err)
	}

	return service
}

// serviceAddress swaps in the DOCKER_HOST host name when docker runs on a
// remote tcp daemon.
func serviceAddress(hostPort string) (string, int, error) {
	host, rawPort, err := net.SplitHostPort(hostPort)
	if err != nil {
		return "", 0, err
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return "", 0, fmt.Errorf("port of %s: %w", hostPort, err)
	}

	if dockerHost := os.Getenv("DOCKER_HOST"); strings.HasPrefix(dockerHost, "tcp://") {
		parsed, err := url.Parse(dockerHost)
		if err != nil {
			return "", 0, err
		}

		host = parsed.Hostname()
	}

	return host, port, nil
}
