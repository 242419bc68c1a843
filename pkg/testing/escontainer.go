package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultESImage = "docker.elastic.co/elasticsearch/elasticsearch:8.19.0"

// ESContainer is a single-node Elasticsearch matching the client major version.
type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// NewESContainer starts Elasticsearch and terminates it on test cleanup.
// ES_TEST_IMAGE overrides the image.
func NewESContainer(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	esContainer, err := elasticsearch.Run(ctx,
		imageOr("ES_TEST_IMAGE", defaultESImage),
		elasticsearch.WithPassword(""),
		testcontainers.WithEnv(map[string]string{"ES_JAVA_OPTS": "-Xms512m -Xmx512m"}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200/tcp").
				WithStartupTimeout(90*time.Second),
		),
	)
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(esContainer); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})
	if err != nil {
		tb.Fatalf("failed to start elasticsearch container: %v", err)
	}

	host, err := esContainer.Host(ctx)
	if err != nil {
		tb.Fatalf("failed to get elasticsearch host: %v", err)
	}
	port, err := esContainer.MappedPort(ctx, "9200/tcp")
	if err != nil {
		tb.Fatalf("failed to get elasticsearch port: %v", err)
	}

	return &ESContainer{
		Container: esContainer,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
}
