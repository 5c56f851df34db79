//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/couchcryptid/seaice-etl/internal/adapter/awi"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container for the test and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("seaice-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type orbitFiles struct {
	defPath string
	awiPath string
	jplPath string
}

const jplBody = `# NASA-JPL CryoSat-2 sea ice thickness
# year doy seconds lat lon sit snow_depth snow_density
# ----
2014 90 2319.5 81.25 -120.5 1.5 0.25 300
2014 90 2320.25 81.5 -120.75 2.5 0.5 330
2014 90 2321 81.75 -121 3.5 0.75 310
`

// writeOrbitFiles writes an AWI file for orbit 21093, a matching field
// definition, and a NASA-JPL text file.
func writeOrbitFiles(t *testing.T) orbitFiles {
	t.Helper()
	dir := t.TempDir()
	files := orbitFiles{
		defPath: filepath.Join(dir, "awi_field_definition.json"),
		awiPath: filepath.Join(dir, "CS2_021093_20140401T003839_20140401T004237_B001_AWIPROC01.dat"),
		jplPath: filepath.Join(dir, "nasa_jpl_021093.txt"),
	}
	require.NoError(t, os.WriteFile(files.defPath,
		[]byte(`{"output": {"time": {}, "lon": {}, "lat": {}, "fb": {}, "sd": {}, "rho_s": {}, "rho_i": {}, "sit": {}}}`), 0o644))
	require.NoError(t, os.WriteFile(files.jplPath, []byte(jplBody), 0o644))

	h, err := awi.HeaderFor([2]float32{-121, -120}, [2]float32{81, 82}, 0, 1, 2, 4, 5, 6, 7)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, awi.Encode(&buf, h, [][]float64{
		{2456748.527, -120.5, 81.25, 0.25, 300, 917.5, 1.5},
		{2456748.5275, -120.75, 81.5, 0.5, 330, 882, 2.5},
	}))
	require.NoError(t, os.WriteFile(files.awiPath, buf.Bytes(), 0o644))
	return files
}
