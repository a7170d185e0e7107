package flow_test

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dudk/flow"
	"github.com/dudk/flow/mock"
	"github.com/dudk/flow/samples/generic"
	"github.com/dudk/flow/samples/math"
)

const (
	waitFor = 5 * time.Second
	tick    = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEmptyGraph(t *testing.T) {
	g := flow.NewGraph("empty")
	g.Start()
	g.Stop()
}

func TestUnconnected(t *testing.T) {
	g := flow.NewGraph("unconnected")
	assert.True(t, g.Add(mock.DummyProducer[int](0)))
	assert.True(t, g.Add(mock.DummyTransformer[int, int](0, 0)))
	assert.True(t, g.Add(mock.DummyConsumer[int](0)))

	g.Start()
	g.Stop()
}

func TestConnected(t *testing.T) {
	g := flow.NewGraph("connected")
	require.True(t, g.Add(mock.DummyProducer[int](1)))
	require.True(t, g.Add(mock.DummyTransformer[int, int](1, 1)))
	require.True(t, g.Add(mock.DummyConsumer[int](1)))

	require.True(t, flow.Connect[int](g, "dummy_producer", 0, "dummy_transformer", 0))
	require.True(t, flow.Connect[int](g, "dummy_transformer", 0, "dummy_consumer", 0))

	g.Start()
	g.Stop()
}

func TestAddTwice(t *testing.T) {
	g := flow.NewGraph("graph")
	assert.True(t, g.Add(mock.DummyProducer[int](0)))
	assert.False(t, g.Add(mock.DummyProducer[int](0)))
}

func TestFind(t *testing.T) {
	g := flow.NewGraph("graph")
	p := mock.DummyProducer[int](1)
	require.True(t, g.AddAs(p, "source"))

	found := g.Find("source")
	require.NotNil(t, found)
	assert.Equal(t, "source", found.Name())
	assert.Equal(t, flow.KindProducer, found.Kind())
	assert.Equal(t, flow.Paused, found.State())

	assert.Nil(t, g.Find("missing"))
}

func TestConnectFailures(t *testing.T) {
	g := flow.NewGraph("graph")
	require.True(t, g.Add(mock.DummyProducer[int](1)))
	require.True(t, g.Add(mock.DummyConsumer[string](1)))

	// Unknown names leave the graph unchanged.
	assert.False(t, flow.Connect[int](g, "missing", 0, "dummy_consumer", 0))
	assert.False(t, flow.Connect[int](g, "dummy_producer", 0, "missing", 0))

	// Element type mismatch on either end.
	assert.False(t, flow.Connect[int](g, "dummy_producer", 0, "dummy_consumer", 0))
	assert.False(t, flow.Connect[string](g, "dummy_producer", 0, "dummy_consumer", 0))

	// Pin index out of range.
	require.True(t, g.AddAs(mock.DummyConsumer[int](1), "int_consumer"))
	assert.False(t, flow.Connect[int](g, "dummy_producer", 1, "int_consumer", 0))

	assert.Empty(t, g.Connections())
}

func TestConnectIdempotent(t *testing.T) {
	g := flow.NewGraph("graph")
	require.True(t, g.Add(mock.DummyProducer[int](1)))
	require.True(t, g.Add(mock.DummyConsumer[int](1)))

	require.True(t, flow.Connect[int](g, "dummy_producer", 0, "dummy_consumer", 0))
	require.True(t, flow.Connect[int](g, "dummy_producer", 0, "dummy_consumer", 0))

	connections := g.Connections()
	assert.Len(t, connections, 1)
	assert.Equal(t,
		flow.PinRef{Node: "dummy_consumer", Pin: 0},
		connections[flow.PinRef{Node: "dummy_producer", Pin: 0}])
}

func TestDisconnect(t *testing.T) {
	g := flow.NewGraph("graph")
	p := mock.DummyProducer[int](1)
	c := mock.DummyConsumer[int](1)
	require.True(t, g.Add(p))
	require.True(t, g.Add(c))
	require.True(t, flow.Connect[int](g, "dummy_producer", 0, "dummy_consumer", 0))

	assert.True(t, flow.DisconnectOutput[int](g, "dummy_producer", 0))
	assert.Empty(t, g.Connections())
	assert.False(t, p.Output(0).Connected())
	assert.True(t, c.Input(0).Connected())

	assert.False(t, flow.DisconnectOutput[int](g, "missing", 0))
}

func TestRemove(t *testing.T) {
	g := flow.NewGraph("graph")
	p := mock.DummyProducer[int](1)
	c := mock.DummyConsumer[int](1)
	require.True(t, g.Add(p))
	require.True(t, g.Add(c))
	require.True(t, flow.Connect[int](g, "dummy_producer", 0, "dummy_consumer", 0))

	removed := g.Remove("dummy_producer")
	require.NotNil(t, removed)
	assert.Equal(t, "dummy_producer", removed.Name())
	assert.False(t, p.Output(0).Connected())
	assert.Empty(t, g.Connections())
	assert.Nil(t, g.Find("dummy_producer"))

	// Removing a node that does not exist is a no-op.
	assert.Nil(t, g.Remove("dummy_producer"))
}

func TestTransitionOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	g := flow.NewGraph("graph")
	require.True(t, g.Add(flow.NewProducer[int]("p", 0, func(*flow.Producer[int]) {},
		flow.WithStarted(record("p")), flow.WithPaused(record("p")))))
	require.True(t, g.Add(flow.NewTransformer[int, int]("t", 0, 0, func(*flow.Transformer[int, int], int) {},
		flow.WithStarted(record("t")), flow.WithPaused(record("t")))))
	require.True(t, g.Add(flow.NewConsumer[int]("c", 0, func(*flow.Consumer[int], int) {},
		flow.WithStarted(record("c")), flow.WithPaused(record("c")))))

	g.Start()
	mu.Lock()
	assert.Equal(t, []string{"c", "t", "p"}, order)
	order = nil
	mu.Unlock()

	g.Pause()
	mu.Lock()
	assert.Equal(t, []string{"p", "t", "c"}, order)
	mu.Unlock()

	g.Stop()
}

func TestCount(t *testing.T) {
	source := mock.NewProduceN[int](5, 1)
	transformations := mock.NewTransformationCounter[int](1)
	consumptions := mock.NewConsumptionCounter[int](1)

	g := flow.NewGraph("count")
	require.True(t, g.Add(source))
	require.True(t, g.Add(transformations))
	require.True(t, g.Add(consumptions))
	require.True(t, flow.Connect[int](g, "produce_n", 0, "transformation_counter", 0))
	require.True(t, flow.Connect[int](g, "transformation_counter", 0, "consumption_counter", 0))

	g.Start()
	assert.Eventually(t, func() bool {
		return consumptions.Count(0) == 5
	}, waitFor, tick)
	g.Stop()

	assert.Equal(t, 5, transformations.Count(0))
	assert.Equal(t, 5, consumptions.Count(0))
}

func TestRestart(t *testing.T) {
	source := mock.NewProduceN[int](3, 1)
	consumptions := mock.NewConsumptionCounter[int](1)

	g := flow.NewGraph("restart")
	require.True(t, g.Add(source))
	require.True(t, g.Add(consumptions))
	require.True(t, flow.Connect[int](g, "produce_n", 0, "consumption_counter", 0))

	for cycle := 0; cycle < 3; cycle++ {
		g.Start()
		assert.Eventually(t, func() bool {
			return consumptions.Count(0) == 3
		}, waitFor, tick)
		g.Stop()

		assert.Equal(t, 3, consumptions.Count(0))
		source.Reset()
		consumptions.Reset()
	}
}

func TestPauseResume(t *testing.T) {
	source := mock.NewProduceN[int](3, 1)
	consumptions := mock.NewConsumptionCounter[int](1)

	g := flow.NewGraph("pause")
	require.True(t, g.Add(source))
	require.True(t, g.Add(consumptions))
	require.True(t, flow.Connect[int](g, "produce_n", 0, "consumption_counter", 0))

	for cycle := 0; cycle < 3; cycle++ {
		g.Start()
		assert.Eventually(t, func() bool {
			return consumptions.Count(0) == 3
		}, waitFor, tick)
		g.Pause()

		assert.Equal(t, 3, consumptions.Count(0))
		source.Reset()
		consumptions.Reset()
	}
	g.Stop()
}

func TestHelloWorld(t *testing.T) {
	out := newSyncBuffer()
	timer := flow.NewMonotonousTimer(30 * time.Millisecond)

	g := flow.NewGraph("hello")
	require.True(t, g.Add(generic.Generator(timer, func() string { return "Hello" }, "hello")))
	require.True(t, g.Add(generic.Generator(timer, func() string { return ", " }, "comma")))
	require.True(t, g.Add(generic.Generator(timer, func() string { return "world!" }, "world")))
	require.True(t, g.Add(math.Adder[string](3, "adder")))
	require.True(t, g.Add(generic.OStreamer[string](out, "streamer")))

	require.True(t, flow.Connect[string](g, "hello", 0, "adder", 0))
	require.True(t, flow.Connect[string](g, "comma", 0, "adder", 1))
	require.True(t, flow.Connect[string](g, "world", 0, "adder", 2))
	require.True(t, flow.Connect[string](g, "adder", 0, "streamer", 0))

	go timer.Run()
	g.Start()
	assert.Eventually(t, func() bool {
		return out.lines() >= 3
	}, waitFor, tick)
	timer.Stop()
	g.Stop()

	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	for i := 0; i < 3; i++ {
		require.True(t, scanner.Scan())
		assert.Equal(t, "Hello, world!", scanner.Text())
	}
}

func TestToDot(t *testing.T) {
	g := flow.NewGraph("wiring")
	require.True(t, g.Add(mock.DummyProducer[int](1)))
	require.True(t, g.Add(mock.DummyConsumer[int](1)))
	require.True(t, flow.Connect[int](g, "dummy_producer", 0, "dummy_consumer", 0))

	var buf bytes.Buffer
	require.NoError(t, g.ToDot(&buf))

	dot := buf.String()
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "rankdir=LR")
	assert.Contains(t, dot, `"dummy_producer"`)
	assert.Contains(t, dot, `"dummy_consumer"`)
	assert.Contains(t, dot, `taillabel="0"`)
	assert.Contains(t, dot, `headlabel="0"`)
}

// syncBuffer is a writer safe to share between the streamer node and the
// test goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func newSyncBuffer() *syncBuffer {
	return &syncBuffer{}
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) lines() int {
	return strings.Count(b.String(), "\n")
}
