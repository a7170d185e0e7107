// Command flowdemo runs a small hello-world graph: three generators feed
// an adder which feeds a streamer writing to stdout.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dudk/flow"
	"github.com/dudk/flow/samples/generic"
	"github.com/dudk/flow/samples/math"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		interval time.Duration
		duration time.Duration
		dot      bool
	)

	cmd := &cobra.Command{
		Use:   "flowdemo",
		Short: "flowdemo — hello-world dataflow graph",
		Long: `flowdemo wires three string generators into an adder and streams the
concatenated greeting to stdout, one line per timer tick.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(os.Stdout, interval, duration, dot)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 3*time.Second, "tick interval of the generator timer")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "how long to run the graph")
	cmd.Flags().BoolVar(&dot, "dot", false, "print the wiring as Graphviz dot and exit")
	return cmd
}

func run(w io.Writer, interval, duration time.Duration, dot bool) error {
	g := flow.NewGraph("hello")
	timer := flow.NewMonotonousTimer(interval)

	g.Add(generic.Generator(timer, func() string { return "Hello" }, "hello"))
	g.Add(generic.Generator(timer, func() string { return ", " }, "comma"))
	g.Add(generic.Generator(timer, func() string { return "world!" }, "world"))
	g.Add(math.Adder[string](3, "adder"))
	g.Add(generic.OStreamer[string](w, "streamer"))

	for i, name := range []string{"hello", "comma", "world"} {
		if !flow.Connect[string](g, name, 0, "adder", i) {
			return fmt.Errorf("connect %s to adder: %w", name, flow.ErrNotFound)
		}
	}
	if !flow.Connect[string](g, "adder", 0, "streamer", 0) {
		return fmt.Errorf("connect adder to streamer: %w", flow.ErrNotFound)
	}

	if dot {
		return g.ToDot(w)
	}

	go timer.Run()
	g.Start()
	time.Sleep(duration)
	timer.Stop()
	g.Stop()
	return nil
}
