package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/roffe/gaugepanel/pkg/widgets"
)

type sample struct {
	sourceID string
	path     string
	value    float64
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Read samples from stdin and print every widget readout",
		Description: `Reads one sample per line as "SOURCE PATH VALUE". Blank lines and lines
starting with # are ignored. Each readout is printed as "ID: VALUE UNIT".`,
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app) error {
			return a.run(ctx, cmd.Root().Reader, cmd.Root().Writer)
		}),
	}
}

// run feeds samples from r into the bundle. Publishing and every readout
// happen on the event loop goroutine only.
func (a *app) run(ctx context.Context, r io.Reader, w io.Writer) error {
	samples := make(chan sample, 64)
	g, ctx := errgroup.WithContext(ctx)

	if c, ok := r.(io.Closer); ok {
		// unblocks the scanner on interrupt
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	g.Go(func() error {
		defer close(samples)
		sc := bufio.NewScanner(r)
		for lineNo := 1; sc.Scan(); lineNo++ {
			s, ok, err := parseSample(sc.Text())
			if err != nil {
				a.log.Warnw("skipping sample", "line", lineNo, "err", err)
				continue
			}
			if !ok {
				continue
			}
			select {
			case samples <- s:
			case <-ctx.Done():
				return nil
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		return sc.Err()
	})

	g.Go(func() error {
		for _, inst := range a.panel.Widgets() {
			watch(w, inst)
		}
		for {
			select {
			case s, ok := <-samples:
				if !ok {
					return nil
				}
				a.bundle.Publish(s.sourceID, s.path, s.value)
			case <-ctx.Done():
				return nil
			}
		}
	})

	return g.Wait()
}

func watch(w io.Writer, inst widgets.Instance) {
	d := inst.Display()
	d.Values.Subscribe(func(v float64) {
		if d.Unit == "" {
			fmt.Fprintf(w, "%s: %s\n", inst.ID(), d.Format(v))
			return
		}
		fmt.Fprintf(w, "%s: %s %s\n", inst.ID(), d.Format(v), d.Unit)
	})
}

func parseSample(line string) (sample, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return sample{}, false, nil
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return sample{}, false, fmt.Errorf("want SOURCE PATH VALUE, got %q", line)
	}
	v, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return sample{}, false, fmt.Errorf("bad value %q: %w", fields[2], err)
	}
	return sample{sourceID: fields[0], path: fields[1], value: v}, true, nil
}
