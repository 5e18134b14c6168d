package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/geotriangle/internal/adapters/memory"
	"github.com/samirrijal/geotriangle/internal/core/domain"
	"github.com/samirrijal/geotriangle/internal/core/usecases"
	"github.com/samirrijal/geotriangle/internal/form"
	"github.com/samirrijal/geotriangle/internal/pkg/logging"
)

type options struct {
	presets  [3]string
	ids      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "geotriangle-calc",
		Short: "Compute the great-circle perimeter of a triangle",
		Long: `Prompts for the latitude and longitude of three points and prints the
Haversine perimeter of the triangle they form. Vertices may be given up front
with --p1, --p2 and --p3 as "lat,lon", or picked from the built-in point
table with --ids.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.presets[0], "p1", "", `Point 1 as "lat,lon"`)
	cmd.Flags().StringVar(&opts.presets[1], "p2", "", `Point 2 as "lat,lon"`)
	cmd.Flags().StringVar(&opts.presets[2], "p3", "", `Point 3 as "lat,lon"`)
	cmd.Flags().StringVar(&opts.ids, "ids", "", `Three point table IDs, e.g. "1,2,3"`)
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")
	cmd.MarkFlagsMutuallyExclusive("ids", "p1")
	cmd.MarkFlagsMutuallyExclusive("ids", "p2")
	cmd.MarkFlagsMutuallyExclusive("ids", "p3")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts options) error {
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))

	table, err := memory.NewPointTable(memory.DefaultPoints())
	if err != nil {
		return err
	}
	points := usecases.NewPointService(table, nil, 0)
	perimeters := usecases.NewPerimeterService(points, nil, nil, 0)

	f := form.New(cmd.InOrStdin(), cmd.OutOrStdout())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var res *domain.PerimeterResult
	if opts.ids != "" {
		id1, id2, id3, err := parseIDs(opts.ids)
		if err != nil {
			return err
		}
		if res, err = perimeters.ByIDs(ctx, id1, id2, id3); err != nil {
			return err
		}
	} else {
		tri, err := f.ReadTriangle(opts.presets)
		if err != nil {
			return err
		}
		if res, err = perimeters.FromCoordinates(ctx, tri[0], tri[1], tri[2]); err != nil {
			return err
		}
	}

	f.Result(res)
	return nil
}

func parseIDs(s string) (int, int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("--ids needs three comma separated IDs, got %q", s)
	}
	var out [3]int
	for i, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid point ID %q", p)
		}
		out[i] = id
	}
	return out[0], out[1], out[2], nil
}
