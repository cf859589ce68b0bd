package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"mqtt2ola/internal/logger"
	"mqtt2ola/pkg/ola"
)

var (
	portsCmd = &cobra.Command{
		Use:   "ports",
		Short: "List device ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := olaClient.GetPorts(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ports)
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show server statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := olaClient.GetServerStats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}

	universesCmd = &cobra.Command{
		Use:   "universes",
		Short: "List universes and plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := olaClient.UniversesPluginList(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}

	getDMXCmd = &cobra.Command{
		Use:   "get-dmx <universe>",
		Short: "Show the current channel levels of a universe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := olaClient.GetDMX(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	setDMXCmd = &cobra.Command{
		Use:   "set-dmx <universe> [value...]",
		Short: "Set a universe; unlisted channels are sent as 0",
		Long:  "Set a universe. Values are given as separate arguments or comma separated, starting at channel 0. Every channel not listed is sent as 0.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(args[1:])
			if err != nil {
				return err
			}
			return olaClient.SetDMX(cmd.Context(), args[0], values)
		},
	}

	blackoutCmd = &cobra.Command{
		Use:   "blackout <universe>",
		Short: "Set every channel of a universe to 0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return olaClient.SetDMX(cmd.Context(), args[0], nil)
		},
	}

	demoCmd = &cobra.Command{
		Use:   "demo [universe]",
		Short: "Cycle the first four channels through three frames, then black out",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			universe := "1"
			if len(args) == 1 {
				universe = args[0]
			}
			return runDemo(cmd, universe, time.Second)
		},
	}
)

func init() {
	RootCmd.AddCommand(portsCmd, statsCmd, universesCmd, getDMXCmd, setDMXCmd, blackoutCmd, demoCmd)
}

// parseValues accepts "255 0 10", "255,0,10" or a mix of both.
func parseValues(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, nil
	}
	buf, err := ola.ParseBuffer(strings.Join(args, ","))
	if err != nil {
		return nil, fmt.Errorf("bad channel values: %w", err)
	}
	return buf, nil
}

func runDemo(cmd *cobra.Command, universe string, step time.Duration) error {
	ctx := cmd.Context()
	frames := [][]byte{
		{255, 255, 0, 0},
		{255, 0, 255, 0},
		{255, 0, 0, 255},
		{},
	}

	for i, frame := range frames {
		log.With(logger.Fields{"module": "demo", "universe": universe}).Infof("frame %d: %v", i, frame)
		if err := olaClient.SetDMX(ctx, universe, frame); err != nil {
			return err
		}
		if i == len(frames)-1 {
			break
		}
		select {
		case <-ctx.Done():
			// leave the rig dark on interrupt
			return olaClient.SetDMX(context.WithoutCancel(ctx), universe, nil)
		case <-time.After(step):
		}
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
