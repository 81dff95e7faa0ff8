package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/bft-labs/enginewatch/internal/adapters/fs"
	"github.com/bft-labs/enginewatch/internal/cliconfig"
	"github.com/bft-labs/enginewatch/internal/domain"
)

func newStatusCommand(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status written by a running enginewatch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfg, *cfgPath); err != nil {
				return err
			}

			repo := fs.NewSnapshotFileRepository(cfg.StatusFile)
			snap, ok, err := repo.Load(context.Background())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no status at %s: is enginewatch running?", repo.Path())
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, snap)
			}
			_, err = lipgloss.Fprintln(out, renderStatus(snap))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw snapshot as JSON")
	return cmd
}

func writeJSON(w io.Writer, snap domain.StatusSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// renderStatus lays the snapshot out as a two-column table.
func renderStatus(snap domain.StatusSnapshot) string {
	purple := lipgloss.Color("99")
	green := lipgloss.Color("42")
	red := lipgloss.Color("203")

	keyStyle := lipgloss.NewStyle().Foreground(purple).Bold(true).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Padding(0, 1)
	stateStyle := valueStyle.Foreground(green)
	if !snap.Healthy() {
		stateStyle = valueStyle.Foreground(red)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case col == 0:
				return keyStyle
			case row == 0:
				return stateStyle
			default:
				return valueStyle
			}
		})

	state := "running"
	if !snap.IsRunning {
		state = "not running"
	}
	t.Row("Engine", state)
	if snap.Error != nil {
		t.Row("Status", *snap.Error)
	}

	version := "unknown"
	if snap.EngineVersion != nil {
		version = snap.EngineVersion.Version
		if snap.EngineVersion.APIVersion != "" {
			version += " (API " + snap.EngineVersion.APIVersion + ")"
		}
	}
	t.Row("Engine version", version)
	t.Row("Engine update", yesNo(snap.EngineUpdateAvailable))

	desktop := "not installed"
	if snap.CompanionVersion != nil {
		desktop = *snap.CompanionVersion
	}
	t.Row("Desktop version", desktop)
	t.Row("Desktop update", yesNo(snap.CompanionUpdateAvailable))

	containers := "unknown"
	if snap.ResourceCount != nil {
		containers = strconv.Itoa(int(*snap.ResourceCount))
	}
	t.Row("Containers", containers)

	checked := "never"
	if snap.LastChecked != nil {
		checked = snap.LastChecked.Local().Format(time.RFC3339)
	}
	t.Row("Last checked", checked)

	return t.String()
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return "unknown"
	case *b:
		return "available"
	default:
		return "up to date"
	}
}
