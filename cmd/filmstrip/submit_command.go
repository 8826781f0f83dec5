package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"filmstrip/internal/config"
	"filmstrip/internal/daemon"
)

// manifest is the on-disk job descriptor accepted by "filmstrip submit".
// It mirrors the API request body; YAML is for humans, JSON for machines.
type manifest struct {
	JobID         string           `json:"jobId" yaml:"jobId"`
	Segments      []map[string]any `json:"segments" yaml:"segments"`
	Resolution    string           `json:"resolution" yaml:"resolution"`
	SubtitleStyle string           `json:"subtitleStyle" yaml:"subtitleStyle"`
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var jobID string
	var resolution string
	var subtitleStyle string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "submit <manifest>",
		Short: "Submit a render job from a YAML or JSON manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(jobID) != "" {
				m.JobID = strings.TrimSpace(jobID)
			}
			if strings.TrimSpace(resolution) != "" {
				m.Resolution = strings.TrimSpace(resolution)
			}
			if strings.TrimSpace(subtitleStyle) != "" {
				m.SubtitleStyle = strings.TrimSpace(subtitleStyle)
			}

			resp, err := ctx.client().SubmitJob(cmd.Context(), daemon.RenderRequest{
				JobID:         m.JobID,
				Segments:      m.Segments,
				Resolution:    m.Resolution,
				SubtitleStyle: m.SubtitleStyle,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %s rendered\n", resp.JobID)
			fmt.Fprintf(out, "URL: %s\n", resp.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "Override the manifest job identifier")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Override the output resolution (WxH)")
	cmd.Flags().StringVar(&subtitleStyle, "subtitle-style", "", "Override the subtitle style preset")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the response as JSON")
	return cmd
}

// loadManifest reads and decodes a job manifest. JSON is detected by file
// extension or a leading brace; everything else goes through the YAML
// decoder, which accepts JSON anyway.
func loadManifest(path string) (manifest, error) {
	var m manifest

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return m, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return m, errors.New("manifest is empty")
	}

	ext := strings.ToLower(filepath.Ext(expanded))
	if ext == ".json" || trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&m); err != nil {
			return m, fmt.Errorf("parse manifest JSON: %w", err)
		}
		return m, nil
	}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest YAML: %w", err)
	}
	return m, nil
}
