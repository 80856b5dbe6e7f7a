package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaitanyauthale5/portfolio/internal/particles"
)

type projectLayout struct {
	Index   int                `json:"index"`
	Title   string             `json:"title"`
	Bubbles []particles.Bubble `json:"bubbles"`
}

type skillLayout struct {
	Category    string `json:"category"`
	Skill       string `json:"skill"`
	FillDelayMs int64  `json:"fill_delay_ms"`
}

type layout struct {
	Twinkles []particles.Twinkle `json:"twinkles,omitempty"`
	Projects []projectLayout     `json:"projects,omitempty"`
	Skills   []skillLayout       `json:"skills,omitempty"`
}

func newLayoutCmd() *cobra.Command {
	var (
		contentPath string
		project     int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the particle layout as JSON",
		Long: `layout prints the hero twinkles, project bubbles and skill fill delays.
The layout is derived from element indices, so it is the same on every run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPortfolio(contentPath)
			if err != nil {
				return err
			}

			var out layout
			if project >= 0 {
				proj, err := p.Project(project)
				if err != nil {
					return err
				}
				out.Projects = []projectLayout{{
					Index:   project,
					Title:   proj.Title,
					Bubbles: particles.Bubbles(project, particles.ProjectBubbleCount),
				}}
			} else {
				out.Twinkles = particles.Twinkles(particles.HeroTwinkleCount)
				for i, proj := range p.Projects {
					out.Projects = append(out.Projects, projectLayout{
						Index:   i,
						Title:   proj.Title,
						Bubbles: particles.Bubbles(i, particles.ProjectBubbleCount),
					})
				}
				for ci, cat := range p.SkillCategories {
					for si, sk := range cat.Skills {
						out.Skills = append(out.Skills, skillLayout{
							Category:    cat.Title,
							Skill:       sk.Name,
							FillDelayMs: particles.FillDelay(ci, si).Milliseconds(),
						})
					}
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode layout: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&contentPath, "content", "", "portfolio YAML file (defaults to the embedded content)")
	cmd.Flags().IntVar(&project, "project", -1, "print only this project's bubbles")
	return cmd
}
