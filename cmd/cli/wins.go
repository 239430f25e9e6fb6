package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/walloffame/wof/internal/common"
	"github.com/walloffame/wof/internal/models"
	"github.com/walloffame/wof/internal/navigation"
)

type fetchWinsFunc func(ctx context.Context) ([]models.WinRecord, error)

var winsCmd = &cobra.Command{
	Use:   "wins",
	Short: "List everyone's wins",
	Long: `List every win on the wall. No login needed.

Examples:
  wof wins
  wof wins --query '.[].title'
  wof wins --output json`,
	Annotations: routeAnnotations(navigation.RouteHome),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listWins(cmd, client.FetchAllWins)
	},
}

var winsMineCmd = &cobra.Command{
	Use:         "mine",
	Short:       "List your own wins",
	Annotations: routeAnnotations(navigation.RouteMyWins),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listWins(cmd, client.FetchMyWins)
	},
}

var winsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Post a new win",
	Long: `Post a new win. With --image the win is sent as a form upload,
otherwise as JSON. --from reads the fields from a JSON or YAML file.

Examples:
  wof wins add --title "Shipped v1" --description "Finally"
  wof wins add --title "Team offsite" --image photo.jpg
  wof wins add --from win.yaml`,
	Annotations: routeAnnotations(navigation.RouteAddWin),
	Args:        cobra.NoArgs,
	RunE:        runAddWin,
}

func listWins(cmd *cobra.Command, fetch fetchWinsFunc) error {
	wins, err := fetch(cmd.Context())
	if err != nil {
		return err
	}
	return printWins(cmd, wins)
}

func printWins(cmd *cobra.Command, wins []models.WinRecord) error {
	out := cmd.OutOrStdout()

	query, _ := cmd.Flags().GetString("query")
	if len(query) > 0 {
		results, err := queryWins(query, wins)
		if err != nil {
			return err
		}
		for _, result := range results {
			encoded, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to encode query result: %w", err)
			}
			fmt.Fprintln(out, string(encoded))
		}
		return nil
	}

	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json":
		if wins == nil {
			wins = []models.WinRecord{}
		}
		encoded, err := json.MarshalIndent(wins, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode wins: %w", err)
		}
		fmt.Fprintln(out, string(encoded))
		return nil
	case "", "text":
	default:
		return fmt.Errorf("unknown output format %q (expected text or json)", output)
	}

	if len(wins) == 0 {
		fmt.Fprintln(out, infoStyle.Render("No wins yet"))
		return nil
	}

	for _, win := range wins {
		summary := summarizeWin(win)

		fmt.Fprintln(out, headerStyle.Render(summary.Title))
		if meta := summary.Meta(); len(meta) > 0 {
			fmt.Fprintln(out, "  "+mutedStyle.Render(meta))
		}
		if len(summary.Description) > 0 {
			fmt.Fprintln(out, "  "+summary.Description)
		}
		fmt.Fprintln(out)
	}

	return nil
}

func runAddWin(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	imagePath, _ := cmd.Flags().GetString("image")
	fromFile, _ := cmd.Flags().GetString("from")

	fields := map[string]any{}
	if len(fromFile) > 0 {
		payload, err := common.ReadPayloadFile(fromFile)
		if err != nil {
			return err
		}
		fields = payload
	}

	if len(title) > 0 {
		fields["title"] = title
	}
	if len(description) > 0 {
		fields["description"] = description
	}

	if !hasText(fields["title"]) && isInteractive() {
		if err := promptForWin(fields); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
	}

	if !hasText(fields["title"]) {
		return fmt.Errorf("a title is required")
	}

	var payload any = fields
	if len(imagePath) > 0 {
		image, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer image.Close()

		payload = &models.WinForm{
			Fields: stringFields(fields),
			Files: []models.FormFile{{
				Field:    "image",
				FileName: filepath.Base(imagePath),
				Reader:   image,
			}},
		}
	}

	win, err := client.AddWin(cmd.Context(), payload)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render("Win added"))

	if len(win) > 0 {
		if summary := summarizeWin(win); len(summary.Meta()) > 0 {
			fmt.Fprintln(out, "  "+mutedStyle.Render(summary.Meta()))
		}
	}

	return nil
}

// promptForWin fills in title and description interactively.
func promptForWin(fields map[string]any) error {
	title, _ := fields["title"].(string)
	description, _ := fields["description"].(string)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&title).
				Validate(required("title")),
			huh.NewText().
				Title("Description").
				Value(&description),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	fields["title"] = strings.TrimSpace(title)
	if len(strings.TrimSpace(description)) > 0 {
		fields["description"] = description
	}
	return nil
}

// stringFields flattens a payload into form fields. Nested values are sent
// as JSON text.
func stringFields(fields map[string]any) map[string]string {
	result := make(map[string]string, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case nil:
		case string:
			result[key] = v
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				continue
			}
			result[key] = string(encoded)
		}
	}
	return result
}

func hasText(value any) bool {
	s, ok := value.(string)
	return ok && len(strings.TrimSpace(s)) > 0
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, winsCmd, winsMineCmd} {
		cmd.Flags().StringP("query", "q", "", "Filter the wins with a jq expression")
		cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	}

	winsAddCmd.Flags().String("title", "", "Title of the win")
	winsAddCmd.Flags().String("description", "", "What happened")
	winsAddCmd.Flags().String("image", "", "Image to attach (sent as a form upload)")
	winsAddCmd.Flags().String("from", "", "Read the win from a JSON or YAML file")

	winsCmd.AddCommand(winsMineCmd)
	winsCmd.AddCommand(winsAddCmd)
	rootCmd.AddCommand(winsCmd)
}
